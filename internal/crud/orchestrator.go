// Package crud validates user-supplied field values and routes mutations to
// whichever backend is active. It never hides backend failures; it only
// annotates and returns them.
package crud

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"colegios-api/internal/colegio"
	"colegios-api/internal/storage"
)

// MinYear is the lower plausibility bound for a founding year. The upper
// bound is the current calendar year: schools are not founded in the future.
const MinYear = 1500

// ErrNotConfirmed aborts a delete when the user declined the confirmation.
var ErrNotConfirmed = errors.New("operación no confirmada")

// ValidationError names the offending field so the presentation layer can
// point the user at it. No partial mutation is applied on validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type Orchestrator struct {
	now func() time.Time
}

func New() *Orchestrator {
	return &Orchestrator{now: time.Now}
}

// Create trims, validates and appends through the active backend.
func (o *Orchestrator) Create(b storage.Backend, rec colegio.School) (colegio.School, error) {
	rec.Province = strings.TrimSpace(rec.Province)
	rec.Name = strings.TrimSpace(rec.Name)

	if err := o.validateProvince(rec.Province); err != nil {
		return colegio.School{}, err
	}
	if err := o.validateName(rec.Name); err != nil {
		return colegio.School{}, err
	}
	if err := o.validateStudents(rec.Students); err != nil {
		return colegio.School{}, err
	}
	if err := o.validateYear(rec.Year); err != nil {
		return colegio.School{}, err
	}

	return b.Create(rec)
}

// Update applies a partial update to the target record. Unset patch fields
// keep their current value. An all-unset patch is a success that modified
// zero fields and never reaches the backend. Returns the resulting record
// and how many fields changed.
func (o *Orchestrator) Update(b storage.Backend, target colegio.School, patch colegio.Patch) (colegio.School, int, error) {
	patch = trimPatch(patch)

	if patch.Province != nil {
		if err := o.validateProvince(*patch.Province); err != nil {
			return colegio.School{}, 0, err
		}
	}
	if patch.Name != nil {
		if err := o.validateName(*patch.Name); err != nil {
			return colegio.School{}, 0, err
		}
	}
	if patch.Students != nil {
		if err := o.validateStudents(*patch.Students); err != nil {
			return colegio.School{}, 0, err
		}
	}
	if patch.Year != nil {
		if err := o.validateYear(*patch.Year); err != nil {
			return colegio.School{}, 0, err
		}
	}

	n := patch.FieldCount()
	if n == 0 {
		return target, 0, nil
	}

	updated, err := b.Update(target, patch)
	if err != nil {
		return colegio.School{}, 0, err
	}
	return updated, n, nil
}

// Delete removes the target once the user confirmed. Declining aborts with
// no side effect.
func (o *Orchestrator) Delete(b storage.Backend, target colegio.School, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return b.Delete(target)
}

// trimPatch trims the text fields but keeps nil fields nil, so "not
// supplied" stays distinguishable from "supplied as blank".
func trimPatch(p colegio.Patch) colegio.Patch {
	if p.Province != nil {
		v := strings.TrimSpace(*p.Province)
		p.Province = &v
	}
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		p.Name = &v
	}
	return p
}

func (o *Orchestrator) validateProvince(s string) error {
	if s == "" {
		return &ValidationError{Field: colegio.FieldProvince, Reason: "es un campo obligatorio"}
	}
	return nil
}

func (o *Orchestrator) validateName(s string) error {
	if s == "" {
		return &ValidationError{Field: colegio.FieldName, Reason: "es un campo obligatorio"}
	}
	return nil
}

func (o *Orchestrator) validateStudents(n int) error {
	if n < 0 {
		return &ValidationError{Field: colegio.FieldStudents, Reason: "no puede ser negativa"}
	}
	return nil
}

func (o *Orchestrator) validateYear(y int) error {
	max := o.now().Year()
	if y < MinYear || y > max {
		return &ValidationError{
			Field:  colegio.FieldYear,
			Reason: fmt.Sprintf("debe estar entre %d y %d", MinYear, max),
		}
	}
	return nil
}
