// Package query implements the in-memory query engine: search, filters,
// sorting and statistics over a record slice already fetched from whichever
// backend is active. Everything here is pure — no mutation of the input, no I/O.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"colegios-api/internal/colegio"
	"colegios-api/internal/util"
)

var (
	ErrInvalidRange = errors.New("invalid range: min is greater than max")
	ErrUnknownField = errors.New("unknown field")
)

// SearchByName returns every record whose name contains the query, after
// case and accent normalization on both sides. Input order is preserved.
func SearchByName(records []colegio.School, name string) []colegio.School {
	needle := util.Normalize(name)
	out := []colegio.School{}
	if needle == "" {
		return out
	}
	for _, rec := range records {
		if strings.Contains(util.Normalize(rec.Name), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByProvince keeps the records whose province matches exactly, after
// normalization.
func FilterByProvince(records []colegio.School, province string) []colegio.School {
	want := util.Normalize(province)
	out := []colegio.School{}
	if want == "" {
		return out
	}
	for _, rec := range records {
		if util.Normalize(rec.Province) == want {
			out = append(out, rec)
		}
	}
	return out
}

// FilterByStudents keeps records with min <= Students <= max. A nil bound is
// unbounded on that side.
func FilterByStudents(records []colegio.School, min, max *int) ([]colegio.School, error) {
	return filterRange(records, min, max, func(s colegio.School) int { return s.Students })
}

// FilterByYear keeps records with min <= Year <= max. A nil bound is
// unbounded on that side.
func FilterByYear(records []colegio.School, min, max *int) ([]colegio.School, error) {
	return filterRange(records, min, max, func(s colegio.School) int { return s.Year })
}

func filterRange(records []colegio.School, min, max *int, value func(colegio.School) int) ([]colegio.School, error) {
	if min != nil && max != nil && *min > *max {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, *min, *max)
	}

	out := []colegio.School{}
	for _, rec := range records {
		v := value(rec)
		if min != nil && v < *min {
			continue
		}
		if max != nil && v > *max {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// SortBy returns a copy sorted by one of the four canonical fields. The sort
// is stable, so ties keep their input order and repeated sorts are
// deterministic. Text fields compare after normalization, so accents do not
// affect the order.
func SortBy(records []colegio.School, field string, desc bool) ([]colegio.School, error) {
	var less func(a, b colegio.School) bool
	switch field {
	case colegio.FieldProvince:
		less = func(a, b colegio.School) bool { return util.Normalize(a.Province) < util.Normalize(b.Province) }
	case colegio.FieldName:
		less = func(a, b colegio.School) bool { return util.Normalize(a.Name) < util.Normalize(b.Name) }
	case colegio.FieldStudents:
		less = func(a, b colegio.School) bool { return a.Students < b.Students }
	case colegio.FieldYear:
		less = func(a, b colegio.School) bool { return a.Year < b.Year }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	out := make([]colegio.School, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}
