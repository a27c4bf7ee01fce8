package server

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"colegios-api/internal/colegio"
	"colegios-api/internal/query"
	"colegios-api/internal/util"
)

// ErrNotFound marks a missing record id; the controller maps it to a 404.
var ErrNotFound = errors.New("colegio not found")

type SchoolService struct {
	DB *gorm.DB
}

// List returns the collection with the optional query parameters applied.
// Filtering and ordering reuse the query engine so the remote and local modes
// agree on normalization semantics. The roster is small; loading it whole is
// cheaper than teaching SQL about accent folding.
func (ss *SchoolService) List(q, province, sortBy string, desc bool) ([]colegio.School, error) {
	var records []colegio.School
	if result := ss.DB.Order("id ASC").Find(&records); result.Error != nil {
		return nil, result.Error
	}

	if q != "" {
		records = searchNameOrProvince(records, q)
	}
	if province != "" {
		records = query.FilterByProvince(records, province)
	}
	if sortBy != "" {
		sorted, err := query.SortBy(records, sortBy, desc)
		if err != nil {
			return nil, err
		}
		records = sorted
	}

	if records == nil {
		records = []colegio.School{}
	}
	return records, nil
}

// searchNameOrProvince matches the historical `q` behaviour: a free-text
// needle against either the school name or the province, accent- and
// case-insensitive.
func searchNameOrProvince(records []colegio.School, q string) []colegio.School {
	needle := util.Normalize(q)
	out := []colegio.School{}
	if needle == "" {
		return out
	}
	for _, rec := range records {
		if strings.Contains(util.Normalize(rec.Name), needle) ||
			strings.Contains(util.Normalize(rec.Province), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func (ss *SchoolService) Get(id int) (colegio.School, error) {
	var rec colegio.School
	result := ss.DB.First(&rec, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return colegio.School{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if result.Error != nil {
		return colegio.School{}, result.Error
	}
	return rec, nil
}

func (ss *SchoolService) Create(rec colegio.School) (colegio.School, error) {
	rec.ID = 0
	if result := ss.DB.Create(&rec); result.Error != nil {
		return colegio.School{}, result.Error
	}
	return rec, nil
}

// UpdatePartial applies only the supplied fields; everything else keeps its
// stored value.
func (ss *SchoolService) UpdatePartial(id int, patch colegio.Patch) (colegio.School, error) {
	current, err := ss.Get(id)
	if err != nil {
		return colegio.School{}, err
	}

	updated := patch.Apply(current)
	if result := ss.DB.Save(&updated); result.Error != nil {
		return colegio.School{}, result.Error
	}
	return updated, nil
}

func (ss *SchoolService) Delete(id int) error {
	if _, err := ss.Get(id); err != nil {
		return err
	}
	return ss.DB.Delete(&colegio.School{}, id).Error
}
