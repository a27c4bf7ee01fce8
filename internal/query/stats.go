package query

import (
	"errors"
	"math"
	"sort"

	"colegios-api/internal/colegio"
)

var ErrEmptyDataset = errors.New("empty dataset")

type ProvinceCount struct {
	Province string
	Count    int
}

// Stats summarizes the full record set. Record-valued fields tie-break on
// "first encountered in input order".
type Stats struct {
	Oldest colegio.School
	Newest colegio.School
	// MeanYear averages the founding years, rounded to nearest; rows with a
	// non-positive year count as "unknown" and are excluded.
	MeanYear int

	TotalStudents int
	MeanStudents  int
	MaxStudents   colegio.School
	MinStudents   colegio.School

	// ByProvince is ordered by descending count, then province name.
	ByProvince []ProvinceCount
}

func ComputeStats(records []colegio.School) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, ErrEmptyDataset
	}

	st := Stats{
		Oldest:      records[0],
		Newest:      records[0],
		MaxStudents: records[0],
		MinStudents: records[0],
	}

	yearSum, yearCount := 0, 0
	counts := map[string]int{}

	for i, rec := range records {
		if i > 0 {
			if rec.Year < st.Oldest.Year {
				st.Oldest = rec
			}
			if rec.Year > st.Newest.Year {
				st.Newest = rec
			}
			if rec.Students > st.MaxStudents.Students {
				st.MaxStudents = rec
			}
			if rec.Students < st.MinStudents.Students {
				st.MinStudents = rec
			}
		}

		if rec.Year > 0 {
			yearSum += rec.Year
			yearCount++
		}
		st.TotalStudents += rec.Students
		counts[rec.Province]++
	}

	if yearCount > 0 {
		st.MeanYear = int(math.Round(float64(yearSum) / float64(yearCount)))
	}
	st.MeanStudents = int(math.Round(float64(st.TotalStudents) / float64(len(records))))

	st.ByProvince = make([]ProvinceCount, 0, len(counts))
	for province, count := range counts {
		st.ByProvince = append(st.ByProvince, ProvinceCount{Province: province, Count: count})
	}
	sort.Slice(st.ByProvince, func(i, j int) bool {
		if st.ByProvince[i].Count != st.ByProvince[j].Count {
			return st.ByProvince[i].Count > st.ByProvince[j].Count
		}
		return st.ByProvince[i].Province < st.ByProvince[j].Province
	})

	return st, nil
}
