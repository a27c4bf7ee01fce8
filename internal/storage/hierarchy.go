package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"colegios-api/internal/colegio"
	"colegios-api/internal/util"
)

// The roster is mirrored next to the central file as per-group CSVs:
//
//	subgrupos/por_provincia/<Provincia>.csv
//	subgrupos/por_estudiantes/<rango>.csv
//	subgrupos/por_anio/<década>.csv
//
// The mirror is derived data, rebuilt in full after every write.

func hierarchyRoot(centralPath string) string {
	return filepath.Join(filepath.Dir(centralPath), "subgrupos")
}

// SyncHierarchy rebuilds the subgroup folders from the given records.
func SyncHierarchy(centralPath string, records []colegio.School) error {
	root := hierarchyRoot(centralPath)

	groups := map[string]map[string][]colegio.School{
		"por_provincia":   {},
		"por_estudiantes": {},
		"por_anio":        {},
	}
	for _, rec := range records {
		byProv := groups["por_provincia"]
		byProv[rec.Province] = append(byProv[rec.Province], rec)

		byStud := groups["por_estudiantes"]
		r := studentRange(rec.Students)
		byStud[r] = append(byStud[r], rec)

		byYear := groups["por_anio"]
		d := yearRange(rec.Year)
		byYear[d] = append(byYear[d], rec)
	}

	for folder, byKey := range groups {
		dir := filepath.Join(root, folder)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("%w: clear %s: %v", ErrStorage, dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", ErrStorage, dir, err)
		}
		for key, recs := range byKey {
			path := filepath.Join(dir, util.SanitizeFilename(key)+".csv")
			if err := writeGroupCSV(path, recs); err != nil {
				return err
			}
		}
	}

	return nil
}

func yearRange(year int) string {
	switch {
	case year < 1970:
		return "Antes_1970"
	case year < 1980:
		return "1970_1979"
	case year < 1990:
		return "1980_1989"
	case year < 2000:
		return "1990_1999"
	default:
		return "2000_o_despues"
	}
}

func studentRange(students int) string {
	switch {
	case students < 300:
		return "Menos_300"
	case students < 500:
		return "300_499"
	case students < 700:
		return "500_699"
	default:
		return "700_o_mas"
	}
}

func writeGroupCSV(path string, records []colegio.School) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStorage, path, err)
	}
	if err := writeCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrStorage, path, err)
	}
	return nil
}
