package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"colegios-api/internal/colegio"
)

// utf8BOM matches the original file encoding (utf-8-sig) so the CSV stays
// readable by spreadsheet tools on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LocalBackend persists the roster in a single delimited file. Every write
// rewrites the whole file atomically; there are no partial row edits.
type LocalBackend struct {
	Path string
}

func NewLocal(path string) *LocalBackend {
	return &LocalBackend{Path: path}
}

func (lb *LocalBackend) Name() string {
	return "local"
}

// ReadAll loads every valid row. A missing file is created with the canonical
// header and read as empty. Rows with blank required fields or unparseable
// numbers are skipped and counted, never corrupting their neighbours.
func (lb *LocalBackend) ReadAll() ([]colegio.School, error) {
	if _, err := os.Stat(lb.Path); os.IsNotExist(err) {
		if err := lb.WriteAll(nil); err != nil {
			return nil, err
		}
		return []colegio.School{}, nil
	}

	f, err := os.Open(lb.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorage, lb.Path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if peek, _ := br.Peek(len(utf8BOM)); string(peek) == string(utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, lb.Path, err)
	}
	if len(allRows) == 0 {
		return []colegio.School{}, nil
	}

	records := make([]colegio.School, 0, len(allRows)-1)
	skipped := 0
	for _, row := range allRows[1:] { // first row is the header
		rec, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		log.Printf("se omitieron %d fila(s) con formato incorrecto en %s", skipped, lb.Path)
	}

	return records, nil
}

func parseRow(row []string) (colegio.School, bool) {
	if len(row) < 4 {
		return colegio.School{}, false
	}

	province := strings.TrimSpace(row[0])
	name := strings.TrimSpace(row[1])
	if province == "" || name == "" {
		return colegio.School{}, false
	}

	students, ok := parseIntField(row[2])
	if !ok {
		return colegio.School{}, false
	}
	year, ok := parseIntField(row[3])
	if !ok {
		return colegio.School{}, false
	}

	return colegio.School{Province: province, Name: name, Students: students, Year: year}, true
}

// parseIntField treats blank as zero, matching the historical file contents.
func parseIntField(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// WriteAll rewrites the file from scratch: temp file in the same directory,
// then rename, so a crash mid-write never leaves a half-written roster.
func (lb *LocalBackend) WriteAll(records []colegio.School) error {
	dir := filepath.Dir(lb.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", ErrStorage, dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".colegios-*.csv")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrStorage, tmpName, err)
	}
	if err := os.Rename(tmpName, lb.Path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrStorage, lb.Path, err)
	}

	// Mirror the roster into the hierarchical subgroup folders. A mirror
	// failure is logged but does not fail the write: the central file is
	// already safe on disk.
	if err := SyncHierarchy(lb.Path, records); err != nil {
		log.Printf("no se pudo sincronizar la estructura jerárquica: %v", err)
	}

	return nil
}

func writeCSV(f *os.File, records []colegio.School) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("%w: write bom: %v", ErrStorage, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(colegio.Header); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrStorage, err)
	}
	for _, rec := range records {
		row := []string{
			rec.Province,
			rec.Name,
			strconv.Itoa(rec.Students),
			strconv.Itoa(rec.Year),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: write row: %v", ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrStorage, err)
	}
	return nil
}

func (lb *LocalBackend) Create(rec colegio.School) (colegio.School, error) {
	records, err := lb.ReadAll()
	if err != nil {
		return colegio.School{}, err
	}
	records = append(records, rec)
	if err := lb.WriteAll(records); err != nil {
		return colegio.School{}, err
	}
	return rec, nil
}

func (lb *LocalBackend) Update(target colegio.School, patch colegio.Patch) (colegio.School, error) {
	records, err := lb.ReadAll()
	if err != nil {
		return colegio.School{}, err
	}

	idx := findRow(records, target)
	if idx < 0 {
		return colegio.School{}, fmt.Errorf("%w: %s", ErrNotFound, target.Name)
	}

	updated := patch.Apply(records[idx])
	records[idx] = updated
	if err := lb.WriteAll(records); err != nil {
		return colegio.School{}, err
	}
	return updated, nil
}

func (lb *LocalBackend) Delete(target colegio.School) error {
	records, err := lb.ReadAll()
	if err != nil {
		return err
	}

	idx := findRow(records, target)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, target.Name)
	}

	records = append(records[:idx], records[idx+1:]...)
	return lb.WriteAll(records)
}

// findRow locates the first row equal to target. Duplicate rows are
// interchangeable, so first match is enough.
func findRow(records []colegio.School, target colegio.School) int {
	for i, rec := range records {
		if rec.SameRow(target) {
			return i
		}
	}
	return -1
}
