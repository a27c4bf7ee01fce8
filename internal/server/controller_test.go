package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"colegios-api/internal/colegio"
	"colegios-api/internal/logs"
	"colegios-api/internal/query"
)

type mockSchoolService struct {
	records []colegio.School
	err     error
}

func (m *mockSchoolService) List(q, province, sortBy string, desc bool) ([]colegio.School, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockSchoolService) Get(id int) (colegio.School, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return colegio.School{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (m *mockSchoolService) Create(rec colegio.School) (colegio.School, error) {
	if m.err != nil {
		return colegio.School{}, m.err
	}
	rec.ID = 7
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *mockSchoolService) UpdatePartial(id int, patch colegio.Patch) (colegio.School, error) {
	current, err := m.Get(id)
	if err != nil {
		return colegio.School{}, err
	}
	return patch.Apply(current), nil
}

func (m *mockSchoolService) Delete(id int) error {
	_, err := m.Get(id)
	return err
}

type mockLogService struct {
	entries []logs.SystemLog
	err     error
}

func (m *mockLogService) Log(entry logs.SystemLog, payload interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func newTestRouter(svc SchoolServicePort, logSvc LogServicePort) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, logSvc)
	return r
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestList_ReturnsPlainArray(t *testing.T) {
	svc := &mockSchoolService{records: []colegio.School{
		{ID: 1, Province: "Córdoba", Name: "Instituto San Martín", Students: 520, Year: 1985},
	}}
	r := newTestRouter(svc, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios?Provincia=C%C3%B3rdoba", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
		t.Fatalf("expected a plain JSON array, got %s", w.Body.String())
	}

	var got []colegio.School
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Instituto San Martín" {
		t.Fatalf("payload: %+v", got)
	}
}

func TestList_UnknownSortField_400(t *testing.T) {
	svc := &mockSchoolService{err: fmt.Errorf("%w: Director", query.ErrUnknownField)}
	r := newTestRouter(svc, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios?sort_by=Director", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestList_ServiceError_500(t *testing.T) {
	svc := &mockSchoolService{err: errors.New("db down")}
	r := newTestRouter(svc, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestGet_NotFound_404(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGet_BadID_400(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	for _, id := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/colegios/"+id, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400 got %d", id, w.Code)
		}
	}
}

func TestCreate_201AndAuditLog(t *testing.T) {
	svc := &mockSchoolService{}
	logSvc := &mockLogService{}
	r := newTestRouter(svc, logSvc)

	body := `{"Provincia":"Salta","Colegio":"Escuela Nueva","Cantidad de Estudiantes":120,"Año de Creación":2001}`
	req := httptest.NewRequest(http.MethodPost, "/colegios", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var created colegio.School
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 7 || created.Name != "Escuela Nueva" {
		t.Fatalf("created: %+v", created)
	}

	if len(logSvc.entries) != 1 || logSvc.entries[0].Action != "CREATE_COLEGIO" {
		t.Fatalf("audit entry missing: %+v", logSvc.entries)
	}
}

func TestCreate_ValidationErrors_400(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	cases := []string{
		`{"Provincia":"  ","Colegio":"X","Cantidad de Estudiantes":1,"Año de Creación":1990}`,
		`{"Provincia":"Salta","Colegio":"","Cantidad de Estudiantes":1,"Año de Creación":1990}`,
		`{"Provincia":"Salta","Colegio":"X","Cantidad de Estudiantes":-5,"Año de Creación":1990}`,
		`{bad json`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/colegios", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, w.Code)
		}
	}
}

func TestUpdatePartial_AppliesPatch(t *testing.T) {
	svc := &mockSchoolService{records: []colegio.School{
		{ID: 3, Province: "Córdoba", Name: "Instituto San Martín", Students: 520, Year: 1985},
	}}
	logSvc := &mockLogService{}
	r := newTestRouter(svc, logSvc)

	req := httptest.NewRequest(http.MethodPatch, "/colegios/3", strings.NewReader(`{"Cantidad de Estudiantes":610}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var updated colegio.School
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Students != 610 || updated.Name != "Instituto San Martín" {
		t.Fatalf("patch result: %+v", updated)
	}

	if len(logSvc.entries) != 1 || logSvc.entries[0].Action != "UPDATE_COLEGIO" {
		t.Fatalf("audit entry missing: %+v", logSvc.entries)
	}
}

func TestUpdatePartial_SuppliedBlankOrNegative_400(t *testing.T) {
	svc := &mockSchoolService{records: []colegio.School{{ID: 3, Province: "Córdoba", Name: "X"}}}
	r := newTestRouter(svc, &mockLogService{})

	cases := []string{
		`{"Provincia":"  "}`,
		`{"Colegio":""}`,
		`{"Cantidad de Estudiantes":-1}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPatch, "/colegios/3", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, w.Code)
		}
	}
}

func TestUpdatePartial_NotFound_404(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	req := httptest.NewRequest(http.MethodPatch, "/colegios/9", strings.NewReader(`{"Cantidad de Estudiantes":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestDelete_200AndAuditLog(t *testing.T) {
	svc := &mockSchoolService{records: []colegio.School{{ID: 5, Province: "Salta", Name: "X"}}}
	logSvc := &mockLogService{}
	r := newTestRouter(svc, logSvc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/colegios/5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "colegio eliminado") {
		t.Fatalf("body = %s", w.Body.String())
	}
	if len(logSvc.entries) != 1 || logSvc.entries[0].Action != "DELETE_COLEGIO" {
		t.Fatalf("audit entry missing: %+v", logSvc.entries)
	}
}

func TestDelete_NotFound_404(t *testing.T) {
	r := newTestRouter(&mockSchoolService{}, &mockLogService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/colegios/5", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestMutations_SucceedWhenLogInsertFails(t *testing.T) {
	svc := &mockSchoolService{}
	logSvc := &mockLogService{err: errors.New("logs table missing")}
	r := newTestRouter(svc, logSvc)

	body := `{"Provincia":"Salta","Colegio":"X","Cantidad de Estudiantes":1,"Año de Creación":1990}`
	req := httptest.NewRequest(http.MethodPost, "/colegios", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("log failure must not fail the request: %d body=%s", w.Code, w.Body.String())
	}
}
