package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"

	"colegios-api/internal/colegio"
)

// RemoteBackend talks to the colegios service. Every call is bounded by the
// client timeout; any transport failure or unexpected status is reported as
// ErrRemoteUnavailable (or ErrNotFound for a 404), never an unhandled fault.
type RemoteBackend struct {
	BaseURL string
	Client  *http.Client
}

func NewRemote(baseURL string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (rb *RemoteBackend) Name() string {
	return "remote"
}

func (rb *RemoteBackend) url(endpoint string) string {
	return rb.BaseURL + endpoint
}

// Health probes GET /health. It only ever answers yes or no: connection
// errors, timeouts and non-2xx statuses all mean "not available".
func (rb *RemoteBackend) Health() bool {
	resp, err := rb.Client.Get(rb.url("/health"))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// List fetches the collection with optional server-side filtering and order.
func (rb *RemoteBackend) List(params ListParams) ([]colegio.School, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Province != "" {
		q.Set("Provincia", params.Province)
	}
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}
	if params.Desc {
		q.Set("desc", "true")
	}

	endpoint := "/colegios"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var records []colegio.School
	if err := rb.do(http.MethodGet, endpoint, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []colegio.School{}
	}
	return records, nil
}

func (rb *RemoteBackend) ReadAll() ([]colegio.School, error) {
	return rb.List(ListParams{})
}

func (rb *RemoteBackend) Get(id int) (colegio.School, error) {
	var rec colegio.School
	err := rb.do(http.MethodGet, "/colegios/"+strconv.Itoa(id), nil, &rec)
	return rec, err
}

func (rb *RemoteBackend) Create(rec colegio.School) (colegio.School, error) {
	rec.ID = 0 // the service assigns the identifier
	body, err := json.Marshal(rec)
	if err != nil {
		return colegio.School{}, fmt.Errorf("%w: encode: %v", ErrRemoteUnavailable, err)
	}

	var created colegio.School
	if err := rb.do(http.MethodPost, "/colegios", bytes.NewReader(body), &created); err != nil {
		return colegio.School{}, err
	}
	return created, nil
}

// UpdatePartial PATCHes only the fields the patch sets, in canonical field
// order, so unspecified fields are left untouched server-side.
func (rb *RemoteBackend) UpdatePartial(id int, patch colegio.Patch) (colegio.School, error) {
	body, err := patchBody(patch)
	if err != nil {
		return colegio.School{}, fmt.Errorf("%w: encode: %v", ErrRemoteUnavailable, err)
	}

	var updated colegio.School
	if err := rb.do(http.MethodPatch, "/colegios/"+strconv.Itoa(id), bytes.NewReader(body), &updated); err != nil {
		return colegio.School{}, err
	}
	return updated, nil
}

func (rb *RemoteBackend) Update(target colegio.School, patch colegio.Patch) (colegio.School, error) {
	return rb.UpdatePartial(target.ID, patch)
}

func (rb *RemoteBackend) Delete(target colegio.School) error {
	return rb.DeleteByID(target.ID)
}

func (rb *RemoteBackend) DeleteByID(id int) error {
	return rb.do(http.MethodDelete, "/colegios/"+strconv.Itoa(id), nil, nil)
}

func patchBody(patch colegio.Patch) ([]byte, error) {
	o := orderedmap.New()
	if patch.Province != nil {
		o.Set(colegio.FieldProvince, *patch.Province)
	}
	if patch.Name != nil {
		o.Set(colegio.FieldName, *patch.Name)
	}
	if patch.Students != nil {
		o.Set(colegio.FieldStudents, *patch.Students)
	}
	if patch.Year != nil {
		o.Set(colegio.FieldYear, *patch.Year)
	}
	return json.Marshal(o)
}

func (rb *RemoteBackend) do(method, endpoint string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, rb.url(endpoint), body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rb.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRemoteUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", ErrRemoteUnavailable, method, endpoint, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrRemoteUnavailable, err)
		}
	}
	return nil
}
