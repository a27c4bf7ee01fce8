package storage

import (
	"errors"

	"colegios-api/internal/colegio"
)

// Failure classes surfaced by the backends. Callers match with errors.Is;
// the CLI turns them into user messages, nothing below it swallows them.
var (
	ErrStorage           = errors.New("storage error")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrNotFound          = errors.New("record not found")
)

// ListParams are the optional query parameters of the remote collection.
// The local backend ignores them (filtering happens in the query engine).
type ListParams struct {
	Query    string
	Province string
	SortBy   string
	Desc     bool
}

// Backend is the capability set shared by the local file and the remote
// service. The session holds exactly one active Backend at a time.
type Backend interface {
	Name() string
	ReadAll() ([]colegio.School, error)
	Create(rec colegio.School) (colegio.School, error)
	Update(target colegio.School, patch colegio.Patch) (colegio.School, error)
	Delete(target colegio.School) error
}
