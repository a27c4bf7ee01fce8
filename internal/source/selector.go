// Package source decides which backend a session works against. The decision
// is a one-shot state transition at selection time; it is not a per-call
// resilience policy.
package source

import (
	"colegios-api/internal/storage"
)

type Mode int

const (
	Unselected Mode = iota
	Local
	Remote
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unselected"
	}
}

// Probeable is a backend that can report whether its service answers.
type Probeable interface {
	storage.Backend
	Health() bool
}

// Selector holds the two backends and the active choice. It starts
// Unselected and can be re-run at any time from the session loop; switching
// never migrates data between sources.
type Selector struct {
	local  storage.Backend
	remote Probeable

	mode   Mode
	active storage.Backend
}

func NewSelector(local storage.Backend, remote Probeable) *Selector {
	return &Selector{local: local, remote: remote, mode: Unselected}
}

// SelectLocal activates the local backend unconditionally.
func (s *Selector) SelectLocal() storage.Backend {
	s.mode = Local
	s.active = s.local
	return s.active
}

// SelectRemote probes the remote health endpoint. On success the remote
// backend becomes active; on failure the selector falls back to Local and
// reports fellBack=true so the caller can warn the user.
func (s *Selector) SelectRemote() (active storage.Backend, fellBack bool) {
	if s.remote.Health() {
		s.mode = Remote
		s.active = s.remote
		return s.active, false
	}
	return s.SelectLocal(), true
}

func (s *Selector) Mode() Mode {
	return s.mode
}

// Active returns the backend chosen by the last selection, nil before any.
func (s *Selector) Active() storage.Backend {
	return s.active
}
