package server

import (
	"colegios-api/internal/colegio"
	"colegios-api/internal/logs"
)

type SchoolServicePort interface {
	List(q, province, sortBy string, desc bool) ([]colegio.School, error)
	Get(id int) (colegio.School, error)
	Create(rec colegio.School) (colegio.School, error)
	UpdatePartial(id int, patch colegio.Patch) (colegio.School, error)
	Delete(id int) error
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload interface{}) error
}
