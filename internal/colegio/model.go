package colegio

// Canonical field names. They double as the CSV header, the JSON wire names
// and the sort/query parameter values, so there is no mapping layer anywhere.
const (
	FieldProvince = "Provincia"
	FieldName     = "Colegio"
	FieldStudents = "Cantidad de Estudiantes"
	FieldYear     = "Año de Creación"
)

// Header is the canonical column order of the local file and the XLSX export.
var Header = []string{FieldProvince, FieldName, FieldStudents, FieldYear}

// School is one roster record. ID is assigned by the remote service; in local
// mode it stays zero and a record's identity is the full row.
type School struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	Province string `gorm:"size:255;not null;column:provincia" json:"Provincia"`
	Name     string `gorm:"type:text;not null;column:colegio" json:"Colegio"`
	Students int    `gorm:"not null;default:0;column:cantidad_estudiantes" json:"Cantidad de Estudiantes"`
	Year     int    `gorm:"not null;default:0;column:anio_creacion" json:"Año de Creación"`
}

func (School) TableName() string {
	return "colegios"
}

// SameRow reports whether two records carry identical field values, ignoring
// the service-assigned ID. Used for full-row addressing in local mode.
func (s School) SameRow(o School) bool {
	return s.Province == o.Province && s.Name == o.Name &&
		s.Students == o.Students && s.Year == o.Year
}

// Patch is a partial update. A nil field means "keep the current value" —
// distinct from a supplied empty string, which would fail validation.
type Patch struct {
	Province *string `json:"Provincia,omitempty"`
	Name     *string `json:"Colegio,omitempty"`
	Students *int    `json:"Cantidad de Estudiantes,omitempty"`
	Year     *int    `json:"Año de Creación,omitempty"`
}

// FieldCount returns how many fields the patch actually sets.
func (p Patch) FieldCount() int {
	n := 0
	if p.Province != nil {
		n++
	}
	if p.Name != nil {
		n++
	}
	if p.Students != nil {
		n++
	}
	if p.Year != nil {
		n++
	}
	return n
}

// Apply copies the set fields onto a record and returns the result.
func (p Patch) Apply(s School) School {
	if p.Province != nil {
		s.Province = *p.Province
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Students != nil {
		s.Students = *p.Students
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
	return s
}
