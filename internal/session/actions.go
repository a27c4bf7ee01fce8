package session

import (
	"errors"
	"fmt"
	"strconv"

	"colegios-api/internal/colegio"
	"colegios-api/internal/crud"
	"colegios-api/internal/query"
	"colegios-api/internal/storage"
)

// lister is implemented by backends that can filter and sort server-side.
type lister interface {
	List(storage.ListParams) ([]colegio.School, error)
}

// fetch loads records from the active backend. When the backend supports
// server-side listing the parameters travel with the request; otherwise the
// query engine applies them here. Both paths share the same normalization,
// so the results agree.
func (s *Session) fetch(params storage.ListParams) ([]colegio.School, error) {
	b := s.selector.Active()
	if l, ok := b.(lister); ok {
		return l.List(params)
	}

	records, err := b.ReadAll()
	if err != nil {
		return nil, err
	}
	if params.Query != "" {
		records = query.SearchByName(records, params.Query)
	}
	if params.Province != "" {
		records = query.FilterByProvince(records, params.Province)
	}
	if params.SortBy != "" {
		records, err = query.SortBy(records, params.SortBy, params.Desc)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Session) show(records []colegio.School) {
	if len(records) == 0 {
		s.printf("No hay colegios para mostrar.\n")
		return
	}
	for _, rec := range records {
		s.printf("  %s | Provincia: %s | Estudiantes: %d | Año: %d\n",
			rec.Name, rec.Province, rec.Students, rec.Year)
	}
}

func (s *Session) reportErr(err error) {
	var verr *crud.ValidationError
	switch {
	case errors.As(err, &verr):
		s.printf("%s %s.\n", verr.Field, verr.Reason)
	case errors.Is(err, crud.ErrNotConfirmed):
		s.printf("Operación cancelada.\n")
	case errors.Is(err, storage.ErrNotFound):
		s.printf("No se encontró el registro.\n")
	case errors.Is(err, storage.ErrRemoteUnavailable):
		s.printf("El servidor remoto no está disponible: %v\n", err)
	case errors.Is(err, query.ErrInvalidRange):
		s.printf("El mínimo no puede ser mayor que el máximo.\n")
	case errors.Is(err, query.ErrEmptyDataset):
		s.printf("No hay datos disponibles.\n")
	default:
		s.printf("Error: %v\n", err)
	}
}

func (s *Session) searchByName() {
	name, ok := s.prompt("\nIngrese el nombre del colegio a buscar: ")
	if !ok || name == "" {
		return
	}

	// the remote q parameter also matches provinces, so the results are
	// narrowed to name matches here either way
	records, err := s.fetch(storage.ListParams{Query: name})
	if err != nil {
		s.reportErr(err)
		return
	}

	matches := query.SearchByName(records, name)
	if len(matches) == 0 {
		s.printf("\nNo se encontró ningún colegio que contenga '%s'.\n", name)
		return
	}

	s.printf("\nSe encontraron %d colegio(s) con el nombre '%s':\n", len(matches), name)
	s.show(matches)
}

func (s *Session) filterByProvince() {
	province, ok := s.prompt("\nIngrese la provincia: ")
	if !ok || province == "" {
		return
	}

	matches, err := s.fetch(storage.ListParams{Province: province})
	if err != nil {
		s.reportErr(err)
		return
	}
	if len(matches) == 0 {
		s.printf("\nNo se encontraron colegios en la provincia '%s'.\n", province)
		return
	}

	s.printf("\nColegios en la provincia '%s': (%d encontrado(s))\n", province, len(matches))
	s.show(matches)
}

func (s *Session) filterByStudents() {
	min, max, ok := s.promptRange("cantidad de estudiantes")
	if !ok {
		return
	}

	records, err := s.fetch(storage.ListParams{})
	if err != nil {
		s.reportErr(err)
		return
	}

	matches, err := query.FilterByStudents(records, &min, &max)
	if err != nil {
		s.reportErr(err)
		return
	}
	if len(matches) == 0 {
		s.printf("\nNo se encontraron colegios en ese rango de estudiantes.\n")
		return
	}

	s.printf("\nColegios con %d a %d estudiantes: (%d encontrado(s))\n", min, max, len(matches))
	s.show(matches)
}

func (s *Session) filterByYear() {
	min, max, ok := s.promptRange("año de creación")
	if !ok {
		return
	}

	records, err := s.fetch(storage.ListParams{})
	if err != nil {
		s.reportErr(err)
		return
	}

	matches, err := query.FilterByYear(records, &min, &max)
	if err != nil {
		s.reportErr(err)
		return
	}
	if len(matches) == 0 {
		s.printf("\nNo se encontraron colegios creados en ese rango de años.\n")
		return
	}

	s.printf("\nColegios creados entre %d y %d: (%d encontrado(s))\n", min, max, len(matches))
	s.show(matches)
}

func (s *Session) promptRange(fieldLabel string) (min, max int, ok bool) {
	min, ok = s.promptInt("\nIngrese " + fieldLabel + " mínimo: ")
	if !ok {
		return 0, 0, false
	}
	max, ok = s.promptInt("Ingrese " + fieldLabel + " máximo: ")
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

func (s *Session) sortRecords() {
	s.printf("\nCampos disponibles para ordenar:\n")
	for _, field := range colegio.Header {
		s.printf("  - %s\n", field)
	}

	field, ok := s.prompt("\nIngrese el campo por el cual ordenar: ")
	if !ok || field == "" {
		return
	}
	if !validSortField(field) {
		s.printf("Campo inválido. Campos válidos: %s, %s, %s, %s.\n",
			colegio.FieldProvince, colegio.FieldName, colegio.FieldStudents, colegio.FieldYear)
		return
	}

	order, ok := s.prompt("¿Orden descendente? (s/n): ")
	if !ok {
		return
	}
	desc := order == "s" || order == "S"

	sorted, err := s.fetch(storage.ListParams{SortBy: field, Desc: desc})
	if err != nil {
		s.reportErr(err)
		return
	}

	s.printf("\n")
	s.show(sorted)
}

func validSortField(field string) bool {
	for _, f := range colegio.Header {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Session) showStats() {
	records, err := s.fetch(storage.ListParams{})
	if err != nil {
		s.reportErr(err)
		return
	}

	st, err := query.ComputeStats(records)
	if err != nil {
		s.reportErr(err)
		return
	}

	s.printf("\nESTADÍSTICAS GENERALES\n")
	s.printf("Colegio más antiguo: %s (%d)\n", st.Oldest.Name, st.Oldest.Year)
	s.printf("Colegio más nuevo: %s (%d)\n", st.Newest.Name, st.Newest.Year)
	s.printf("Año promedio de creación: %d\n", st.MeanYear)
	s.printf("Total de estudiantes: %d\n", st.TotalStudents)
	s.printf("Promedio de estudiantes por colegio: %d\n", st.MeanStudents)
	s.printf("Colegio con más estudiantes: %s (%d)\n", st.MaxStudents.Name, st.MaxStudents.Students)
	s.printf("Colegio con menos estudiantes: %s (%d)\n", st.MinStudents.Name, st.MinStudents.Students)
	s.printf("Cantidad de colegios por provincia:\n")
	for _, pc := range st.ByProvince {
		s.printf("  - %s: %d\n", pc.Province, pc.Count)
	}
}

func (s *Session) addSchool() {
	s.printf("\nAgregar nuevo colegio\n")

	province, ok := s.prompt("Provincia: ")
	if !ok {
		return
	}
	name, ok := s.prompt("Colegio: ")
	if !ok {
		return
	}
	students, ok, valid := s.promptOptionalInt("Cantidad de Estudiantes: ")
	if !ok {
		return
	}
	if !valid {
		s.printf("La cantidad de estudiantes debe ser un número entero.\n")
		return
	}
	year, ok, valid := s.promptOptionalInt("Año de Creación: ")
	if !ok {
		return
	}
	if !valid {
		s.printf("El año debe ser un número entero.\n")
		return
	}

	created, err := s.ops.Create(s.selector.Active(), colegio.School{
		Province: province,
		Name:     name,
		Students: students,
		Year:     year,
	})
	if err != nil {
		s.reportErr(err)
		return
	}

	s.printf("\nColegio '%s' agregado correctamente.\n", created.Name)
}

func (s *Session) editSchool() {
	target, ok := s.pickByName("editar")
	if !ok {
		return
	}

	s.printf("\nColegio a editar: %s\n", target.Name)
	s.printf("Deje en blanco para mantener el valor actual.\n")

	patch, ok := s.promptPatch(target)
	if !ok {
		return
	}

	updated, n, err := s.ops.Update(s.selector.Active(), target, patch)
	if err != nil {
		s.reportErr(err)
		return
	}
	if n == 0 {
		s.printf("\nNo se modificó ningún campo.\n")
		return
	}

	s.printf("\nColegio actualizado correctamente (%d campo(s) modificado(s)).\n", n)
	s.show([]colegio.School{updated})
}

func (s *Session) promptPatch(current colegio.School) (colegio.Patch, bool) {
	var patch colegio.Patch

	province, ok := s.prompt("Provincia [" + current.Province + "]: ")
	if !ok {
		return patch, false
	}
	if province != "" {
		patch.Province = &province
	}

	name, ok := s.prompt("Colegio [" + current.Name + "]: ")
	if !ok {
		return patch, false
	}
	if name != "" {
		patch.Name = &name
	}

	studentsText, ok := s.prompt(fmt.Sprintf("Cantidad de Estudiantes [%d]: ", current.Students))
	if !ok {
		return patch, false
	}
	if studentsText != "" {
		n, err := strconv.Atoi(studentsText)
		if err != nil {
			s.printf("La cantidad de estudiantes debe ser un número entero.\n")
			return patch, false
		}
		patch.Students = &n
	}

	yearText, ok := s.prompt(fmt.Sprintf("Año de Creación [%d]: ", current.Year))
	if !ok {
		return patch, false
	}
	if yearText != "" {
		n, err := strconv.Atoi(yearText)
		if err != nil {
			s.printf("El año debe ser un número entero.\n")
			return patch, false
		}
		patch.Year = &n
	}

	return patch, true
}

func (s *Session) deleteSchool() {
	target, ok := s.pickByName("borrar")
	if !ok {
		return
	}

	answer, ok := s.prompt("¿Confirma la eliminación de '" + target.Name + "'? (s/n): ")
	if !ok {
		return
	}
	confirmed := answer == "s" || answer == "S"

	if err := s.ops.Delete(s.selector.Active(), target, confirmed); err != nil {
		s.reportErr(err)
		return
	}

	s.printf("\nColegio '%s' eliminado correctamente.\n", target.Name)
}

// pickByName resolves a record by name substring, asking the user to choose
// when more than one row matches.
func (s *Session) pickByName(verb string) (colegio.School, bool) {
	name, ok := s.prompt("\nIngrese el nombre del colegio a " + verb + ": ")
	if !ok || name == "" {
		return colegio.School{}, false
	}

	records, err := s.fetch(storage.ListParams{Query: name})
	if err != nil {
		s.reportErr(err)
		return colegio.School{}, false
	}

	matches := query.SearchByName(records, name)
	if len(matches) == 0 {
		s.printf("\nNo se encontró ningún colegio con el nombre '%s'.\n", name)
		return colegio.School{}, false
	}
	if len(matches) == 1 {
		return matches[0], true
	}

	s.printf("\nSe encontraron %d colegios:\n", len(matches))
	for i, rec := range matches {
		s.printf("%d. %s (%s)\n", i+1, rec.Name, rec.Province)
	}

	n, ok := s.promptInt("\nIngrese el número del colegio: ")
	if !ok {
		return colegio.School{}, false
	}
	if n < 1 || n > len(matches) {
		s.printf("Opción inválida.\n")
		return colegio.School{}, false
	}
	return matches[n-1], true
}

func (s *Session) exportXLSX() {
	path, ok := s.prompt("\nArchivo de salida [colegios.xlsx]: ")
	if !ok {
		return
	}
	if path == "" {
		path = "colegios.xlsx"
	}

	records, err := s.fetch(storage.ListParams{})
	if err != nil {
		s.reportErr(err)
		return
	}

	if err := storage.ExportXLSX(path, records); err != nil {
		s.reportErr(err)
		return
	}

	s.printf("\nSe exportaron %d colegio(s) a %s.\n", len(records), path)
}
