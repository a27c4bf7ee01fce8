// Package session implements the interactive console: source selection, the
// main menu loop and the read/edit actions against the active backend.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"colegios-api/internal/crud"
	"colegios-api/internal/source"
)

type Session struct {
	in  *bufio.Scanner
	out io.Writer

	selector *source.Selector
	ops      *crud.Orchestrator

	csvPath   string
	remoteURL string
}

func New(in io.Reader, out io.Writer, selector *source.Selector, csvPath, remoteURL string) *Session {
	return &Session{
		in:        bufio.NewScanner(in),
		out:       out,
		selector:  selector,
		ops:       crud.New(),
		csvPath:   csvPath,
		remoteURL: remoteURL,
	}
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// prompt shows a label and reads one trimmed line. ok=false means the input
// stream ended.
func (s *Session) prompt(label string) (string, bool) {
	s.printf("%s", label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) promptInt(label string) (int, bool) {
	for {
		text, ok := s.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			s.printf("Entrada inválida. Ingrese un número.\n")
			continue
		}
		return n, true
	}
}

// promptOptionalInt reads an integer where blank means zero. valid=false
// flags a non-numeric entry so the caller can abort the operation.
func (s *Session) promptOptionalInt(label string) (n int, ok, valid bool) {
	text, ok := s.prompt(label)
	if !ok {
		return 0, false, false
	}
	if text == "" {
		return 0, true, true
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, true, false
	}
	return n, true, true
}

// Run executes the whole console session. It returns nil once the user exits
// or the input stream ends, and an error when the chosen store cannot be
// initialized.
func (s *Session) Run() error {
	s.printf("SISTEMA DE GESTIÓN Y CONSULTA DE COLEGIOS\n")

	proceed, err := s.chooseSource()
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	for {
		choice, ok := s.promptMenu()
		if !ok {
			return nil
		}

		switch choice {
		case 1:
			s.searchByName()
		case 2:
			s.filterByProvince()
		case 3:
			s.filterByStudents()
		case 4:
			s.filterByYear()
		case 5:
			s.sortRecords()
		case 6:
			s.showStats()
		case 7:
			s.addSchool()
		case 8:
			s.editSchool()
		case 9:
			s.deleteSchool()
		case 10:
			proceed, err := s.chooseSource()
			if err != nil {
				return err
			}
			if !proceed {
				return nil
			}
		case 11:
			s.exportXLSX()
		case 12:
			s.printf("\nGracias por usar el sistema de gestión de colegios.\n")
			return nil
		default:
			s.printf("Opción inválida. Ingrese un número del 1 al 12.\n")
		}
	}
}

func (s *Session) promptMenu() (int, bool) {
	s.printf("\n----- MENÚ PRINCIPAL - GESTIÓN DE COLEGIOS -----\n")
	s.printf("CONSULTAS Y BÚSQUEDAS:\n")
	s.printf("1.  Buscar colegio por nombre\n")
	s.printf("2.  Listar colegios por provincia\n")
	s.printf("3.  Filtrar por cantidad de estudiantes\n")
	s.printf("4.  Filtrar por año de fundación\n")
	s.printf("ORGANIZACIÓN Y ANÁLISIS:\n")
	s.printf("5.  Ordenar lista de colegios\n")
	s.printf("6.  Ver estadísticas generales\n")
	s.printf("ADMINISTRACIÓN DE DATOS:\n")
	s.printf("7.  Registrar nuevo colegio\n")
	s.printf("8.  Modificar datos de colegio\n")
	s.printf("9.  Eliminar colegio del sistema\n")
	s.printf("CONFIGURACIÓN:\n")
	s.printf("10. Cambiar fuente de datos (Local/API)\n")
	s.printf("11. Exportar a Excel\n")
	s.printf("12. Salir del programa\n")

	return s.promptInt("\nSeleccione una opción (1-12): ")
}

// chooseSource runs the source selection dialog. proceed=false means the user
// cancelled or the input stream ended; a non-nil error means the local store
// could not be initialized, which is unrecoverable.
func (s *Session) chooseSource() (proceed bool, err error) {
	s.printf("\nSELECCIÓN DE FUENTE DE DATOS\n")
	s.printf("1. Archivo CSV local (%s)\n", s.csvPath)
	s.printf("2. Servidor API remoto (%s)\n", s.remoteURL)
	s.printf("3. Cancelar y salir\n")

	for {
		op, ok := s.promptInt("\nElija una opción (1, 2 o 3): ")
		if !ok {
			return false, nil
		}

		switch op {
		case 1:
			s.selector.SelectLocal()
			s.printf("\nModo: archivo CSV local (%s)\n", s.csvPath)
			records, err := s.selector.Active().ReadAll()
			if err != nil {
				return false, fmt.Errorf("no se pudo inicializar el archivo local %s: %w", s.csvPath, err)
			}
			s.printf("Se cargaron %d colegio(s).\n", len(records))
			return true, nil
		case 2:
			_, fellBack := s.selector.SelectRemote()
			if fellBack {
				s.printf("\nNo se pudo conectar con %s. Se usará el archivo local.\n", s.remoteURL)
				if _, err := s.selector.Active().ReadAll(); err != nil {
					return false, fmt.Errorf("no se pudo inicializar el archivo local %s: %w", s.csvPath, err)
				}
			} else {
				s.printf("\nModo: servidor API remoto (%s)\n", s.remoteURL)
			}
			return true, nil
		case 3:
			s.printf("\nHasta luego.\n")
			return false, nil
		default:
			s.printf("Opción inválida. Intente nuevamente.\n")
		}
	}
}
