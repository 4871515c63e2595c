package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

func strPtr(s string) *string { return &s }

func samplePacientes() []repo.Paciente {
	return []repo.Paciente{
		{
			ID:              uuid.New(),
			Nombre:          "Juan José",
			Apellido:        "Degliantoni",
			Telefono:        strPtr("+543364535352"),
			FechaNacimiento: strPtr("1955-03-16"),
			NumeroFicha:     strPtr("347"),
			Notas:           strPtr(`dolor lumbar, deriva "Dr. X"` + "\nsegunda línea"),
		},
		{ID: uuid.New(), Nombre: "María", Apellido: "González"},
	}
}

func TestPacientesCSVVacio(t *testing.T) {
	if _, err := PacientesCSV(nil); !errors.Is(err, ErrSinRegistros) {
		t.Fatalf("esperaba ErrSinRegistros, got %v", err)
	}
}

func TestPacientesJSONVacio(t *testing.T) {
	if _, err := PacientesJSON(nil); !errors.Is(err, ErrSinRegistros) {
		t.Fatalf("esperaba ErrSinRegistros, got %v", err)
	}
}

func TestPacientesCSV(t *testing.T) {
	out, err := PacientesCSV(samplePacientes())
	if err != nil {
		t.Fatalf("PacientesCSV: %v", err)
	}
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("el CSV debe empezar con BOM UTF-8")
	}
	text := string(out)
	for _, h := range CSVHeaders {
		if !strings.Contains(text, h) {
			t.Fatalf("falta la columna %q en el encabezado", h)
		}
	}
	// Campo con coma, comillas y salto de línea queda entre comillas RFC 4180.
	if !strings.Contains(text, `"dolor lumbar, deriva ""Dr. X""`) {
		t.Fatalf("falta el quoting RFC 4180: %s", text)
	}
}

func TestPacientesJSON(t *testing.T) {
	list := samplePacientes()
	out, err := PacientesJSON(list)
	if err != nil {
		t.Fatalf("PacientesJSON: %v", err)
	}
	var b Backup
	if err := json.Unmarshal(out, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.TotalPacientes != len(list) || len(b.Pacientes) != len(list) {
		t.Fatalf("total=%d pacientes=%d, want %d", b.TotalPacientes, len(b.Pacientes), len(list))
	}
	if b.FechaExportacion == "" {
		t.Fatal("fecha_exportacion vacía")
	}
	if b.Pacientes[0].NumeroFicha != "347" || b.Pacientes[0].Apellido != "Degliantoni" {
		t.Fatalf("paciente exportado: %+v", b.Pacientes[0])
	}
	// Indentado (pretty-printed), no una sola línea.
	if !bytes.Contains(out, []byte("\n  ")) {
		t.Fatal("el JSON debe estar indentado")
	}
}

func TestFileName(t *testing.T) {
	re := regexp.MustCompile(`^pacientes_\d{4}-\d{2}-\d{2}\.csv$`)
	if got := FileName("pacientes", "csv"); !re.MatchString(got) {
		t.Fatalf("FileName = %q", got)
	}
}
