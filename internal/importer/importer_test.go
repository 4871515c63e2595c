package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

func strPtr(s string) *string { return &s }

func TestDetectDelimiter(t *testing.T) {
	cases := []struct {
		lines []string
		want  rune
	}{
		{[]string{"Paciente;Edad", "PEREZ, JUAN;70"}, ';'},
		{[]string{"Paciente,Edad", "PEREZ JUAN,70"}, ','},
		{[]string{"", "Paciente;Edad"}, ';'},
		{[]string{"sin delimitador", "a,b"}, ','},
	}
	for _, c := range cases {
		if got := DetectDelimiter(c.lines); got != c.want {
			t.Fatalf("DetectDelimiter(%v) = %q, want %q", c.lines, got, c.want)
		}
	}
}

func TestParseSalteaTituloDecorativo(t *testing.T) {
	text := "LISTADO DE PACIENTES 2003\nPaciente;Edad\nPEREZ, JUAN;70\n"
	a, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Delimiter != ';' {
		t.Fatalf("delimitador %q", a.Delimiter)
	}
	if len(a.Headers) != 2 || a.Headers[0] != "Paciente" {
		t.Fatalf("headers %v", a.Headers)
	}
	if len(a.Rows) != 1 {
		t.Fatalf("rows %v", a.Rows)
	}
}

func TestDecodeLatin1(t *testing.T) {
	// "PÉREZ" en Latin-1: la É es el byte 0xC9, inválido como UTF-8 suelto.
	raw := []byte{'P', 0xC9, 'R', 'E', 'Z'}
	if got := decodeBytes(raw); got != "PÉREZ" {
		t.Fatalf("decodeBytes = %q", got)
	}
	// UTF-8 válido pasa tal cual.
	if got := decodeBytes([]byte("PÉREZ")); got != "PÉREZ" {
		t.Fatalf("decodeBytes utf8 = %q", got)
	}
}

func TestSplitNombre(t *testing.T) {
	cases := []struct {
		in, apellido, nombre string
	}{
		{"DEGLIANTONI, JUAN JOSE", "DEGLIANTONI", "JUAN JOSE"},
		{"PEREZ JUAN", "PEREZ", "JUAN"},
		{"GONZALEZ MARIA LAURA", "GONZALEZ", "MARIA LAURA"},
		{"SOLO", "SOLO", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		ap, no := SplitNombre(c.in)
		if ap != c.apellido || no != c.nombre {
			t.Fatalf("SplitNombre(%q) = %q, %q", c.in, ap, no)
		}
	}
}

func TestCleanPhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"336-4535352", "+543364535352"},
		{"(0336) 453-5352", "+543364535352"},
		{"+54 9 336 4535352", "+5493364535352"},
		{"543364535352", "+543364535352"},
		{"4535352", ""},    // menos de 8 dígitos
		{"sin tel", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanPhone(c.in); got != c.want {
			t.Fatalf("CleanPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFechaNacimientoDe(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	cases := []struct{ fecha, edad, want string }{
		{"16/03/1955", "70", "1955-03-16"}, // la fecha manda sobre la edad
		{"", "70", "1956-01-01"},           // 2026 − 70, 1 de enero
		{"31/02/1990", "40", "1986-01-01"}, // fecha imposible, cae a la edad
		{"16/03/1803", "", ""},             // fuera de [año−120, año]
		{"", "150", ""},                    // edad fuera de [0, 120]
		{"", "", ""},
	}
	for _, c := range cases {
		if got := FechaNacimientoDe(c.fecha, c.edad, now); got != c.want {
			t.Fatalf("FechaNacimientoDe(%q, %q) = %q, want %q", c.fecha, c.edad, got, c.want)
		}
	}
}

func TestMapEstado(t *testing.T) {
	cases := []struct{ in, want string }{
		{"atendido", repo.EstadoCompletado},
		{"Realizado", repo.EstadoCompletado},
		{"SI", repo.EstadoCompletado},
		{"asistió", repo.EstadoCompletado},
		{"cancelado", repo.EstadoCancelado},
		{"Anulado", repo.EstadoCancelado},
		{"no asistió", repo.EstadoCancelado}, // el "no" gana antes que el "si"
		{"NO", repo.EstadoCancelado},
		{"", repo.EstadoProgramado},
		{"pendiente", repo.EstadoProgramado},
	}
	for _, c := range cases {
		if got := MapEstado(c.in); got != c.want {
			t.Fatalf("MapEstado(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParsePacienteRowFilaLegada(t *testing.T) {
	// Fila real del export viejo, con punto y coma y columnas de relleno.
	text := "Paciente;Email;Sexo;Edad;Teléfono;Domicilio;Fecha Nac;Obra Social;Ficha;Obs\n" +
		"DEGLIANTONI, JUAN JOSE;;M;70;336-4535352;;16/03/1955;...;347;\n"
	a, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local)
	p, err := ParsePacienteRow(MapRow(a.Headers, a.Rows[0]), now)
	if err != nil {
		t.Fatalf("ParsePacienteRow: %v", err)
	}
	if p.Apellido != "DEGLIANTONI" || p.Nombre != "JUAN JOSE" {
		t.Fatalf("nombre: %q %q", p.Apellido, p.Nombre)
	}
	if p.Telefono != "+543364535352" {
		t.Fatalf("telefono: %q", p.Telefono)
	}
	if p.FechaNacimiento != "1955-03-16" {
		t.Fatalf("fecha_nacimiento: %q", p.FechaNacimiento)
	}
	if p.Ficha != "347" {
		t.Fatalf("ficha: %q", p.Ficha)
	}
}

func TestReconcilerMatchYFichaEnConflicto(t *testing.T) {
	idJuan := uuid.New()
	idOtro := uuid.New()
	rc := NewReconciler([]repo.Paciente{
		{ID: idJuan, Nombre: "Juan", Apellido: "Pérez", Telefono: strPtr("+543364535352")},
		{ID: idOtro, Nombre: "Otro", Apellido: "Paciente", NumeroFicha: strPtr("347")},
	})

	// Matchea por nombre sin importar mayúsculas.
	if m := rc.Match(&PacienteLegacy{Nombre: "JUAN", Apellido: "pérez"}); m == nil || m.ID != idJuan {
		t.Fatalf("match por nombre: %+v", m)
	}
	// Clave secundaria: nombre + teléfono normalizado.
	if m := rc.Match(&PacienteLegacy{Nombre: "Juan", Apellido: "Peres", Telefono: "+54 336 453-5352"}); m == nil || m.ID != idJuan {
		t.Fatalf("match por teléfono: %+v", m)
	}

	acciones := rc.Plan([]*PacienteLegacy{
		{Nombre: "JUAN", Apellido: "PÉREZ", Ficha: "347"}, // ficha de otro
		{Nombre: "Nueva", Apellido: "Persona", Ficha: "500"},
	})
	if len(acciones) != 2 {
		t.Fatalf("acciones: %d", len(acciones))
	}
	a := acciones[0]
	if a.Tipo != AccionActualizar || a.ID != idJuan {
		t.Fatalf("accion 0: %+v", a)
	}
	if !a.FichaConflicto || a.Datos.NumeroFicha != nil {
		t.Fatalf("la ficha en conflicto debía soltarse: %+v", a)
	}
	b := acciones[1]
	if b.Tipo != AccionInsertar || b.FichaConflicto || b.Datos.NumeroFicha == nil || *b.Datos.NumeroFicha != "500" {
		t.Fatalf("accion 1: %+v", b)
	}
}

func TestDedupeTurnos(t *testing.T) {
	id := uuid.New()
	ts := []TurnoImportable{
		{PacienteID: id, TurnoLegacy: TurnoLegacy{Fecha: "2026-01-15", Hora: "10:00", Notas: "primera"}},
		{PacienteID: id, TurnoLegacy: TurnoLegacy{Fecha: "2026-01-15", Hora: "10:00:00", Notas: "repetida"}},
		{PacienteID: id, TurnoLegacy: TurnoLegacy{Fecha: "2026-01-16", Hora: "10:00"}},
	}
	out := DedupeTurnos(ts)
	if len(out) != 2 {
		t.Fatalf("dedupe: %d", len(out))
	}
	if out[0].Notas != "primera" {
		t.Fatal("debe quedar la primera aparición")
	}
}

func TestParseTurnoRow(t *testing.T) {
	text := "Paciente;Fecha;Hora;Asistio;Pago\n" +
		"PEREZ, JUAN;15/01/2026;10:30;no asistió;si\n"
	a, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tu, err := ParseTurnoRow(MapRow(a.Headers, a.Rows[0]))
	if err != nil {
		t.Fatalf("ParseTurnoRow: %v", err)
	}
	if tu.Fecha != "2026-01-15" || tu.Hora != "10:30" {
		t.Fatalf("fecha/hora: %q %q", tu.Fecha, tu.Hora)
	}
	if tu.Estado != repo.EstadoCancelado {
		t.Fatalf("estado: %q", tu.Estado)
	}
	if tu.Pago != repo.PagoPagado {
		t.Fatalf("pago: %q", tu.Pago)
	}
}

func TestLocateCSV(t *testing.T) {
	dir := t.TempDir()
	vacio := t.TempDir()

	if _, err := LocateCSV([]string{vacio}, []string{"paciente"}); err == nil {
		t.Fatal("sin candidatos debía fallar")
	}

	for _, name := range []string{"pacientes_2003.csv", "otros.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := LocateCSV([]string{vacio, dir}, []string{"paciente"})
	if err != nil {
		t.Fatalf("LocateCSV: %v", err)
	}
	if !strings.HasSuffix(got, "pacientes_2003.csv") {
		t.Fatalf("candidato: %q", got)
	}

	// Con varios, elige el primero en orden determinístico.
	if err := os.WriteFile(filepath.Join(dir, "pacientes_2004.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = LocateCSV([]string{dir}, []string{"paciente"})
	if err != nil {
		t.Fatalf("LocateCSV: %v", err)
	}
	if !strings.HasSuffix(got, "pacientes_2003.csv") {
		t.Fatalf("candidato: %q", got)
	}
}

func TestRunLotesSigueTrasError(t *testing.T) {
	calls := 0
	ok, failed := RunLotes(context.Background(), 7, func(i int) error {
		calls++
		if i == 3 {
			return errSinNombre
		}
		return nil
	})
	if calls != 7 || ok != 6 || failed != 1 {
		t.Fatalf("calls=%d ok=%d failed=%d", calls, ok, failed)
	}
}
