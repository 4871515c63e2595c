package checks

import "testing"

func TestHasDuplicatePacientes(t *testing.T) {
	dup := []Paciente{
		{Nombre: "Juan", Apellido: "Pérez"},
		{Nombre: "María", Apellido: "González"},
		{Nombre: "Juan", Apellido: "Pérez"},
	}
	if !HasDuplicatePacientes(dup) {
		t.Fatal("esperaba duplicado por (nombre, apellido)")
	}

	distinct := []Paciente{
		{Nombre: "Juan", Apellido: "Pérez"},
		{Nombre: "María", Apellido: "González"},
		{Nombre: "Juan", Apellido: "Gómez"},
	}
	if HasDuplicatePacientes(distinct) {
		t.Fatal("no esperaba duplicados con nombres distintos")
	}
}

func TestDuplicatePacientesCaseInsensitive(t *testing.T) {
	list := []Paciente{
		{Nombre: "JUAN", Apellido: "PÉREZ"},
		{Nombre: "juan", Apellido: "pérez"},
	}
	if !HasDuplicatePacientes(list) {
		t.Fatal("la comparación debe ignorar mayúsculas")
	}
}

func TestHasDuplicateFichas(t *testing.T) {
	list := []Paciente{
		{Ficha: "001"}, {Ficha: "002"}, {Ficha: "003"}, {Ficha: "001"},
	}
	if !HasDuplicateFichas(list) {
		t.Fatal("esperaba ficha duplicada")
	}

	// Vacías y "0" no cuentan como ficha.
	none := []Paciente{{Ficha: ""}, {Ficha: ""}, {Ficha: "0"}, {Ficha: "0"}}
	if HasDuplicateFichas(none) {
		t.Fatal("vacías y cero no son fichas")
	}
}

func TestHasDuplicateTurnos(t *testing.T) {
	dup := []Turno{
		{Fecha: "2026-01-15", Hora: "10:00"},
		{Fecha: "2026-01-15", Hora: "10:00"},
	}
	if !HasDuplicateTurnos(dup) {
		t.Fatal("misma fecha y hora debe ser duplicado")
	}

	diffDate := []Turno{
		{Fecha: "2026-01-15", Hora: "10:00"},
		{Fecha: "2026-01-16", Hora: "10:00"},
	}
	if HasDuplicateTurnos(diffDate) {
		t.Fatal("misma hora en días distintos no es duplicado")
	}

	// Los segundos no cambian la franja.
	secs := []Turno{
		{Fecha: "2026-01-15", Hora: "10:00:00"},
		{Fecha: "2026-01-15", Hora: "10:00"},
	}
	if !HasDuplicateTurnos(secs) {
		t.Fatal("10:00:00 y 10:00 son la misma franja")
	}
}

func TestFindDuplicateFichasPairs(t *testing.T) {
	list := []Paciente{{Ficha: "7"}, {Ficha: "8"}, {Ficha: "7"}}
	pairs := FindDuplicateFichas(list)
	if len(pairs) != 1 || pairs[0] != [2]int{0, 2} {
		t.Fatalf("pares inesperados: %v", pairs)
	}
}

func TestNormalizeHora(t *testing.T) {
	if got := NormalizeHora("09:30:00"); got != "09:30" {
		t.Fatalf("NormalizeHora = %q", got)
	}
	if got := NormalizeHora(" 09:30 "); got != "09:30" {
		t.Fatalf("NormalizeHora = %q", got)
	}
}
