// Package checks detecta duplicados de pacientes, fichas y turnos antes de
// escribir. Son chequeos consultivos O(n²) sobre listas en memoria: a escala
// de consultorio (cientos a pocos miles de registros) alcanza de sobra. Las
// restricciones de ficha y de turno también existen como índices únicos en la
// base; acá y allá tienen que decir lo mismo.
package checks

import "strings"

// Paciente es la vista mínima que necesitan los chequeos.
type Paciente struct {
	ID       string
	Nombre   string
	Apellido string
	Ficha    string
	Telefono string
}

// Turno es la vista mínima de un turno para el chequeo de duplicados.
type Turno struct {
	PacienteID string
	Fecha      string // yyyy-MM-dd
	Hora       string // HH:MM u HH:MM:SS
}

// NameKey arma la clave de comparación por nombre: (nombre, apellido) en
// minúsculas y sin espacios sobrantes. Es la misma clave que usa la
// reconciliación del import.
func NameKey(nombre, apellido string) string {
	return strings.ToLower(strings.TrimSpace(nombre)) + "|" + strings.ToLower(strings.TrimSpace(apellido))
}

// NormalizeHora recorta los segundos: "10:00:00" → "10:00".
func NormalizeHora(hora string) string {
	hora = strings.TrimSpace(hora)
	if len(hora) > 5 {
		return hora[:5]
	}
	return hora
}

// SlotKey arma la clave de ocupación de agenda (fecha + hora), independiente
// del paciente.
func SlotKey(fecha, hora string) string {
	return strings.TrimSpace(fecha) + " " + NormalizeHora(hora)
}

// FindDuplicatePacientes devuelve los pares de índices con igual
// (nombre, apellido), comparando sin distinguir mayúsculas.
func FindDuplicatePacientes(list []Paciente) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if NameKey(list[i].Nombre, list[i].Apellido) == NameKey(list[j].Nombre, list[j].Apellido) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// HasDuplicatePacientes informa si hay al menos un par con el mismo nombre.
// Los homónimos se marcan, nunca se fusionan solos.
func HasDuplicatePacientes(list []Paciente) bool {
	return len(FindDuplicatePacientes(list)) > 0
}

// FindDuplicateFichas devuelve los pares de índices con la misma ficha no
// vacía (igualdad exacta de strings).
func FindDuplicateFichas(list []Paciente) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(list); i++ {
		fi := strings.TrimSpace(list[i].Ficha)
		if fi == "" || fi == "0" {
			continue
		}
		for j := i + 1; j < len(list); j++ {
			if strings.TrimSpace(list[j].Ficha) == fi {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// HasDuplicateFichas informa si alguna ficha no vacía está repetida.
func HasDuplicateFichas(list []Paciente) bool {
	return len(FindDuplicateFichas(list)) > 0
}

// FindDuplicateTurnos devuelve los pares de turnos que comparten
// (fecha, hora), sin importar el paciente: es unicidad de franja de agenda.
func FindDuplicateTurnos(list []Turno) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if SlotKey(list[i].Fecha, list[i].Hora) == SlotKey(list[j].Fecha, list[j].Hora) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// HasDuplicateTurnos informa si alguna franja (fecha, hora) está repetida.
func HasDuplicateTurnos(list []Turno) bool {
	return len(FindDuplicateTurnos(list)) > 0
}
