package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

var (
	errFechaTurno = errors.New("fila de turno sin fecha parseable")
	errHoraTurno  = errors.New("fila de turno sin hora")
)

// estadoPatterns mapea el texto libre de asistencia del sistema viejo a los
// estados del turno. La tabla se recorre en orden: los patrones de cancelado
// van primero para que "no asistió" caiga en cancelado y no en completado
// por el "si" que contiene "asistió".
var estadoPatterns = []struct {
	contiene string
	estado   string
}{
	{"cancelado", repo.EstadoCancelado},
	{"anulado", repo.EstadoCancelado},
	{"no", repo.EstadoCancelado},
	{"atendido", repo.EstadoCompletado},
	{"realizado", repo.EstadoCompletado},
	{"si", repo.EstadoCompletado},
}

// MapEstado resuelve el estado de un turno desde texto libre. Sin match,
// queda programado.
func MapEstado(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range estadoPatterns {
		if strings.Contains(s, p.contiene) {
			return p.estado
		}
	}
	return repo.EstadoProgramado
}

// MapPago resuelve el campo de pago. Solo un sí explícito marca pagado.
func MapPago(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.Contains(s, "si") || strings.Contains(s, "pagado") || s == "x" {
		return repo.PagoPagado
	}
	return repo.PagoImpago
}

// TurnoLegacy es una fila de turnos del export viejo mapeada a campos
// lógicos. El paciente viene por nombre, no por id.
type TurnoLegacy struct {
	Apellido string
	Nombre   string
	Fecha    string // yyyy-MM-dd
	Hora     string // HH:mm
	Estado   string
	Pago     string
	Notas    string
}

// ParseTurnoRow mapea una fila cruda de turnos. Necesita nombre, fecha y
// hora parseables; lo demás tiene valores por defecto.
func ParseTurnoRow(r Row) (*TurnoLegacy, error) {
	apellido, nombre := SplitNombre(r.First(aliasNombreCompleto...))
	if apellido == "" && nombre == "" {
		return nil, errSinNombre
	}
	fecha := ""
	for _, layout := range formatosFecha {
		d, err := time.ParseInLocation(layout, strings.TrimSpace(r.First(aliasFechaTurno...)), time.Local)
		if err == nil {
			if iso, err := dates.ToISO(d); err == nil {
				fecha = iso
			}
			break
		}
	}
	if fecha == "" {
		return nil, errFechaTurno
	}
	hora := checks.NormalizeHora(strings.TrimSpace(r.First(aliasHoraTurno...)))
	if hora == "" {
		return nil, errHoraTurno
	}
	return &TurnoLegacy{
		Apellido: apellido,
		Nombre:   nombre,
		Fecha:    fecha,
		Hora:     hora,
		Estado:   MapEstado(r.First(aliasEstadoTurno...)),
		Pago:     MapPago(r.First(aliasPagoTurno...)),
		Notas:    r.First(aliasNotas...),
	}, nil
}

// TurnoImportable es un turno legado ya resuelto contra un paciente cargado.
type TurnoImportable struct {
	PacienteID uuid.UUID
	TurnoLegacy
}

// DedupeTurnos descarta filas repetidas por (paciente, fecha, hora),
// quedándose con la primera aparición.
func DedupeTurnos(ts []TurnoImportable) []TurnoImportable {
	vistos := make(map[string]bool, len(ts))
	out := make([]TurnoImportable, 0, len(ts))
	for _, t := range ts {
		k := t.PacienteID.String() + "|" + checks.SlotKey(t.Fecha, t.Hora)
		if vistos[k] {
			continue
		}
		vistos[k] = true
		out = append(out, t)
	}
	return out
}
