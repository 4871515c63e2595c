package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/notify"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/validation"

	"github.com/google/uuid"
)

// Horario de atención: de 09:00 a 20:00, turnos cada 5 minutos.
const (
	horaApertura = 9 * 60
	horaCierre   = 20 * 60
)

// horaValida acepta HH:MM (o HH:MM:SS) dentro del horario de atención y
// alineada a 5 minutos.
func horaValida(hora string) bool {
	hora = checks.NormalizeHora(hora)
	t, err := time.Parse("15:04", hora)
	if err != nil {
		return false
	}
	min := t.Hour()*60 + t.Minute()
	return min >= horaApertura && min <= horaCierre && min%5 == 0
}

// transicionValida define los cambios de estado permitidos: de programado se
// puede completar o cancelar; completado y cancelado son finales.
func transicionValida(desde, hacia string) bool {
	if desde == hacia {
		return true
	}
	return desde == repo.EstadoProgramado &&
		(hacia == repo.EstadoCompletado || hacia == repo.EstadoCancelado)
}

type TurnoRequest struct {
	PacienteID string `json:"paciente_id"`
	Fecha      string `json:"fecha"` // yyyy-MM-dd
	Hora       string `json:"hora"`  // HH:MM
	Estado     string `json:"estado"`
	Pago       string `json:"pago"`
	Notas      string `json:"notas"`
}

type turnoOut struct {
	ID         string `json:"id"`
	PacienteID string `json:"paciente_id"`
	Fecha      string `json:"fecha"`
	Hora       string `json:"hora"`
	Estado     string `json:"estado"`
	Pago       string `json:"pago,omitempty"`
	Notas      string `json:"notas,omitempty"`
	Paciente   string `json:"paciente,omitempty"`
	Telefono   string `json:"telefono,omitempty"`
	Ficha      string `json:"ficha,omitempty"`
}

func aTurnoOut(t *repo.Turno) turnoOut {
	fecha, _ := dates.ToISO(t.Fecha)
	return turnoOut{
		ID:         t.ID.String(),
		PacienteID: t.PacienteID.String(),
		Fecha:      fecha,
		Hora:       checks.NormalizeHora(t.Hora),
		Estado:     t.Estado,
		Pago:       deref(t.Pago),
		Notas:      deref(t.Notas),
	}
}

func aTurnoConPacienteOut(t *repo.TurnoConPaciente) turnoOut {
	out := aTurnoOut(&t.Turno)
	out.Paciente = t.PacienteApellido + ", " + t.PacienteNombre
	out.Telefono = deref(t.PacienteTelefono)
	out.Ficha = deref(t.PacienteFicha)
	return out
}

// ListTurnos devuelve los turnos de un rango (?desde=&hasta=) o de un día
// (?fecha=). Sin parámetros, los del día de hoy.
func (h *Handler) ListTurnos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		rows []repo.TurnoConPaciente
		err  error
	)
	switch {
	case q.Get("desde") != "" && q.Get("hasta") != "":
		var desde, hasta time.Time
		if desde, err = dates.ParseISO(q.Get("desde")); err != nil {
			writeError(w, http.StatusBadRequest, "desde inválido")
			return
		}
		if hasta, err = dates.ParseISO(q.Get("hasta")); err != nil {
			writeError(w, http.StatusBadRequest, "hasta inválido")
			return
		}
		rows, err = repo.TurnosEntre(r.Context(), h.Pool, desde, hasta)
	case q.Get("fecha") != "":
		var fecha time.Time
		if fecha, err = dates.ParseISO(q.Get("fecha")); err != nil {
			writeError(w, http.StatusBadRequest, "fecha inválida")
			return
		}
		rows, err = repo.TurnosDelDia(r.Context(), h.Pool, fecha)
	default:
		rows, err = repo.TurnosDelDia(r.Context(), h.Pool, dates.StartOfDay(dates.Today()))
	}
	if err != nil {
		h.internalError(w, "listar turnos", err)
		return
	}
	out := make([]turnoOut, 0, len(rows))
	for i := range rows {
		out = append(out, aTurnoConPacienteOut(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTurno agenda un turno nuevo: paciente existente, fecha de hoy en
// adelante, hora dentro del horario de atención y slot libre.
func (h *Handler) CreateTurno(w http.ResponseWriter, r *http.Request) {
	var req TurnoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}
	pacienteID, err := uuid.Parse(strings.TrimSpace(req.PacienteID))
	if err != nil {
		writeError(w, http.StatusBadRequest, "paciente_id inválido")
		return
	}
	fecha, err := dates.ParseISO(req.Fecha)
	if err != nil {
		writeError(w, http.StatusBadRequest, "La fecha del turno no es válida.")
		return
	}
	if fecha.Before(dates.StartOfDay(dates.Today())) {
		writeError(w, http.StatusBadRequest, "No se pueden agendar turnos en fechas pasadas.")
		return
	}
	if !horaValida(req.Hora) {
		writeError(w, http.StatusBadRequest, "La hora debe estar entre 09:00 y 20:00, en intervalos de 5 minutos.")
		return
	}

	existe, err := repo.PacienteExiste(r.Context(), h.Pool, pacienteID)
	if err != nil {
		h.internalError(w, "verificar paciente", err)
		return
	}
	if !existe {
		http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
		return
	}

	hora := checks.NormalizeHora(req.Hora)
	ocupado, err := repo.SlotOcupado(r.Context(), h.Pool, fecha, hora)
	if err != nil {
		h.internalError(w, "verificar agenda", err)
		return
	}
	if ocupado {
		writeError(w, http.StatusConflict, "Ya hay un turno en ese horario.")
		return
	}

	id, err := repo.CreateTurno(r.Context(), h.Pool, repo.NuevoTurno{
		PacienteID: pacienteID,
		Fecha:      fecha,
		Hora:       hora,
		Estado:     repo.EstadoProgramado,
		Pago:       opcional(req.Pago),
		Notas:      opcional(req.Notas),
	})
	if err != nil {
		if validation.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, validation.FriendlyMessage(err))
			return
		}
		h.internalError(w, "crear turno", err)
		return
	}
	h.notifica(notify.Success, "Turno agendado para el "+dates.ToDisplay(fecha)+" a las "+hora+".")

	t, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		h.internalError(w, "releer turno", err)
		return
	}
	writeJSON(w, http.StatusCreated, aTurnoOut(t))
}

// UpdateTurno edita un turno. El estado solo avanza: de programado a
// completado o cancelado, nunca al revés.
func (h *Handler) UpdateTurno(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req TurnoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}

	actual, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"turno no encontrado"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "buscar turno", err)
		return
	}

	var fecha *time.Time
	if req.Fecha != "" {
		f, err := dates.ParseISO(req.Fecha)
		if err != nil {
			writeError(w, http.StatusBadRequest, "La fecha del turno no es válida.")
			return
		}
		fecha = &f
	}
	var hora *string
	if req.Hora != "" {
		if !horaValida(req.Hora) {
			writeError(w, http.StatusBadRequest, "La hora debe estar entre 09:00 y 20:00, en intervalos de 5 minutos.")
			return
		}
		hn := checks.NormalizeHora(req.Hora)
		hora = &hn
	}
	var estado *string
	if req.Estado != "" {
		if req.Estado != repo.EstadoProgramado && req.Estado != repo.EstadoCompletado && req.Estado != repo.EstadoCancelado {
			writeError(w, http.StatusBadRequest, "Estado desconocido.")
			return
		}
		if !transicionValida(actual.Estado, req.Estado) {
			writeError(w, http.StatusConflict, "Un turno "+actual.Estado+" no puede volver a "+req.Estado+".")
			return
		}
		estado = &req.Estado
	}

	// Si cambia fecha u hora, el slot nuevo tiene que estar libre.
	if fecha != nil || hora != nil {
		f := actual.Fecha
		if fecha != nil {
			f = *fecha
		}
		hr := checks.NormalizeHora(actual.Hora)
		if hora != nil {
			hr = *hora
		}
		isoNuevo, _ := dates.ToISO(f)
		isoActual, _ := dates.ToISO(actual.Fecha)
		if checks.SlotKey(isoNuevo, hr) != checks.SlotKey(isoActual, actual.Hora) {
			ocupado, err := repo.SlotOcupado(r.Context(), h.Pool, f, hr)
			if err != nil {
				h.internalError(w, "verificar agenda", err)
				return
			}
			if ocupado {
				writeError(w, http.StatusConflict, "Ya hay un turno en ese horario.")
				return
			}
		}
	}

	if err := repo.UpdateTurno(r.Context(), h.Pool, id, fecha, hora, estado, opcional(req.Pago), opcional(req.Notas)); err != nil {
		if validation.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, validation.FriendlyMessage(err))
			return
		}
		h.internalError(w, "actualizar turno", err)
		return
	}

	t, err := repo.TurnoByID(r.Context(), h.Pool, id)
	if err != nil {
		h.internalError(w, "releer turno", err)
		return
	}
	writeJSON(w, http.StatusOK, aTurnoOut(t))
}

func (h *Handler) DeleteTurno(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := repo.DeleteTurno(r.Context(), h.Pool, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"turno no encontrado"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "borrar turno", err)
		return
	}
	h.notifica(notify.Info, "Turno eliminado.")
	w.WriteHeader(http.StatusNoContent)
}
