package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/ficha"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/notify"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/pdf"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/validation"
)

// PacienteRequest es el cuerpo de alta y edición de pacientes.
type PacienteRequest struct {
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	NumeroFicha     string `json:"numero_ficha"`
	Notas           string `json:"notas"`
	Diagnostico     string `json:"diagnostico"`
	Tratamiento     string `json:"tratamiento"`
	Alergias        string `json:"alergias"`
	Medicamentos    string `json:"medicamentos"`
	Antecedentes    string `json:"antecedentes"`
}

const (
	maxNombre = 100
	maxNotas  = 2000
)

// validar devuelve el primer problema de campo encontrado, o "".
func (p *PacienteRequest) validar() string {
	switch {
	case !validation.IsRequired(p.Nombre):
		return "El nombre es obligatorio."
	case !validation.IsRequired(p.Apellido):
		return "El apellido es obligatorio."
	case !validation.IsWithinLength(p.Nombre, maxNombre) || !validation.IsWithinLength(p.Apellido, maxNombre):
		return "Nombre o apellido demasiado largos."
	case !validation.IsValidEmail(p.Email):
		return "El email no es válido."
	case !validation.IsValidPhone(p.Telefono):
		return "El teléfono no es válido."
	case p.FechaNacimiento != "" && !validation.IsDateNotFuture(p.FechaNacimiento):
		return "La fecha de nacimiento no puede ser futura."
	case !validation.IsWithinLength(p.Notas, maxNotas):
		return "Las notas superan el largo máximo."
	}
	return ""
}

func opcional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// opcionalFicha trata "" y "0" como sin ficha, igual que el detector de
// duplicados y el índice parcial: una ficha "0" nunca se guarda literal.
func opcionalFicha(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil
	}
	return &s
}

func (p *PacienteRequest) aNuevo() repo.NuevoPaciente {
	return repo.NuevoPaciente{
		Nombre:          strings.TrimSpace(p.Nombre),
		Apellido:        strings.TrimSpace(p.Apellido),
		Telefono:        opcional(p.Telefono),
		Email:           opcional(p.Email),
		FechaNacimiento: opcional(p.FechaNacimiento),
		NumeroFicha:     opcionalFicha(p.NumeroFicha),
		Notas:           opcional(p.Notas),
		Diagnostico:     opcional(p.Diagnostico),
		Tratamiento:     opcional(p.Tratamiento),
		Alergias:        opcional(p.Alergias),
		Medicamentos:    opcional(p.Medicamentos),
		Antecedentes:    opcional(p.Antecedentes),
	}
}

type pacienteOut struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Telefono        string `json:"telefono,omitempty"`
	Email           string `json:"email,omitempty"`
	FechaNacimiento string `json:"fecha_nacimiento,omitempty"`
	NumeroFicha     string `json:"numero_ficha,omitempty"`
	Notas           string `json:"notas,omitempty"`
	Diagnostico     string `json:"diagnostico,omitempty"`
	Tratamiento     string `json:"tratamiento,omitempty"`
	Alergias        string `json:"alergias,omitempty"`
	Medicamentos    string `json:"medicamentos,omitempty"`
	Antecedentes    string `json:"antecedentes,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func aPacienteOut(p *repo.Paciente) pacienteOut {
	return pacienteOut{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		Apellido:        p.Apellido,
		Telefono:        deref(p.Telefono),
		Email:           deref(p.Email),
		FechaNacimiento: deref(p.FechaNacimiento),
		NumeroFicha:     deref(p.NumeroFicha),
		Notas:           deref(p.Notas),
		Diagnostico:     deref(p.Diagnostico),
		Tratamiento:     deref(p.Tratamiento),
		Alergias:        deref(p.Alergias),
		Medicamentos:    deref(p.Medicamentos),
		Antecedentes:    deref(p.Antecedentes),
	}
}

const pacientesCacheKey = "pacientes:list"

func (h *Handler) ListPacientes(w http.ResponseWriter, r *http.Request) {
	if h.Cache != nil {
		if data := h.Cache.Get(pacientesCacheKey); data != nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
			return
		}
	}
	list, err := repo.ListPacientes(r.Context(), h.Pool)
	if err != nil {
		h.internalError(w, "listar pacientes", err)
		return
	}
	out := make([]pacienteOut, 0, len(list))
	for i := range list {
		out = append(out, aPacienteOut(&list[i]))
	}
	body, err := json.Marshal(out)
	if err != nil {
		h.internalError(w, "serializar pacientes", err)
		return
	}
	if h.Cache != nil {
		h.Cache.Set(pacientesCacheKey, body)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// invalidatePacientes tira el listado cacheado después de cada mutación.
func (h *Handler) invalidatePacientes() {
	if h.Cache != nil {
		h.Cache.DeletePrefix("pacientes:")
	}
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, `{"error":"id inválido"}`, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) GetPaciente(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "buscar paciente", err)
		return
	}
	writeJSON(w, http.StatusOK, aPacienteOut(p))
}

// CreatePaciente da de alta un paciente. Sin ficha en el pedido se asigna la
// siguiente del correlativo; la ficha repetida es un conflicto, no un 500.
func (h *Handler) CreatePaciente(w http.ResponseWriter, r *http.Request) {
	var req PacienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}
	if msg := req.validar(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	n := req.aNuevo()
	if n.NumeroFicha == nil {
		next := ficha.NextNumber(r.Context(), h.Pool)
		n.NumeroFicha = &next
	} else if otro, err := repo.PacientePorFicha(r.Context(), h.Pool, *n.NumeroFicha); err == nil && otro != nil {
		writeError(w, http.StatusConflict, "Ya existe un paciente con esa ficha.")
		return
	}

	id, err := repo.CreatePaciente(r.Context(), h.Pool, n)
	if err != nil {
		if validation.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, validation.FriendlyMessage(err))
			return
		}
		h.internalError(w, "crear paciente", err)
		return
	}
	h.invalidatePacientes()
	h.notifica(notify.Success, "Paciente "+n.Apellido+", "+n.Nombre+" creado.")

	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		h.internalError(w, "releer paciente", err)
		return
	}
	writeJSON(w, http.StatusCreated, aPacienteOut(p))
}

func (h *Handler) UpdatePaciente(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req PacienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}
	if msg := req.validar(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	n := req.aNuevo()
	if n.NumeroFicha != nil {
		if otro, err := repo.PacientePorFicha(r.Context(), h.Pool, *n.NumeroFicha); err == nil && otro.ID != id {
			writeError(w, http.StatusConflict, "Esa ficha ya pertenece a otro paciente.")
			return
		}
	}

	if err := repo.UpdatePaciente(r.Context(), h.Pool, id, n); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
		case validation.IsUniqueViolation(err):
			writeError(w, http.StatusConflict, validation.FriendlyMessage(err))
		default:
			h.internalError(w, "actualizar paciente", err)
		}
		return
	}
	h.invalidatePacientes()

	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		h.internalError(w, "releer paciente", err)
		return
	}
	writeJSON(w, http.StatusOK, aPacienteOut(p))
}

// DeletePaciente borra un paciente, salvo que tenga turnos programados.
func (h *Handler) DeletePaciente(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := repo.DeletePaciente(r.Context(), h.Pool, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrTurnosProgramados):
			writeError(w, http.StatusConflict, "El paciente tiene turnos programados. Cancelalos antes de borrarlo.")
		case errors.Is(err, pgx.ErrNoRows):
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
		default:
			h.internalError(w, "borrar paciente", err)
		}
		return
	}
	h.invalidatePacientes()
	h.notifica(notify.Info, "Paciente eliminado.")
	w.WriteHeader(http.StatusNoContent)
}

// Duplicados informa pares sospechosos por nombre y por ficha, para revisar
// antes de una limpieza.
func (h *Handler) Duplicados(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListPacientes(r.Context(), h.Pool)
	if err != nil {
		h.internalError(w, "listar pacientes", err)
		return
	}
	cp := make([]checks.Paciente, len(list))
	for i, p := range list {
		cp[i] = checks.Paciente{ID: p.ID.String(), Nombre: p.Nombre, Apellido: p.Apellido, Ficha: deref(p.NumeroFicha)}
	}
	type par struct {
		A pacienteOut `json:"a"`
		B pacienteOut `json:"b"`
	}
	arma := func(pares [][2]int) []par {
		out := make([]par, 0, len(pares))
		for _, pr := range pares {
			out = append(out, par{aPacienteOut(&list[pr[0]]), aPacienteOut(&list[pr[1]])})
		}
		return out
	}
	writeJSON(w, http.StatusOK, map[string][]par{
		"por_nombre": arma(checks.FindDuplicatePacientes(cp)),
		"por_ficha":  arma(checks.FindDuplicateFichas(cp)),
	})
}

// Carnet descarga el carnet del paciente en PDF.
func (h *Handler) Carnet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	p, err := repo.PacienteByID(r.Context(), h.Pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"paciente no encontrado"}`, http.StatusNotFound)
			return
		}
		h.internalError(w, "buscar paciente", err)
		return
	}
	out, err := pdf.BuildCarnet(p)
	if err != nil {
		h.internalError(w, "generar carnet", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="carnet_`+deref(p.NumeroFicha)+`.pdf"`)
	_, _ = w.Write(out)
}
