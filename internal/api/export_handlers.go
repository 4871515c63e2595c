package api

import (
	"errors"
	"net/http"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/export"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/pdf"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

func (h *Handler) descarga(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(body)
}

// ExportPacientesCSV descarga todos los pacientes en CSV.
func (h *Handler) ExportPacientesCSV(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListPacientes(r.Context(), h.Pool)
	if err != nil {
		h.internalError(w, "listar pacientes", err)
		return
	}
	out, err := export.PacientesCSV(list)
	if err != nil {
		if errors.Is(err, export.ErrSinRegistros) {
			writeError(w, http.StatusNotFound, "No hay registros para exportar.")
			return
		}
		h.internalError(w, "exportar csv", err)
		return
	}
	h.descarga(w, "text/csv; charset=utf-8", export.FileName("pacientes", "csv"), out)
}

// ExportPacientesJSON descarga el respaldo JSON de pacientes.
func (h *Handler) ExportPacientesJSON(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListPacientes(r.Context(), h.Pool)
	if err != nil {
		h.internalError(w, "listar pacientes", err)
		return
	}
	out, err := export.PacientesJSON(list)
	if err != nil {
		if errors.Is(err, export.ErrSinRegistros) {
			writeError(w, http.StatusNotFound, "No hay registros para exportar.")
			return
		}
		h.internalError(w, "exportar json", err)
		return
	}
	h.descarga(w, "application/json", export.FileName("pacientes", "json"), out)
}

// ExportTurnosPDF descarga la planilla diaria de turnos (?fecha=yyyy-MM-dd,
// por defecto hoy).
func (h *Handler) ExportTurnosPDF(w http.ResponseWriter, r *http.Request) {
	fecha := dates.StartOfDay(dates.Today())
	if q := r.URL.Query().Get("fecha"); q != "" {
		f, err := dates.ParseISO(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "fecha inválida")
			return
		}
		fecha = f
	}
	rows, err := repo.TurnosDelDia(r.Context(), h.Pool, fecha)
	if err != nil {
		h.internalError(w, "listar turnos", err)
		return
	}
	out, err := pdf.BuildPlanillaDiaria(fecha, rows)
	if err != nil {
		h.internalError(w, "generar planilla", err)
		return
	}
	h.descarga(w, "application/pdf", export.PDFFileName(fecha), out)
}
