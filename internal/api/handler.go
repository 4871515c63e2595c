// Package api expone la aplicación por HTTP: login, pacientes, turnos y
// exportaciones. Los handlers son métodos de Handler; el ruteo vive en
// router.go.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/cache"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/config"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/notify"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/validation"
)

type Handler struct {
	Pool   *pgxpool.Pool
	Cfg    *config.Config
	Cache  *cache.TTL
	Notify *notify.Service
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responde {"error": msg}. Para mensajes con contenido dinámico
// no alcanza el literal de http.Error.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError loguea el detalle del lado del servidor y responde el
// mensaje genérico, sin filtrar internals al cliente.
func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("[api] %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, validation.GenericMessage)
}

func (h *Handler) notifica(level notify.Level, msg string) {
	if h.Notify != nil {
		h.Notify.Publishf(level, msg)
	}
}
