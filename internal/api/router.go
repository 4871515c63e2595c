package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/middleware"
)

// NewRouter arma las rutas de la aplicación. Todo lo que toca datos va
// detrás del login; health y ready quedan abiertos para los probes.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RequestID,
		middleware.Timeout(h.Cfg.RequestTimeoutSec),
		middleware.CORS(h.Cfg.CORSOrigins), middleware.Gzip)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := h.Pool.Ping(req.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "base de datos no disponible")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost, http.MethodOptions)

	priv := api.NewRoute().Subrouter()
	priv.Use(middleware.RequireAuthMiddleware(h.Cfg.JWTSecret))
	priv.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	priv.HandleFunc("/pacientes", h.ListPacientes).Methods(http.MethodGet)
	priv.HandleFunc("/pacientes", h.CreatePaciente).Methods(http.MethodPost)
	priv.HandleFunc("/pacientes/duplicados", h.Duplicados).Methods(http.MethodGet)
	priv.HandleFunc("/pacientes/{id}", h.GetPaciente).Methods(http.MethodGet)
	priv.HandleFunc("/pacientes/{id}", h.UpdatePaciente).Methods(http.MethodPut)
	priv.HandleFunc("/pacientes/{id}", h.DeletePaciente).Methods(http.MethodDelete)
	priv.HandleFunc("/pacientes/{id}/carnet", h.Carnet).Methods(http.MethodGet)

	priv.HandleFunc("/turnos", h.ListTurnos).Methods(http.MethodGet)
	priv.HandleFunc("/turnos", h.CreateTurno).Methods(http.MethodPost)
	priv.HandleFunc("/turnos/{id}", h.UpdateTurno).Methods(http.MethodPut)
	priv.HandleFunc("/turnos/{id}", h.DeleteTurno).Methods(http.MethodDelete)

	priv.HandleFunc("/export/pacientes.csv", h.ExportPacientesCSV).Methods(http.MethodGet)
	priv.HandleFunc("/export/pacientes.json", h.ExportPacientesJSON).Methods(http.MethodGet)
	priv.HandleFunc("/export/turnos.pdf", h.ExportTurnosPDF).Methods(http.MethodGet)

	return r
}
