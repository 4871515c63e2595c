package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/auth"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

const (
	sesionDuracion = 24 * time.Hour
	maxIntentos    = 5
)

// Login valida credenciales contra la tabla usuarios. El espacio alrededor
// de email y password no es significativo. Credenciales malas y usuario
// inexistente responden lo mismo para no revelar qué cuentas existen.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Completá email y contraseña.")
		return
	}

	if h.Cache != nil && h.Cache.Incr("login:"+req.Email) > maxIntentos {
		writeError(w, http.StatusTooManyRequests, "Demasiados intentos. Esperá unos minutos.")
		return
	}

	u, err := repo.UsuarioByEmail(r.Context(), h.Pool, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "Email o contraseña incorrectos.")
			return
		}
		h.internalError(w, "login", err)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Email o contraseña incorrectos.")
		return
	}
	if !u.Confirmado {
		writeError(w, http.StatusForbidden, "La cuenta no está confirmada.")
		return
	}

	tok, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Email, sesionDuracion)
	if err != nil {
		h.internalError(w, "login: firmar token", err)
		return
	}
	if h.Cache != nil {
		h.Cache.Delete("login:" + req.Email)
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tok,
		ExpiresAt: time.Now().Add(sesionDuracion),
		User:      UserInfo{ID: u.ID.String(), Email: u.Email},
	})
}

// Me devuelve el usuario de la sesión, para que el front valide el token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserInfo{
		ID:    auth.UserIDFrom(r.Context()),
		Email: auth.EmailFrom(r.Context()),
	})
}
