package validation

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// La clasificación de errores del store y del login es por sub-cadena sobre
// mensajes de texto libre. Para que la política sea dato y no control de
// flujo, ambas tablas son listas ordenadas de (patrón, resultado): gana la
// primera coincidencia.

// GenericMessage es el mensaje para errores inesperados; el detalle queda en
// el log del servidor, nunca en la respuesta.
const GenericMessage = "Ocurrió un error inesperado. Intentá de nuevo."

// códigos de error de PostgreSQL que se muestran con mensaje propio.
var pgCodeMessages = []struct {
	code string
	msg  string
}{
	{"23505", "Ya existe un registro con ese valor único (ficha o turno duplicado)."},
	{"23503", "El registro hace referencia a un paciente que no existe."},
	{"23502", "Falta completar un campo obligatorio."},
}

// sub-cadenas de mensajes conocidos (proveedor de auth / cliente del store).
var messageTable = []struct {
	substr string
	msg    string
}{
	{"jwt expired", "La sesión expiró. Volvé a iniciar sesión."},
	{"invalid login credentials", "Credenciales inválidas."},
	{"email not confirmed", "El e-mail todavía no fue confirmado."},
	{"too many requests", "Demasiados intentos. Esperá un momento y probá de nuevo."},
}

// sub-cadenas que clasifican un fallo como transitorio de red.
var networkTable = []string{"fetch", "network", "conexión", "connection refused", "timeout"}

// IsNetworkError clasifica heurísticamente un error como transitorio de red,
// elegible para reintento iniciado por el usuario.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	m := strings.ToLower(err.Error())
	for _, s := range networkTable {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

// FriendlyMessage traduce errores del store y del proveedor de auth a un
// mensaje apto para mostrar. Orden de resolución: código de PostgreSQL,
// fila inexistente, tabla de sub-cadenas, mensaje crudo, genérico.
func FriendlyMessage(err error) string {
	if err == nil {
		return GenericMessage
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, e := range pgCodeMessages {
			if pgErr.Code == e.code {
				return e.msg
			}
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "Registro no encontrado."
	}
	m := strings.ToLower(err.Error())
	for _, e := range messageTable {
		if strings.Contains(m, e.substr) {
			return e.msg
		}
	}
	if raw := strings.TrimSpace(err.Error()); raw != "" {
		return raw
	}
	return GenericMessage
}

// IsUniqueViolation informa si err es una violación de índice único (23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation informa si err es una violación de clave foránea (23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
