package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true}, // opcional: vacío es válido
		{"a@b.com", true},
		{"maria+turnos@clinica.com.ar", true},
		{"a@", false},
		{"@b.com", false},
		{"a@b", false},
		{"a b@c.com", false},
	}
	for _, c := range cases {
		if got := IsValidEmail(c.in); got != c.want {
			t.Fatalf("IsValidEmail(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"336-4535352", true},
		{"(0336) 453-5352", true},
		{"+54 9 336 4535352", true},
		{"1234567", false},          // 7 dígitos
		{"1234567890123456", false}, // 16 dígitos
		{"336-ABC-5352", false},
	}
	for _, c := range cases {
		if got := IsValidPhone(c.in); got != c.want {
			t.Fatalf("IsValidPhone(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone(" (0336) 453-5352 "); got != "03364535352" {
		t.Fatalf("NormalizePhone = %q", got)
	}
	// No valida cantidad de dígitos: es clave de comparación.
	if got := NormalizePhone("12-3"); got != "123" {
		t.Fatalf("NormalizePhone = %q", got)
	}
}

func TestIsDateNotFuture(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	if !IsDateNotFuture("") {
		t.Fatal("vacío debe ser válido")
	}
	if !IsDateNotFuture(today) {
		t.Fatal("hoy debe pasar siempre, sin importar la hora")
	}
	if !IsDateNotFuture(yesterday) {
		t.Fatal("ayer debe pasar")
	}
	if IsDateNotFuture(tomorrow) {
		t.Fatal("mañana no debe pasar")
	}
	if IsDateNotFuture("no-es-fecha") {
		t.Fatal("malformada no debe pasar")
	}
}

func TestIsWithinLength(t *testing.T) {
	if !IsWithinLength("", 5) {
		t.Fatal("vacío debe ser válido")
	}
	if !IsWithinLength("abcde", 5) {
		t.Fatal("longitud exacta debe ser válida")
	}
	if IsWithinLength("abcdef", 5) {
		t.Fatal("excedido no debe ser válido")
	}
	// Conteo por runas, no por bytes.
	if !IsWithinLength("ñandú", 5) {
		t.Fatal("conteo debe ser por caracteres")
	}
}

func TestIsNetworkError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("TypeError: Failed to fetch"), true},
		{errors.New("network unreachable"), true},
		{errors.New("error de conexión con el servidor"), true},
		{errors.New("context deadline exceeded (timeout)"), true},
		{errors.New("columna inexistente"), false},
	}
	for _, c := range cases {
		if got := IsNetworkError(c.err); got != c.want {
			t.Fatalf("IsNetworkError(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestFriendlyMessagePgCodes(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"23505", "Ya existe un registro con ese valor único (ficha o turno duplicado)."},
		{"23503", "El registro hace referencia a un paciente que no existe."},
		{"23502", "Falta completar un campo obligatorio."},
	}
	for _, c := range cases {
		err := &pgconn.PgError{Code: c.code, Message: "detalle interno"}
		if got := FriendlyMessage(err); got != c.want {
			t.Fatalf("FriendlyMessage(%s) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestFriendlyMessageKnownSubstrings(t *testing.T) {
	if got := FriendlyMessage(pgx.ErrNoRows); got != "Registro no encontrado." {
		t.Fatalf("ErrNoRows: %q", got)
	}
	if got := FriendlyMessage(errors.New("JWT expired")); got != "La sesión expiró. Volvé a iniciar sesión." {
		t.Fatalf("jwt expired: %q", got)
	}
	if got := FriendlyMessage(errors.New("Invalid login credentials")); got != "Credenciales inválidas." {
		t.Fatalf("credentials: %q", got)
	}
	if got := FriendlyMessage(errors.New("Email not confirmed")); got != "El e-mail todavía no fue confirmado." {
		t.Fatalf("not confirmed: %q", got)
	}
	if got := FriendlyMessage(errors.New("Too many requests")); got != "Demasiados intentos. Esperá un momento y probá de nuevo." {
		t.Fatalf("too many: %q", got)
	}
	// Sin coincidencia: cae al mensaje crudo.
	if got := FriendlyMessage(errors.New("algo raro pasó")); got != "algo raro pasó" {
		t.Fatalf("raw fallback: %q", got)
	}
	if got := FriendlyMessage(nil); got != GenericMessage {
		t.Fatalf("nil: %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 debe ser violación única")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("23503 no es violación única")
	}
	if IsUniqueViolation(errors.New("x")) {
		t.Fatal("error genérico no es violación única")
	}
}
