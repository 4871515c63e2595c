package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
)

// emailRegex valida formato de e-mail (una @ y dominio con punto).
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneStrip saca espacios, paréntesis y guiones antes de contar dígitos.
var phoneStrip = regexp.MustCompile(`[\s()\-]`)

// Los campos opcionales validan en true con entrada vacía: la validación es
// opt-in, el vacío se resuelve con los chequeos de campo obligatorio.

// IsValidEmail informa si s es un e-mail con formato razonable. Vacío → true.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return emailRegex.MatchString(s)
}

// IsValidPhone informa si s, sin separadores, tiene entre 8 y 15 dígitos.
// Vacío → true. Se acepta un "+" inicial.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	clean := phoneStrip.ReplaceAllString(s, "")
	clean = strings.TrimPrefix(clean, "+")
	if len(clean) < 8 || len(clean) > 15 {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizePhone saca solo separadores, sin validar cantidad de dígitos.
// Se usa para claves de comparación, no para aceptar/rechazar.
func NormalizePhone(s string) string {
	return phoneStrip.ReplaceAllString(strings.TrimSpace(s), "")
}

// IsDateNotFuture informa si la fecha ISO no es posterior a hoy. La
// comparación es contra el fin del día actual (23:59:59 local), así "hoy"
// pasa siempre sin importar la hora. Vacío → true; fecha malformada → false.
func IsDateNotFuture(dateStr string) bool {
	if strings.TrimSpace(dateStr) == "" {
		return true
	}
	d, err := dates.ParseISO(dateStr)
	if err != nil {
		return false
	}
	endOfToday := dates.StartOfDay(time.Now()).Add(24*time.Hour - time.Millisecond)
	return !d.After(endOfToday)
}

// IsWithinLength informa si s no supera max caracteres. Vacío → true.
func IsWithinLength(s string, max int) bool {
	if s == "" {
		return true
	}
	return len([]rune(s)) <= max
}

// IsRequired informa si s tiene contenido después de recortar espacios.
func IsRequired(s string) bool {
	return strings.TrimSpace(s) != ""
}
