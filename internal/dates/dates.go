package dates

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate indica una fecha que no es un instante real del calendario
// o cuyo año queda fuera del rango [1900, 2100].
var ErrInvalidDate = errors.New("fecha inválida")

// InvalidDisplay es el texto que se muestra cuando una fecha no se puede
// formatear. ToDisplay lo devuelve en vez de fallar porque se usa en
// contextos de render donde un error rompería la pantalla.
const InvalidDisplay = "Fecha inválida"

const (
	minYear = 1900
	maxYear = 2100
)

var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var weekdayNames = [7]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Today devuelve el instante actual en el calendario civil local del proceso.
// Todo el cálculo de fechas de la agenda se hace en hora local, nunca vía UTC:
// parsear una fecha ISO como medianoche UTC cae en el día anterior para una
// clínica al oeste de Greenwich.
func Today() time.Time {
	return time.Now()
}

// StartOfDay devuelve la misma fecha calendario con la hora en 00:00:00.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsValidCalendar informa si t es un instante real con año en [1900, 2100],
// ambos extremos incluidos.
func IsValidCalendar(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	y := t.Year()
	return y >= minYear && y <= maxYear
}

// ToISO formatea como yyyy-MM-dd. Falla con ErrInvalidDate si la entrada no
// es una fecha válida (a diferencia de ToDisplay, que nunca falla).
func ToISO(t time.Time) (string, error) {
	if !IsValidCalendar(t) {
		return "", ErrInvalidDate
	}
	return t.Format("2006-01-02"), nil
}

// ToDisplay formatea como dd/MM/yyyy. Con entrada inválida devuelve el
// centinela InvalidDisplay en vez de fallar.
func ToDisplay(t time.Time) string {
	if !IsValidCalendar(t) {
		return InvalidDisplay
	}
	return t.Format("02/01/2006")
}

// ToMonthYear formatea como nombre de mes localizado + año, ej. "enero 2026".
func ToMonthYear(t time.Time) string {
	if !IsValidCalendar(t) {
		return InvalidDisplay
	}
	return fmt.Sprintf("%s %d", monthNames[int(t.Month())-1], t.Year())
}

// ParseISO interpreta yyyy-MM-dd como medianoche local. Falla con
// ErrInvalidDate ante entrada malformada o fuera de rango.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if !IsValidCalendar(t) {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Year extrae el año calendario. Falla con ErrInvalidDate si t es inválida.
func Year(t time.Time) (int, error) {
	if !IsValidCalendar(t) {
		return 0, ErrInvalidDate
	}
	return t.Year(), nil
}

// IsLeapYear aplica la regla gregoriana completa.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth devuelve la cantidad de días del mes. month0 es 0-based
// (0=enero, 1=febrero, ...); febrero devuelve 29 en años bisiestos.
// Fuera de rango devuelve 0.
func DaysInMonth(year, month0 int) int {
	if month0 < 0 || month0 > 11 {
		return 0
	}
	if month0 == 1 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month0]
}

// Info reúne los datos de calendario de una fecha para armar la grilla de la
// agenda: Weekday es 0-based con 0=domingo, Month es 1-based.
type Info struct {
	Formatted   string
	Year        int
	Month       int
	Day         int
	Weekday     int
	WeekdayName string
}

// WeekdayInfo devuelve los datos de calendario de t. Falla con ErrInvalidDate
// si t es inválida.
func WeekdayInfo(t time.Time) (Info, error) {
	if !IsValidCalendar(t) {
		return Info{}, ErrInvalidDate
	}
	wd := int(t.Weekday())
	return Info{
		Formatted:   t.Format("02/01/2006"),
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Weekday:     wd,
		WeekdayName: weekdayNames[wd],
	}, nil
}
