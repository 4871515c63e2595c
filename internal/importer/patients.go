package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/validation"
)

// PacienteLegacy es una fila de pacientes del export viejo ya mapeada a
// campos lógicos, antes de reconciliar contra la base.
type PacienteLegacy struct {
	Nombre          string
	Apellido        string
	Telefono        string
	Email           string
	FechaNacimiento string // yyyy-MM-dd o vacío
	Ficha           string
	Notas           string
}

var errSinNombre = errors.New("fila sin nombre de paciente")

// SplitNombre separa un campo combinado. "Apellido, Nombre" corta en la
// primera coma; sin coma, el primer token es el apellido y el resto el
// nombre (convención del sistema viejo: apellido primero).
func SplitNombre(s string) (apellido, nombre string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ","); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

var noTelefono = regexp.MustCompile(`[^0-9+\s()\-]`)

// CleanPhone normaliza un teléfono legado: saca basura y separadores,
// antepone +54 a los números locales de 10 dígitos y descarta lo que quede
// con menos de 8 dígitos.
func CleanPhone(s string) string {
	s = noTelefono.ReplaceAllString(strings.TrimSpace(s), "")
	s = validation.NormalizePhone(s)
	plus := strings.HasPrefix(s, "+")
	digits := strings.TrimPrefix(s, "+")
	if !plus {
		// Prefijo interurbano legado.
		digits = strings.TrimPrefix(digits, "0")
	}
	if len(digits) < 8 {
		return ""
	}
	if plus {
		return "+" + digits
	}
	switch {
	case strings.HasPrefix(digits, "54") && len(digits) >= 12:
		return "+" + digits
	case len(digits) == 10:
		return "+54" + digits
	}
	return digits
}

var formatosFecha = []string{"02/01/2006", "2006-01-02", "02-01-2006", "2/1/2006"}

// FechaNacimientoDe resuelve la fecha de nacimiento: primero la columna de
// fecha, acotada a [año actual − 120, año actual]; si falta o no parsea, se
// aproxima desde la edad (1 de enero de añoActual − edad) cuando la edad
// está en [0, 120]. Devuelve yyyy-MM-dd o vacío.
func FechaNacimientoDe(fechaStr, edadStr string, now time.Time) string {
	añoActual := now.Year()
	if f := strings.TrimSpace(fechaStr); f != "" {
		for _, layout := range formatosFecha {
			d, err := time.ParseInLocation(layout, f, time.Local)
			if err != nil {
				continue
			}
			if d.Year() >= añoActual-120 && d.Year() <= añoActual {
				iso, err := dates.ToISO(d)
				if err == nil {
					return iso
				}
			}
		}
	}
	if e := strings.TrimSpace(edadStr); e != "" {
		edad, err := strconv.Atoi(e)
		if err == nil && edad >= 0 && edad <= 120 {
			return fmt.Sprintf("%04d-01-01", añoActual-edad)
		}
	}
	return ""
}

// ParsePacienteRow mapea una fila cruda a PacienteLegacy. Solo el nombre es
// obligatorio; el resto de los campos se toma si está.
func ParsePacienteRow(r Row, now time.Time) (*PacienteLegacy, error) {
	apellido := r.First(aliasApellido...)
	nombre := ""
	if apellido != "" {
		nombre = r.First(aliasNombre...)
	} else {
		apellido, nombre = SplitNombre(r.First(aliasNombreCompleto...))
	}
	if apellido == "" && nombre == "" {
		return nil, errSinNombre
	}
	ficha := strings.TrimSpace(r.First(aliasFicha...))
	if ficha == "0" {
		ficha = ""
	}
	return &PacienteLegacy{
		Nombre:          nombre,
		Apellido:        apellido,
		Telefono:        CleanPhone(r.First(aliasTelefono...)),
		Email:           strings.TrimSpace(r.First(aliasEmail...)),
		FechaNacimiento: FechaNacimientoDe(r.First(aliasFechaNac...), r.First(aliasEdad...), now),
		Ficha:           ficha,
		Notas:           r.First(aliasNotas...),
	}, nil
}

// Tipos de acción que el plan de import puede decidir por fila.
const (
	AccionInsertar   = "insertar"
	AccionActualizar = "actualizar"
	AccionOmitir     = "omitir"
)

// Accion es la decisión de reconciliación para una fila legada.
type Accion struct {
	Tipo           string
	ID             uuid.UUID // destino del update
	Datos          repo.NuevoPaciente
	FichaConflicto bool // la ficha del CSV ya pertenecía a otro paciente
}

// Reconciler cruza filas legadas contra los pacientes ya cargados. La clave
// primaria de matcheo es (nombre, apellido) sin mayúsculas; la secundaria,
// (nombre, teléfono normalizado), evita reinsertar filas ya migradas cuando
// el nombre vino escrito distinto.
type Reconciler struct {
	porNombre    map[string]repo.Paciente
	porNombreTel map[string]repo.Paciente
	dueñoDeFicha map[string]uuid.UUID
}

func NewReconciler(existentes []repo.Paciente) *Reconciler {
	rc := &Reconciler{
		porNombre:    make(map[string]repo.Paciente, len(existentes)),
		porNombreTel: make(map[string]repo.Paciente, len(existentes)),
		dueñoDeFicha: make(map[string]uuid.UUID, len(existentes)),
	}
	for _, p := range existentes {
		rc.porNombre[checks.NameKey(p.Nombre, p.Apellido)] = p
		if p.Telefono != nil && *p.Telefono != "" {
			k := strings.ToLower(strings.TrimSpace(p.Nombre)) + "|" + validation.NormalizePhone(*p.Telefono)
			rc.porNombreTel[k] = p
		}
		if p.NumeroFicha != nil && *p.NumeroFicha != "" && *p.NumeroFicha != "0" {
			rc.dueñoDeFicha[*p.NumeroFicha] = p.ID
		}
	}
	return rc
}

// Match busca el paciente existente que corresponde a la fila, o nil.
func (rc *Reconciler) Match(p *PacienteLegacy) *repo.Paciente {
	if m, ok := rc.porNombre[checks.NameKey(p.Nombre, p.Apellido)]; ok {
		return &m
	}
	if p.Telefono != "" {
		k := strings.ToLower(strings.TrimSpace(p.Nombre)) + "|" + validation.NormalizePhone(p.Telefono)
		if m, ok := rc.porNombreTel[k]; ok {
			return &m
		}
	}
	return nil
}

func opcional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Plan decide la acción por fila. El CSV manda sobre la ficha, salvo que esa
// ficha ya sea de otro paciente: ahí se suelta la ficha y se marca el
// conflicto en vez de pisar o reasignar.
func (rc *Reconciler) Plan(rows []*PacienteLegacy) []Accion {
	acciones := make([]Accion, 0, len(rows))
	for _, row := range rows {
		existente := rc.Match(row)

		ficha := row.Ficha
		conflicto := false
		if ficha != "" {
			dueño, tomada := rc.dueñoDeFicha[ficha]
			if tomada && (existente == nil || dueño != existente.ID) {
				ficha = ""
				conflicto = true
			}
		}

		datos := repo.NuevoPaciente{
			Nombre:          row.Nombre,
			Apellido:        row.Apellido,
			Telefono:        opcional(row.Telefono),
			Email:           opcional(row.Email),
			FechaNacimiento: opcional(row.FechaNacimiento),
			NumeroFicha:     opcional(ficha),
			Notas:           opcional(row.Notas),
		}

		if existente == nil {
			acciones = append(acciones, Accion{Tipo: AccionInsertar, Datos: datos, FichaConflicto: conflicto})
			if ficha != "" {
				// Reservada para que otra fila del mismo CSV no la repita.
				rc.dueñoDeFicha[ficha] = uuid.Nil
			}
			continue
		}

		// Al actualizar se conservan los campos médicos ya cargados; el CSV
		// viejo no los trae.
		datos.Diagnostico = existente.Diagnostico
		datos.Tratamiento = existente.Tratamiento
		datos.Alergias = existente.Alergias
		datos.Medicamentos = existente.Medicamentos
		datos.Antecedentes = existente.Antecedentes
		if datos.NumeroFicha == nil {
			datos.NumeroFicha = existente.NumeroFicha
		}
		if datos.Telefono == nil {
			datos.Telefono = existente.Telefono
		}
		if datos.Email == nil {
			datos.Email = existente.Email
		}
		if datos.FechaNacimiento == nil {
			datos.FechaNacimiento = existente.FechaNacimiento
		}
		if datos.Notas == nil {
			datos.Notas = existente.Notas
		}
		acciones = append(acciones, Accion{Tipo: AccionActualizar, ID: existente.ID, Datos: datos, FichaConflicto: conflicto})
		if ficha != "" {
			rc.dueñoDeFicha[ficha] = existente.ID
		}
	}
	return acciones
}
