package importer

import "strings"

// Los exports legados no tienen encabezados estables: el mismo campo aparece
// como "Paciente", "Nombre" o "Name" según la versión del sistema viejo. El
// mapeo prueba una lista ordenada de alias por campo lógico y se queda con el
// primer valor no vacío.

var acentos = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
	"°", "", "º", "", ".", "",
)

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	h = acentos.Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// Row es una fila indexada por encabezado normalizado.
type Row map[string]string

// MapRow cruza encabezados y valores de una fila. Filas más cortas que el
// encabezado son normales en estos exports y se toleran.
func MapRow(headers, fields []string) Row {
	r := make(Row, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if key == "" || i >= len(fields) {
			continue
		}
		if _, ya := r[key]; !ya {
			r[key] = strings.TrimSpace(fields[i])
		}
	}
	return r
}

// First devuelve el primer valor no vacío entre los alias, en orden.
func (r Row) First(aliases ...string) string {
	for _, a := range aliases {
		if v := r[normalizeHeader(a)]; v != "" {
			return v
		}
	}
	return ""
}

// Alias por campo lógico, en orden de preferencia.
var (
	aliasNombreCompleto = []string{"Paciente", "Nombre y Apellido", "Apellido y Nombre", "Nombre", "Name"}
	aliasApellido       = []string{"Apellido", "Apellidos", "Surname"}
	aliasNombre         = []string{"Nombre", "Nombres", "Name"}
	aliasTelefono       = []string{"Teléfono", "Telefono", "Tel", "Celular", "Phone"}
	aliasEmail          = []string{"Email", "E-mail", "Correo", "Mail"}
	aliasFechaNac       = []string{"Fecha Nac", "Fecha de Nacimiento", "Fecha Nacimiento", "F. Nac", "Nacimiento"}
	aliasEdad           = []string{"Edad", "Age"}
	aliasFicha          = []string{"Ficha", "N Ficha", "Nro Ficha", "Numero Ficha", "Historia"}
	aliasNotas          = []string{"Obs", "Observaciones", "Notas", "Comentarios"}
	aliasFechaTurno     = []string{"Fecha", "Dia", "Fecha Turno", "Date"}
	aliasHoraTurno      = []string{"Hora", "Horario", "Time"}
	aliasEstadoTurno    = []string{"Estado", "Asistio", "Asistencia", "Status"}
	aliasPagoTurno      = []string{"Pago", "Pagado", "Abono"}
)
