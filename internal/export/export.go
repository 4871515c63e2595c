// Package export serializa la lista de pacientes a CSV y JSON para respaldo
// y para llevar los datos a otro sistema. Son transformaciones de datos a
// texto, sin reglas de negocio.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/dates"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

// ErrSinRegistros se devuelve al exportar una lista vacía: un archivo vacío
// confunde más que un error claro.
var ErrSinRegistros = errors.New("no hay registros para exportar")

// utf8BOM al inicio del CSV para que Excel detecte la codificación y no
// rompa los acentos.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeaders son las columnas del CSV de pacientes, en orden.
var CSVHeaders = []string{
	"Nombre", "Apellido", "Teléfono", "Email", "Fecha de Nacimiento",
	"N° Ficha", "Notas", "Diagnóstico", "Tratamiento", "Alergias",
	"Medicamentos", "Antecedentes",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FileName arma el nombre de archivo <base>_<yyyy-MM-dd>.<ext> con la fecha
// local actual.
func FileName(base, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, time.Now().Format("2006-01-02"), ext)
}

// PacientesCSV genera el CSV de pacientes: UTF-8 con BOM, separado por coma,
// con comillas RFC 4180 donde haga falta (encoding/csv las pone solo).
func PacientesCSV(list []repo.Paciente) ([]byte, error) {
	if len(list) == 0 {
		return nil, ErrSinRegistros
	}
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeaders); err != nil {
		return nil, err
	}
	for _, p := range list {
		row := []string{
			p.Nombre, p.Apellido, deref(p.Telefono), deref(p.Email),
			deref(p.FechaNacimiento), deref(p.NumeroFicha), deref(p.Notas),
			deref(p.Diagnostico), deref(p.Tratamiento), deref(p.Alergias),
			deref(p.Medicamentos), deref(p.Antecedentes),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pacienteJSON es la forma pública de un paciente en la exportación.
type pacienteJSON struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Telefono        string `json:"telefono,omitempty"`
	Email           string `json:"email,omitempty"`
	FechaNacimiento string `json:"fecha_nacimiento,omitempty"`
	NumeroFicha     string `json:"numero_ficha,omitempty"`
	Notas           string `json:"notas,omitempty"`
	Diagnostico     string `json:"diagnostico,omitempty"`
	Tratamiento     string `json:"tratamiento,omitempty"`
	Alergias        string `json:"alergias,omitempty"`
	Medicamentos    string `json:"medicamentos,omitempty"`
	Antecedentes    string `json:"antecedentes,omitempty"`
}

// Backup es el documento JSON completo de la exportación.
type Backup struct {
	FechaExportacion string         `json:"fecha_exportacion"`
	TotalPacientes   int            `json:"total_pacientes"`
	Pacientes        []pacienteJSON `json:"pacientes"`
}

// PacientesJSON genera el respaldo JSON con encabezado de fecha y total.
func PacientesJSON(list []repo.Paciente) ([]byte, error) {
	if len(list) == 0 {
		return nil, ErrSinRegistros
	}
	out := Backup{
		FechaExportacion: time.Now().Format(time.RFC3339),
		TotalPacientes:   len(list),
		Pacientes:        make([]pacienteJSON, 0, len(list)),
	}
	for _, p := range list {
		out.Pacientes = append(out.Pacientes, pacienteJSON{
			ID:              p.ID.String(),
			Nombre:          p.Nombre,
			Apellido:        p.Apellido,
			Telefono:        deref(p.Telefono),
			Email:           deref(p.Email),
			FechaNacimiento: deref(p.FechaNacimiento),
			NumeroFicha:     deref(p.NumeroFicha),
			Notas:           deref(p.Notas),
			Diagnostico:     deref(p.Diagnostico),
			Tratamiento:     deref(p.Tratamiento),
			Alergias:        deref(p.Alergias),
			Medicamentos:    deref(p.Medicamentos),
			Antecedentes:    deref(p.Antecedentes),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// PDFFileName arma el nombre de la planilla diaria: turnos_<yyyy-MM-dd>.pdf.
func PDFFileName(fecha time.Time) string {
	iso, err := dates.ToISO(fecha)
	if err != nil {
		iso = time.Now().Format("2006-01-02")
	}
	return "turnos_" + iso + ".pdf"
}
