// Package pdf genera los impresos del consultorio: la planilla diaria de
// turnos y el carnet de paciente.
package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/checks"
	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

// BuildPlanillaDiaria arma el PDF de los turnos no cancelados de un día,
// ordenados por hora. Cada fila muestra ficha, apellido, nombre, teléfono y
// hora; el pie lleva la fecha/hora de impresión y el número de página.
func BuildPlanillaDiaria(fecha time.Time, turnos []repo.TurnoConPaciente) ([]byte, error) {
	rows := make([]repo.TurnoConPaciente, 0, len(turnos))
	for _, t := range turnos {
		if t.Estado == repo.EstadoCancelado {
			continue
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Hora < rows[j].Hora })

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		impreso := fmt.Sprintf("Impreso el %s", time.Now().Format("02/01/2006 15:04"))
		pdf.CellFormat(0, 5, tr(impreso), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Turnos del día "+fecha.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := []float64{20, 50, 50, 40, 20}
	headers := []string{"Ficha", "Apellido", "Nombre", "Teléfono", "Hora"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range rows {
		ficha, tel := "", ""
		if t.PacienteFicha != nil {
			ficha = *t.PacienteFicha
		}
		if t.PacienteTelefono != nil {
			tel = *t.PacienteTelefono
		}
		cells := []string{ficha, t.PacienteApellido, t.PacienteNombre, tel, checks.NormalizeHora(t.Hora)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 8, tr("Sin turnos para la fecha."), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
