package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cocomeza/quiro-agendaweb-sub001/internal/repo"
)

// BuildCarnet genera el carnet del paciente con sus datos y un QR con el
// número de ficha, para ubicar rápido la historia clínica en papel.
func BuildCarnet(p *repo.Paciente) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A6", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Consultorio Quiropraxia"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(2)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s, %s", p.Apellido, p.Nombre)), "", 1, "L", false, 0, "")

	ficha := ""
	if p.NumeroFicha != nil {
		ficha = *p.NumeroFicha
	}
	if ficha != "" && ficha != "0" {
		pdf.CellFormat(0, 7, tr("Ficha N° "+ficha), "", 1, "L", false, 0, "")
		qrPNG, err := qrcode.Encode("ficha:"+ficha, qrcode.Medium, 128)
		if err == nil {
			alias := "fichaqr"
			pdf.RegisterImageOptionsReader(alias, fpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrPNG))
			pdf.ImageOptions(alias, 105, 10, 30, 30, false, fpdf.ImageOptions{ImageType: "png"}, 0, "")
		}
	} else {
		pdf.CellFormat(0, 7, tr("Sin ficha asignada"), "", 1, "L", false, 0, "")
	}
	if p.Telefono != nil && *p.Telefono != "" {
		pdf.CellFormat(0, 7, tr("Tel: "+*p.Telefono), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
