package export

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer draws the report on US-letter pages with the core Helvetica
// font.
type PDFRenderer struct{}

const (
	pdfMarginX    = 40.0
	pdfTop        = 50.0
	pdfLineStep   = 12.0
	pdfBottomStop = 60.0
)

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return "pdf" }

func (PDFRenderer) Render(title string, generated time.Time, lines []string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	width, height := pdf.GetPageSize()

	pdf.AddPage()
	y := pdfTop
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(pdfMarginX, y, tr(title))
	y += 20

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pdfMarginX, y, "Generated: "+generated.Format(TimeLayout))
	y += 8
	pdf.Line(pdfMarginX, y, width-pdfMarginX, y)
	y += 16

	pdf.SetFont("Courier", "", 7)
	for _, l := range lines {
		if y > height-pdfBottomStop {
			pdf.AddPage()
			pdf.SetFont("Courier", "", 7)
			y = pdfTop
		}
		pdf.Text(pdfMarginX, y, tr(l))
		y += pdfLineStep
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
