package render

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfTableWidth = 500.0
	pdfRowHeight  = 30.0
)

// PDFRenderer draws a centered title and a ruled fixed-width table. Rows
// beyond one page are clipped; the document does not paginate.
type PDFRenderer struct {
	available bool
}

// NewPDFRenderer probes the backend once so availability is an explicit
// startup fact instead of a render-time surprise.
func NewPDFRenderer() *PDFRenderer {
	probe := gofpdf.New("P", "pt", "A4", "")
	probe.AddPage()
	probe.SetFont("Arial", "", 10)
	return &PDFRenderer{available: probe.Error() == nil}
}

func (r *PDFRenderer) Format() string   { return "pdf" }
func (r *PDFRenderer) Ext() string      { return ".pdf" }
func (r *PDFRenderer) MimeType() string { return "application/pdf" }
func (r *PDFRenderer) Available() bool  { return r.available }

func (r *PDFRenderer) Render(path string, data *Data, title string) (int64, error) {
	if !r.available {
		return 0, fmt.Errorf("pdf renderer is not available")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 24, title, "", 1, "C", false, 0, "")
	pdf.Ln(12)

	if data.Empty() {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, pdfRowHeight, NoDataMessage, "", 1, "C", false, 0, "")
		return r.write(pdf, path)
	}

	headers, rows := data.Table()
	colWidth := pdfTableWidth / float64(len(headers))

	pageWidth, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	left := (pageWidth - pdfTableWidth) / 2

	pdf.SetX(left)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(224, 224, 224)
	for _, h := range headers {
		pdf.CellFormat(colWidth, pdfRowHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		// One page only: clip instead of spilling into an unruled overflow
		if pdf.GetY()+pdfRowHeight > pageHeight-bottomMargin {
			break
		}
		pdf.SetX(left)
		for _, cell := range row {
			pdf.CellFormat(colWidth, pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return r.write(pdf, path)
}

func (r *PDFRenderer) write(pdf *gofpdf.Fpdf, path string) (int64, error) {
	if err := pdf.OutputFileAndClose(path); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
