package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ProfileField is one labelled line of a record profile document.
type ProfileField struct {
	Label string
	Value string
}

// PDFExporter renders datasets and record profiles into PDFs. Non-Latin
// text support is bounded by the renderer's core fonts; that is a
// constraint of the underlying library, not of the record store.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 20) / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Profile is one record rendered as a labelled page.
type Profile struct {
	Title  string
	Fields []ProfileField
}

// RenderProfile creates a one-page labelled document for a single
// record, used for the per-student profile export.
func (e *PDFExporter) RenderProfile(title string, fields []ProfileField) ([]byte, error) {
	return e.RenderProfiles([]Profile{{Title: title, Fields: fields}})
}

// RenderProfiles creates a document with one page per record, used for
// the bulk profile export.
func (e *PDFExporter) RenderProfiles(profiles []Profile) ([]byte, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile export requires at least one record")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)

	for _, profile := range profiles {
		if len(profile.Fields) == 0 {
			return nil, fmt.Errorf("profile %q has no fields", profile.Title)
		}
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, strings.ToUpper(profile.Title), "", 1, "C", false, 0, "")
		pdf.Ln(6)

		for _, field := range profile.Fields {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(60, 9, field.Label, "1", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 11)
			pdf.CellFormat(120, 9, field.Value, "1", 1, "", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render profile pdf: %w", err)
	}
	return buf.Bytes(), nil
}
