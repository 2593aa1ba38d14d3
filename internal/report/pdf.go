package report

import (
	"fmt"
	"io"

	"vehicle-fit/internal/domain"

	"github.com/go-pdf/fpdf"
)

const PDFContentType = "application/pdf"

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	marginLeft   = 10.0
	marginRight  = 10.0
	marginTop    = 12.0
	marginBottom = 12.0
	rowHeight    = 6.0
	headerHeight = 10.0
)

// pdfVehicleColumns picks the vehicle table columns that fit on a page.
var pdfVehicleColumns = []int{0, 1, 4, 5, 7, 10, 11, 14, 16}

// WritePDF renders a printable summary: load totals, the ranked vehicles
// and the load list.
func WritePDF(w io.Writer, eval *domain.Evaluation) error {
	tables, err := Tables(eval)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, headerHeight, "Vehicle feasibility", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	summary := fmt.Sprintf("Loads: %d | Units: %d | Total weight: %.2f kg | Total volume: %.3f m3 | Computed: %s",
		len(eval.Loads), eval.Totals.Quantity, eval.Totals.WeightKg, eval.Totals.VolumeM3,
		eval.ComputedAt.Format("2006-01-02 15:04 MST"))
	pdf.CellFormat(0, rowHeight, tr(summary), "", 1, "L", false, 0, "")
	if best, ok := eval.Recommended(); ok {
		pdf.SetFont("Helvetica", "B", 10)
		line := fmt.Sprintf("Recommended: %s (viability %.2f%%)", best.Vehicle, best.Viability)
		pdf.CellFormat(0, rowHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	renderTable(pdf, tr, project(tables[0], pdfVehicleColumns))
	pdf.Ln(6)
	renderTable(pdf, tr, tables[1])

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

// project keeps only the given column indexes of t.
func project(t Table, columns []int) Table {
	out := Table{Name: t.Name, Marks: t.Marks}
	for _, c := range columns {
		out.Header = append(out.Header, t.Header[c])
	}
	for _, row := range t.Rows {
		projected := make([]any, 0, len(columns))
		for _, c := range columns {
			projected = append(projected, row[c])
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

func renderTable(pdf *fpdf.Fpdf, tr func(string) string, t Table) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, rowHeight+1, tr(t.Name), "", 1, "L", false, 0, "")

	widths := columnWidths(len(t.Header))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(224, 247, 250)
	for i, h := range t.Header {
		pdf.CellFormat(widths[i], rowHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range t.Rows {
		fill := true
		switch t.Marks[i] {
		case MarkRecommended:
			pdf.SetFillColor(144, 238, 144)
		case MarkInsufficient:
			pdf.SetFillColor(255, 204, 204)
		default:
			fill = false
		}
		for j, v := range row {
			align := "R"
			if _, ok := v.(string); ok {
				align = "L"
			}
			pdf.CellFormat(widths[j], rowHeight, tr(formatCell(v)), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

// columnWidths gives the second column (the name) a double share.
func columnWidths(n int) []float64 {
	usable := pageWidth - marginLeft - marginRight
	unit := usable / float64(n+1)
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = unit
	}
	if n > 1 {
		widths[1] = unit * 2
	} else if n == 1 {
		widths[0] = usable
	}
	return widths
}

func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
