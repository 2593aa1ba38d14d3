package report

import (
	"fmt"
	"io"

	"vehicle-fit/internal/domain"

	"github.com/xuri/excelize/v2"
)

const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetStyles struct {
	header       int
	recommended  int
	insufficient int
}

// WriteExcel writes a workbook with one sheet per table. The recommended
// vehicle is highlighted green and vehicles that need more trips red.
func WriteExcel(w io.Writer, eval *domain.Evaluation) error {
	tables, err := Tables(eval)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", t.Name, err)
		}
		if err := writeSheet(f, t, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", t.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0F7FA"}},
	})
	if err != nil {
		return s, err
	}
	s.recommended, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#90EE90"}},
	})
	if err != nil {
		return s, err
	}
	s.insufficient, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFCCCC"}},
	})
	return s, err
}

func writeSheet(f *excelize.File, t Table, styles sheetStyles) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Name, "A1", lastCol+"1", styles.header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		rowNum := i + 2
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
			return err
		}

		style := 0
		switch t.Marks[i] {
		case MarkRecommended:
			style = styles.recommended
		case MarkInsufficient:
			style = styles.insufficient
		}
		if style != 0 {
			end := fmt.Sprintf("%s%d", lastCol, rowNum)
			if err := f.SetCellStyle(t.Name, cell, end, style); err != nil {
				return err
			}
		}
	}

	return f.SetColWidth(t.Name, "A", lastCol, 16)
}
