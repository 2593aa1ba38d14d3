// Package importer reads load lists from CSV and Excel files.
// It detects the CSV delimiter, maps columns from English or Portuguese
// headers, and falls back to positional columns when no header is present.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vehicle-fit/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Loads    []domain.LoadItem
	Errors   []string
	Warnings []string
}

func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Loads) > 0
}

// ColumnMapping maps column roles to their indices in the data.
type ColumnMapping struct {
	Length   int
	Width    int
	Height   int
	Weight   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"length":   {"length", "length (m)", "len", "l", "comprimento", "comprimento (m)", "comp"},
	"width":    {"width", "width (m)", "w", "largura", "largura (m)", "larg"},
	"height":   {"height", "height (m)", "h", "altura", "altura (m)", "alt"},
	"weight":   {"weight", "unit weight", "unit weight (kg)", "weight (kg)", "kg", "peso", "peso unitário", "peso unitário (kg)", "peso (kg)"},
	"quantity": {"quantity", "qty", "count", "pcs", "pieces", "quantidade", "qtd", "qtde"},
}

// loadColumns is the width of a positional load row:
// length, width, height, weight, quantity.
const loadColumns = 5

// sniffRows caps how many records are read per candidate delimiter.
const sniffRows = 20

var csvDelimiters = []rune{',', ';', '\t', '|'}

// delimiterFit describes how well a delimiter splits the head of a file.
type delimiterFit struct {
	loadShaped int // rows with exactly loadColumns fields
	numeric    int // cells that read as a number
	consistent int // rows as wide as the first one
	width      int // fields in the first row
}

func (f delimiterFit) better(o delimiterFit) bool {
	if f.loadShaped != o.loadShaped {
		return f.loadShaped > o.loadShaped
	}
	if f.numeric != o.numeric {
		return f.numeric > o.numeric
	}
	if f.consistent != o.consistent {
		return f.consistent > o.consistent
	}
	return f.width > o.width
}

func fitDelimiter(data []byte, delim rune) (delimiterFit, bool) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var fit delimiterFit
	for n := 0; n < sniffRows; n++ {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if n == 0 {
			fit.width = len(row)
		}
		if len(row) == fit.width {
			fit.consistent++
		}
		if len(row) == loadColumns {
			fit.loadShaped++
		}
		for _, cell := range row {
			if isNumericCell(cell) {
				fit.numeric++
			}
		}
	}
	return fit, fit.width >= 2
}

// isNumericCell accepts both decimal separators, so "1,5" split on
// semicolons counts while "5;0" split on commas does not.
func isNumericCell(cell string) bool {
	_, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(cell), ",", ".", 1), 64)
	return err == nil
}

// DetectCSVDelimiter guesses the delimiter from the first rows of data.
// Rows shaped like a load line count first, then numeric cells, then rows
// agreeing with the first row's width. Comma is the fallback when nothing splits the data.
func DetectCSVDelimiter(data []byte) rune {
	best := ','
	var bestFit delimiterFit
	for _, delim := range csvDelimiters {
		fit, ok := fitDelimiter(data, delim)
		if ok && fit.better(bestFit) {
			best, bestFit = delim, fit
		}
	}
	return best
}

// DetectColumns examines a header row and returns a ColumnMapping. When no
// header is recognised it returns the positional mapping
// length, width, height, weight, quantity and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Length: -1, Width: -1, Height: -1, Weight: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				case "weight":
					if mapping.Weight == -1 {
						mapping.Weight = i
					}
				case "quantity":
					if mapping.Quantity == -1 {
						mapping.Quantity = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Length: 0, Width: 1, Height: 2, Weight: 3, Quantity: 4}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow turns one row into a load. A missing quantity defaults to 1.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (domain.LoadItem, string, string) {
	qty := getCell(row, mapping.Quantity)
	var warning string
	if qty == "" {
		qty = "1"
		warning = fmt.Sprintf("%s: Missing quantity, assuming 1", rowLabel)
	}

	item, err := domain.ParseLoad(
		getCell(row, mapping.Length),
		getCell(row, mapping.Width),
		getCell(row, mapping.Height),
		getCell(row, mapping.Weight),
		qty,
	)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), "\n", "; ")
		return domain.LoadItem{}, fmt.Sprintf("%s: %s", rowLabel, msg), ""
	}
	return item, "", warning
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV reads a CSV load list, detecting the delimiter. Semicolon files
// may use comma decimals ("1,25").
func ImportCSV(r io.Reader) ImportResult {
	result := ImportResult{}

	data, err := io.ReadAll(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportExcel reads the first sheet of an .xlsx workbook.
func ImportExcel(r io.Reader) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenReader(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// Import picks the reader from the file name extension.
func Import(filename string, r io.Reader) ImportResult {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return ImportExcel(r)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".txt"):
		return ImportCSV(r)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type: %s (use .csv or .xlsx)", filename)}}
	}
}

func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Weight == -1 {
			missing = append(missing, "Weight")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := domain.ParseMeasure(domain.FieldLength, getCell(rows[0], 0)); err != nil {
		// An unrecognised header: skip it, keep positional columns.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Loads = append(result.Loads, item)
	}

	if len(result.Loads) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
