// Package importer provides CSV and Excel import functionality for box
// lists. It supports automatic delimiter detection, flexible column mapping,
// and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/stowplan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Specs    []model.BoxSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Quantity int
	Length   int
	Width    int
	Height   int
	Weight   int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "type", "box", "box type", "description", "desc", "item", "label"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"length":   {"length", "len", "l", "x"},
	"width":    {"width", "w", "y"},
	"height":   {"height", "h", "z"},
	"weight":   {"weight", "weight kg", "kg", "mass"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Score: count how many rows have the same column count as the first row
		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Name:     -1,
		Quantity: -1,
		Length:   -1,
		Width:    -1,
		Height:   -1,
		Weight:   -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "name":
						if mapping.Name == -1 {
							mapping.Name = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
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
					}
				}
			}
		}
	}

	if !isHeader {
		// Fall back to positional mapping: Name, Qty, Length, Width, Height, Weight
		return ColumnMapping{
			Name:     0,
			Quantity: 1,
			Length:   2,
			Width:    3,
			Height:   4,
			Weight:   5,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a BoxSpec from a row using the given column mapping.
// Returns the spec, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, specCount int) (model.BoxSpec, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Type %d", specCount+1)
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.BoxSpec{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), ""
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.BoxSpec{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.BoxSpec{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		return model.BoxSpec{}, fmt.Sprintf("%s: Invalid length '%s' (whole mm expected)", rowLabel, lengthStr), ""
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.BoxSpec{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return model.BoxSpec{}, fmt.Sprintf("%s: Invalid width '%s' (whole mm expected)", rowLabel, widthStr), ""
	}

	heightStr := getCell(row, mapping.Height)
	if heightStr == "" {
		return model.BoxSpec{}, fmt.Sprintf("%s: Missing height value", rowLabel), ""
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil {
		return model.BoxSpec{}, fmt.Sprintf("%s: Invalid height '%s' (whole mm expected)", rowLabel, heightStr), ""
	}

	// Optional weight column
	var weight float64
	weightStr := getCell(row, mapping.Weight)
	if weightStr != "" {
		weight, err = strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return model.BoxSpec{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), ""
		}
	}

	spec := model.BoxSpec{
		Type:     name,
		Quantity: qty,
		Length:   length,
		Width:    width,
		Height:   height,
		Weight:   weight,
	}
	if err := spec.Validate(); err != nil {
		return model.BoxSpec{}, fmt.Sprintf("%s: %v", rowLabel, err), ""
	}

	return spec, "", ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports box specs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	result = importFromRows(records, "Line", result.Warnings)
	return result
}

// ImportCSVFromReader imports box specs from a CSV reader with a specific
// delimiter. This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports box specs from an Excel (.xlsx, .xls) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
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

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into box specs.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	// Detect columns from first row
	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		// Validate that required columns were found
		missing := []string{}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// No header: check if first row is numeric (positional mapping)
		if len(rows[0]) >= 5 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
				// First column after the name is not numeric - might be an
				// unrecognized header. Skip it but keep positional mapping.
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		spec, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Specs))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		if seen[spec.Type] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate box type '%s'", rowLabel, spec.Type))
		}
		seen[spec.Type] = true

		result.Specs = append(result.Specs, spec)
	}

	return result
}
