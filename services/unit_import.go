package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ValidationError   `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		normalized := strings.ToLower(strings.TrimSpace(f.Label))
		labelToKey[normalized] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that our template adds for required fields
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateUnitFile parses and validates an uploaded unit file. Unit type
// codes and crew names are checked against the live catalogs.
func ValidateUnitFile(
	app *pocketbase.PocketBase,
	file io.Reader,
	fileName string,
) (*ValidationResult, error) {
	fields := UnitTemplateFields()

	// 1. Parse file based on extension
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	// 2. Map headers to field keys
	columnKeys, _ := mapHeadersToFields(headers, fields)

	// 3. Load reference catalogs
	typeCodes, err := loadUnitTypeCodeSet(app)
	if err != nil {
		return nil, fmt.Errorf("load unit types: %w", err)
	}
	crewNames := loadCrewNames(app)

	// 4. Validate each row
	result := &ValidationResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		var rowErrors []ValidationError

		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		code := rowData["unit_type_code"]
		if code == "" {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   "Unit Type Code",
				Message: "Unit Type Code is required",
			})
		} else if !typeCodes[code] {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   "Unit Type Code",
				Message: fmt.Sprintf("No unit type with code %q exists", code),
			})
		}

		if v := rowData["length"]; v != "" {
			length, err := strconv.ParseFloat(v, 64)
			if err != nil || length <= 0 {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Length (ft)",
					Message: "Length must be a positive number",
				})
			}
		}

		if v := rowData["status"]; v != "" && !containsString(UnitStatusOptions, v) {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   "Status",
				Message: fmt.Sprintf("Status must be one of: %s", strings.Join(UnitStatusOptions, ", ")),
			})
		}

		if v := rowData["crew"]; v != "" && !crewNames[v] {
			rowErrors = append(rowErrors, ValidationError{
				Row:     rowNum,
				Field:   "Crew",
				Message: fmt.Sprintf("No crew named %q found", v),
			})
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
	}

	// Compute summary
	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// CommitUnitImport creates unit records for every parsed row inside a single
// transaction: any save failure rolls the whole batch back, so a retry never
// duplicates rows. Rows whose unit type lookup fails (catalog changed between
// validate and commit) are skipped.
func CommitUnitImport(app *pocketbase.PocketBase, projectID string, rows []map[string]string) (int, error) {
	created := 0
	err := app.RunInTransaction(func(txApp core.App) error {
		unitsCol, err := txApp.FindCollectionByNameOrId("units")
		if err != nil {
			return fmt.Errorf("units collection not found: %w", err)
		}

		for _, rowData := range rows {
			typeRec, err := txApp.FindFirstRecordByData("unit_types", "code", rowData["unit_type_code"])
			if err != nil {
				continue
			}

			record := core.NewRecord(unitsCol)
			record.Set("project", projectID)
			record.Set("unit_type", typeRec.Id)

			if v := rowData["length"]; v != "" {
				if length, err := strconv.ParseFloat(v, 64); err == nil {
					record.Set("length", length)
				}
			}

			status := rowData["status"]
			if status == "" {
				status = "not_started"
			}
			record.Set("status", status)

			if v := rowData["crew"]; v != "" {
				if crewRec, err := txApp.FindFirstRecordByData("crews", "name", v); err == nil {
					record.Set("crew", crewRec.Id)
				}
			}

			record.Set("notes", rowData["notes"])

			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("save unit: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// loadUnitTypeCodeSet fetches all unit type codes as a lookup set.
func loadUnitTypeCodeSet(app *pocketbase.PocketBase) (map[string]bool, error) {
	col, err := app.FindCollectionByNameOrId("unit_types")
	if err != nil {
		return nil, err
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]bool, len(records))
	for _, r := range records {
		if code := r.GetString("code"); code != "" {
			codes[code] = true
		}
	}
	return codes, nil
}

// loadCrewNames fetches all crew names as a lookup set.
func loadCrewNames(app *pocketbase.PocketBase) map[string]bool {
	col, err := app.FindCollectionByNameOrId("crews")
	if err != nil {
		return map[string]bool{}
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return map[string]bool{}
	}
	names := make(map[string]bool, len(records))
	for _, r := range records {
		if name := r.GetString("name"); name != "" {
			names[name] = true
		}
	}
	return names
}
