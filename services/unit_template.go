package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column in a unit import Excel template.
type TemplateField struct {
	Key          string // internal name, matches PocketBase field name
	Label        string // human-readable header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string // e.g. "positive number", ""
	ExampleValue string // shown on the Instructions sheet
	Required     bool
}

// UnitTemplateFields returns the ordered list of columns for unit bulk imports.
func UnitTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "unit_type_code", Label: "Unit Type Code", Description: "Must match a code from the unit type catalog", FormatRule: "Exact match required", ExampleValue: "BORE", Required: true},
		{Key: "length", Label: "Length (ft)", Description: "Footage for line work; leave empty for marker units", FormatRule: "Positive number", ExampleValue: "250"},
		{Key: "status", Label: "Status", Description: "Work status (select from dropdown)", ExampleValue: "not_started"},
		{Key: "crew", Label: "Crew", Description: "Name of an existing crew assigned to this unit", FormatRule: "Exact match if set", ExampleValue: "Crew Alpha"},
		{Key: "notes", Label: "Notes", Description: "Free-form notes", ExampleValue: "Behind sidewalk, call before digging"},
	}
}

// GenerateUnitTemplate creates a downloadable .xlsx template for bulk unit
// import into a project. Unit type codes from the live catalog are offered
// as a dropdown.
func GenerateUnitTemplate(app *pocketbase.PocketBase) ([]byte, error) {
	fields := UnitTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Units"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheetName)

	// --- Styles ---
	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	// Write header row and set column widths.
	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := fmt.Sprintf("%s1", columns[i])

		headerText := field.Label
		if field.Required {
			headerText += " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if field.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	// Data validation dropdowns for unit type code and status.
	typeCodes := loadUnitTypeCodes(app)
	for i, field := range fields {
		col := columns[i]
		rangeRef := fmt.Sprintf("%s2:%s1048576", col, col)

		switch field.Key {
		case "unit_type_code":
			if len(typeCodes) > 0 {
				dv := excelize.NewDataValidation(true)
				dv.Sqref = rangeRef
				dv.SetDropList(typeCodes)
				f.AddDataValidation(sheetName, dv)
			}
		case "status":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(UnitStatusOptions)
			f.AddDataValidation(sheetName, dv)
		}
	}

	// Freeze header row.
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a second sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []TemplateField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Unit Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Field Name", "Required?", "Format Rule", "Description", "Example"}
	cols := columnLetters(len(instructionHeaders))
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		required := "Optional"
		if field.Required {
			required = "Required"
		}
		f.SetCellValue(instSheet, "A"+row, field.Label)
		f.SetCellValue(instSheet, "B"+row, required)
		f.SetCellValue(instSheet, "C"+row, field.FormatRule)
		f.SetCellValue(instSheet, "D"+row, field.Description)
		f.SetCellValue(instSheet, "E"+row, field.ExampleValue)
	}

	f.SetColWidth(instSheet, "A", "A", 20)
	f.SetColWidth(instSheet, "B", "B", 12)
	f.SetColWidth(instSheet, "C", "C", 24)
	f.SetColWidth(instSheet, "D", "D", 48)
	f.SetColWidth(instSheet, "E", "E", 30)
}

// columnLetters returns the first n Excel column letters (A, B, C, ...).
// Supports up to 26 columns, which is plenty for the import templates.
func columnLetters(n int) []string {
	letters := make([]string, n)
	for i := 0; i < n; i++ {
		letters[i] = string(rune('A' + i))
	}
	return letters
}

// loadUnitTypeCodes fetches all unit type codes for the template dropdown.
func loadUnitTypeCodes(app *pocketbase.PocketBase) []string {
	col, err := app.FindCollectionByNameOrId("unit_types")
	if err != nil {
		return nil
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil
	}
	codes := make([]string, 0, len(records))
	for _, r := range records {
		if code := r.GetString("code"); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
