package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

// buildBOMExportData fetches a BOM with its project and lines, returning the
// flat structure all three export formats consume. Exported quantities are
// the effective ones, so manual overrides survive into the files.
func buildBOMExportData(app *pocketbase.PocketBase, bomID string) (services.BOMExportData, error) {
	bom, err := app.FindRecordById("project_boms", bomID)
	if err != nil {
		return services.BOMExportData{}, fmt.Errorf("BOM not found: %w", err)
	}

	project, err := app.FindRecordById("projects", bom.GetString("project"))
	if err != nil {
		return services.BOMExportData{}, fmt.Errorf("project not found: %w", err)
	}

	lineRecords := loadBOMLines(app, bom.Id)

	rows := make([]services.BOMExportRow, 0, len(lineRecords))
	reviewLines := make([]services.BOMLine, 0, len(lineRecords))
	for _, rec := range lineRecords {
		line := recordToBOMLine(rec)
		reviewLines = append(reviewLines, line)

		rows = append(rows, services.BOMExportRow{
			ItemCode:     line.ItemCode,
			Description:  line.Description,
			Category:     line.Category,
			Qty:          services.EffectiveQty(line, nil),
			SuggestedQty: line.SuggestedQty,
			Edited:       line.Edited,
			UOM:          line.UOM,
			UnitCost:     line.UnitCost,
			TotalCost:    services.LineTotal(line, nil),
		})
	}

	totals := services.CalcBOMTotals(reviewLines, nil)

	data := services.BOMExportData{
		ProjectName:    project.GetString("name"),
		Version:        bom.GetInt("version"),
		Status:         bom.GetString("status"),
		Rows:           rows,
		MaterialTotal:  totals.Material,
		LaborTotal:     totals.Labor,
		EquipmentTotal: totals.Equipment,
		GrandTotal:     totals.GrandTotal,
	}
	if dt := bom.GetDateTime("generated_at"); !dt.IsZero() {
		data.GeneratedDate = dt.Time().Format("02 Jan 2006")
	}
	if dt := bom.GetDateTime("approved_at"); !dt.IsZero() {
		data.ApprovedDate = dt.Time().Format("02 Jan 2006")
	}
	return data, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func exportFilename(data services.BOMExportData, ext string) string {
	return fmt.Sprintf("BOM_%s_v%d_%d.%s",
		sanitizeFilename(data.ProjectName), data.Version, time.Now().Year(), ext)
}

// HandleBOMExportCSV downloads one BOM version as a CSV file.
func HandleBOMExportCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildBOMExportData(app, e.Request.PathValue("bomId"))
		if err != nil {
			log.Printf("export_csv: %v", err)
			return notFound(e, "BOM not found")
		}

		csvBytes, err := services.GenerateCSV(data)
		if err != nil {
			log.Printf("export_csv: failed to generate: %v", err)
			return internalError(e, "Failed to generate CSV file")
		}

		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "csv")))
		e.Response.Write(csvBytes)
		return nil
	}
}

// HandleBOMExportExcel downloads one BOM version as an Excel workbook.
func HandleBOMExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildBOMExportData(app, e.Request.PathValue("bomId"))
		if err != nil {
			log.Printf("export_excel: %v", err)
			return notFound(e, "BOM not found")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return internalError(e, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleBOMExportPDF downloads one BOM version as a PDF document.
func HandleBOMExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildBOMExportData(app, e.Request.PathValue("bomId"))
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return notFound(e, "BOM not found")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return internalError(e, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}
