package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

// HandleUnitTemplateDownload serves the bulk import Excel template with
// live dropdowns from the unit type catalog.
func HandleUnitTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateUnitTemplate(app)
		if err != nil {
			log.Printf("unit_import: failed to generate template: %v", err)
			return internalError(e, "Failed to generate template")
		}

		filename := fmt.Sprintf("unit_import_template_%d.xlsx", time.Now().Year())
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleUnitImportValidate parses an uploaded file and reports row-level
// validation results without writing anything.
func HandleUnitImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return badRequest(e, "Missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateUnitFile(app, file, header.Filename)
		if err != nil {
			return badRequest(e, err.Error())
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleUnitImportCommit re-validates an uploaded file and creates unit
// records for the valid rows. Files with any invalid row are rejected
// unless skip_errors=true, in which case only the valid rows import.
func HandleUnitImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return badRequest(e, "Missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateUnitFile(app, file, header.Filename)
		if err != nil {
			return badRequest(e, err.Error())
		}

		skipErrors := e.Request.URL.Query().Get("skip_errors") == "true"
		if result.ErrorRows > 0 && !skipErrors {
			return e.JSON(http.StatusBadRequest, result)
		}

		// Drop rows that failed validation before committing.
		errorRows := make(map[int]bool)
		for _, ve := range result.Errors {
			errorRows[ve.Row] = true
		}
		validRows := make([]map[string]string, 0, result.ValidRows)
		for i, row := range result.ParsedRows {
			if !errorRows[i+2] {
				validRows = append(validRows, row)
			}
		}

		created, err := services.CommitUnitImport(app, projectID, validRows)
		if err != nil {
			log.Printf("unit_import: commit failed, batch rolled back: %v", err)
			return internalError(e, "Import failed; no rows were saved")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"created":      created,
			"skipped_rows": result.ErrorRows,
		})
	}
}

// HandleUnitImportErrorReport parses an uploaded file and returns its
// validation errors as a downloadable spreadsheet.
func HandleUnitImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return badRequest(e, "Missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateUnitFile(app, file, header.Filename)
		if err != nil {
			return badRequest(e, err.Error())
		}

		xlsxBytes, err := services.GenerateErrorReport(result.Errors)
		if err != nil {
			log.Printf("unit_import: failed to generate error report: %v", err)
			return internalError(e, "Failed to generate error report")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="unit_import_errors.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
