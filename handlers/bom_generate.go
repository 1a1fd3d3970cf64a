package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

// loadUnitCatalog fetches the unit type catalog as engine input.
func loadUnitCatalog(app *pocketbase.PocketBase) ([]services.UnitTypeInfo, error) {
	col, err := app.FindCollectionByNameOrId("unit_types")
	if err != nil {
		return nil, err
	}
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, err
	}

	catalog := make([]services.UnitTypeInfo, 0, len(records))
	for _, r := range records {
		catalog = append(catalog, services.UnitTypeInfo{
			ID:       r.Id,
			Code:     r.GetString("code"),
			Name:     r.GetString("name"),
			Category: r.GetString("category"),
		})
	}
	return catalog, nil
}

// loadProjectUnits fetches a project's units in creation order as engine
// input. A zero length field means the unit carries no footage.
func loadProjectUnits(app *pocketbase.PocketBase, projectID string) ([]services.UnitInput, error) {
	records, err := app.FindRecordsByFilter(
		"units",
		"project = {:projectId}",
		"created", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return nil, err
	}

	units := make([]services.UnitInput, 0, len(records))
	for _, r := range records {
		length := r.GetFloat("length")
		units = append(units, services.UnitInput{
			ID:         r.Id,
			UnitTypeID: r.GetString("unit_type"),
			Length:     length,
			HasLength:  length > 0,
		})
	}
	return units, nil
}

// loadTemplates fetches all BOM templates with their lines, in catalog
// order. Catalog order decides the fallback template when no soil type
// matches, so the sort here must stay stable.
func loadTemplates(app *pocketbase.PocketBase) ([]services.Template, error) {
	col, err := app.FindCollectionByNameOrId("bom_templates")
	if err != nil {
		return nil, err
	}
	records, err := app.FindRecordsByFilter(col, "id != ''", "sort_order,created", 0, 0, nil)
	if err != nil {
		return nil, err
	}

	templates := make([]services.Template, 0, len(records))
	for _, r := range records {
		lineRecords, err := app.FindRecordsByFilter(
			"bom_template_lines",
			"template = {:id}",
			"sort_order", 0, 0,
			map[string]any{"id": r.Id},
		)
		if err != nil {
			lineRecords = nil
		}

		lines := make([]services.TemplateLine, 0, len(lineRecords))
		for _, l := range lineRecords {
			lines = append(lines, services.TemplateLine{
				ItemCode:    l.GetString("item_code"),
				Description: l.GetString("description"),
				UOM:         l.GetString("uom"),
				Category:    l.GetString("category"),
				Formula:     l.GetString("formula"),
				Multiplier:  l.GetFloat("multiplier"),
				UnitCost:    l.GetFloat("unit_cost"),
			})
		}

		templates = append(templates, services.Template{
			ID:        r.Id,
			Name:      r.GetString("name"),
			AppliesTo: r.GetStringSlice("applies_to"),
			SoilType:  r.GetString("soil_type"),
			IsActive:  r.GetBool("is_active"),
			Lines:     lines,
		})
	}
	return templates, nil
}

// findDraftBOM returns the project's current draft BOM, or nil.
func findDraftBOM(app *pocketbase.PocketBase, projectID string) *core.Record {
	drafts, err := app.FindRecordsByFilter(
		"project_boms",
		"project = {:projectId} && status = 'draft'",
		"-version", 1, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil || len(drafts) == 0 {
		return nil
	}
	return drafts[0]
}

// nextBOMVersion returns max(version)+1 across the project's BOMs.
func nextBOMVersion(app *pocketbase.PocketBase, projectID string) int {
	boms, err := app.FindRecordsByFilter(
		"project_boms",
		"project = {:projectId}",
		"-version", 1, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil || len(boms) == 0 {
		return 1
	}
	return boms[0].GetInt("version") + 1
}

// HandleBOMGenerate runs the engine over a project's units and writes the
// result as the project's draft BOM. An existing draft is regenerated in
// place, keeping its version number; approved versions are never touched.
func HandleBOMGenerate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return notFound(e, "Project not found")
		}

		units, err := loadProjectUnits(app, projectID)
		if err != nil {
			log.Printf("bom_generate: could not load units: %v", err)
			return internalError(e, "Internal error")
		}
		catalog, err := loadUnitCatalog(app)
		if err != nil {
			log.Printf("bom_generate: could not load unit types: %v", err)
			return internalError(e, "Internal error")
		}
		templates, err := loadTemplates(app)
		if err != nil {
			log.Printf("bom_generate: could not load templates: %v", err)
			return internalError(e, "Internal error")
		}

		soilType := project.GetString("soil_type")
		generated := services.GenerateBOM(units, catalog, soilType, templates)
		warnings := services.ValidateTemplateCatalog(templates)

		bomsCol, err := app.FindCollectionByNameOrId("project_boms")
		if err != nil {
			log.Printf("bom_generate: could not find project_boms collection: %v", err)
			return internalError(e, "Internal error")
		}
		linesCol, err := app.FindCollectionByNameOrId("project_bom_lines")
		if err != nil {
			log.Printf("bom_generate: could not find project_bom_lines collection: %v", err)
			return internalError(e, "Internal error")
		}

		// Reuse the existing draft if there is one; its lines are replaced
		// wholesale, dropping any manual edits.
		bom := findDraftBOM(app, projectID)
		isNew := bom == nil
		if isNew {
			bom = core.NewRecord(bomsCol)
			bom.Set("project", projectID)
			bom.Set("version", nextBOMVersion(app, projectID))
			bom.Set("status", "draft")
		}
		bom.Set("generated_at", types.NowDateTime())

		// Clearing the old line set and writing the new one happens inside
		// one transaction so a failed regeneration cannot leave a
		// half-written draft behind.
		err = app.RunInTransaction(func(txApp core.App) error {
			if !isNew {
				oldLines, err := txApp.FindRecordsByFilter(
					"project_bom_lines",
					"bom = {:bomId}",
					"", 0, 0,
					map[string]any{"bomId": bom.Id},
				)
				if err != nil {
					return fmt.Errorf("load old lines: %w", err)
				}
				for _, old := range oldLines {
					if err := txApp.Delete(old); err != nil {
						return fmt.Errorf("clear old line %s: %w", old.Id, err)
					}
				}
			}

			if err := txApp.Save(bom); err != nil {
				return fmt.Errorf("save BOM: %w", err)
			}

			for i, line := range generated {
				lr := core.NewRecord(linesCol)
				lr.Set("bom", bom.Id)
				lr.Set("sort_order", i+1)
				lr.Set("item_code", line.ItemCode)
				lr.Set("description", line.Description)
				lr.Set("uom", line.UOM)
				lr.Set("category", line.Category)
				lr.Set("suggested_qty", line.SuggestedQty)
				lr.Set("unit_cost", line.UnitCost)
				lr.Set("total_cost", line.TotalCost)
				lr.Set("source_unit_types", line.SourceUnitTypeIDs)
				if err := txApp.Save(lr); err != nil {
					return fmt.Errorf("save line %q: %w", line.ItemCode, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("bom_generate: draft write rolled back: %v", err)
			return internalError(e, "Could not save BOM")
		}

		resp := map[string]any{
			"bom":      bomToResponse(app, bom),
			"warnings": warnings,
		}
		if len(units) == 0 {
			resp["message"] = "Project has no units; generated an empty BOM"
		}
		return e.JSON(http.StatusOK, resp)
	}
}
