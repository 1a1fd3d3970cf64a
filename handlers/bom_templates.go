package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type templateLineResponse struct {
	ID          string  `json:"id"`
	SortOrder   int     `json:"sort_order"`
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	UOM         string  `json:"uom"`
	Category    string  `json:"category"`
	Formula     string  `json:"formula"`
	Multiplier  float64 `json:"multiplier"`
	UnitCost    float64 `json:"unit_cost"`
}

type templateResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	AppliesTo []string               `json:"applies_to"`
	SoilType  string                 `json:"soil_type"`
	IsActive  bool                   `json:"is_active"`
	SortOrder int                    `json:"sort_order"`
	Lines     []templateLineResponse `json:"lines"`
}

type templateLineRequest struct {
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
	UOM         string  `json:"uom"`
	Category    string  `json:"category"`
	Formula     string  `json:"formula"`
	Multiplier  float64 `json:"multiplier"`
	UnitCost    float64 `json:"unit_cost"`
}

type templateRequest struct {
	Name      string                `json:"name"`
	AppliesTo []string              `json:"applies_to"`
	SoilType  string                `json:"soil_type"`
	IsActive  *bool                 `json:"is_active"`
	SortOrder int                   `json:"sort_order"`
	Lines     []templateLineRequest `json:"lines"`
}

// nextTemplateSortOrder returns max(sort_order)+1 across the catalog so
// new templates join at the end of the fallback order instead of jumping
// ahead of it.
func nextTemplateSortOrder(app *pocketbase.PocketBase) int {
	records, err := app.FindRecordsByFilter(
		"bom_templates", "id != ''", "-sort_order", 1, 0, nil)
	if err != nil || len(records) == 0 {
		return 1
	}
	return records[0].GetInt("sort_order") + 1
}

func templateToResponse(app *pocketbase.PocketBase, rec *core.Record) templateResponse {
	lines, err := app.FindRecordsByFilter(
		"bom_template_lines",
		"template = {:id}",
		"sort_order", 0, 0,
		map[string]any{"id": rec.Id},
	)
	if err != nil {
		lines = nil
	}

	lineResponses := make([]templateLineResponse, 0, len(lines))
	for _, l := range lines {
		lineResponses = append(lineResponses, templateLineResponse{
			ID:          l.Id,
			SortOrder:   l.GetInt("sort_order"),
			ItemCode:    l.GetString("item_code"),
			Description: l.GetString("description"),
			UOM:         l.GetString("uom"),
			Category:    l.GetString("category"),
			Formula:     l.GetString("formula"),
			Multiplier:  l.GetFloat("multiplier"),
			UnitCost:    l.GetFloat("unit_cost"),
		})
	}

	return templateResponse{
		ID:        rec.Id,
		Name:      rec.GetString("name"),
		AppliesTo: rec.GetStringSlice("applies_to"),
		SoilType:  rec.GetString("soil_type"),
		IsActive:  rec.GetBool("is_active"),
		SortOrder: rec.GetInt("sort_order"),
		Lines:     lineResponses,
	}
}

func validateTemplateLine(l templateLineRequest) string {
	if strings.TrimSpace(l.ItemCode) == "" {
		return "Line item code is required"
	}
	if !containsOption(services.LineCategoryOptions, l.Category) {
		return "Line category must be material, labor or equipment"
	}
	if !containsOption(services.QuantityFormulaOptions, l.Formula) {
		return "Line formula must be per_foot, per_unit or fixed"
	}
	if l.Multiplier <= 0 {
		return "Line multiplier must be positive"
	}
	if l.UnitCost < 0 {
		return "Line unit cost cannot be negative"
	}
	return ""
}

// HandleTemplateList returns all BOM templates with their lines, in
// catalog order.
func HandleTemplateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("bom_templates")
		if err != nil {
			log.Printf("bom_templates: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "sort_order,created", 0, 0, nil)
		if err != nil {
			records = nil
		}

		out := make([]templateResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, templateToResponse(app, rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleTemplateCreate creates a BOM template together with its lines.
func HandleTemplateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req templateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return badRequest(e, "Template name is required")
		}
		if len(req.AppliesTo) == 0 {
			return badRequest(e, "Template must apply to at least one unit type")
		}
		for _, utID := range req.AppliesTo {
			if _, err := app.FindRecordById("unit_types", utID); err != nil {
				return badRequest(e, "Unknown unit type in applies_to")
			}
		}
		if req.SoilType != "" && !containsOption(services.SoilTypeOptions, req.SoilType) {
			return badRequest(e, "Invalid soil type")
		}
		for _, l := range req.Lines {
			if msg := validateTemplateLine(l); msg != "" {
				return badRequest(e, msg)
			}
		}

		col, err := app.FindCollectionByNameOrId("bom_templates")
		if err != nil {
			log.Printf("bom_templates: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}
		linesCol, err := app.FindCollectionByNameOrId("bom_template_lines")
		if err != nil {
			log.Printf("bom_templates: could not find lines collection: %v", err)
			return internalError(e, "Internal error")
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		sortOrder := req.SortOrder
		if sortOrder <= 0 {
			sortOrder = nextTemplateSortOrder(app)
		}

		rec := core.NewRecord(col)
		rec.Set("name", req.Name)
		rec.Set("applies_to", req.AppliesTo)
		rec.Set("soil_type", req.SoilType)
		rec.Set("is_active", isActive)
		rec.Set("sort_order", sortOrder)
		if err := app.Save(rec); err != nil {
			log.Printf("bom_templates: could not save: %v", err)
			return internalError(e, "Could not create template")
		}

		for i, l := range req.Lines {
			lr := core.NewRecord(linesCol)
			lr.Set("template", rec.Id)
			lr.Set("sort_order", i+1)
			lr.Set("item_code", strings.TrimSpace(l.ItemCode))
			lr.Set("description", l.Description)
			lr.Set("uom", l.UOM)
			lr.Set("category", l.Category)
			lr.Set("formula", l.Formula)
			lr.Set("multiplier", l.Multiplier)
			lr.Set("unit_cost", l.UnitCost)
			if err := app.Save(lr); err != nil {
				log.Printf("bom_templates: could not save line %q: %v", l.ItemCode, err)
				return internalError(e, "Could not create template line")
			}
		}

		return e.JSON(http.StatusCreated, templateToResponse(app, rec))
	}
}

// HandleTemplateUpdate patches template metadata and, when lines are sent,
// replaces the full line set.
func HandleTemplateUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("bom_templates", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Template not found")
		}

		var req templateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		// Validate the replacement line set up front so a bad line cannot
		// reject the request after metadata has already been saved.
		if req.Lines != nil {
			for _, l := range req.Lines {
				if msg := validateTemplateLine(l); msg != "" {
					return badRequest(e, msg)
				}
			}
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			rec.Set("name", name)
		}
		if len(req.AppliesTo) > 0 {
			for _, utID := range req.AppliesTo {
				if _, err := app.FindRecordById("unit_types", utID); err != nil {
					return badRequest(e, "Unknown unit type in applies_to")
				}
			}
			rec.Set("applies_to", req.AppliesTo)
		}
		if req.SoilType != "" {
			if !containsOption(services.SoilTypeOptions, req.SoilType) {
				return badRequest(e, "Invalid soil type")
			}
			rec.Set("soil_type", req.SoilType)
		}
		if req.IsActive != nil {
			rec.Set("is_active", *req.IsActive)
		}
		if req.SortOrder > 0 {
			rec.Set("sort_order", req.SortOrder)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("bom_templates: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update template")
		}

		if req.Lines != nil {
			existing, _ := app.FindRecordsByFilter(
				"bom_template_lines",
				"template = {:id}",
				"", 0, 0,
				map[string]any{"id": rec.Id},
			)
			for _, old := range existing {
				if err := app.Delete(old); err != nil {
					log.Printf("bom_templates: could not delete line %s: %v", old.Id, err)
					return internalError(e, "Could not replace template lines")
				}
			}

			linesCol, err := app.FindCollectionByNameOrId("bom_template_lines")
			if err != nil {
				log.Printf("bom_templates: could not find lines collection: %v", err)
				return internalError(e, "Internal error")
			}
			for i, l := range req.Lines {
				lr := core.NewRecord(linesCol)
				lr.Set("template", rec.Id)
				lr.Set("sort_order", i+1)
				lr.Set("item_code", strings.TrimSpace(l.ItemCode))
				lr.Set("description", l.Description)
				lr.Set("uom", l.UOM)
				lr.Set("category", l.Category)
				lr.Set("formula", l.Formula)
				lr.Set("multiplier", l.Multiplier)
				lr.Set("unit_cost", l.UnitCost)
				if err := app.Save(lr); err != nil {
					log.Printf("bom_templates: could not save line %q: %v", l.ItemCode, err)
					return internalError(e, "Could not replace template lines")
				}
			}
		}

		return e.JSON(http.StatusOK, templateToResponse(app, rec))
	}
}

// HandleTemplateDelete deactivates or removes a template. Existing BOMs
// keep their generated lines either way.
func HandleTemplateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("bom_templates", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Template not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("bom_templates: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete template")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleTemplateCatalogCheck reports item codes carrying different unit
// costs across active templates.
func HandleTemplateCatalogCheck(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		templates, err := loadTemplates(app)
		if err != nil {
			log.Printf("bom_templates: could not load catalog: %v", err)
			return internalError(e, "Internal error")
		}

		warnings := services.ValidateTemplateCatalog(templates)
		return e.JSON(http.StatusOK, map[string]any{
			"warnings": warnings,
		})
	}
}
