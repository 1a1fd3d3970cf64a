package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type unitTypeResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func unitTypeToResponse(rec *core.Record) unitTypeResponse {
	return unitTypeResponse{
		ID:          rec.Id,
		Code:        rec.GetString("code"),
		Name:        rec.GetString("name"),
		Category:    rec.GetString("category"),
		Description: rec.GetString("description"),
	}
}

type unitTypeRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// HandleUnitTypeList returns the unit type catalog sorted by code.
func HandleUnitTypeList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("unit_types")
		if err != nil {
			log.Printf("unit_types: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "code", 0, 0, nil)
		if err != nil {
			records = nil
		}

		out := make([]unitTypeResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, unitTypeToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleUnitTypeCreate adds a unit type to the catalog. Codes are unique.
func HandleUnitTypeCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req unitTypeRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
		req.Name = strings.TrimSpace(req.Name)
		if req.Code == "" {
			return badRequest(e, "Unit type code is required")
		}
		if req.Name == "" {
			return badRequest(e, "Unit type name is required")
		}
		if !containsOption(services.UnitCategoryOptions, req.Category) {
			return badRequest(e, "Category must be line or marker")
		}

		if existing, _ := app.FindFirstRecordByData("unit_types", "code", req.Code); existing != nil {
			return conflict(e, "A unit type with this code already exists")
		}

		col, err := app.FindCollectionByNameOrId("unit_types")
		if err != nil {
			log.Printf("unit_types: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("code", req.Code)
		rec.Set("name", req.Name)
		rec.Set("category", req.Category)
		rec.Set("description", req.Description)

		if err := app.Save(rec); err != nil {
			log.Printf("unit_types: could not save: %v", err)
			return internalError(e, "Could not create unit type")
		}
		return e.JSON(http.StatusCreated, unitTypeToResponse(rec))
	}
}

// HandleUnitTypeUpdate patches a unit type. The category stays fixed once
// units reference the type, since changing it would silently reinterpret
// their lengths.
func HandleUnitTypeUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("unit_types", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Unit type not found")
		}

		var req unitTypeRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			rec.Set("name", name)
		}
		if req.Description != "" {
			rec.Set("description", req.Description)
		}
		if req.Category != "" && req.Category != rec.GetString("category") {
			inUse, _ := app.FindRecordsByFilter(
				"units",
				"unit_type = {:id}",
				"", 1, 0,
				map[string]any{"id": rec.Id},
			)
			if len(inUse) > 0 {
				return conflict(e, "Cannot change category while units reference this type")
			}
			if !containsOption(services.UnitCategoryOptions, req.Category) {
				return badRequest(e, "Category must be line or marker")
			}
			rec.Set("category", req.Category)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("unit_types: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update unit type")
		}
		return e.JSON(http.StatusOK, unitTypeToResponse(rec))
	}
}

// HandleUnitTypeDelete removes a unit type that no units reference.
func HandleUnitTypeDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("unit_types", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Unit type not found")
		}

		inUse, _ := app.FindRecordsByFilter(
			"units",
			"unit_type = {:id}",
			"", 1, 0,
			map[string]any{"id": rec.Id},
		)
		if len(inUse) > 0 {
			return conflict(e, "Cannot delete a unit type that units reference")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("unit_types: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete unit type")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
