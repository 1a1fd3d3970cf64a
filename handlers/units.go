package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type unitResponse struct {
	ID       string  `json:"id"`
	Project  string  `json:"project"`
	UnitType string  `json:"unit_type"`
	Length   float64 `json:"length,omitempty"`
	Status   string  `json:"status"`
	Crew     string  `json:"crew,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

func unitToResponse(rec *core.Record) unitResponse {
	return unitResponse{
		ID:       rec.Id,
		Project:  rec.GetString("project"),
		UnitType: rec.GetString("unit_type"),
		Length:   rec.GetFloat("length"),
		Status:   rec.GetString("status"),
		Crew:     rec.GetString("crew"),
		Notes:    rec.GetString("notes"),
	}
}

type unitRequest struct {
	UnitType string   `json:"unit_type"`
	Length   *float64 `json:"length"`
	Status   string   `json:"status"`
	Crew     string   `json:"crew"`
	Notes    string   `json:"notes"`
}

// HandleUnitList returns all units in a project in creation order.
func HandleUnitList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		records, err := app.FindRecordsByFilter(
			"units",
			"project = {:projectId}",
			"created", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			records = nil
		}

		out := make([]unitResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, unitToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleUnitCreate adds a unit to a project.
func HandleUnitCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		var req unitRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if _, err := app.FindRecordById("unit_types", req.UnitType); err != nil {
			return badRequest(e, "Unknown unit type")
		}
		if req.Length != nil && *req.Length <= 0 {
			return badRequest(e, "Length must be a positive number")
		}
		if req.Status == "" {
			req.Status = "not_started"
		}
		if !containsOption(services.UnitStatusOptions, req.Status) {
			return badRequest(e, "Invalid unit status")
		}
		if req.Crew != "" {
			if _, err := app.FindRecordById("crews", req.Crew); err != nil {
				return badRequest(e, "Unknown crew")
			}
		}

		col, err := app.FindCollectionByNameOrId("units")
		if err != nil {
			log.Printf("units: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("project", projectID)
		rec.Set("unit_type", req.UnitType)
		if req.Length != nil {
			rec.Set("length", *req.Length)
		}
		rec.Set("status", req.Status)
		if req.Crew != "" {
			rec.Set("crew", req.Crew)
		}
		rec.Set("notes", req.Notes)

		if err := app.Save(rec); err != nil {
			log.Printf("units: could not save: %v", err)
			return internalError(e, "Could not create unit")
		}
		return e.JSON(http.StatusCreated, unitToResponse(rec))
	}
}

// HandleUnitUpdate patches an existing unit.
func HandleUnitUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("units", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Unit not found")
		}

		var req unitRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if req.UnitType != "" {
			if _, err := app.FindRecordById("unit_types", req.UnitType); err != nil {
				return badRequest(e, "Unknown unit type")
			}
			rec.Set("unit_type", req.UnitType)
		}
		if req.Length != nil {
			if *req.Length <= 0 {
				return badRequest(e, "Length must be a positive number")
			}
			rec.Set("length", *req.Length)
		}
		if req.Status != "" {
			if !containsOption(services.UnitStatusOptions, req.Status) {
				return badRequest(e, "Invalid unit status")
			}
			rec.Set("status", req.Status)
		}
		if req.Crew != "" {
			if _, err := app.FindRecordById("crews", req.Crew); err != nil {
				return badRequest(e, "Unknown crew")
			}
			rec.Set("crew", req.Crew)
		}
		if req.Notes != "" {
			rec.Set("notes", req.Notes)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("units: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update unit")
		}
		return e.JSON(http.StatusOK, unitToResponse(rec))
	}
}

// HandleUnitDelete removes a unit.
func HandleUnitDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("units", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Unit not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("units: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete unit")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
