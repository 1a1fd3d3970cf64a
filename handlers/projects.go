package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

// projectResponse is the JSON shape for a single project.
type projectResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Customer        string `json:"customer"`
	ReferenceNumber string `json:"reference_number"`
	Status          string `json:"status"`
	SoilType        string `json:"soil_type"`
	Notes           string `json:"notes"`
}

func projectToResponse(rec *core.Record) projectResponse {
	return projectResponse{
		ID:              rec.Id,
		Name:            rec.GetString("name"),
		Customer:        rec.GetString("customer"),
		ReferenceNumber: rec.GetString("reference_number"),
		Status:          rec.GetString("status"),
		SoilType:        rec.GetString("soil_type"),
		Notes:           rec.GetString("notes"),
	}
}

type projectRequest struct {
	Name            string `json:"name"`
	Customer        string `json:"customer"`
	ReferenceNumber string `json:"reference_number"`
	Status          string `json:"status"`
	SoilType        string `json:"soil_type"`
	Notes           string `json:"notes"`
}

// HandleProjectList returns all projects, newest first.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("projects: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "-created", 0, 0, nil)
		if err != nil {
			records = nil
		}

		out := make([]projectResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, projectToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// projectDetailResponse adds unit rollups to the single-project view.
type projectDetailResponse struct {
	projectResponse
	UnitCount    int     `json:"unit_count"`
	TotalFootage float64 `json:"total_footage"`
}

// HandleProjectGet returns a single project by ID with unit totals.
func HandleProjectGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Project not found")
		}

		detail := projectDetailResponse{projectResponse: projectToResponse(rec)}

		unitsCol, err := app.FindCollectionByNameOrId("units")
		if err == nil {
			units, err := app.FindRecordsByFilter(
				unitsCol, "project = {:id}", "", 0, 0,
				map[string]any{"id": rec.Id},
			)
			if err == nil {
				detail.UnitCount = len(units)
				for _, u := range units {
					detail.TotalFootage += u.GetFloat("length")
				}
			}
		}

		return e.JSON(http.StatusOK, detail)
	}
}

// HandleProjectCreate creates a project.
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req projectRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return badRequest(e, "Project name is required")
		}
		if req.Status == "" {
			req.Status = "planning"
		}
		if !containsOption(services.ProjectStatusOptions, req.Status) {
			return badRequest(e, "Invalid project status")
		}
		if req.SoilType != "" && !containsOption(services.SoilTypeOptions, req.SoilType) {
			return badRequest(e, "Invalid soil type")
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("projects: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("name", req.Name)
		rec.Set("customer", req.Customer)
		rec.Set("reference_number", req.ReferenceNumber)
		rec.Set("status", req.Status)
		rec.Set("soil_type", req.SoilType)
		rec.Set("notes", req.Notes)

		if err := app.Save(rec); err != nil {
			log.Printf("projects: could not save: %v", err)
			return internalError(e, "Could not create project")
		}
		return e.JSON(http.StatusCreated, projectToResponse(rec))
	}
}

// HandleProjectUpdate patches an existing project.
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Project not found")
		}

		var req projectRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			rec.Set("name", name)
		}
		if req.Customer != "" {
			rec.Set("customer", req.Customer)
		}
		if req.ReferenceNumber != "" {
			rec.Set("reference_number", req.ReferenceNumber)
		}
		if req.Status != "" {
			if !containsOption(services.ProjectStatusOptions, req.Status) {
				return badRequest(e, "Invalid project status")
			}
			rec.Set("status", req.Status)
		}
		if req.SoilType != "" {
			if !containsOption(services.SoilTypeOptions, req.SoilType) {
				return badRequest(e, "Invalid soil type")
			}
			rec.Set("soil_type", req.SoilType)
		}
		if req.Notes != "" {
			rec.Set("notes", req.Notes)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("projects: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update project")
		}
		return e.JSON(http.StatusOK, projectToResponse(rec))
	}
}

// HandleProjectDelete removes a project and everything under it via cascade.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Project not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("projects: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete project")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
