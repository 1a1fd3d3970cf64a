package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type crewResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CrewType string `json:"crew_type"`
	Foreman  string `json:"foreman"`
	Phone    string `json:"phone"`
}

func crewToResponse(rec *core.Record) crewResponse {
	return crewResponse{
		ID:       rec.Id,
		Name:     rec.GetString("name"),
		CrewType: rec.GetString("crew_type"),
		Foreman:  rec.GetString("foreman"),
		Phone:    rec.GetString("phone"),
	}
}

type crewRequest struct {
	Name     string `json:"name"`
	CrewType string `json:"crew_type"`
	Foreman  string `json:"foreman"`
	Phone    string `json:"phone"`
}

// HandleCrewList returns all crews sorted by name.
func HandleCrewList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("crews")
		if err != nil {
			log.Printf("crews: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "name", 0, 0, nil)
		if err != nil {
			records = nil
		}

		out := make([]crewResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, crewToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleCrewCreate creates a crew.
func HandleCrewCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req crewRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return badRequest(e, "Crew name is required")
		}
		if req.CrewType == "" {
			req.CrewType = "internal"
		}
		if !containsOption(services.CrewTypeOptions, req.CrewType) {
			return badRequest(e, "Invalid crew type")
		}

		col, err := app.FindCollectionByNameOrId("crews")
		if err != nil {
			log.Printf("crews: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("name", req.Name)
		rec.Set("crew_type", req.CrewType)
		rec.Set("foreman", req.Foreman)
		rec.Set("phone", req.Phone)

		if err := app.Save(rec); err != nil {
			log.Printf("crews: could not save: %v", err)
			return internalError(e, "Could not create crew")
		}
		return e.JSON(http.StatusCreated, crewToResponse(rec))
	}
}

// HandleCrewDelete removes a crew.
func HandleCrewDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("crews", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Crew not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("crews: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete crew")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleProjectCrewList returns the crews assigned to a project.
func HandleProjectCrewList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		links, err := app.FindRecordsByFilter(
			"project_crews",
			"project = {:projectId}",
			"", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			links = nil
		}

		out := make([]crewResponse, 0, len(links))
		for _, link := range links {
			crew, err := app.FindRecordById("crews", link.GetString("crew"))
			if err != nil {
				continue
			}
			out = append(out, crewToResponse(crew))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleProjectCrewLink assigns a crew to a project.
func HandleProjectCrewLink(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		var req struct {
			CrewID string `json:"crew_id"`
		}
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}
		if _, err := app.FindRecordById("crews", req.CrewID); err != nil {
			return notFound(e, "Crew not found")
		}

		// Skip duplicate links.
		existing, _ := app.FindRecordsByFilter(
			"project_crews",
			"project = {:projectId} && crew = {:crewId}",
			"", 1, 0,
			map[string]any{"projectId": projectID, "crewId": req.CrewID},
		)
		if len(existing) > 0 {
			return e.JSON(http.StatusOK, map[string]string{"id": existing[0].Id})
		}

		col, err := app.FindCollectionByNameOrId("project_crews")
		if err != nil {
			log.Printf("crews: could not find project_crews collection: %v", err)
			return internalError(e, "Internal error")
		}

		link := core.NewRecord(col)
		link.Set("project", projectID)
		link.Set("crew", req.CrewID)
		if err := app.Save(link); err != nil {
			log.Printf("crews: could not link crew %s to project %s: %v", req.CrewID, projectID, err)
			return internalError(e, "Could not assign crew")
		}
		return e.JSON(http.StatusCreated, map[string]string{"id": link.Id})
	}
}

// HandleProjectCrewUnlink removes a crew assignment from a project.
func HandleProjectCrewUnlink(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		crewID := e.Request.PathValue("crewId")

		links, err := app.FindRecordsByFilter(
			"project_crews",
			"project = {:projectId} && crew = {:crewId}",
			"", 1, 0,
			map[string]any{"projectId": projectID, "crewId": crewID},
		)
		if err != nil || len(links) == 0 {
			return notFound(e, "Crew assignment not found")
		}

		if err := app.Delete(links[0]); err != nil {
			log.Printf("crews: could not unlink crew %s from project %s: %v", crewID, projectID, err)
			return internalError(e, "Could not remove crew assignment")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
