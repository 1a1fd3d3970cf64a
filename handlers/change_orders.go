package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type changeOrderResponse struct {
	ID            string  `json:"id"`
	Project       string  `json:"project"`
	CONumber      string  `json:"co_number"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	RequestedDate string  `json:"requested_date,omitempty"`
}

type changeOrderRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

func changeOrderToResponse(rec *core.Record) changeOrderResponse {
	out := changeOrderResponse{
		ID:          rec.Id,
		Project:     rec.GetString("project"),
		CONumber:    rec.GetString("co_number"),
		Description: rec.GetString("description"),
		Amount:      rec.GetFloat("amount"),
		Status:      rec.GetString("status"),
	}
	if dt := rec.GetDateTime("requested_date"); !dt.IsZero() {
		out.RequestedDate = dt.Time().Format("2006-01-02")
	}
	return out
}

// HandleChangeOrderList returns a project's change orders, newest first.
func HandleChangeOrderList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		records, err := app.FindRecordsByFilter(
			"change_orders",
			"project = {:projectId}",
			"-created", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			records = nil
		}

		out := make([]changeOrderResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, changeOrderToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleChangeOrderCreate records a new change order against a project. The
// CO number is assigned automatically, sequenced per project per year.
func HandleChangeOrderCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		var req changeOrderRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}
		req.Description = strings.TrimSpace(req.Description)
		if req.Description == "" {
			return badRequest(e, "Description is required")
		}

		status := req.Status
		if status == "" {
			status = "pending"
		}
		if !containsOption(services.ChangeOrderStatusOptions, status) {
			return badRequest(e, "Invalid status")
		}

		now := time.Now()
		coNumber, err := services.GenerateCONumber(app, projectID, now)
		if err != nil {
			log.Printf("change_orders: could not generate CO number: %v", err)
			return internalError(e, "Could not generate change order number")
		}

		col, err := app.FindCollectionByNameOrId("change_orders")
		if err != nil {
			log.Printf("change_orders: collection not found: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("project", projectID)
		rec.Set("co_number", coNumber)
		rec.Set("description", req.Description)
		rec.Set("amount", req.Amount)
		rec.Set("status", status)
		rec.Set("requested_date", types.NowDateTime())
		if err := app.Save(rec); err != nil {
			log.Printf("change_orders: could not save: %v", err)
			return internalError(e, "Could not create change order")
		}

		return e.JSON(http.StatusCreated, changeOrderToResponse(rec))
	}
}

// HandleChangeOrderUpdateStatus moves a change order between pending,
// approved and rejected.
func HandleChangeOrderUpdateStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("change_orders", e.Request.PathValue("coId"))
		if err != nil {
			return notFound(e, "Change order not found")
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}
		if !containsOption(services.ChangeOrderStatusOptions, req.Status) {
			return badRequest(e, "Invalid status")
		}

		rec.Set("status", req.Status)
		if err := app.Save(rec); err != nil {
			log.Printf("change_orders: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update change order")
		}
		return e.JSON(http.StatusOK, changeOrderToResponse(rec))
	}
}

// HandleChangeOrderDelete removes a change order.
func HandleChangeOrderDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("change_orders", e.Request.PathValue("coId"))
		if err != nil {
			return notFound(e, "Change order not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("change_orders: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete change order")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
