package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type customerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

func customerToResponse(rec *core.Record) customerResponse {
	return customerResponse{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		ContactName: rec.GetString("contact_name"),
		Phone:       rec.GetString("phone"),
		Email:       rec.GetString("email"),
		Address:     rec.GetString("address"),
	}
}

type customerRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// HandleCustomerList returns all customers sorted by name.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customers: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "name", 0, 0, nil)
		if err != nil {
			records = nil
		}

		out := make([]customerResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, customerToResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleCustomerCreate creates a customer.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req customerRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return badRequest(e, "Customer name is required")
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customers: could not find collection: %v", err)
			return internalError(e, "Internal error")
		}

		rec := core.NewRecord(col)
		rec.Set("name", req.Name)
		rec.Set("contact_name", req.ContactName)
		rec.Set("phone", req.Phone)
		rec.Set("email", req.Email)
		rec.Set("address", req.Address)

		if err := app.Save(rec); err != nil {
			log.Printf("customers: could not save: %v", err)
			return internalError(e, "Could not create customer")
		}
		return e.JSON(http.StatusCreated, customerToResponse(rec))
	}
}

// HandleCustomerUpdate patches an existing customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Customer not found")
		}

		var req customerRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			rec.Set("name", name)
		}
		if req.ContactName != "" {
			rec.Set("contact_name", req.ContactName)
		}
		if req.Phone != "" {
			rec.Set("phone", req.Phone)
		}
		if req.Email != "" {
			rec.Set("email", req.Email)
		}
		if req.Address != "" {
			rec.Set("address", req.Address)
		}

		if err := app.Save(rec); err != nil {
			log.Printf("customers: could not update %s: %v", rec.Id, err)
			return internalError(e, "Could not update customer")
		}
		return e.JSON(http.StatusOK, customerToResponse(rec))
	}
}

// HandleCustomerDelete removes a customer.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e, "Customer not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("customers: could not delete %s: %v", rec.Id, err)
			return internalError(e, "Could not delete customer")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
