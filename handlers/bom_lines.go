package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

// lineUpdateRequest carries a quantity override as entered by the user, or
// a reset back to the suggested quantity.
type lineUpdateRequest struct {
	Qty   string `json:"qty"`
	Reset bool   `json:"reset"`
}

// HandleBOMLineUpdate overrides one line's quantity on a draft BOM. The
// suggested quantity is never touched, so a reset can always restore it.
func HandleBOMLineUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineRec, err := app.FindRecordById("project_bom_lines", e.Request.PathValue("lineId"))
		if err != nil {
			return notFound(e, "BOM line not found")
		}

		bom, err := app.FindRecordById("project_boms", lineRec.GetString("bom"))
		if err != nil {
			return notFound(e, "BOM not found")
		}
		if bom.GetString("status") != "draft" {
			return conflict(e, "Approved BOM versions cannot be edited")
		}

		var req lineUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return badRequest(e, "Invalid request body")
		}

		if req.Reset {
			lineRec.Set("edited", false)
			lineRec.Set("edited_qty", 0)
			lineRec.Set("total_cost", lineRec.GetFloat("suggested_qty")*lineRec.GetFloat("unit_cost"))
		} else {
			qty, err := services.ParseQtyOverride(req.Qty)
			if err != nil {
				return badRequest(e, err.Error())
			}
			lineRec.Set("edited", true)
			lineRec.Set("edited_qty", qty)
			lineRec.Set("total_cost", qty*lineRec.GetFloat("unit_cost"))
		}

		if err := app.Save(lineRec); err != nil {
			log.Printf("bom_lines: could not update line %s: %v", lineRec.Id, err)
			return internalError(e, "Could not update line")
		}

		// Return the whole BOM so the caller sees refreshed totals.
		return e.JSON(http.StatusOK, bomToResponse(app, bom))
	}
}
