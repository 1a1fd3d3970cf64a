package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// HandleBOMApprove locks a draft BOM as an immutable approved version.
// The next generation run starts a fresh draft at version N+1.
func HandleBOMApprove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bom, err := app.FindRecordById("project_boms", e.Request.PathValue("bomId"))
		if err != nil {
			return notFound(e, "BOM not found")
		}
		if bom.GetString("status") != "draft" {
			return conflict(e, "BOM is already approved")
		}

		lines := loadBOMLines(app, bom.Id)
		if len(lines) == 0 {
			return badRequest(e, "Cannot approve an empty BOM")
		}

		bom.Set("status", "approved")
		bom.Set("approved_at", types.NowDateTime())
		if err := app.Save(bom); err != nil {
			log.Printf("bom_approve: could not approve %s: %v", bom.Id, err)
			return internalError(e, "Could not approve BOM")
		}

		return e.JSON(http.StatusOK, bomToResponse(app, bom))
	}
}

// HandleBOMDelete removes a draft BOM. Approved versions are history and
// cannot be deleted.
func HandleBOMDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bom, err := app.FindRecordById("project_boms", e.Request.PathValue("bomId"))
		if err != nil {
			return notFound(e, "BOM not found")
		}
		if bom.GetString("status") != "draft" {
			return conflict(e, "Approved BOM versions cannot be deleted")
		}

		if err := app.Delete(bom); err != nil {
			log.Printf("bom_approve: could not delete draft %s: %v", bom.Id, err)
			return internalError(e, "Could not delete BOM")
		}
		return e.NoContent(http.StatusNoContent)
	}
}
