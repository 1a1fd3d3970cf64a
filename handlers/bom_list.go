package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/services"
)

type bomLineResponse struct {
	ID              string   `json:"id"`
	SortOrder       int      `json:"sort_order"`
	ItemCode        string   `json:"item_code"`
	Description     string   `json:"description"`
	UOM             string   `json:"uom"`
	Category        string   `json:"category"`
	SuggestedQty    float64  `json:"suggested_qty"`
	EditedQty       *float64 `json:"edited_qty,omitempty"`
	Edited          bool     `json:"edited"`
	EffectiveQty    float64  `json:"effective_qty"`
	UnitCost        float64  `json:"unit_cost"`
	TotalCost       float64  `json:"total_cost"`
	SourceUnitTypes []string `json:"source_unit_types"`
}

type bomResponse struct {
	ID          string             `json:"id"`
	Project     string             `json:"project"`
	Version     int                `json:"version"`
	Status      string             `json:"status"`
	GeneratedAt string             `json:"generated_at,omitempty"`
	ApprovedAt  string             `json:"approved_at,omitempty"`
	Lines       []bomLineResponse  `json:"lines"`
	Totals      services.BOMTotals `json:"totals"`
}

// loadBOMLines fetches a BOM's persisted lines in engine output order.
func loadBOMLines(app *pocketbase.PocketBase, bomID string) []*core.Record {
	records, err := app.FindRecordsByFilter(
		"project_bom_lines",
		"bom = {:bomId}",
		"sort_order", 0, 0,
		map[string]any{"bomId": bomID},
	)
	if err != nil {
		return nil
	}
	return records
}

// recordToBOMLine converts a persisted line record to the review-surface type.
func recordToBOMLine(rec *core.Record) services.BOMLine {
	return services.BOMLine{
		ID:           rec.Id,
		ItemCode:     rec.GetString("item_code"),
		Description:  rec.GetString("description"),
		UOM:          rec.GetString("uom"),
		Category:     rec.GetString("category"),
		SuggestedQty: rec.GetFloat("suggested_qty"),
		EditedQty:    rec.GetFloat("edited_qty"),
		Edited:       rec.GetBool("edited"),
		UnitCost:     rec.GetFloat("unit_cost"),
	}
}

// bomToResponse assembles the full JSON view of one BOM version: lines with
// effective quantities plus category totals recomputed from scratch.
func bomToResponse(app *pocketbase.PocketBase, bom *core.Record) bomResponse {
	lineRecords := loadBOMLines(app, bom.Id)

	lines := make([]bomLineResponse, 0, len(lineRecords))
	reviewLines := make([]services.BOMLine, 0, len(lineRecords))
	for _, rec := range lineRecords {
		line := recordToBOMLine(rec)
		reviewLines = append(reviewLines, line)

		resp := bomLineResponse{
			ID:              rec.Id,
			SortOrder:       rec.GetInt("sort_order"),
			ItemCode:        line.ItemCode,
			Description:     line.Description,
			UOM:             line.UOM,
			Category:        line.Category,
			SuggestedQty:    line.SuggestedQty,
			Edited:          line.Edited,
			EffectiveQty:    services.EffectiveQty(line, nil),
			UnitCost:        line.UnitCost,
			TotalCost:       services.LineTotal(line, nil),
			SourceUnitTypes: rec.GetStringSlice("source_unit_types"),
		}
		if line.Edited {
			edited := line.EditedQty
			resp.EditedQty = &edited
		}
		lines = append(lines, resp)
	}

	out := bomResponse{
		ID:      bom.Id,
		Project: bom.GetString("project"),
		Version: bom.GetInt("version"),
		Status:  bom.GetString("status"),
		Lines:   lines,
		Totals:  services.CalcBOMTotals(reviewLines, nil),
	}
	if dt := bom.GetDateTime("generated_at"); !dt.IsZero() {
		out.GeneratedAt = dt.Time().Format("2006-01-02 15:04:05")
	}
	if dt := bom.GetDateTime("approved_at"); !dt.IsZero() {
		out.ApprovedAt = dt.Time().Format("2006-01-02 15:04:05")
	}
	return out
}

// HandleBOMList returns all BOM versions for a project, newest first.
func HandleBOMList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return notFound(e, "Project not found")
		}

		boms, err := app.FindRecordsByFilter(
			"project_boms",
			"project = {:projectId}",
			"-version", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			boms = nil
		}

		out := make([]bomResponse, 0, len(boms))
		for _, bom := range boms {
			out = append(out, bomToResponse(app, bom))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleBOMGet returns one BOM version with lines and totals.
func HandleBOMGet(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		bom, err := app.FindRecordById("project_boms", e.Request.PathValue("bomId"))
		if err != nil {
			return notFound(e, "BOM not found")
		}
		return e.JSON(http.StatusOK, bomToResponse(app, bom))
	}
}
