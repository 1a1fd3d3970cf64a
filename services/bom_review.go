package services

import (
	"fmt"
	"math"
	"strconv"
)

// BOMLine is a persisted project BOM line as seen by the review surface.
// SuggestedQty always stays inspectable; EditedQty only applies when Edited
// is set.
type BOMLine struct {
	ID           string
	ItemCode     string
	Description  string
	UOM          string
	Category     string
	SuggestedQty float64
	EditedQty    float64
	Edited       bool
	UnitCost     float64
}

// EffectiveQty resolves the quantity used for costing: a pending override
// wins, then a persisted edit, then the engine's suggestion.
func EffectiveQty(line BOMLine, overrides map[string]float64) float64 {
	if qty, ok := overrides[line.ID]; ok {
		return qty
	}
	if line.Edited {
		return line.EditedQty
	}
	return line.SuggestedQty
}

// IsEdited reports whether a line carries any user quantity, pending or
// persisted.
func IsEdited(line BOMLine, overrides map[string]float64) bool {
	if _, ok := overrides[line.ID]; ok {
		return true
	}
	return line.Edited
}

// LineTotal recomputes a line's cost from its effective quantity.
func LineTotal(line BOMLine, overrides map[string]float64) float64 {
	return EffectiveQty(line, overrides) * line.UnitCost
}

// BOMTotals holds the per-category subtotals and grand total for a BOM.
type BOMTotals struct {
	Material   float64 `json:"material"`
	Labor      float64 `json:"labor"`
	Equipment  float64 `json:"equipment"`
	GrandTotal float64 `json:"grand_total"`
}

// CalcBOMTotals computes category subtotals and the grand total from
// effective quantities. It recomputes from scratch on every call so totals
// can never go stale across an edit.
func CalcBOMTotals(lines []BOMLine, overrides map[string]float64) BOMTotals {
	var totals BOMTotals
	for _, line := range lines {
		total := LineTotal(line, overrides)
		switch line.Category {
		case "material":
			totals.Material += total
		case "labor":
			totals.Labor += total
		case "equipment":
			totals.Equipment += total
		}
		totals.GrandTotal += total
	}
	return totals
}

// ParseQtyOverride coerces a user-entered quantity. Negative, NaN and
// infinite values are rejected so a bad edit can never corrupt totals.
func ParseQtyOverride(s string) (float64, error) {
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity must be a number")
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0, fmt.Errorf("quantity must be a finite number")
	}
	if qty < 0 {
		return 0, fmt.Errorf("quantity cannot be negative")
	}
	return qty, nil
}
