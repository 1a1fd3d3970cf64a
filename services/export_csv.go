package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// GenerateCSV creates a CSV file from the given BOMExportData: one row per
// consolidated line, preceded by a header row.
func GenerateCSV(data BOMExportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"item_code", "description", "category", "qty", "uom", "unit_cost", "total_cost"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range data.Rows {
		row := []string{
			r.ItemCode,
			r.Description,
			r.Category,
			FormatQty(r.Qty),
			r.UOM,
			fmt.Sprintf("%.2f", r.UnitCost),
			fmt.Sprintf("%.2f", r.TotalCost),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
