package services

import "bytes"

// bytesReader wraps a byte slice in an io.Reader for parser tests.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// sampleExportData builds a small two-line BOM used across export tests.
func sampleExportData() BOMExportData {
	return BOMExportData{
		ProjectName:   "Maple Street FTTH Phase 1",
		Version:       1,
		Status:        "draft",
		GeneratedDate: "2026-03-14",
		Rows: []BOMExportRow{
			{ItemCode: "CONDUIT-2IN", Description: "2in HDPE conduit", Category: "material", Qty: 525, SuggestedQty: 525, UOM: "FT", UnitCost: 2.50, TotalCost: 1312.50},
			{ItemCode: "HH-BOX", Description: "Handhole box", Category: "material", Qty: 2, SuggestedQty: 2, UOM: "EA", UnitCost: 150, TotalCost: 300},
		},
		MaterialTotal: 1612.50,
		GrandTotal:    1612.50,
	}
}
