package services

// BOMExportRow represents a single consolidated line in a BOM export.
type BOMExportRow struct {
	ItemCode     string
	Description  string
	Category     string
	Qty          float64
	SuggestedQty float64
	Edited       bool
	UOM          string
	UnitCost     float64
	TotalCost    float64
}

// BOMExportData holds all data needed for CSV, Excel and PDF export of one
// project BOM version.
type BOMExportData struct {
	ProjectName    string
	Version        int
	Status         string
	GeneratedDate  string
	ApprovedDate   string
	Rows           []BOMExportRow
	MaterialTotal  float64
	LaborTotal     float64
	EquipmentTotal float64
	GrandTotal     float64
}
