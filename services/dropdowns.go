package services

// SoilTypeOptions returns the soil conditions used to select among competing
// BOM templates for the same unit type.
var SoilTypeOptions = []string{"normal", "rocky", "sandy", "clay", "asphalt"}

// UOMOptions returns the list of Unit of Measurement options.
var UOMOptions = []string{
	"EA",
	"FT",
	"LF",
	"HR",
	"DAY",
	"ROLL",
	"BOX",
	"SPOOL",
	"LOT",
	"GAL",
	"BAG",
}

// UnitCategoryOptions distinguishes footage-based line work from point
// features.
var UnitCategoryOptions = []string{"line", "marker"}

// LineCategoryOptions is the closed set of BOM line cost categories.
var LineCategoryOptions = []string{"material", "labor", "equipment"}

// QuantityFormulaOptions is the closed set of template quantity formulas.
var QuantityFormulaOptions = []string{"per_foot", "per_unit", "fixed"}

// ProjectStatusOptions for project lifecycle.
var ProjectStatusOptions = []string{"planning", "active", "on_hold", "completed"}

// UnitStatusOptions for unit lifecycle.
var UnitStatusOptions = []string{"not_started", "in_progress", "completed", "approved"}

// BOMStatusOptions for project BOM versions.
var BOMStatusOptions = []string{"draft", "approved"}

// ChangeOrderStatusOptions for change order lifecycle.
var ChangeOrderStatusOptions = []string{"pending", "approved", "rejected"}

// CrewTypeOptions distinguishes in-house crews from subcontractors.
var CrewTypeOptions = []string{"internal", "subcontractor"}
