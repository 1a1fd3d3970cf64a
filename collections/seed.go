package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type unitTypeDef struct {
	code        string
	name        string
	category    string
	description string
}

type templateLineDef struct {
	sortOrder   int
	itemCode    string
	description string
	uom         string
	category    string
	formula     string
	multiplier  float64
	unitCost    float64
}

type templateDef struct {
	name      string
	appliesTo []string // unit type codes
	soilType  string
	isActive  bool
	sortOrder int
	lines     []templateLineDef
}

type crewDef struct {
	name     string
	crewType string
	foreman  string
	phone    string
}

type unitDef struct {
	unitTypeCode string
	length       float64
	status       string
	crewName     string
	notes        string
}

// Seed populates the catalog and a demo fiber construction project. It is
// safe to call on every startup because it returns early if any project
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	// ── lookup helper collections ────────────────────────────────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	crewsCol, err := app.FindCollectionByNameOrId("crews")
	if err != nil {
		return fmt.Errorf("seed: could not find crews collection: %w", err)
	}
	projectCrewsCol, err := app.FindCollectionByNameOrId("project_crews")
	if err != nil {
		return fmt.Errorf("seed: could not find project_crews collection: %w", err)
	}
	unitTypesCol, err := app.FindCollectionByNameOrId("unit_types")
	if err != nil {
		return fmt.Errorf("seed: could not find unit_types collection: %w", err)
	}
	unitsCol, err := app.FindCollectionByNameOrId("units")
	if err != nil {
		return fmt.Errorf("seed: could not find units collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("bom_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find bom_templates collection: %w", err)
	}
	templateLinesCol, err := app.FindCollectionByNameOrId("bom_template_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find bom_template_lines collection: %w", err)
	}

	// ── helper: create unit type ─────────────────────────────────────
	typeIDs := make(map[string]string)
	createUnitType := func(d unitTypeDef) error {
		r := core.NewRecord(unitTypesCol)
		r.Set("code", d.code)
		r.Set("name", d.name)
		r.Set("category", d.category)
		r.Set("description", d.description)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save unit type %q: %w", d.code, err)
		}
		typeIDs[d.code] = r.Id
		return nil
	}

	// ── helper: create template with lines ───────────────────────────
	createTemplate := func(d templateDef) error {
		appliesTo := make([]string, 0, len(d.appliesTo))
		for _, code := range d.appliesTo {
			id, ok := typeIDs[code]
			if !ok {
				return fmt.Errorf("seed: template %q references unknown unit type %q", d.name, code)
			}
			appliesTo = append(appliesTo, id)
		}

		r := core.NewRecord(templatesCol)
		r.Set("name", d.name)
		r.Set("applies_to", appliesTo)
		r.Set("soil_type", d.soilType)
		r.Set("is_active", d.isActive)
		r.Set("sort_order", d.sortOrder)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save template %q: %w", d.name, err)
		}

		for _, l := range d.lines {
			lr := core.NewRecord(templateLinesCol)
			lr.Set("template", r.Id)
			lr.Set("sort_order", l.sortOrder)
			lr.Set("item_code", l.itemCode)
			lr.Set("description", l.description)
			lr.Set("uom", l.uom)
			lr.Set("category", l.category)
			lr.Set("formula", l.formula)
			lr.Set("multiplier", l.multiplier)
			lr.Set("unit_cost", l.unitCost)
			if err := app.Save(lr); err != nil {
				return fmt.Errorf("seed: save template line %q: %w", l.itemCode, err)
			}
		}
		return nil
	}

	// ── helper: create crew ──────────────────────────────────────────
	crewIDs := make(map[string]string)
	createCrew := func(d crewDef) error {
		r := core.NewRecord(crewsCol)
		r.Set("name", d.name)
		r.Set("crew_type", d.crewType)
		r.Set("foreman", d.foreman)
		r.Set("phone", d.phone)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save crew %q: %w", d.name, err)
		}
		crewIDs[d.name] = r.Id
		return nil
	}

	// ── helper: create unit ──────────────────────────────────────────
	createUnit := func(projectID string, d unitDef) error {
		typeID, ok := typeIDs[d.unitTypeCode]
		if !ok {
			return fmt.Errorf("seed: unit references unknown unit type %q", d.unitTypeCode)
		}
		r := core.NewRecord(unitsCol)
		r.Set("project", projectID)
		r.Set("unit_type", typeID)
		if d.length > 0 {
			r.Set("length", d.length)
		}
		r.Set("status", d.status)
		if d.crewName != "" {
			r.Set("crew", crewIDs[d.crewName])
		}
		r.Set("notes", d.notes)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save unit (%s): %w", d.unitTypeCode, err)
		}
		return nil
	}

	// ── Unit type catalog ────────────────────────────────────────────
	unitTypes := []unitTypeDef{
		{code: "BORE", name: "Directional Bore", category: "line", description: "Horizontal directional drilling, footage based"},
		{code: "TRENCH", name: "Open Trench", category: "line", description: "Open cut trenching, footage based"},
		{code: "AERIAL", name: "Aerial Strand", category: "line", description: "Pole-to-pole strand and lash, footage based"},
		{code: "HH", name: "Handhole", category: "marker", description: "30x48 handhole placement"},
		{code: "VAULT", name: "Splice Vault", category: "marker", description: "Below-grade splice vault placement"},
		{code: "MARKER", name: "Route Marker", category: "marker", description: "Warning post along the route"},
	}
	for _, ut := range unitTypes {
		if err := createUnitType(ut); err != nil {
			return err
		}
	}

	// ── BOM templates ────────────────────────────────────────────────
	templates := []templateDef{
		{
			name: "Bore — Normal Soil", appliesTo: []string{"BORE"}, soilType: "normal", isActive: true, sortOrder: 1,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "CONDUIT-2IN", description: "2in HDPE conduit, orange", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.05, unitCost: 2.50},
				{sortOrder: 2, itemCode: "MULE-TAPE", description: "1800lb mule tape", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.10, unitCost: 0.12},
				{sortOrder: 3, itemCode: "BORE-LABOR", description: "Directional bore crew labor", uom: "FT", category: "labor", formula: "per_foot", multiplier: 1.0, unitCost: 8.50},
				{sortOrder: 4, itemCode: "DRILL-RIG", description: "Drill rig mobilization", uom: "DAY", category: "equipment", formula: "fixed", multiplier: 1, unitCost: 1200},
				{sortOrder: 5, itemCode: "LOCATE-WIRE", description: "12AWG locate wire", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.05, unitCost: 0.18},
			},
		},
		{
			name: "Bore — Rocky Soil", appliesTo: []string{"BORE"}, soilType: "rocky", isActive: true, sortOrder: 2,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "CONDUIT-2IN", description: "2in HDPE conduit, orange", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.05, unitCost: 2.50},
				{sortOrder: 2, itemCode: "MULE-TAPE", description: "1800lb mule tape", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.10, unitCost: 0.12},
				{sortOrder: 3, itemCode: "BORE-LABOR-ROCK", description: "Rock bore crew labor", uom: "FT", category: "labor", formula: "per_foot", multiplier: 1.0, unitCost: 14.75},
				{sortOrder: 4, itemCode: "ROCK-HEAD", description: "Rock drilling head wear charge", uom: "FT", category: "equipment", formula: "per_foot", multiplier: 1.0, unitCost: 2.25},
				{sortOrder: 5, itemCode: "DRILL-RIG", description: "Drill rig mobilization", uom: "DAY", category: "equipment", formula: "fixed", multiplier: 1, unitCost: 1200},
			},
		},
		{
			name: "Trench — Normal Soil", appliesTo: []string{"TRENCH"}, soilType: "normal", isActive: true, sortOrder: 3,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "CONDUIT-2IN", description: "2in HDPE conduit, orange", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.02, unitCost: 2.50},
				{sortOrder: 2, itemCode: "WARN-TAPE", description: "Buried fiber warning tape", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.0, unitCost: 0.08},
				{sortOrder: 3, itemCode: "TRENCH-LABOR", description: "Trench and backfill crew labor", uom: "FT", category: "labor", formula: "per_foot", multiplier: 1.0, unitCost: 6.25},
			},
		},
		{
			name: "Aerial Strand", appliesTo: []string{"AERIAL"}, soilType: "", isActive: true, sortOrder: 4,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "STRAND-1/4", description: "1/4in EHS strand", uom: "FT", category: "material", formula: "per_foot", multiplier: 1.08, unitCost: 0.35},
				{sortOrder: 2, itemCode: "LASH-WIRE", description: "Lashing wire", uom: "SPOOL", category: "material", formula: "per_foot", multiplier: 0.001, unitCost: 45},
				{sortOrder: 3, itemCode: "AERIAL-LABOR", description: "Aerial crew labor", uom: "FT", category: "labor", formula: "per_foot", multiplier: 1.0, unitCost: 3.10},
			},
		},
		{
			name: "Handhole Placement", appliesTo: []string{"HH"}, soilType: "", isActive: true, sortOrder: 5,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "HH-BOX", description: "30x48 handhole with lid", uom: "EA", category: "material", formula: "per_unit", multiplier: 1, unitCost: 150},
				{sortOrder: 2, itemCode: "GRAVEL-BASE", description: "Gravel base material", uom: "BAG", category: "material", formula: "per_unit", multiplier: 2, unitCost: 8.50},
				{sortOrder: 3, itemCode: "HH-LABOR", description: "Handhole set labor", uom: "HR", category: "labor", formula: "per_unit", multiplier: 3, unitCost: 55},
			},
		},
		{
			name: "Vault Placement", appliesTo: []string{"VAULT"}, soilType: "", isActive: true, sortOrder: 6,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "VAULT-4X6", description: "4x6 splice vault", uom: "EA", category: "material", formula: "per_unit", multiplier: 1, unitCost: 1850},
				{sortOrder: 2, itemCode: "EXCAVATOR", description: "Mini excavator rental", uom: "DAY", category: "equipment", formula: "per_unit", multiplier: 0.5, unitCost: 450},
				{sortOrder: 3, itemCode: "VAULT-LABOR", description: "Vault set crew labor", uom: "HR", category: "labor", formula: "per_unit", multiplier: 8, unitCost: 55},
			},
		},
		{
			name: "Route Marker", appliesTo: []string{"MARKER"}, soilType: "", isActive: true, sortOrder: 7,
			lines: []templateLineDef{
				{sortOrder: 1, itemCode: "MARKER-POST", description: "Orange fiber route marker post", uom: "EA", category: "material", formula: "per_unit", multiplier: 1, unitCost: 28},
				{sortOrder: 2, itemCode: "MARKER-LABOR", description: "Marker install labor", uom: "HR", category: "labor", formula: "per_unit", multiplier: 0.25, unitCost: 55},
			},
		},
	}
	for _, tpl := range templates {
		if err := createTemplate(tpl); err != nil {
			return err
		}
	}

	// ── Crews ────────────────────────────────────────────────────────
	crews := []crewDef{
		{name: "Crew Alpha", crewType: "internal", foreman: "D. Reyes", phone: "555-0141"},
		{name: "Northline Boring LLC", crewType: "subcontractor", foreman: "T. Walsh", phone: "555-0177"},
	}
	for _, c := range crews {
		if err := createCrew(c); err != nil {
			return err
		}
	}

	// ── Customer ─────────────────────────────────────────────────────
	customer := core.NewRecord(customersCol)
	customer.Set("name", "Lakeview Fiber Cooperative")
	customer.Set("contact_name", "Sandra Ellis")
	customer.Set("phone", "555-0102")
	customer.Set("email", "sellis@lakeviewfiber.coop")
	customer.Set("address", "1200 Shoreline Dr, Lakeview")
	if err := app.Save(customer); err != nil {
		return fmt.Errorf("seed: save customer: %w", err)
	}

	// ── Demo project ─────────────────────────────────────────────────
	p := core.NewRecord(projectsCol)
	p.Set("name", "Maple Street FTTH Phase 1")
	p.Set("customer", customer.Id)
	p.Set("reference_number", "LFC-2026-014")
	p.Set("status", "active")
	p.Set("soil_type", "normal")
	p.Set("notes", "Phase 1 covers Maple St from 1st Ave to 9th Ave.")
	if err := app.Save(p); err != nil {
		return fmt.Errorf("seed: save project: %w", err)
	}

	for _, crewName := range []string{"Crew Alpha", "Northline Boring LLC"} {
		link := core.NewRecord(projectCrewsCol)
		link.Set("project", p.Id)
		link.Set("crew", crewIDs[crewName])
		if err := app.Save(link); err != nil {
			return fmt.Errorf("seed: link crew %q: %w", crewName, err)
		}
	}

	units := []unitDef{
		{unitTypeCode: "BORE", length: 200, status: "not_started", crewName: "Northline Boring LLC", notes: "Maple St, 1st to 3rd Ave"},
		{unitTypeCode: "BORE", length: 150, status: "not_started", crewName: "Northline Boring LLC", notes: "Maple St, 3rd to 5th Ave"},
		{unitTypeCode: "BORE", length: 150, status: "not_started", crewName: "Northline Boring LLC", notes: "Maple St, 5th to 7th Ave"},
		{unitTypeCode: "HH", status: "not_started", crewName: "Crew Alpha", notes: "NE corner 3rd Ave"},
		{unitTypeCode: "HH", status: "not_started", crewName: "Crew Alpha", notes: "NE corner 5th Ave"},
	}
	for _, u := range units {
		if err := createUnit(p.Id, u); err != nil {
			return err
		}
	}

	log.Println("seed: all seed data inserted successfully (6 unit types, 7 templates, 1 project, 5 units)")
	return nil
}
