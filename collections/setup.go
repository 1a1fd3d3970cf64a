package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all collections the BOM engine
// needs: customers, projects, crews, the unit type catalog, units,
// BOM templates with their lines, generated project BOMs and change orders.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "contact_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "reference_number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"planning", "active", "on_hold", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "soil_type",
			Required:  false,
			Values:    []string{"normal", "rocky", "sandy", "clay", "asphalt"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	crews := ensureCollection(app, "crews", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "crew_type",
			Required:  true,
			Values:    []string{"internal", "subcontractor"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "foreman", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
	})

	ensureCollection(app, "project_crews", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "crew",
			Required:      true,
			CollectionId:  crews.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
	})

	unitTypes := ensureCollection(app, "unit_types", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"line", "marker"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
	})

	ensureCollection(app, "units", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "unit_type",
			Required:     true,
			CollectionId: unitTypes.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "length", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"not_started", "in_progress", "completed", "approved"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "crew",
			Required:     false,
			CollectionId: crews.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	bomTemplates := ensureCollection(app, "bom_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "applies_to",
			Required:     true,
			CollectionId: unitTypes.Id,
			MaxSelect:    99,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "soil_type",
			Required:  false,
			Values:    []string{"normal", "rocky", "sandy", "clay", "asphalt"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	ensureCollection(app, "bom_template_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "template",
			Required:      true,
			CollectionId:  bomTemplates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "uom", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"material", "labor", "equipment"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "formula",
			Required:  true,
			Values:    []string{"per_foot", "per_unit", "fixed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "multiplier", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_cost", Required: true})
	})

	projectBOMs := ensureCollection(app, "project_boms", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "version", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "approved"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "generated_at", Required: false})
		c.Fields.Add(&core.DateField{Name: "approved_at", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
	})

	ensureCollection(app, "project_bom_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "bom",
			Required:      true,
			CollectionId:  projectBOMs.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "uom", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"material", "labor", "equipment"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "suggested_qty", Required: false})
		c.Fields.Add(&core.NumberField{Name: "edited_qty", Required: false})
		c.Fields.Add(&core.BoolField{Name: "edited"})
		c.Fields.Add(&core.NumberField{Name: "unit_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_cost", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "source_unit_types",
			Required:     false,
			CollectionId: unitTypes.Id,
			MaxSelect:    99,
		})
	})

	ensureCollection(app, "change_orders", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "co_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "requested_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
