// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record with the given name and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("contact_name", "Test Contact")
	record.Set("phone", "555-0100")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestProject creates an active project record with the given name and
// soil type and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name, soilType string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")
	if soilType != "" {
		record.Set("soil_type", soilType)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestCrew creates a crew record with the given name and returns it.
func CreateTestCrew(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("crews")
	if err != nil {
		t.Fatalf("failed to find crews collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("crew_type", "internal")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test crew: %v", err)
	}

	return record
}

// CreateTestUnitType creates a unit type catalog record and returns it.
func CreateTestUnitType(t *testing.T, app *pocketbase.PocketBase, code, name, category string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("unit_types")
	if err != nil {
		t.Fatalf("failed to find unit_types collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("category", category)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test unit type: %v", err)
	}

	return record
}

// CreateTestUnit creates a unit record in a project. Pass length 0 for
// marker units without footage.
func CreateTestUnit(t *testing.T, app *pocketbase.PocketBase, projectID, unitTypeID string, length float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("units")
	if err != nil {
		t.Fatalf("failed to find units collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("unit_type", unitTypeID)
	if length > 0 {
		record.Set("length", length)
	}
	record.Set("status", "not_started")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test unit: %v", err)
	}

	return record
}

// CreateTestTemplate creates an active BOM template applying to the given
// unit type IDs and returns it.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name, soilType string, appliesTo []string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("bom_templates")
	if err != nil {
		t.Fatalf("failed to find bom_templates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("applies_to", appliesTo)
	if soilType != "" {
		record.Set("soil_type", soilType)
	}
	record.Set("is_active", true)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// CreateTestTemplateLine creates a template line record and returns it.
func CreateTestTemplateLine(t *testing.T, app *pocketbase.PocketBase, templateID string, sortOrder int, itemCode, category, formula string, multiplier, unitCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("bom_template_lines")
	if err != nil {
		t.Fatalf("failed to find bom_template_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("template", templateID)
	record.Set("sort_order", sortOrder)
	record.Set("item_code", itemCode)
	record.Set("description", itemCode+" description")
	record.Set("uom", "EA")
	record.Set("category", category)
	record.Set("formula", formula)
	record.Set("multiplier", multiplier)
	record.Set("unit_cost", unitCost)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template line: %v", err)
	}

	return record
}

// CreateTestBOM creates a project BOM record with the given version and status.
func CreateTestBOM(t *testing.T, app *pocketbase.PocketBase, projectID string, version int, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("project_boms")
	if err != nil {
		t.Fatalf("failed to find project_boms collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("version", version)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test BOM: %v", err)
	}

	return record
}

// CreateTestBOMLine creates a generated line on a project BOM.
func CreateTestBOMLine(t *testing.T, app *pocketbase.PocketBase, bomID string, sortOrder int, itemCode, category string, suggestedQty, unitCost float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("project_bom_lines")
	if err != nil {
		t.Fatalf("failed to find project_bom_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("bom", bomID)
	record.Set("sort_order", sortOrder)
	record.Set("item_code", itemCode)
	record.Set("description", itemCode+" description")
	record.Set("uom", "EA")
	record.Set("category", category)
	record.Set("suggested_qty", suggestedQty)
	record.Set("unit_cost", unitCost)
	record.Set("total_cost", suggestedQty*unitCost)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test BOM line: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
