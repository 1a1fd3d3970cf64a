package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/testhelpers"
)

// seedGenerationFixture creates a project in normal soil with three bores
// (200 + 150 + 150 ft) and two handholes, plus templates for both types.
func seedGenerationFixture(t *testing.T, app *pocketbase.PocketBase) *core.Record {
	t.Helper()

	proj := testhelpers.CreateTestProject(t, app, "Maple Street Build", "normal")

	bore := testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")
	hh := testhelpers.CreateTestUnitType(t, app, "HH", "Handhole", "marker")

	boreTpl := testhelpers.CreateTestTemplate(t, app, "Bore Normal Soil", "normal", []string{bore.Id})
	testhelpers.CreateTestTemplateLine(t, app, boreTpl.Id, 1, "CONDUIT-2IN", "material", "per_foot", 1.05, 2.50)

	hhTpl := testhelpers.CreateTestTemplate(t, app, "Handhole Placement", "", []string{hh.Id})
	testhelpers.CreateTestTemplateLine(t, app, hhTpl.Id, 1, "HH-BOX", "material", "per_unit", 1, 150)

	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 200)
	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 150)
	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 150)
	testhelpers.CreateTestUnit(t, app, proj.Id, hh.Id, 0)
	testhelpers.CreateTestUnit(t, app, proj.Id, hh.Id, 0)

	return proj
}

func generateBOM(t *testing.T, app *pocketbase.PocketBase, projectID string) *httptest.ResponseRecorder {
	t.Helper()

	handler := HandleBOMGenerate(app)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/projects/%s/bom/generate", projectID), nil)
	req.SetPathValue("id", projectID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func findProjectBOMs(t *testing.T, app *pocketbase.PocketBase, projectID string) []*core.Record {
	t.Helper()

	boms, err := app.FindRecordsByFilter(
		"project_boms",
		"project = {:p}",
		"version", 0, 0,
		map[string]any{"p": projectID},
	)
	if err != nil {
		t.Fatalf("find BOMs: %v", err)
	}
	return boms
}

func TestHandleBOMGenerate_CreatesDraft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := seedGenerationFixture(t, app)

	rec := generateBOM(t, app, proj.Id)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	boms := findProjectBOMs(t, app, proj.Id)
	if len(boms) != 1 {
		t.Fatalf("expected 1 BOM, got %d", len(boms))
	}
	bom := boms[0]
	if bom.GetInt("version") != 1 {
		t.Errorf("version = %d, want 1", bom.GetInt("version"))
	}
	if bom.GetString("status") != "draft" {
		t.Errorf("status = %q, want draft", bom.GetString("status"))
	}
	if bom.GetDateTime("generated_at").IsZero() {
		t.Error("expected generated_at to be set")
	}

	lines := loadBOMLines(app, bom.Id)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	conduit := lines[0]
	if conduit.GetString("item_code") != "CONDUIT-2IN" {
		t.Fatalf("first line = %q, want CONDUIT-2IN", conduit.GetString("item_code"))
	}
	if got := conduit.GetFloat("suggested_qty"); math.Abs(got-525) > 0.001 {
		t.Errorf("conduit qty = %v, want 525", got)
	}
	if got := conduit.GetFloat("total_cost"); math.Abs(got-1312.50) > 0.001 {
		t.Errorf("conduit total = %v, want 1312.50", got)
	}

	hhBox := lines[1]
	if hhBox.GetString("item_code") != "HH-BOX" {
		t.Fatalf("second line = %q, want HH-BOX", hhBox.GetString("item_code"))
	}
	if got := hhBox.GetFloat("suggested_qty"); math.Abs(got-2) > 0.001 {
		t.Errorf("handhole qty = %v, want 2", got)
	}
	if got := hhBox.GetFloat("total_cost"); math.Abs(got-300) > 0.001 {
		t.Errorf("handhole total = %v, want 300", got)
	}

	testhelpers.AssertJSONContains(t, rec.Body.String(), "CONDUIT-2IN", "HH-BOX", "1612.5")
}

func TestHandleBOMGenerate_RegeneratesDraftInPlace(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := seedGenerationFixture(t, app)

	generateBOM(t, app, proj.Id)
	generateBOM(t, app, proj.Id)

	boms := findProjectBOMs(t, app, proj.Id)
	if len(boms) != 1 {
		t.Fatalf("expected the draft to be reused, got %d BOMs", len(boms))
	}
	if boms[0].GetInt("version") != 1 {
		t.Errorf("version = %d, want 1 after regeneration", boms[0].GetInt("version"))
	}
	if lines := loadBOMLines(app, boms[0].Id); len(lines) != 2 {
		t.Errorf("expected 2 lines after regeneration, got %d", len(lines))
	}
}

func TestHandleBOMGenerate_RegenerationDiscardsEdits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := seedGenerationFixture(t, app)

	generateBOM(t, app, proj.Id)

	bom := findProjectBOMs(t, app, proj.Id)[0]
	line := loadBOMLines(app, bom.Id)[0]
	line.Set("edited", true)
	line.Set("edited_qty", 999)
	if err := app.Save(line); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	generateBOM(t, app, proj.Id)

	for _, l := range loadBOMLines(app, bom.Id) {
		if l.GetBool("edited") {
			t.Errorf("line %s kept its edit through regeneration", l.GetString("item_code"))
		}
	}
}

func TestHandleBOMGenerate_NewVersionAfterApproval(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := seedGenerationFixture(t, app)

	generateBOM(t, app, proj.Id)

	v1 := findProjectBOMs(t, app, proj.Id)[0]
	v1.Set("status", "approved")
	if err := app.Save(v1); err != nil {
		t.Fatalf("approve v1: %v", err)
	}

	generateBOM(t, app, proj.Id)

	boms := findProjectBOMs(t, app, proj.Id)
	if len(boms) != 2 {
		t.Fatalf("expected 2 BOMs, got %d", len(boms))
	}
	if boms[0].GetInt("version") != 1 || boms[0].GetString("status") != "approved" {
		t.Errorf("v1 = version %d status %q, want approved version 1",
			boms[0].GetInt("version"), boms[0].GetString("status"))
	}
	if boms[1].GetInt("version") != 2 || boms[1].GetString("status") != "draft" {
		t.Errorf("v2 = version %d status %q, want draft version 2",
			boms[1].GetInt("version"), boms[1].GetString("status"))
	}
	if lines := loadBOMLines(app, boms[0].Id); len(lines) != 2 {
		t.Errorf("approved version lost its lines, got %d", len(lines))
	}
}

func TestHandleBOMGenerate_NoUnits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Empty Project", "normal")

	rec := generateBOM(t, app, proj.Id)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "no units")

	boms := findProjectBOMs(t, app, proj.Id)
	if len(boms) != 1 {
		t.Fatalf("expected an empty draft, got %d BOMs", len(boms))
	}
	if lines := loadBOMLines(app, boms[0].Id); len(lines) != 0 {
		t.Errorf("expected 0 lines, got %d", len(lines))
	}
}

func TestHandleBOMGenerate_SoilFallback(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	// Project in sandy soil with only a rocky bore template available. The
	// first active candidate is used rather than skipping the group.
	proj := testhelpers.CreateTestProject(t, app, "Fallback Project", "sandy")
	bore := testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")
	tpl := testhelpers.CreateTestTemplate(t, app, "Bore Rocky Soil", "rocky", []string{bore.Id})
	testhelpers.CreateTestTemplateLine(t, app, tpl.Id, 1, "ROCK-BIT", "equipment", "fixed", 1, 400)
	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 100)

	rec := generateBOM(t, app, proj.Id)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	bom := findProjectBOMs(t, app, proj.Id)[0]
	lines := loadBOMLines(app, bom.Id)
	if len(lines) != 1 || lines[0].GetString("item_code") != "ROCK-BIT" {
		t.Fatalf("expected the rocky template to be used as fallback, got %d lines", len(lines))
	}
}

func TestHandleBOMGenerate_ProjectNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleBOMGenerate(app)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/missing/bom/generate", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
