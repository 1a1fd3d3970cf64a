package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NikhilKtyl/map-work-nexus-sub000/testhelpers"
)

const importCSVHeader = "Unit Type Code,Length (ft),Status,Crew,Notes\n"

func TestHandleUnitTemplateDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	handler := HandleUnitTemplateDownload(app)
	req := httptest.NewRequest(http.MethodGet, "/api/units/import/template", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "unit_import_template") {
		t.Errorf("expected template filename, got %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleUnitImportValidate_CleanFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Import Project", "normal")
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	csv := importCSVHeader + "BORE,200,not_started,,\nBORE,150,,,\n"

	handler := HandleUnitImportValidate(app)
	req := newFileUploadRequest(t, fmt.Sprintf("/api/projects/%s/units/import/validate", proj.Id),
		"units.csv", []byte(csv))
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"total_rows":2`, `"valid_rows":2`, `"error_rows":0`)
}

func TestHandleUnitImportValidate_ReportsRowErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Import Errors Project", "normal")
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	csv := importCSVHeader + "BORE,200,,,\nUNKNOWN,100,,,\nBORE,-5,,,\n"

	handler := HandleUnitImportValidate(app)
	req := newFileUploadRequest(t, fmt.Sprintf("/api/projects/%s/units/import/validate", proj.Id),
		"units.csv", []byte(csv))
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(),
		`"error_rows":2`, `"valid_rows":1`, "No unit type with code", "Length must be a positive number")
}

func TestHandleUnitImportCommit_CreatesUnits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Commit Project", "normal")
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")
	testhelpers.CreateTestUnitType(t, app, "HH", "Handhole", "marker")

	csv := importCSVHeader + "BORE,200,not_started,,First bore\nHH,,,,\n"

	handler := HandleUnitImportCommit(app)
	req := newFileUploadRequest(t, fmt.Sprintf("/api/projects/%s/units/import", proj.Id),
		"units.csv", []byte(csv))
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"created":2`)

	units, _ := app.FindRecordsByFilter("units", "project = {:p}", "created", 0, 0, map[string]any{"p": proj.Id})
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].GetString("notes") != "First bore" {
		t.Errorf("notes = %q, want 'First bore'", units[0].GetString("notes"))
	}
}

func TestHandleUnitImportCommit_RejectsFileWithErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Commit Reject Project", "normal")
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	csv := importCSVHeader + "BORE,200,,,\nUNKNOWN,100,,,\n"

	handler := HandleUnitImportCommit(app)
	req := newFileUploadRequest(t, fmt.Sprintf("/api/projects/%s/units/import", proj.Id),
		"units.csv", []byte(csv))
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	units, _ := app.FindRecordsByFilter("units", "project = {:p}", "", 0, 0, map[string]any{"p": proj.Id})
	if len(units) != 0 {
		t.Errorf("expected no units without skip_errors, got %d", len(units))
	}
}

func TestHandleUnitImportCommit_SkipErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Commit Skip Project", "normal")
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	csv := importCSVHeader + "BORE,200,,,\nUNKNOWN,100,,,\n"

	handler := HandleUnitImportCommit(app)
	req := newFileUploadRequest(t,
		fmt.Sprintf("/api/projects/%s/units/import?skip_errors=true", proj.Id),
		"units.csv", []byte(csv))
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"created":1`, `"skipped_rows":1`)

	units, _ := app.FindRecordsByFilter("units", "project = {:p}", "", 0, 0, map[string]any{"p": proj.Id})
	if len(units) != 1 {
		t.Errorf("expected 1 unit, got %d", len(units))
	}
}

func TestHandleUnitImportValidate_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "No File Project", "normal")

	handler := HandleUnitImportValidate(app)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/projects/%s/units/import/validate", proj.Id), nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleUnitImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")

	csv := importCSVHeader + "UNKNOWN,100,,,\n"

	handler := HandleUnitImportErrorReport(app)
	req := newFileUploadRequest(t, "/api/units/import/errors", "units.csv", []byte(csv))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
}
