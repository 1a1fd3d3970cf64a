package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NikhilKtyl/map-work-nexus-sub000/testhelpers"
)

func TestHandleProjectCreate_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProjectCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/projects",
		`{"name":"Maple Street FTTH","reference_number":"LFC-2026-014","soil_type":"normal"}`)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, err := app.FindFirstRecordByData("projects", "name", "Maple Street FTTH")
	if err != nil {
		t.Fatalf("expected project in database: %v", err)
	}
	if saved.GetString("status") != "planning" {
		t.Errorf("default status = %q, want planning", saved.GetString("status"))
	}
	if saved.GetString("soil_type") != "normal" {
		t.Errorf("soil_type = %q, want normal", saved.GetString("soil_type"))
	}
}

func TestHandleProjectCreate_MissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProjectCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/projects", `{"name":"  "}`)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleProjectCreate_InvalidSoilType(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProjectCreate(app)
	req := newJSONRequest(http.MethodPost, "/api/projects", `{"name":"Bad Soil","soil_type":"lava"}`)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleProjectList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "First Project", "normal")
	testhelpers.CreateTestProject(t, app, "Second Project", "rocky")

	handler := HandleProjectList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), "First Project", "Second Project")
}

func TestHandleProjectGet_UnitTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Detail Project", "normal")
	bore := testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")
	hh := testhelpers.CreateTestUnitType(t, app, "HH", "Handhole", "marker")
	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 200)
	testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 300)
	testhelpers.CreateTestUnit(t, app, proj.Id, hh.Id, 0)

	handler := HandleProjectGet(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/projects/%s", proj.Id), nil)
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
		`"unit_count":3`, `"total_footage":500`)
}

func TestHandleProjectGet_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleProjectGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil)
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

func TestHandleProjectUpdate_Status(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Update Project", "normal")

	handler := HandleProjectUpdate(app)
	req := newJSONRequest(http.MethodPatch, fmt.Sprintf("/api/projects/%s", proj.Id), `{"status":"completed"}`)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	updated, _ := app.FindRecordById("projects", proj.Id)
	if updated.GetString("status") != "completed" {
		t.Errorf("status = %q, want completed", updated.GetString("status"))
	}
	if updated.GetString("name") != "Update Project" {
		t.Errorf("name changed unexpectedly to %q", updated.GetString("name"))
	}
}

func TestHandleProjectDelete_CascadesUnits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Doomed Project", "normal")
	bore := testhelpers.CreateTestUnitType(t, app, "BORE", "Directional Bore", "line")
	unit := testhelpers.CreateTestUnit(t, app, proj.Id, bore.Id, 100)

	handler := HandleProjectDelete(app)
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/projects/%s", proj.Id), nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("units", unit.Id); err == nil {
		t.Error("expected unit to cascade with the project")
	}
	if _, err := app.FindRecordById("unit_types", bore.Id); err != nil {
		t.Error("unit type catalog must survive project deletion")
	}
}
