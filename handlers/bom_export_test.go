package handlers

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/NikhilKtyl/map-work-nexus-sub000/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "Maple Street Build", "Maple-Street-Build"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func seedExportBOM(t *testing.T, app *pocketbase.PocketBase) *core.Record {
	t.Helper()

	proj := testhelpers.CreateTestProject(t, app, "Export Project", "normal")
	bom := testhelpers.CreateTestBOM(t, app, proj.Id, 1, "draft")
	testhelpers.CreateTestBOMLine(t, app, bom.Id, 1, "CONDUIT-2IN", "material", 525, 2.50)
	testhelpers.CreateTestBOMLine(t, app, bom.Id, 2, "HH-BOX", "material", 2, 150)
	return bom
}

func TestBuildBOMExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bom := seedExportBOM(t, app)

	data, err := buildBOMExportData(app, bom.Id)
	if err != nil {
		t.Fatalf("buildBOMExportData error: %v", err)
	}
	if data.ProjectName != "Export Project" {
		t.Errorf("project name = %q", data.ProjectName)
	}
	if data.Version != 1 || data.Status != "draft" {
		t.Errorf("version/status = %d/%q, want 1/draft", data.Version, data.Status)
	}
	if len(data.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(data.Rows))
	}
	if data.Rows[0].ItemCode != "CONDUIT-2IN" {
		t.Errorf("first row = %q, want CONDUIT-2IN", data.Rows[0].ItemCode)
	}
	if math.Abs(data.GrandTotal-1612.50) > 0.001 {
		t.Errorf("grand total = %v, want 1612.50", data.GrandTotal)
	}
}

func TestBuildBOMExportData_UsesEffectiveQty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bom := seedExportBOM(t, app)

	lines := loadBOMLines(app, bom.Id)
	lines[0].Set("edited", true)
	lines[0].Set("edited_qty", 600)
	if err := app.Save(lines[0]); err != nil {
		t.Fatalf("save edit: %v", err)
	}

	data, err := buildBOMExportData(app, bom.Id)
	if err != nil {
		t.Fatalf("buildBOMExportData error: %v", err)
	}
	if math.Abs(data.Rows[0].Qty-600) > 0.001 {
		t.Errorf("qty = %v, want the edited 600", data.Rows[0].Qty)
	}
	if !data.Rows[0].Edited {
		t.Error("expected edited flag on the row")
	}
	if math.Abs(data.Rows[0].SuggestedQty-525) > 0.001 {
		t.Errorf("suggested qty = %v, want 525", data.Rows[0].SuggestedQty)
	}
	// 600 * 2.50 + 2 * 150
	if math.Abs(data.GrandTotal-1800) > 0.001 {
		t.Errorf("grand total = %v, want 1800", data.GrandTotal)
	}
}

func TestBuildBOMExportData_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := buildBOMExportData(app, "nonexistent"); err == nil {
		t.Error("expected error for nonexistent BOM")
	}
}

func TestHandleBOMExportCSV_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bom := seedExportBOM(t, app)

	handler := HandleBOMExportCSV(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/boms/%s/export/csv", bom.Id), nil)
	req.SetPathValue("bomId", bom.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "CONDUIT-2IN") || !strings.Contains(body, "HH-BOX") {
		t.Error("expected both item codes in the CSV body")
	}
}

func TestHandleBOMExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bom := seedExportBOM(t, app)

	handler := HandleBOMExportExcel(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/boms/%s/export/excel", bom.Id), nil)
	req.SetPathValue("bomId", bom.Id)
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
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleBOMExportPDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	bom := seedExportBOM(t, app)

	handler := HandleBOMExportPDF(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/boms/%s/export/pdf", bom.Id), nil)
	req.SetPathValue("bomId", bom.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("expected body to start with the PDF magic bytes")
	}
}

func TestHandleBOMExportCSV_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleBOMExportCSV(app)
	req := httptest.NewRequest(http.MethodGet, "/api/boms/missing/export/csv", nil)
	req.SetPathValue("bomId", "missing")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
