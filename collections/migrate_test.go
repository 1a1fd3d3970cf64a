package collections_test

import (
	"testing"

	"github.com/NikhilKtyl/map-work-nexus-sub000/collections"
	"github.com/NikhilKtyl/map-work-nexus-sub000/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestMigrateUnversionedBOMs_Backfills(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Migrate Test", "normal")

	// Simulate a pre-versioning BOM record: version 0, no status.
	col, err := app.FindCollectionByNameOrId("project_boms")
	if err != nil {
		t.Fatalf("find project_boms: %v", err)
	}
	old := core.NewRecord(col)
	old.Set("project", proj.Id)
	old.Set("version", 0)
	old.Set("status", "draft")
	if err := app.Save(old); err != nil {
		t.Fatalf("save unversioned BOM: %v", err)
	}

	if err := collections.MigrateUnversionedBOMs(app); err != nil {
		t.Fatalf("MigrateUnversionedBOMs() error: %v", err)
	}

	migrated, err := app.FindRecordById("project_boms", old.Id)
	if err != nil {
		t.Fatalf("reload BOM: %v", err)
	}
	if migrated.GetInt("version") != 1 {
		t.Errorf("version = %d, want 1", migrated.GetInt("version"))
	}
	if migrated.GetString("status") != "draft" {
		t.Errorf("status = %q, want draft", migrated.GetString("status"))
	}
}

func TestMigrateUnversionedBOMs_LeavesVersionedAlone(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Migrate Noop", "normal")
	bom := testhelpers.CreateTestBOM(t, app, proj.Id, 3, "approved")

	if err := collections.MigrateUnversionedBOMs(app); err != nil {
		t.Fatalf("MigrateUnversionedBOMs() error: %v", err)
	}

	reloaded, _ := app.FindRecordById("project_boms", bom.Id)
	if reloaded.GetInt("version") != 3 {
		t.Errorf("version changed: %d, want 3", reloaded.GetInt("version"))
	}
	if reloaded.GetString("status") != "approved" {
		t.Errorf("status changed: %q, want approved", reloaded.GetString("status"))
	}
}

func TestMigrateUnversionedBOMs_EmptyDatabase(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateUnversionedBOMs(app); err != nil {
		t.Errorf("MigrateUnversionedBOMs() on empty db: %v", err)
	}
}
