package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateUnversionedBOMs finds project BOM records that predate versioning
// (version 0 or empty status) and backfills them as draft version 1.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateUnversionedBOMs(app *pocketbase.PocketBase) error {
	bomsCol, err := app.FindCollectionByNameOrId("project_boms")
	if err != nil {
		return fmt.Errorf("migrate: could not find project_boms collection: %w", err)
	}

	unversioned, err := app.FindRecordsByFilter(
		bomsCol,
		"version = 0 || status = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query unversioned BOMs: %w", err)
	}

	if len(unversioned) == 0 {
		return nil
	}

	log.Printf("migrate: found %d unversioned BOM(s) -- backfilling version and status...\n", len(unversioned))

	for _, bom := range unversioned {
		if bom.GetInt("version") == 0 {
			bom.Set("version", 1)
		}
		if bom.GetString("status") == "" {
			bom.Set("status", "draft")
		}
		if err := app.Save(bom); err != nil {
			log.Printf("migrate: failed to backfill BOM %s: %v\n", bom.Id, err)
			continue
		}
	}

	log.Println("migrate: BOM version backfill complete.")
	return nil
}
