package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatCONumber constructs the change order number string from components.
// Uses "-" as separator to avoid conflicts with reference numbers that contain "/".
func formatCONumber(projectRef string, year int, sequence int) string {
	return fmt.Sprintf("MWN-CO-%s-%d-%03d", projectRef, year, sequence)
}

// GenerateCONumber creates the next change order number for a project.
// Format: MWN-CO-{project_ref}-{year}-{sequence}
// - project_ref: project's reference_number (falls back to project ID if empty)
// - year: calendar year of the request date
// - sequence: 3-digit zero-padded, per project per year
func GenerateCONumber(app *pocketbase.PocketBase, projectID string, now time.Time) (string, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}

	projectRef := project.GetString("reference_number")
	if projectRef == "" {
		projectRef = projectID
	}

	year := now.Year()

	// Count existing change orders for this project with matching year prefix
	prefix := fmt.Sprintf("MWN-CO-%s-%d-", projectRef, year)

	existing, err := app.FindRecordsByFilter(
		"change_orders",
		"project = {:projectId} && co_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"projectId": projectID,
			"prefix":    prefix + "%",
		},
	)
	if err != nil {
		// If collection doesn't exist or no records, start at 1
		existing = nil
	}

	nextSeq := len(existing) + 1

	return formatCONumber(projectRef, year, nextSeq), nil
}
