package services

import "testing"

func TestFormatCONumber(t *testing.T) {
	tests := []struct {
		name       string
		projectRef string
		year       int
		sequence   int
		expect     string
	}{
		{"first of the year", "P-1042", 2026, 1, "MWN-CO-P-1042-2026-001"},
		{"double digit sequence", "P-1042", 2026, 12, "MWN-CO-P-1042-2026-012"},
		{"triple digit sequence", "P-1042", 2026, 104, "MWN-CO-P-1042-2026-104"},
		{"id fallback ref", "abc123def456", 2025, 3, "MWN-CO-abc123def456-2025-003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatCONumber(tt.projectRef, tt.year, tt.sequence)
			if got != tt.expect {
				t.Errorf("formatCONumber() = %q, want %q", got, tt.expect)
			}
		})
	}
}
