package services

import (
	"encoding/csv"
	"testing"
)

func TestGenerateCSV(t *testing.T) {
	out, err := GenerateCSV(sampleExportData())
	if err != nil {
		t.Fatalf("GenerateCSV() error: %v", err)
	}

	records, err := csv.NewReader(bytesReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2 lines", len(records))
	}

	wantHeader := []string{"item_code", "description", "category", "qty", "uom", "unit_cost", "total_cost"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	first := records[1]
	if first[0] != "CONDUIT-2IN" {
		t.Errorf("item_code = %q, want CONDUIT-2IN", first[0])
	}
	if first[3] != "525" {
		t.Errorf("qty = %q, want 525", first[3])
	}
	if first[5] != "2.50" {
		t.Errorf("unit_cost = %q, want 2.50", first[5])
	}
	if first[6] != "1312.50" {
		t.Errorf("total_cost = %q, want 1312.50", first[6])
	}
}

func TestGenerateCSV_EmptyBOM(t *testing.T) {
	data := BOMExportData{ProjectName: "Empty", Version: 1, Status: "draft"}
	out, err := GenerateCSV(data)
	if err != nil {
		t.Fatalf("GenerateCSV() error: %v", err)
	}

	records, err := csv.NewReader(bytesReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d rows, want header only", len(records))
	}
}

func TestGenerateCSV_QuotesCommasInDescription(t *testing.T) {
	data := sampleExportData()
	data.Rows[0].Description = "Conduit, 2in, orange"

	out, err := GenerateCSV(data)
	if err != nil {
		t.Fatalf("GenerateCSV() error: %v", err)
	}

	records, err := csv.NewReader(bytesReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][1] != "Conduit, 2in, orange" {
		t.Errorf("description = %q, want commas preserved", records[1][1])
	}
}
