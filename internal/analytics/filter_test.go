package analytics

import (
	"testing"
	"time"

	"invensmart/internal/models"
)

var testNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)

func rec(id, category string, stock, sales float64, daysAgo int) models.InventoryRecord {
	return models.InventoryRecord{
		ProductID:   id,
		Category:    category,
		StockLevel:  stock,
		SalesVolume: sales,
		RestockDate: testNow.AddDate(0, 0, -daysAgo),
		HasRestock:  true,
	}
}

func TestFilter_Window(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "Electronics", 50, 100, 5),
		rec("P2", "Electronics", 30, 80, 45),
		rec("P3", "Grocery", 20, 60, 70),
	}

	got := Filter(records, testNow, Window30, AllCategories)
	if len(got) != 1 || got[0].ProductID != "P1" {
		t.Errorf("Filter(30d) = %v, want only P1", got)
	}

	got = Filter(records, testNow, Window60, AllCategories)
	if len(got) != 2 {
		t.Errorf("Filter(60d) returned %d records, want 2", len(got))
	}
}

func TestFilter_Category(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "Electronics", 50, 100, 5),
		rec("P2", "Grocery", 30, 80, 6),
	}

	got := Filter(records, testNow, Window30, "Grocery")
	if len(got) != 1 || got[0].ProductID != "P2" {
		t.Errorf("Filter(category=Grocery) = %v, want only P2", got)
	}
}

func TestFilter_NullDatesDropped(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "Electronics", 50, 100, 5),
		{ProductID: "P2", Category: "Electronics", StockLevel: 30, SalesVolume: 80},
	}

	got := Filter(records, testNow, Window60, AllCategories)
	if len(got) != 1 || got[0].ProductID != "P1" {
		t.Errorf("rows without a restock date should never match the window, got %v", got)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "Electronics", 50, 100, 5),
		rec("P2", "Grocery", 30, 80, 45),
		rec("P3", "Grocery", 20, 60, 10),
	}

	once := Filter(records, testNow, Window30, "Grocery")
	twice := Filter(once, testNow, Window30, "Grocery")

	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d records", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("record %d changed on second filter: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestFilter_EmptyResult(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "Electronics", 50, 100, 90),
	}

	got := Filter(records, testNow, Window30, AllCategories)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input   string
		want    Window
		wantErr bool
	}{
		{"", Window30, false},
		{"30d", Window30, false},
		{"60d", Window60, false},
		{"90d", 0, true},
		{"monthly", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseWindow(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWindow(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseWindow(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
