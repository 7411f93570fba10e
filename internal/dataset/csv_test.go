package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "inventory*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

const validCSV = `Product_ID,Category,Stock_Level,Sales_Volume,Last_Restock_Date
P001,Electronics,50,120.5,2025-08-01
P002,Grocery,200,80,2025-08-02
P003,Electronics,10,40,2025-08-03`

func TestReadCSV_Valid(t *testing.T) {
	path := createTempCSV(t, validCSV)

	records, skipped, err := readCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("readCSV() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Order must match the file: downstream tie-breaks depend on it.
	if records[0].ProductID != "P001" || records[2].ProductID != "P003" {
		t.Errorf("records out of file order: %+v", records)
	}
	if records[0].Category != "Electronics" || records[0].StockLevel != 50 || records[0].SalesVolume != 120.5 {
		t.Errorf("first record parsed wrong: %+v", records[0])
	}
	if !records[0].HasRestock || records[0].RestockDate.Format("2006-01-02") != "2025-08-01" {
		t.Errorf("first record date parsed wrong: %+v", records[0])
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	path := createTempCSV(t, `Product_ID,Category,Stock_Level
P001,Electronics,50`)

	_, _, err := readCSV(context.Background(), path)
	if err == nil {
		t.Fatal("missing required columns must be a fatal error")
	}
	if !strings.Contains(err.Error(), "Sales_Volume") || !strings.Contains(err.Error(), "Last_Restock_Date") {
		t.Errorf("error should name the missing columns, got %v", err)
	}
}

func TestReadCSV_UnparseableDateBecomesNull(t *testing.T) {
	path := createTempCSV(t, `Product_ID,Category,Stock_Level,Sales_Volume,Last_Restock_Date
P001,Electronics,50,120,not-a-date
P002,Grocery,20,60,2025-08-02`)

	records, skipped, err := readCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("readCSV() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("a bad date is not a skipped row, skipped = %d", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].HasRestock {
		t.Error("unparseable date should become a null restock date")
	}
	if !records[1].HasRestock {
		t.Error("valid date lost")
	}
}

func TestReadCSV_BadNumericRowSkipped(t *testing.T) {
	path := createTempCSV(t, `Product_ID,Category,Stock_Level,Sales_Volume,Last_Restock_Date
P001,Electronics,lots,120,2025-08-01
P002,Grocery,20,sixty,2025-08-02
P003,Grocery,-5,60,2025-08-02
P004,Grocery,20,60,2025-08-02`)

	records, skipped, err := readCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("readCSV() error = %v", err)
	}
	if len(records) != 1 || records[0].ProductID != "P004" {
		t.Errorf("only the clean row should survive, got %+v", records)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := createTempCSV(t, "")

	if _, _, err := readCSV(context.Background(), path); err == nil {
		t.Error("empty file must error")
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	path := createTempCSV(t, "Product_ID,Category,Stock_Level,Sales_Volume,Last_Restock_Date\n")

	if _, _, err := readCSV(context.Background(), path); err == nil {
		t.Error("a dataset with no valid records must error")
	}
}

func TestParseRestockDate_Layouts(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2025-08-01", true},
		{"2025-08-01 13:45:00", true},
		{"2025-08-01T13:45:00Z", true},
		{"08/01/2025", true},
		{"1st of August", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := parseRestockDate(tt.input)
		if ok != tt.ok {
			t.Errorf("parseRestockDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
	}
}

func TestStore_LoadOnce(t *testing.T) {
	path := createTempCSV(t, validCSV)

	store := NewStore("", nil)
	if err := store.Load(context.Background(), path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	first := store.Records()

	// A second load is a no-op: the dataset is process-wide immutable
	// state constructed exactly once.
	if err := store.Load(context.Background(), "does-not-exist.csv"); err != nil {
		t.Fatalf("repeated Load() should not reparse or fail, got %v", err)
	}
	second := store.Records()

	if len(first) != len(second) {
		t.Errorf("records changed across loads: %d vs %d", len(first), len(second))
	}
}

func TestStore_CacheRoundTrip(t *testing.T) {
	cacheDir := t.TempDir()
	path := createTempCSV(t, validCSV)

	store := NewStore(cacheDir, nil)
	if err := store.Load(context.Background(), path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// A fresh store against the same path should hit the gob cache.
	cached := NewStore(cacheDir, nil)
	if err := cached.Load(context.Background(), path); err != nil {
		t.Fatalf("cached Load() error = %v", err)
	}
	if len(cached.Records()) != len(store.Records()) {
		t.Errorf("cache returned %d records, want %d", len(cached.Records()), len(store.Records()))
	}
}

func TestStore_Stats(t *testing.T) {
	store := NewStore("", nil)
	if err := store.Load(context.Background(), createTempCSV(t, validCSV)); err != nil {
		t.Fatal(err)
	}

	stats := store.Stats()
	if stats["record_count"] != 3 {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
	if stats["categories"] != 2 {
		t.Errorf("categories = %v, want 2", stats["categories"])
	}
}

func TestCacheFilenameIsPathSafe(t *testing.T) {
	store := NewStore(".cache", nil)
	name := store.cacheFilename("data/nested/inventory.csv")
	if filepath.Dir(name) != ".cache" {
		t.Errorf("cache file escaped the cache dir: %q", name)
	}
}
