package analytics

import (
	"math"
	"testing"

	"invensmart/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeKPIs(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "A", 100, 40, 1),
		rec("P2", "A", 200, 80, 2),
		rec("P3", "B", 100, 120, 3),
	}

	kpis := ComputeKPIs(records)

	if !almostEqual(kpis.TotalSales, 240) {
		t.Errorf("TotalSales = %v, want 240", kpis.TotalSales)
	}
	// Per-row mean, not grouped by day first; the literal formula is
	// load-bearing for the dashboard's historical numbers.
	if !almostEqual(kpis.AvgDailySales, 80) {
		t.Errorf("AvgDailySales = %v, want 80 (per-row mean)", kpis.AvgDailySales)
	}
	if !kpis.TurnoverDefined || !almostEqual(kpis.StockTurnover, 240.0/400.0) {
		t.Errorf("StockTurnover = %v (defined=%v), want 0.6", kpis.StockTurnover, kpis.TurnoverDefined)
	}
}

func TestComputeKPIs_TotalMatchesCategorySums(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "A", 10, 25, 1),
		rec("P2", "B", 10, 75, 2),
		rec("P3", "A", 10, 50, 3),
	}

	var categorySum float64
	for _, g := range GroupByCategory(records) {
		categorySum += g.SalesSum
	}

	if got := ComputeKPIs(records).TotalSales; !almostEqual(got, categorySum) {
		t.Errorf("TotalSales = %v, category sums = %v", got, categorySum)
	}
}

func TestComputeKPIs_ZeroStockSum(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "A", 0, 40, 1),
		rec("P2", "A", 0, 80, 2),
	}

	kpis := ComputeKPIs(records)
	if kpis.TurnoverDefined {
		t.Error("turnover should be undefined when total stock is zero")
	}
	if kpis.StockTurnover != 0 {
		t.Errorf("undefined turnover should stay at zero sentinel, got %v", kpis.StockTurnover)
	}
}

func TestComputeKPIs_Empty(t *testing.T) {
	kpis := ComputeKPIs(nil)
	if kpis != (models.KPISet{}) {
		t.Errorf("empty dataset should produce the zero KPISet, got %+v", kpis)
	}
}

func TestLowStockCount(t *testing.T) {
	// Mean stock = 100; 20% threshold = 20.
	records := []models.InventoryRecord{
		rec("P1", "A", 5, 10, 1),
		rec("P2", "A", 15, 10, 2),
		rec("P3", "A", 180, 10, 3),
		rec("P4", "A", 200, 10, 4),
	}

	if got := LowStockCount(records, 0.2); got != 2 {
		t.Errorf("LowStockCount(0.2) = %d, want 2", got)
	}
}

func TestLowStockCount_MonotonicInThreshold(t *testing.T) {
	records := []models.InventoryRecord{
		rec("P1", "A", 5, 10, 1),
		rec("P2", "A", 19, 10, 2),
		rec("P3", "A", 40, 10, 3),
		rec("P4", "A", 336, 10, 4),
	}

	prev := LowStockCount(records, 0.5)
	for _, fraction := range []float64{0.4, 0.3, 0.2, 0.1, 0.05} {
		got := LowStockCount(records, fraction)
		if got > prev {
			t.Errorf("tightening threshold to %v increased count from %d to %d", fraction, prev, got)
		}
		prev = got
	}
}

func TestLowStockCount_StrictComparison(t *testing.T) {
	// All equal: stock == threshold only if fraction is 1, and even then
	// the strict less-than must not count anything.
	records := []models.InventoryRecord{
		rec("P1", "A", 50, 10, 1),
		rec("P2", "A", 50, 10, 2),
	}

	if got := LowStockCount(records, 1.0); got != 0 {
		t.Errorf("LowStockCount with uniform stock = %d, want 0", got)
	}
}
