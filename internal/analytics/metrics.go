package analytics

import "invensmart/internal/models"

// lowStockFraction of the mean stock level marks a product as critically
// low. The threshold is recomputed on the current filtered view, it is not
// a fixed quantity.
const lowStockFraction = 0.2

// ComputeKPIs produces the scalar snapshot for the current view. It is a
// pure function of its input and returns the zero KPISet for an empty view.
//
// AvgDailySales keeps the historical meaning: it is the mean sales volume
// per row, not grouped by calendar day first.
func ComputeKPIs(records []models.InventoryRecord) models.KPISet {
	if len(records) == 0 {
		return models.KPISet{}
	}

	var salesSum, stockSum float64
	for _, rec := range records {
		salesSum += rec.SalesVolume
		stockSum += rec.StockLevel
	}

	n := float64(len(records))
	lowStock := LowStockCount(records, lowStockFraction)

	kpis := models.KPISet{
		TotalSales:    salesSum,
		AvgDailySales: salesSum / n,
		LowStockItems: lowStock,
		LowStockDelta: float64(lowStock) - n*lowStockFraction,
	}
	if stockSum > 0 {
		kpis.StockTurnover = salesSum / stockSum
		kpis.TurnoverDefined = true
	}
	return kpis
}

// LowStockCount counts rows whose stock level sits below the given
// fraction of the mean stock level. The comparison is strictly less-than.
func LowStockCount(records []models.InventoryRecord, fraction float64) int {
	if len(records) == 0 {
		return 0
	}

	threshold := meanStock(records) * fraction
	count := 0
	for _, rec := range records {
		if rec.StockLevel < threshold {
			count++
		}
	}
	return count
}

func meanStock(records []models.InventoryRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.StockLevel
	}
	return sum / float64(len(records))
}

func meanSales(records []models.InventoryRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.SalesVolume
	}
	return sum / float64(len(records))
}
