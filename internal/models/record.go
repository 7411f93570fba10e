package models

import "time"

// InventoryRecord is one row of the loaded dataset. A product may appear
// more than once, e.g. one row per restock event.
type InventoryRecord struct {
	ProductID   string
	Category    string
	StockLevel  float64
	SalesVolume float64
	RestockDate time.Time
	// HasRestock is false when the date cell could not be parsed; such
	// rows are excluded from every date-windowed view.
	HasRestock bool
}

// KPISet is the scalar snapshot recomputed on every filter change.
type KPISet struct {
	TotalSales    float64 `json:"total_sales"`
	AvgDailySales float64 `json:"avg_daily_sales"`
	StockTurnover float64 `json:"stock_turnover"`
	// TurnoverDefined is false when total stock is zero; the shell
	// renders a sentinel instead of a number.
	TurnoverDefined bool    `json:"turnover_defined"`
	LowStockItems   int     `json:"low_stock_items"`
	LowStockDelta   float64 `json:"low_stock_delta"`
}

// TimeBucket is one point of a time-grouped sales series. Ordering is
// decided by the aggregation engine, not by the key string.
type TimeBucket struct {
	Key      string  `json:"key"`
	SalesSum float64 `json:"sales_sum"`
}

type CategorySales struct {
	Category string  `json:"category"`
	SalesSum float64 `json:"sales_sum"`
}

// ProductSummary aggregates all rows of one product.
type ProductSummary struct {
	ProductID string  `json:"product_id"`
	SalesSum  float64 `json:"sales_sum"`
	StockMean float64 `json:"stock_mean"`
}

// ProductSegment is a ProductSummary placed on the turnover scale.
type ProductSegment struct {
	ProductID     string  `json:"product_id"`
	SalesSum      float64 `json:"sales_sum"`
	StockMean     float64 `json:"stock_mean"`
	TurnoverRatio float64 `json:"turnover_ratio"`
}

type CategoryMetrics struct {
	Category  string  `json:"category"`
	SalesSum  float64 `json:"sales_sum"`
	SalesMean float64 `json:"sales_mean"`
	SalesStd  float64 `json:"sales_std"`
	StockMean float64 `json:"stock_mean"`
}

type RestockItem struct {
	ProductID   string  `json:"product_id"`
	Category    string  `json:"category"`
	StockLevel  float64 `json:"stock_level"`
	SalesVolume float64 `json:"sales_volume"`
}

// Insight is a generated statement plus the identity of the heuristic
// rule that produced it. Emission order is the fixed rule order.
type Insight struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

// ForecastPoint pairs an actual daily sales value with the value of the
// fitted trend line at the same index.
type ForecastPoint struct {
	Date   string  `json:"date"`
	Actual float64 `json:"actual"`
	Trend  float64 `json:"trend"`
}
