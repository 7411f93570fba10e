package analytics

import (
	"log/slog"
	"time"

	"invensmart/internal/dataset"
	"invensmart/internal/models"
)

// Service computes dashboard views from the loaded dataset. Every view is
// a pure function of the base records and an explicit FilterConfig,
// recomputed per request; nothing is cached across interactions.
type Service struct {
	store  *dataset.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store *dataset.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) filtered(cfg FilterConfig) []models.InventoryRecord {
	return Filter(s.store.Records(), s.now(), cfg.Window, cfg.Category)
}

// KPIView is the Dashboard page's metric strip.
type KPIView struct {
	NoData bool          `json:"no_data"`
	KPIs   models.KPISet `json:"kpis"`
}

func (s *Service) KPIs(cfg FilterConfig) KPIView {
	rows := s.filtered(cfg)
	if len(rows) == 0 {
		return KPIView{NoData: true}
	}
	return KPIView{KPIs: ComputeKPIs(rows)}
}

// SalesView is a time-grouped sales series for the Dashboard chart.
type SalesView struct {
	NoData      bool                `json:"no_data"`
	Granularity Granularity         `json:"granularity"`
	Buckets     []models.TimeBucket `json:"buckets"`
}

func (s *Service) SalesOverTime(cfg FilterConfig, granularity Granularity) SalesView {
	rows := s.filtered(cfg)
	buckets := GroupByTime(rows, granularity)
	return SalesView{
		NoData:      len(buckets) == 0,
		Granularity: granularity,
		Buckets:     buckets,
	}
}

// BreakdownView is the per-category sales split for the pie chart. The
// pie is only meaningful over all categories; a narrowed view sets
// SingleCategory so the shell can explain instead of drawing one slice.
type BreakdownView struct {
	NoData         bool                   `json:"no_data"`
	SingleCategory bool                   `json:"single_category"`
	Categories     []models.CategorySales `json:"categories"`
}

func (s *Service) CategoryBreakdown(cfg FilterConfig) BreakdownView {
	if cfg.Category != AllCategories {
		return BreakdownView{SingleCategory: true}
	}
	groups := GroupByCategory(s.filtered(cfg))
	return BreakdownView{
		NoData:     len(groups) == 0,
		Categories: groups,
	}
}

// HistogramView carries raw sales volumes; binning happens in the charts
// layer.
type HistogramView struct {
	NoData bool      `json:"no_data"`
	Values []float64 `json:"values"`
}

func (s *Service) SalesDistribution(cfg FilterConfig) HistogramView {
	rows := s.filtered(cfg)
	if len(rows) == 0 {
		return HistogramView{NoData: true}
	}
	values := make([]float64, len(rows))
	for i, rec := range rows {
		values[i] = rec.SalesVolume
	}
	return HistogramView{Values: values}
}

// MatrixView is the product performance scatter: mean stock level against
// total sales per product.
type MatrixView struct {
	NoData   bool                    `json:"no_data"`
	Products []models.ProductSummary `json:"products"`
}

func (s *Service) ProductMatrix(cfg FilterConfig) MatrixView {
	products := GroupByProduct(s.filtered(cfg))
	return MatrixView{
		NoData:   len(products) == 0,
		Products: products,
	}
}

// InsightsView is the Insights page: rule statements, the Actual/Trend
// forecast series and the per-category metrics table.
type InsightsView struct {
	NoData          bool                     `json:"no_data"`
	Insights        []models.Insight         `json:"insights"`
	Forecast        []models.ForecastPoint   `json:"forecast"`
	CategoryMetrics []models.CategoryMetrics `json:"category_metrics"`
}

func (s *Service) Insights(cfg FilterConfig) InsightsView {
	rows := s.filtered(cfg)
	if len(rows) == 0 {
		return InsightsView{NoData: true}
	}
	return InsightsView{
		Insights:        GenerateInsights(rows),
		Forecast:        ForecastSeries(GroupByTime(rows, Daily)),
		CategoryMetrics: GroupCategoryMetrics(rows),
	}
}

// MetricsTableView is the per-category sum/mean/stddev table on its own.
type MetricsTableView struct {
	NoData  bool                     `json:"no_data"`
	Metrics []models.CategoryMetrics `json:"metrics"`
}

func (s *Service) CategoryMetrics(cfg FilterConfig) MetricsTableView {
	metrics := GroupCategoryMetrics(s.filtered(cfg))
	return MetricsTableView{
		NoData:  len(metrics) == 0,
		Metrics: metrics,
	}
}

// RecommendationsView is the Recommendations page: rule statements, the
// turnover-quantile segments and the restock table. An empty
// Recommendations list still renders — the shell shows the explicit
// fallback line in that case.
type RecommendationsView struct {
	NoData          bool                    `json:"no_data"`
	Recommendations []models.Insight        `json:"recommendations"`
	Overstocked     []models.ProductSegment `json:"overstocked"`
	Understocked    []models.ProductSegment `json:"understocked"`
	Restock         []models.RestockItem    `json:"restock"`
}

func (s *Service) Recommendations(cfg FilterConfig) RecommendationsView {
	rows := s.filtered(cfg)
	if len(rows) == 0 {
		return RecommendationsView{NoData: true}
	}

	overstocked, understocked := SegmentByTurnover(GroupByProduct(rows))
	return RecommendationsView{
		Recommendations: GenerateRecommendations(rows),
		Overstocked:     overstocked,
		Understocked:    understocked,
		Restock:         RestockCandidates(rows),
	}
}

// Categories lists selector values from the full dataset, unfiltered, so
// the selector does not shrink as filters narrow the view.
func (s *Service) Categories() []string {
	return Categories(s.store.Records())
}

func (s *Service) Stats() map[string]any {
	return s.store.Stats()
}
