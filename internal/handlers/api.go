package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"invensmart/internal/analytics"
	"invensmart/internal/charts"
	"invensmart/internal/errors"
	"invensmart/internal/observability"
)

const cacheControl = "no-store"

type APIHandlers struct {
	svc    *analytics.Service
	logger *slog.Logger
}

func NewAPIHandlers(svc *analytics.Service, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		svc:    svc,
		logger: logger,
	}
}

// filterFromQuery reads the explicit filter selection off the query
// string. Defaults: last 30 days, all categories.
func filterFromQuery(r *http.Request) (analytics.FilterConfig, error) {
	window, err := analytics.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		return analytics.FilterConfig{}, err
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = analytics.AllCategories
	}

	return analytics.FilterConfig{Window: window, Category: category}, nil
}

func (h *APIHandlers) writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	requestID := observability.GetRequestID(r.Context())
	errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid filter parameters"), requestID)
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	errors.WriteSuccess(w, h.svc.KPIs(cfg))
}

func (h *APIHandlers) HandleSalesOverTime(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	granularity, err := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	kind, err := charts.ParseKind(r.URL.Query().Get("chart"))
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	view := h.svc.SalesOverTime(cfg, granularity)
	if view.NoData {
		errors.WriteSuccess(w, view)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"no_data": false,
		"buckets": view.Buckets,
		"chart":   charts.TimeSeries(kind, salesChartTitle(kind, granularity, cfg), view.Buckets),
	})
}

func (h *APIHandlers) HandleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	view := h.svc.CategoryBreakdown(cfg)
	if view.NoData || view.SingleCategory {
		errors.WriteSuccess(w, view)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"no_data":    false,
		"categories": view.Categories,
		"chart":      charts.CategoryPie("Sales Distribution by Category", view.Categories),
	})
}

func (h *APIHandlers) HandleSalesHistogram(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	view := h.svc.SalesDistribution(cfg)
	if view.NoData {
		errors.WriteSuccess(w, view)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"no_data": false,
		"chart":   charts.SalesHistogram("Sales Distribution", view.Values),
	})
}

func (h *APIHandlers) HandleProductMatrix(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	view := h.svc.ProductMatrix(cfg)
	if view.NoData {
		errors.WriteSuccess(w, view)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"no_data":  false,
		"products": view.Products,
		"chart":    charts.ProductScatter("Product Performance Matrix", view.Products),
	})
}

func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	view := h.svc.Insights(cfg)
	if view.NoData {
		errors.WriteSuccess(w, view)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"no_data":          false,
		"insights":         view.Insights,
		"forecast":         view.Forecast,
		"category_metrics": view.CategoryMetrics,
		"chart":            charts.Forecast("Sales Trend Analysis", view.Forecast),
	})
}

func (h *APIHandlers) HandleCategoryMetrics(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	errors.WriteSuccess(w, h.svc.CategoryMetrics(cfg))
}

func (h *APIHandlers) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		h.writeBadRequest(w, r, err)
		return
	}

	errors.WriteSuccess(w, h.svc.Recommendations(cfg))
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]any{
		"categories": h.svc.Categories(),
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.svc.Stats())
}

func salesChartTitle(kind charts.Kind, granularity analytics.Granularity, cfg analytics.FilterConfig) string {
	var label string
	switch granularity {
	case analytics.Weekly:
		label = "Weekly"
	case analytics.Monthly:
		label = "Monthly"
	default:
		label = "Daily"
	}

	noun := "Sales Trend"
	if kind == charts.Bar {
		noun = "Sales Distribution"
	}

	title := fmt.Sprintf("%s %s", label, noun)
	if cfg.Category != analytics.AllCategories {
		title = fmt.Sprintf("%s - %s", title, cfg.Category)
	}
	return title
}
