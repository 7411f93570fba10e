package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"invensmart/internal/analytics"
	"invensmart/internal/charts"
)

var kpiTemplate = template.Must(template.New("kpis").Parse(`
<div id="kpi-content">
{{if .NoData}}<p class="no-data">No data available for the selected filters.</p>{{else}}
<div class="kpi-grid">
<div class="kpi-card"><span class="kpi-label">Total Sales</span><strong>${{printf "%.2f" .KPIs.TotalSales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Avg Daily Sales</span><strong>${{printf "%.2f" .KPIs.AvgDailySales}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Stock Turnover</span><strong>{{if .KPIs.TurnoverDefined}}{{printf "%.2f" .KPIs.StockTurnover}}x{{else}}&mdash;{{end}}</strong></div>
<div class="kpi-card"><span class="kpi-label">Low Stock Items</span><strong>{{.KPIs.LowStockItems}}</strong></div>
</div>
{{end}}
</div>`))

var insightsTemplate = template.Must(template.New("insights").Parse(`
<div id="insights-content">
{{if .NoData}}<p class="no-data">No data available for the selected filters.</p>{{else}}
<ul class="insight-list">
{{range .Insights}}<li data-rule="{{.Rule}}">{{.Text}}</li>
{{end}}</ul>
{{end}}
</div>`))

var recommendationsTemplate = template.Must(template.New("recommendations").Parse(`
<div id="recommendations-content">
{{if .NoData}}<p class="no-data">No data available for the selected filters.</p>{{else}}
{{if .Recommendations}}<ul class="insight-list">
{{range .Recommendations}}<li data-rule="{{.Rule}}">{{.Text}}</li>
{{end}}</ul>
{{else}}<p class="no-data">No recommendations for the current selection.</p>{{end}}
{{if not .Restock}}<p class="no-data">No immediate restock recommendations at this time.</p>{{end}}
{{end}}
</div>`))

type SSEHandlers struct {
	svc    *analytics.Service
	logger *slog.Logger
}

func NewSSEHandlers(svc *analytics.Service, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		svc:    svc,
		logger: logger,
	}
}

func renderFragment(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}

// dashboardRequest reads filter, granularity and chart kind off the query
// string, falling back to defaults on anything invalid: an SSE stream has
// no error channel worth speaking of, so a bad selector degrades to the
// default view instead.
func dashboardRequest(r *http.Request) (analytics.FilterConfig, analytics.Granularity, charts.Kind) {
	cfg, err := filterFromQuery(r)
	if err != nil {
		cfg = analytics.FilterConfig{Window: analytics.Window30, Category: analytics.AllCategories}
	}

	granularity, err := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		granularity = analytics.Daily
	}

	kind, err := charts.ParseKind(r.URL.Query().Get("chart"))
	if err != nil {
		kind = charts.Line
	}

	return cfg, granularity, kind
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	cfg, granularity, kind := dashboardRequest(r)

	html, err := renderFragment(kpiTemplate, h.svc.KPIs(cfg))
	if err != nil {
		h.logger.Error("render kpi fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	sales := h.svc.SalesOverTime(cfg, granularity)
	breakdown := h.svc.CategoryBreakdown(cfg)

	signals, err := json.Marshal(map[string]any{
		"salesChart":    charts.TimeSeries(kind, salesChartTitle(kind, granularity, cfg), sales.Buckets),
		"categoryChart": charts.CategoryPie("Sales Distribution by Category", breakdown.Categories),
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	cfg, _, _ := dashboardRequest(r)

	view := h.svc.Insights(cfg)
	html, err := renderFragment(insightsTemplate, view)
	if err != nil {
		h.logger.Error("render insights fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"forecastChart":   charts.Forecast("Sales Trend Analysis", view.Forecast),
		"categoryMetrics": view.CategoryMetrics,
	})
	if err != nil {
		h.logger.Error("marshal insights signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	cfg, _, _ := dashboardRequest(r)

	view := h.svc.Recommendations(cfg)
	html, err := renderFragment(recommendationsTemplate, view)
	if err != nil {
		h.logger.Error("render recommendations fragment", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"overstocked":  view.Overstocked,
		"understocked": view.Understocked,
		"restock":      view.Restock,
	})
	if err != nil {
		h.logger.Error("marshal recommendations signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	cfg, granularity, kind := dashboardRequest(r)

	for _, frag := range []struct {
		tmpl *template.Template
		data any
	}{
		{kpiTemplate, h.svc.KPIs(cfg)},
		{insightsTemplate, h.svc.Insights(cfg)},
		{recommendationsTemplate, h.svc.Recommendations(cfg)},
	} {
		html, err := renderFragment(frag.tmpl, frag.data)
		if err != nil {
			h.logger.Error("render fragment", "error", err)
			return
		}
		sse.PatchElements(html)
	}

	sales := h.svc.SalesOverTime(cfg, granularity)
	breakdown := h.svc.CategoryBreakdown(cfg)
	insights := h.svc.Insights(cfg)

	signals, err := json.Marshal(map[string]any{
		"salesChart":    charts.TimeSeries(kind, salesChartTitle(kind, granularity, cfg), sales.Buckets),
		"categoryChart": charts.CategoryPie("Sales Distribution by Category", breakdown.Categories),
		"forecastChart": charts.Forecast("Sales Trend Analysis", insights.Forecast),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
