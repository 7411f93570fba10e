// Package templates holds the dashboard page as a templ component. The
// page is a thin shell: all data arrives over the datastar SSE endpoints
// after load, so the component only lays out selectors and containers.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

const refreshExpr = "@get(`/sse/refresh-all?range=${$range}&category=${$category}&granularity=${$granularity}&chart=${$chart}`)"

// Dashboard renders the page shell. Categories populate the filter
// selector and come from the full dataset, not the filtered view.
func Dashboard(categories []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		write := func(format string, args ...any) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(w, format, args...)
		}

		write(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>InvenSmart Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f8fafc;color:#0f172a}
header{padding:1rem 2rem;background:#1e293b;color:#f8fafc}
main{padding:1rem 2rem;display:grid;gap:1.5rem}
.filters{display:flex;gap:1rem;flex-wrap:wrap;align-items:end}
.filters label{display:grid;gap:.25rem;font-size:.85rem}
.kpi-grid{display:grid;grid-template-columns:repeat(4,1fr);gap:1rem}
.kpi-card{background:#fff;border-radius:.5rem;padding:1rem;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.kpi-label{display:block;font-size:.8rem;color:#64748b}
.insight-list li{margin:.5rem 0}
.no-data{color:#b45309}
</style>
</head>
<body data-signals="{range:'30d',category:'All',granularity:'daily',chart:'line',message:''}" data-on-load="%s">
<header><h1>InvenSmart Dashboard</h1></header>
<main>
<section class="filters">
<label>Date Range
<select data-bind-range data-on-change="%s">
<option value="30d">Last 30 Days</option>
<option value="60d">Last 60 Days</option>
</select>
</label>
<label>Category
<select data-bind-category data-on-change="%s">
<option value="All">All</option>
`, html.EscapeString(refreshExpr), html.EscapeString(refreshExpr), html.EscapeString(refreshExpr))

		for _, category := range categories {
			escaped := html.EscapeString(category)
			write(`<option value="%s">%s</option>
`, escaped, escaped)
		}

		write(`</select>
</label>
<label>Time Grouping
<select data-bind-granularity data-on-change="%s">
<option value="daily">Daily</option>
<option value="weekly">Weekly</option>
<option value="monthly">Monthly</option>
</select>
</label>
<label>Chart Type
<select data-bind-chart data-on-change="%s">
<option value="line">Line Chart</option>
<option value="bar">Bar Chart</option>
</select>
</label>
</section>
<section><h2>Key Performance Indicators</h2><div id="kpi-content">Loading&hellip;</div></section>
<section><h2>Sales Analysis</h2><div id="chart-content" data-chart-signal="salesChart"></div><div id="pie-content" data-chart-signal="categoryChart"></div></section>
<section><h2>Key Insights</h2><div id="insights-content">Loading&hellip;</div><div id="forecast-content" data-chart-signal="forecastChart"></div></section>
<section><h2>Smart Recommendations</h2><div id="recommendations-content">Loading&hellip;</div></section>
<section>
<h2>Feedback</h2>
<textarea data-bind-message rows="3" placeholder="Share your feedback or suggestions"></textarea>
<button data-on-click="@post('/api/feedback')">Submit Feedback</button>
</section>
</main>
</body>
</html>
`, html.EscapeString(refreshExpr), html.EscapeString(refreshExpr))

		return err
	})
}
