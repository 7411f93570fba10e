// Package charts builds render-ready chart configurations from aggregate
// tables. Rendering itself happens in the browser; this layer only fixes
// the shape handed over: kind, title, axis labels and series points.
package charts

import (
	"fmt"
	"math"

	"invensmart/internal/models"
)

type Kind string

const (
	Line      Kind = "line"
	Bar       Kind = "bar"
	Pie       Kind = "pie"
	Histogram Kind = "histogram"
	Scatter   Kind = "scatter"
)

// ParseKind maps the query-string form to a chart kind usable for the
// sales-over-time chart.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", string(Line):
		return Line, nil
	case string(Bar):
		return Bar, nil
	default:
		return "", fmt.Errorf("invalid chart type %q, must be line or bar", s)
	}
}

// Point is one chart datum. Label carries categorical x values; X carries
// numeric ones (scatter, histogram bin centers).
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

type Config struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	XLabel     string   `json:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty"`
	ShowLegend bool     `json:"show_legend"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors"`
}

var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

// TimeSeries builds the Dashboard sales chart from time buckets.
func TimeSeries(kind Kind, title string, buckets []models.TimeBucket) *Config {
	if len(buckets) == 0 {
		return nil
	}

	points := make([]Point, len(buckets))
	for i, b := range buckets {
		points[i] = Point{Label: b.Key, Y: b.SalesSum}
	}

	return &Config{
		Kind:   kind,
		Title:  title,
		XLabel: "Period",
		YLabel: "Sales ($)",
		Series: []Series{{Name: "Sales", Points: points}},
		Colors: assignColors(1),
	}
}

// CategoryPie builds the category breakdown pie.
func CategoryPie(title string, groups []models.CategorySales) *Config {
	if len(groups) == 0 {
		return nil
	}

	points := make([]Point, len(groups))
	for i, g := range groups {
		points[i] = Point{Label: g.Category, Y: g.SalesSum}
	}

	return &Config{
		Kind:       Pie,
		Title:      title,
		ShowLegend: true,
		Series:     []Series{{Name: "Sales", Points: points}},
		Colors:     assignColors(len(points)),
	}
}

// histogramBins matches the bin count the dashboard has always used for
// the sales distribution.
const histogramBins = 30

// SalesHistogram bins raw sales volumes into equal-width buckets labeled
// by bin center. A constant series collapses into a single bin.
func SalesHistogram(title string, values []float64) *Config {
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi == lo {
		return &Config{
			Kind:   Histogram,
			Title:  title,
			XLabel: "Sales Volume",
			YLabel: "Count",
			Series: []Series{{Name: "Count", Points: []Point{{X: lo, Y: float64(len(values))}}}},
			Colors: assignColors(1),
		}
	}

	width := (hi - lo) / histogramBins
	counts := make([]float64, histogramBins)
	for _, v := range values {
		bin := int((v - lo) / width)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	points := make([]Point, histogramBins)
	for i, c := range counts {
		points[i] = Point{X: lo + width*(float64(i)+0.5), Y: c}
	}

	return &Config{
		Kind:   Histogram,
		Title:  title,
		XLabel: "Sales Volume",
		YLabel: "Count",
		Series: []Series{{Name: "Count", Points: points}},
		Colors: assignColors(1),
	}
}

// ProductScatter builds the product performance matrix: mean stock level
// on x, total sales on y, one point per product.
func ProductScatter(title string, products []models.ProductSummary) *Config {
	if len(products) == 0 {
		return nil
	}

	points := make([]Point, len(products))
	for i, p := range products {
		points[i] = Point{Label: p.ProductID, X: p.StockMean, Y: p.SalesSum}
	}

	return &Config{
		Kind:   Scatter,
		Title:  title,
		XLabel: "Average Stock Level",
		YLabel: "Total Sales",
		Series: []Series{{Name: "Products", Points: points}},
		Colors: assignColors(1),
	}
}

// Forecast builds the Actual/Trend comparison line chart.
func Forecast(title string, points []models.ForecastPoint) *Config {
	if len(points) == 0 {
		return nil
	}

	actual := make([]Point, len(points))
	trend := make([]Point, len(points))
	for i, p := range points {
		actual[i] = Point{Label: p.Date, Y: p.Actual}
		trend[i] = Point{Label: p.Date, Y: p.Trend}
	}

	return &Config{
		Kind:       Line,
		Title:      title,
		XLabel:     "Date",
		YLabel:     "Sales Volume",
		ShowLegend: true,
		Series: []Series{
			{Name: "Actual", Points: actual},
			{Name: "Trend", Points: trend},
		},
		Colors: assignColors(2),
	}
}
