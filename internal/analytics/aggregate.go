package analytics

import (
	"fmt"
	"math"
	"slices"
	"time"

	"invensmart/internal/models"
)

// Granularity is the time-bucket size for sales aggregation.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity maps the query-string form to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "", string(Daily):
		return Daily, nil
	case string(Weekly):
		return Weekly, nil
	case string(Monthly):
		return Monthly, nil
	default:
		return "", fmt.Errorf("invalid granularity %q, must be daily, weekly or monthly", s)
	}
}

// GroupByTime buckets sales volume by restock date. Rows without a restock
// date carry no bucket key and are skipped.
//
// Weekly buckets use the ISO week number with no year qualifier, so week 7
// of two different years lands in one bucket; the dashboard has always
// shown weekly data that way inside a 60-day window, where at most one
// year boundary is crossed. Monthly buckets are ordered chronologically.
func GroupByTime(records []models.InventoryRecord, granularity Granularity) []models.TimeBucket {
	switch granularity {
	case Weekly:
		return groupByWeek(records)
	case Monthly:
		return groupByMonth(records)
	default:
		return groupByDay(records)
	}
}

func groupByDay(records []models.InventoryRecord) []models.TimeBucket {
	sums := make(map[time.Time]float64)
	for _, rec := range records {
		if !rec.HasRestock {
			continue
		}
		day := rec.RestockDate.Truncate(24 * time.Hour)
		sums[day] += rec.SalesVolume
	}

	days := make([]time.Time, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	slices.SortFunc(days, time.Time.Compare)

	buckets := make([]models.TimeBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, models.TimeBucket{
			Key:      day.Format("2006-01-02"),
			SalesSum: sums[day],
		})
	}
	return buckets
}

func groupByWeek(records []models.InventoryRecord) []models.TimeBucket {
	sums := make(map[int]float64)
	for _, rec := range records {
		if !rec.HasRestock {
			continue
		}
		_, week := rec.RestockDate.ISOWeek()
		sums[week] += rec.SalesVolume
	}

	weeks := make([]int, 0, len(sums))
	for week := range sums {
		weeks = append(weeks, week)
	}
	slices.Sort(weeks)

	buckets := make([]models.TimeBucket, 0, len(weeks))
	for _, week := range weeks {
		buckets = append(buckets, models.TimeBucket{
			Key:      fmt.Sprintf("Week %d", week),
			SalesSum: sums[week],
		})
	}
	return buckets
}

func groupByMonth(records []models.InventoryRecord) []models.TimeBucket {
	sums := make(map[time.Time]float64)
	for _, rec := range records {
		if !rec.HasRestock {
			continue
		}
		month := time.Date(rec.RestockDate.Year(), rec.RestockDate.Month(), 1, 0, 0, 0, 0, rec.RestockDate.Location())
		sums[month] += rec.SalesVolume
	}

	months := make([]time.Time, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	slices.SortFunc(months, time.Time.Compare)

	buckets := make([]models.TimeBucket, 0, len(months))
	for _, month := range months {
		buckets = append(buckets, models.TimeBucket{
			Key:      month.Format("January 2006"),
			SalesSum: sums[month],
		})
	}
	return buckets
}

// GroupByCategory sums sales volume per category, in first-seen row order.
// First-seen ordering keeps ranking tie-breaks deterministic.
func GroupByCategory(records []models.InventoryRecord) []models.CategorySales {
	index := make(map[string]int, 8)
	out := make([]models.CategorySales, 0, 8)
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(out)
			index[rec.Category] = i
			out = append(out, models.CategorySales{Category: rec.Category})
		}
		out[i].SalesSum += rec.SalesVolume
	}
	return out
}

// TopCategory returns the category with the highest summed sales volume.
// Ties go to the category seen first in row order.
func TopCategory(records []models.InventoryRecord) (models.CategorySales, bool) {
	groups := GroupByCategory(records)
	if len(groups) == 0 {
		return models.CategorySales{}, false
	}

	top := groups[0]
	for _, g := range groups[1:] {
		if g.SalesSum > top.SalesSum {
			top = g
		}
	}
	return top, true
}

// GroupByProduct sums sales volume and averages stock level per product,
// in first-seen row order.
func GroupByProduct(records []models.InventoryRecord) []models.ProductSummary {
	index := make(map[string]int, 16)
	out := make([]models.ProductSummary, 0, 16)
	counts := make([]int, 0, 16)

	for _, rec := range records {
		i, ok := index[rec.ProductID]
		if !ok {
			i = len(out)
			index[rec.ProductID] = i
			out = append(out, models.ProductSummary{ProductID: rec.ProductID})
			counts = append(counts, 0)
		}
		out[i].SalesSum += rec.SalesVolume
		out[i].StockMean += rec.StockLevel
		counts[i]++
	}

	for i := range out {
		out[i].StockMean /= float64(counts[i])
	}
	return out
}

// GroupCategoryMetrics computes the per-category summary table: sales
// sum, mean and standard deviation plus mean stock, rounded to cents.
// The deviation is the sample deviation; a single-row category reports 0.
func GroupCategoryMetrics(records []models.InventoryRecord) []models.CategoryMetrics {
	type acc struct {
		sales []float64
		stock float64
	}

	index := make(map[string]int, 8)
	order := make([]string, 0, 8)
	accs := make([]acc, 0, 8)

	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(accs)
			index[rec.Category] = i
			order = append(order, rec.Category)
			accs = append(accs, acc{})
		}
		accs[i].sales = append(accs[i].sales, rec.SalesVolume)
		accs[i].stock += rec.StockLevel
	}

	out := make([]models.CategoryMetrics, 0, len(order))
	for i, category := range order {
		a := accs[i]
		n := float64(len(a.sales))
		var sum float64
		for _, v := range a.sales {
			sum += v
		}
		mean := sum / n

		var std float64
		if len(a.sales) > 1 {
			var sq float64
			for _, v := range a.sales {
				d := v - mean
				sq += d * d
			}
			std = math.Sqrt(sq / (n - 1))
		}

		out = append(out, models.CategoryMetrics{
			Category:  category,
			SalesSum:  round2(sum),
			SalesMean: round2(mean),
			SalesStd:  round2(std),
			StockMean: round2(a.stock / n),
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Categories lists the distinct categories in first-seen order, for the
// filter selector.
func Categories(records []models.InventoryRecord) []string {
	seen := make(map[string]bool, 8)
	out := make([]string, 0, 8)
	for _, rec := range records {
		if !seen[rec.Category] {
			seen[rec.Category] = true
			out = append(out, rec.Category)
		}
	}
	return out
}
