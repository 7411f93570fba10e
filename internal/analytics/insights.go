package analytics

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"invensmart/internal/models"
)

// Rule identities carried on every generated statement.
const (
	RuleSalesTrend   = "sales_trend"
	RuleTopCategory  = "top_category"
	RuleLowStock     = "low_stock"
	RuleSlowMovers   = "slow_movers"
	RuleUnderStocked = "under_stocked"
)

// GenerateInsights applies the heuristic rules in their fixed order and
// returns the statements whose conditions hold. An empty view yields no
// statements.
func GenerateInsights(records []models.InventoryRecord) []models.Insight {
	if len(records) == 0 {
		return nil
	}

	insights := make([]models.Insight, 0, 3)

	if stmt, ok := trendStatement(records); ok {
		insights = append(insights, stmt)
	}

	if top, ok := TopCategory(records); ok {
		insights = append(insights, models.Insight{
			Rule: RuleTopCategory,
			Text: fmt.Sprintf("Best performing category: %s with $%s in sales", top.Category, formatAmount(top.SalesSum)),
		})
	}

	if low := LowStockCount(records, lowStockFraction); low > 0 {
		insights = append(insights, models.Insight{
			Rule: RuleLowStock,
			Text: fmt.Sprintf("%d products have critically low stock levels", low),
		})
	}

	return insights
}

// trendStatement takes the mean of successive sales-volume differences
// over rows sorted by restock date. Fewer than two rows leave no diff
// series, so the statement is skipped rather than built from an undefined
// mean. A zero mean reports as downward, matching the two-way wording the
// dashboard has always used.
func trendStatement(records []models.InventoryRecord) (models.Insight, bool) {
	if len(records) < 2 {
		return models.Insight{}, false
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.InventoryRecord) int {
		// Rows without a restock date sort after dated rows.
		switch {
		case a.HasRestock && !b.HasRestock:
			return -1
		case !a.HasRestock && b.HasRestock:
			return 1
		case !a.HasRestock:
			return 0
		default:
			return a.RestockDate.Compare(b.RestockDate)
		}
	})

	var diffSum float64
	for i := 1; i < len(sorted); i++ {
		diffSum += sorted[i].SalesVolume - sorted[i-1].SalesVolume
	}
	meanDiff := diffSum / float64(len(sorted)-1)

	direction := "downward"
	change := "decrease"
	if meanDiff > 0 {
		direction = "upward"
		change = "increase"
	}
	return models.Insight{
		Rule: RuleSalesTrend,
		Text: fmt.Sprintf("Sales are trending %s with an average %s of $%.2f per day", direction, change, math.Abs(meanDiff)),
	}, true
}

// GenerateRecommendations applies the two inventory-optimization rules to
// the current view. Both masks use strict inequalities against the view
// means, so a perfectly uniform dataset produces nothing. Rules with an
// empty match set are omitted; the shell renders the explicit
// "no recommendations" fallback when the whole list is empty.
func GenerateRecommendations(records []models.InventoryRecord) []models.Insight {
	if len(records) == 0 {
		return nil
	}

	stockMean := meanStock(records)
	salesMean := meanSales(records)

	var slowMovers, underStocked int
	for _, rec := range records {
		if rec.StockLevel > stockMean && rec.SalesVolume < salesMean {
			slowMovers++
		}
		if rec.StockLevel < stockMean && rec.SalesVolume > salesMean {
			underStocked++
		}
	}

	recs := make([]models.Insight, 0, 2)
	if slowMovers > 0 {
		recs = append(recs, models.Insight{
			Rule: RuleSlowMovers,
			Text: fmt.Sprintf("Consider reducing stock for %d slow-moving products", slowMovers),
		})
	}
	if underStocked > 0 {
		recs = append(recs, models.Insight{
			Rule: RuleUnderStocked,
			Text: fmt.Sprintf("Opportunity to increase stock for %d high-demand products", underStocked),
		})
	}
	return recs
}

// segmentLimit caps each turnover segment for display.
const segmentLimit = 5

// SegmentByTurnover splits products on the turnover-ratio scale:
// overstocked products sit below the lower quartile, understocked above
// the upper. Products with zero mean stock carry no finite ratio and are
// left out of the scale. Each segment is sorted by ratio, overstocked
// ascending and understocked descending, capped at segmentLimit entries.
func SegmentByTurnover(products []models.ProductSummary) (overstocked, understocked []models.ProductSegment) {
	segments := make([]models.ProductSegment, 0, len(products))
	for _, p := range products {
		if p.StockMean <= 0 {
			continue
		}
		segments = append(segments, models.ProductSegment{
			ProductID:     p.ProductID,
			SalesSum:      p.SalesSum,
			StockMean:     p.StockMean,
			TurnoverRatio: p.SalesSum / p.StockMean,
		})
	}
	if len(segments) == 0 {
		return nil, nil
	}

	ratios := make([]float64, len(segments))
	for i, s := range segments {
		ratios[i] = s.TurnoverRatio
	}
	slices.Sort(ratios)
	lower := Quantile(ratios, 0.25)
	upper := Quantile(ratios, 0.75)

	for _, s := range segments {
		if s.TurnoverRatio < lower {
			overstocked = append(overstocked, s)
		}
		if s.TurnoverRatio > upper {
			understocked = append(understocked, s)
		}
	}

	slices.SortStableFunc(overstocked, func(a, b models.ProductSegment) int {
		return compareFloat(a.TurnoverRatio, b.TurnoverRatio)
	})
	slices.SortStableFunc(understocked, func(a, b models.ProductSegment) int {
		return compareFloat(b.TurnoverRatio, a.TurnoverRatio)
	})

	if len(overstocked) > segmentLimit {
		overstocked = overstocked[:segmentLimit]
	}
	if len(understocked) > segmentLimit {
		understocked = understocked[:segmentLimit]
	}
	return overstocked, understocked
}

// restockLimit caps the restock table for display.
const restockLimit = 10

// RestockCandidates lists rows whose stock level sits below the mean
// sales volume of the view, lowest stock first.
func RestockCandidates(records []models.InventoryRecord) []models.RestockItem {
	if len(records) == 0 {
		return nil
	}

	salesMean := meanSales(records)
	items := make([]models.RestockItem, 0)
	for _, rec := range records {
		if rec.StockLevel < salesMean {
			items = append(items, models.RestockItem{
				ProductID:   rec.ProductID,
				Category:    rec.Category,
				StockLevel:  rec.StockLevel,
				SalesVolume: rec.SalesVolume,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b models.RestockItem) int {
		return compareFloat(a.StockLevel, b.StockLevel)
	})
	if len(items) > restockLimit {
		items = items[:restockLimit]
	}
	return items
}

// Quantile computes the q-quantile of sorted values with linear
// interpolation between closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// formatAmount renders a sales amount with thousands separators and two
// decimals, e.g. 1234.5 -> "1,234.50".
func formatAmount(v float64) string {
	neg := v < 0
	s := fmt.Sprintf("%.2f", math.Abs(v))

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
