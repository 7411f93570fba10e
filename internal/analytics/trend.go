package analytics

import "invensmart/internal/models"

// FitTrend fits a least-squares line over (i, values[i]) and evaluates it
// back at each index, producing the trend series aligned to the input.
// An empty series stays empty; a single point returns a horizontal line
// through itself.
func FitTrend(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []float64{values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = intercept + slope*float64(i)
	}
	return fitted
}

// ForecastSeries pairs the daily sales series with its fitted trend line
// for the Actual/Trend chart.
func ForecastSeries(daily []models.TimeBucket) []models.ForecastPoint {
	if len(daily) == 0 {
		return nil
	}

	values := make([]float64, len(daily))
	for i, b := range daily {
		values[i] = b.SalesSum
	}
	fitted := FitTrend(values)

	points := make([]models.ForecastPoint, len(daily))
	for i, b := range daily {
		points[i] = models.ForecastPoint{
			Date:   b.Key,
			Actual: b.SalesSum,
			Trend:  fitted[i],
		}
	}
	return points
}
