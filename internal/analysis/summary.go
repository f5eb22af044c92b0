package analysis

import (
	"math"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

const summaryTrendBand = 5.0

// Summarize reduces a forecast run to its headline numbers. The forecast
// side re-applies the dimension filter to the projected points rather than
// reusing the total track, so the summary stays consistent with whatever
// subset the caller selected. The historical baseline is the trailing K
// periods, K being the forecast horizon. GrowthRate and ExpectedChange are
// absolute percentages; an empty forecast yields zeros and the undefined
// trend label.
func Summarize(history []model.AggregatedPeriod, forecast []model.ForecastPoint, f DimensionFilter, available []string, m model.Metric) model.ForecastSummary {
	if len(forecast) == 0 {
		return model.ForecastSummary{Trend: model.TrendUndefined}
	}

	var totalForecast, avgConfidence float64
	for _, pt := range forecast {
		totalForecast += SelectAndSum(pt.AggregatedPeriod, f, available, m)
		avgConfidence += pt.Confidence
	}
	averageForecast := totalForecast / float64(len(forecast))
	avgConfidence /= float64(len(forecast))

	recent := history
	if len(history) > len(forecast) {
		recent = history[len(history)-len(forecast):]
	}
	var totalHistorical float64
	for _, p := range recent {
		totalHistorical += SelectAndSum(p, f, available, m)
	}
	var avgHistorical float64
	if len(recent) > 0 {
		avgHistorical = totalHistorical / float64(len(recent))
	}

	var growthRate, expectedChange float64
	if avgHistorical > 0 {
		growthRate = (averageForecast - avgHistorical) / avgHistorical * 100
		expectedChange = (totalForecast - totalHistorical) / totalHistorical * 100
	}

	trend := model.TrendStable
	switch {
	case growthRate > summaryTrendBand:
		trend = model.TrendGrowth
	case growthRate < -summaryTrendBand:
		trend = model.TrendReduction
	}

	return model.ForecastSummary{
		TotalForecast:   totalForecast,
		AverageForecast: averageForecast,
		Trend:           trend,
		GrowthRate:      math.Abs(growthRate),
		AvgConfidence:   avgConfidence,
		TotalHistorical: totalHistorical,
		ExpectedChange:  math.Abs(expectedChange),
	}
}
