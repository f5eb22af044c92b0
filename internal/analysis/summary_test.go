package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

func forecastPoint(cost, confidence float64) model.ForecastPoint {
	return model.ForecastPoint{
		AggregatedPeriod: model.AggregatedPeriod{TotalCost: cost, Dimensions: map[string]model.SeriesValue{}},
		Confidence:       confidence,
	}
}

func threePeriods(cost float64) []model.AggregatedPeriod {
	out := make([]model.AggregatedPeriod, 3)
	for i := range out {
		out[i] = totalPeriod(d(2025, time.Month(4+i), 1), d(2025, time.Month(4+i), 28), cost)
	}
	return out
}

func TestSummarizeEmptyForecast(t *testing.T) {
	got := Summarize(threePeriods(100), nil, FilterAll, nil, model.MetricCost)
	assert.Equal(t, model.ForecastSummary{Trend: model.TrendUndefined}, got)
}

func TestSummarizeGrowth(t *testing.T) {
	history := threePeriods(100)
	forecast := []model.ForecastPoint{
		forecastPoint(110, 0.9),
		forecastPoint(120, 0.8),
		forecastPoint(130, 0.7),
	}

	got := Summarize(history, forecast, FilterAll, nil, model.MetricCost)
	assert.InDelta(t, 360, got.TotalForecast, 1e-9)
	assert.InDelta(t, 120, got.AverageForecast, 1e-9)
	assert.InDelta(t, 300, got.TotalHistorical, 1e-9)
	assert.InDelta(t, 20, got.GrowthRate, 1e-9)
	assert.InDelta(t, 20, got.ExpectedChange, 1e-9)
	assert.InDelta(t, 0.8, got.AvgConfidence, 1e-9)
	assert.Equal(t, model.TrendGrowth, got.Trend)
}

func TestSummarizeReductionReportsAbsoluteRate(t *testing.T) {
	got := Summarize(threePeriods(100), []model.ForecastPoint{
		forecastPoint(90, 0.9), forecastPoint(90, 0.9), forecastPoint(90, 0.9),
	}, FilterAll, nil, model.MetricCost)

	assert.Equal(t, model.TrendReduction, got.Trend)
	assert.InDelta(t, 10, got.GrowthRate, 1e-9)
	assert.InDelta(t, 10, got.ExpectedChange, 1e-9)
}

func TestSummarizeTrendLabelThresholds(t *testing.T) {
	atBand := Summarize(threePeriods(100), []model.ForecastPoint{
		forecastPoint(105, 0.9), forecastPoint(105, 0.9), forecastPoint(105, 0.9),
	}, FilterAll, nil, model.MetricCost)
	assert.Equal(t, model.TrendStable, atBand.Trend)
	assert.InDelta(t, 5.0, atBand.GrowthRate, 1e-9)

	pastBand := Summarize(threePeriods(100), []model.ForecastPoint{
		forecastPoint(105.01, 0.9), forecastPoint(105.01, 0.9), forecastPoint(105.01, 0.9),
	}, FilterAll, nil, model.MetricCost)
	assert.Equal(t, model.TrendGrowth, pastBand.Trend)
}

func TestSummarizeZeroBaseline(t *testing.T) {
	got := Summarize(threePeriods(0), []model.ForecastPoint{
		forecastPoint(50, 0.6), forecastPoint(50, 0.6), forecastPoint(50, 0.6),
	}, FilterAll, nil, model.MetricCost)

	assert.Zero(t, got.GrowthRate)
	assert.Zero(t, got.ExpectedChange)
	assert.Equal(t, model.TrendStable, got.Trend)
	assert.InDelta(t, 150, got.TotalForecast, 1e-9)
}

func TestSummarizeBaselineIsTrailingHorizon(t *testing.T) {
	// 6 history periods, horizon 2: baseline must be the last two only.
	history := append(threePeriods(1000), threePeriods(100)...)
	forecast := []model.ForecastPoint{forecastPoint(110, 0.9), forecastPoint(110, 0.9)}

	got := Summarize(history, forecast, FilterAll, nil, model.MetricCost)
	assert.InDelta(t, 200, got.TotalHistorical, 1e-9)
	assert.InDelta(t, 10, got.GrowthRate, 1e-9)
	assert.Equal(t, model.TrendGrowth, got.Trend)
}

func TestSummarizeFilteredSubset(t *testing.T) {
	history := threePeriods(1000)
	for i := range history {
		history[i].Dimensions["Data_Integration"] = model.SeriesValue{Cost: 100}
	}
	forecast := make([]model.ForecastPoint, 3)
	for i := range forecast {
		forecast[i] = forecastPoint(9999, 0.9)
		forecast[i].Dimensions["Data_Integration"] = model.SeriesValue{Cost: 150}
	}

	available := []string{"Data Integration", "CDI Elastic"}
	f := DimensionFilter{Keys: []string{"Data Integration"}}

	got := Summarize(history, forecast, f, available, model.MetricCost)
	assert.InDelta(t, 450, got.TotalForecast, 1e-9)
	assert.InDelta(t, 300, got.TotalHistorical, 1e-9)
	assert.InDelta(t, 50, got.GrowthRate, 1e-9)
	assert.Equal(t, model.TrendGrowth, got.Trend)
}
