package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

func totalPeriod(start, end time.Time, cost float64) model.AggregatedPeriod {
	return model.AggregatedPeriod{
		Period:      start.Format("02/01/2006") + " - " + end.Format("02/01/2006"),
		PeriodStart: start,
		PeriodEnd:   end,
		TotalCost:   cost,
		TotalIPU:    cost,
		Dimensions:  map[string]model.SeriesValue{},
	}
}

func TestClassifyTrendTooFewPeriods(t *testing.T) {
	now := d(2025, time.July, 1)

	got := ClassifyTrend(nil, FilterAll, nil, model.MetricCost, now)
	assert.Equal(t, model.TrendResult{GrowthRate: 0, IsPositive: false, IsStable: true}, got)

	one := []model.AggregatedPeriod{totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 100)}
	got = ClassifyTrend(one, FilterAll, nil, model.MetricCost, now)
	assert.True(t, got.IsStable)
	assert.Zero(t, got.GrowthRate)
}

func TestClassifyTrendStabilityBoundary(t *testing.T) {
	now := d(2025, time.July, 15)
	base := totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 100)

	stable := ClassifyTrend([]model.AggregatedPeriod{
		base,
		totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 101.9),
	}, FilterAll, nil, model.MetricCost, now)
	assert.True(t, stable.IsStable)
	assert.True(t, stable.IsPositive)
	assert.InDelta(t, 1.9, stable.GrowthRate, 1e-9)

	moving := ClassifyTrend([]model.AggregatedPeriod{
		base,
		totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 102.1),
	}, FilterAll, nil, model.MetricCost, now)
	assert.False(t, moving.IsStable)
	assert.InDelta(t, 2.1, moving.GrowthRate, 1e-9)
}

func TestClassifyTrendSignAndAbsoluteRate(t *testing.T) {
	now := d(2025, time.July, 15)
	periods := []model.AggregatedPeriod{
		totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 200),
		totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 150),
	}

	got := ClassifyTrend(periods, FilterAll, nil, model.MetricCost, now)
	assert.False(t, got.IsPositive)
	assert.False(t, got.IsStable)
	assert.InDelta(t, 25.0, got.GrowthRate, 1e-9)
}

func TestClassifyTrendZeroPrevious(t *testing.T) {
	now := d(2025, time.July, 15)
	periods := []model.AggregatedPeriod{
		totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 0),
		totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 500),
	}

	got := ClassifyTrend(periods, FilterAll, nil, model.MetricCost, now)
	assert.Zero(t, got.GrowthRate)
	assert.False(t, got.IsPositive)
	assert.True(t, got.IsStable)
}

func TestClassifyTrendProjectsPartialPeriod(t *testing.T) {
	// 30-day cycle, 15 days elapsed (ceil day math), 60 consumed: projected to
	// 120 vs 100.
	now := d(2025, time.June, 16)
	periods := []model.AggregatedPeriod{
		totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 100),
		totalPeriod(d(2025, time.June, 1), d(2025, time.July, 1), 60),
	}

	got := ClassifyTrend(periods, FilterAll, nil, model.MetricCost, now)
	assert.True(t, got.IsPositive)
	assert.InDelta(t, 20.0, got.GrowthRate, 1e-9)

	// A day earlier only 14 days have elapsed: 60/14*30 ≈ 128.57 vs 100.
	got = ClassifyTrend(periods, FilterAll, nil, model.MetricCost, d(2025, time.June, 15))
	assert.InDelta(t, 100.0*(60.0/14.0*30.0-100.0)/100.0, got.GrowthRate, 1e-9)
}

func TestClassifyTrendCompletePeriodNotProjected(t *testing.T) {
	now := d(2025, time.July, 15)
	periods := []model.AggregatedPeriod{
		totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 100),
		totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 100),
	}

	got := ClassifyTrend(periods, FilterAll, nil, model.MetricCost, now)
	assert.Zero(t, got.GrowthRate)
	assert.True(t, got.IsStable)
}

func TestClassifyTrendFilteredSubset(t *testing.T) {
	now := d(2025, time.July, 15)
	prev := totalPeriod(d(2025, time.May, 1), d(2025, time.May, 31), 1000)
	prev.Dimensions["Data_Integration"] = model.SeriesValue{Cost: 100}
	cur := totalPeriod(d(2025, time.June, 1), d(2025, time.June, 30), 900)
	cur.Dimensions["Data_Integration"] = model.SeriesValue{Cost: 150}

	available := []string{"Data Integration", "CDI Elastic"}
	f := DimensionFilter{Keys: []string{"Data Integration"}}

	got := ClassifyTrend([]model.AggregatedPeriod{prev, cur}, f, available, model.MetricCost, now)
	assert.True(t, got.IsPositive)
	assert.InDelta(t, 50.0, got.GrowthRate, 1e-9)
}
