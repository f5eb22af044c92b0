package analysis

import (
	"math"
	"time"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

const stableBand = 2.0

// ClassifyTrend compares the latest period against the one before it under
// the given dimension filter. When the latest cycle is still running its
// value is linearly projected to the full cycle length before comparison so
// a half-elapsed cycle is not read as a drop. Fewer than two periods
// classifies as stable with zero growth.
func ClassifyTrend(periods []model.AggregatedPeriod, f DimensionFilter, available []string, m model.Metric, now time.Time) model.TrendResult {
	if len(periods) < 2 {
		return model.TrendResult{GrowthRate: 0, IsPositive: false, IsStable: true}
	}

	current := periods[len(periods)-1]
	previous := periods[len(periods)-2]
	currentValue := SelectAndSum(current, f, available, m)
	previousValue := SelectAndSum(previous, f, available, m)

	if current.PeriodEnd.After(now) {
		totalDays := ceilDays(current.PeriodEnd.Sub(current.PeriodStart))
		daysElapsed := ceilDays(now.Sub(current.PeriodStart))
		if daysElapsed > 0 && totalDays > daysElapsed {
			currentValue = currentValue / float64(daysElapsed) * float64(totalDays)
		}
	}

	var rate float64
	if previousValue > 0 {
		rate = (currentValue - previousValue) / previousValue * 100
	}
	return model.TrendResult{
		GrowthRate: math.Abs(rate),
		IsPositive: rate > 0,
		IsStable:   math.Abs(rate) < stableBand,
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
