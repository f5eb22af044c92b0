package analysis

import (
	"math"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

const (
	// Blend weights for the three sub-methods.
	weightLinear   = 0.4
	weightMovAvg   = 0.3
	weightSeasonal = 0.3

	confidenceFloor   = 0.6
	confidenceCeiling = 0.95

	defaultForecastPeriods = 3
	minForecastHistory     = 3
	seasonalPatternLength  = 12
	movingAverageWindow    = 3
)

// ForecastOptions parameterizes a forecast run. Available lists every raw
// dimension name present in the history so the filter can detect full
// coverage; Periods defaults to 3 when non-positive.
type ForecastOptions struct {
	Metric    model.Metric
	Filter    DimensionFilter
	Available []string
	Periods   int
}

// Forecast projects the aggregated history forward. Each future period blends
// a linear regression, a moving average with trend, and a seasonal-naive
// estimate (0.4/0.3/0.3), floored at zero. The total track always projects
// the unfiltered grand totals; the filtered series feeds only the confidence
// score. Per-dimension tracks are projected for each selected dimension,
// skipped when its entire history is zero. Fewer than three history points
// returns nil.
func Forecast(history []model.AggregatedPeriod, opts ForecastOptions) []model.ForecastPoint {
	if len(history) < minForecastHistory {
		return nil
	}
	periods := opts.Periods
	if periods <= 0 {
		periods = defaultForecastPeriods
	}

	totals := make([]float64, len(history))
	for i, p := range history {
		totals[i] = p.Total(opts.Metric)
	}
	filtered := SeriesFor(history, opts.Filter, opts.Available, opts.Metric)

	totalLin := linearForecast(totals, periods)
	totalAvg := movingAverageForecast(totals, periods)
	totalSea := seasonalForecast(totals, periods)
	filtLin := linearForecast(filtered, periods)
	filtAvg := movingAverageForecast(filtered, periods)
	filtSea := seasonalForecast(filtered, periods)

	stdDev := math.Sqrt(variance(filtered))

	type dimTrack struct {
		key           string
		lin, avg, sea []float64
	}
	var tracks []dimTrack
	for _, name := range opts.Filter.Selected(opts.Available) {
		key := model.SanitizeKey(name)
		series := make([]float64, len(history))
		zero := true
		for i, p := range history {
			series[i] = p.DimensionValue(key, opts.Metric)
			if series[i] != 0 {
				zero = false
			}
		}
		if zero {
			continue
		}
		tracks = append(tracks, dimTrack{
			key: key,
			lin: linearForecast(series, periods),
			avg: movingAverageForecast(series, periods),
			sea: seasonalForecast(series, periods),
		})
	}

	lastEnd := history[len(history)-1].PeriodEnd
	out := make([]model.ForecastPoint, periods)
	for i := 0; i < periods; i++ {
		combined := math.Max(0, blend(totalLin[i], totalAvg[i], totalSea[i]))
		filteredCombined := blend(filtLin[i], filtAvg[i], filtSea[i])

		confidence := confidenceFloor
		if abs := math.Abs(filteredCombined); abs > 0 {
			confidence = clamp(1-stdDev/abs, confidenceFloor, confidenceCeiling)
		}

		start := lastEnd.AddDate(0, 0, 1).AddDate(0, i, 0)
		end := lastEnd.AddDate(0, i+1, 0)
		point := model.ForecastPoint{
			AggregatedPeriod: model.AggregatedPeriod{
				Period:      start.Format("02/01/2006") + " - " + end.Format("02/01/2006"),
				PeriodStart: start,
				PeriodEnd:   end,
				Dimensions:  map[string]model.SeriesValue{},
			},
			Confidence: confidence,
		}
		if opts.Metric == model.MetricIPU {
			point.TotalIPU = combined
		} else {
			point.TotalCost = combined
		}
		for _, t := range tracks {
			v := math.Max(0, blend(t.lin[i], t.avg[i], t.sea[i]))
			sv := model.SeriesValue{}
			if opts.Metric == model.MetricIPU {
				sv.IPU = v
			} else {
				sv.Cost = v
			}
			point.Dimensions[t.key] = sv
		}
		out[i] = point
	}
	return out
}

func blend(lin, avg, sea float64) float64 {
	return weightLinear*lin + weightMovAvg*avg + weightSeasonal*sea
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// linearForecast extends an ordinary least squares fit over x = 0..n-1. A
// degenerate denominator (constant x, n < 2) falls back to a flat line at
// the series mean.
func linearForecast(values []float64, periods int) []float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	var slope, intercept float64
	if denom := n*sumX2 - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	} else if n > 0 {
		intercept = sumY / n
	}

	out := make([]float64, periods)
	for i := range out {
		out[i] = slope*(n+float64(i)) + intercept
	}
	return out
}

// movingAverageForecast averages the trailing window and extends it by the
// window's average step.
func movingAverageForecast(values []float64, periods int) []float64 {
	window := movingAverageWindow
	if len(values) < window {
		window = len(values)
	}
	recent := values[len(values)-window:]

	var sum float64
	for _, v := range recent {
		sum += v
	}
	average := sum / float64(window)

	var trend float64
	if window > 1 {
		trend = (recent[window-1] - recent[0]) / float64(window-1)
	}

	out := make([]float64, periods)
	for i := range out {
		out[i] = average + trend*float64(i+1)
	}
	return out
}

// seasonalForecast repeats the most recent seasonal pattern (up to 12
// periods) shifted by the whole-series average step.
func seasonalForecast(values []float64, periods int) []float64 {
	pattern := values
	if len(values) >= seasonalPatternLength {
		pattern = values[len(values)-seasonalPatternLength:]
	}

	var trend float64
	if len(values) > 1 {
		trend = (values[len(values)-1] - values[0]) / float64(len(values)-1)
	}

	out := make([]float64, periods)
	for i := range out {
		out[i] = pattern[i%len(pattern)] + trend*float64(i+1)
	}
	return out
}

// variance is the population variance.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
