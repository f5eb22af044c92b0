// Package analysis implements the consumption analysis core: cycle
// aggregation, trend classification, multi-method forecasting and the
// forecast KPI summary.
//
// Every function here is pure and synchronous: no I/O, no clock reads (the
// reference time is always an explicit parameter) and no state shared across
// invocations. The surrounding handlers fetch data, call in, and render
// whatever comes back; a superseded result is simply discarded by the caller.
package analysis

import "github.com/jefferson-ssantos/monitor-ipu/internal/model"

// DimensionFilter selects which dimension series feed a computation. Keys
// holds raw dimension names (meter or project names) or the "all" sentinel.
type DimensionFilter struct {
	Keys []string
}

// FilterAll is the filter selecting every dimension.
var FilterAll = DimensionFilter{Keys: []string{model.AllKey}}

// All reports whether the filter covers the complete dimension set: either
// the "all" sentinel is present, the filter is empty, or every available
// dimension is explicitly selected.
func (f DimensionFilter) All(available []string) bool {
	if len(f.Keys) == 0 {
		return true
	}
	n := 0
	for _, k := range f.Keys {
		if k == model.AllKey {
			return true
		}
		n++
	}
	return n == len(available)
}

// Selected returns the raw dimension names the filter resolves to.
func (f DimensionFilter) Selected(available []string) []string {
	if f.All(available) {
		return available
	}
	out := make([]string, 0, len(f.Keys))
	for _, k := range f.Keys {
		if k != model.AllKey {
			out = append(out, k)
		}
	}
	return out
}

// SelectAndSum resolves one period to a single value under the filter: the
// grand total when the filter covers every dimension, otherwise the sum over
// the selected dimension series only. This is the one shared implementation
// of the "sum over selected dimensions" pattern; the trend classifier, the
// forecast orchestrator and the summary reducer all call it and then apply
// their own thresholds downstream.
func SelectAndSum(p model.AggregatedPeriod, f DimensionFilter, available []string, m model.Metric) float64 {
	if f.All(available) {
		return p.Total(m)
	}
	var sum float64
	for _, key := range f.Keys {
		if key == model.AllKey {
			continue
		}
		sum += p.DimensionValue(model.SanitizeKey(key), m)
	}
	return sum
}

// SeriesFor projects a slice of periods onto the filtered numeric series.
func SeriesFor(periods []model.AggregatedPeriod, f DimensionFilter, available []string, m model.Metric) []float64 {
	out := make([]float64, len(periods))
	for i, p := range periods {
		out[i] = SelectAndSum(p, f, available, m)
	}
	return out
}
