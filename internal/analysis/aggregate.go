package analysis

import (
	"sort"
	"time"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// Aggregate folds raw consumption records into one AggregatedPeriod per
// billing cycle. Summary rows carry their own cycle bounds and are matched
// exactly; asset rows carry only a consumption date and are matched by
// containment (start <= date <= end). Records that match no cycle are
// skipped. Cost is derived as IPU * pricePerIPU at aggregation time; the
// result is ordered ascending by period start.
func Aggregate(records []model.ConsumptionRecord, selector model.DimensionSelector, cycles []model.BillingCycle, pricePerIPU float64) []model.AggregatedPeriod {
	if len(cycles) == 0 {
		return []model.AggregatedPeriod{}
	}

	periods := make([]model.AggregatedPeriod, len(cycles))
	byBounds := make(map[[2]int64]int, len(cycles))
	for i, c := range cycles {
		periods[i] = model.AggregatedPeriod{
			Period:      c.Label(),
			PeriodStart: c.Start,
			PeriodEnd:   c.End,
			Dimensions:  map[string]model.SeriesValue{},
		}
		byBounds[[2]int64{c.Start.Unix(), c.End.Unix()}] = i
	}

	for _, r := range records {
		idx, ok := matchCycle(r, periods, byBounds)
		if !ok {
			continue
		}
		p := &periods[idx]
		cost := r.IPU * pricePerIPU
		p.TotalIPU += r.IPU
		p.TotalCost += cost
		if name := selector(r); name != "" {
			key := model.SanitizeKey(name)
			v := p.Dimensions[key]
			v.IPU += r.IPU
			v.Cost += cost
			p.Dimensions[key] = v
		}
	}

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].PeriodStart.Before(periods[j].PeriodStart)
	})
	return periods
}

func matchCycle(r model.ConsumptionRecord, periods []model.AggregatedPeriod, byBounds map[[2]int64]int) (int, bool) {
	if !r.CycleStart.IsZero() && !r.CycleEnd.IsZero() {
		idx, ok := byBounds[[2]int64{r.CycleStart.Unix(), r.CycleEnd.Unix()}]
		return idx, ok
	}
	if r.ConsumptionDate.IsZero() {
		return 0, false
	}
	for i, p := range periods {
		if !r.ConsumptionDate.Before(p.PeriodStart) && !r.ConsumptionDate.After(p.PeriodEnd) {
			return i, true
		}
	}
	return 0, false
}

// FilterComplete keeps only periods whose cycle has already ended. A period
// with a zero end date cannot be judged and is kept rather than silently
// dropped. Callers that want the trailing N complete cycles fetch N+1, filter,
// and slice.
func FilterComplete(periods []model.AggregatedPeriod, now time.Time) []model.AggregatedPeriod {
	out := make([]model.AggregatedPeriod, 0, len(periods))
	for _, p := range periods {
		if p.PeriodEnd.IsZero() || !p.PeriodEnd.After(now) {
			out = append(out, p)
		}
	}
	return out
}
