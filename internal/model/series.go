package model

import (
	"encoding/json"
	"strings"
	"time"
)

// SeriesValue carries the two measures tracked for every series.
type SeriesValue struct {
	IPU  float64 `json:"ipu"`
	Cost float64 `json:"cost"`
}

// Pick returns the requested measure.
func (v SeriesValue) Pick(m Metric) float64 {
	if m == MetricIPU {
		return v.IPU
	}
	return v.Cost
}

// AggregatedPeriod is one billing cycle's worth of aggregated consumption:
// grand totals plus per-dimension sub-totals keyed by sanitized dimension key.
// Slices of AggregatedPeriod are always ordered ascending by PeriodStart;
// consumers rely on that ordering for index-based cycle comparison.
type AggregatedPeriod struct {
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalIPU    float64
	TotalCost   float64
	Dimensions  map[string]SeriesValue
}

// Total returns the grand total for the requested measure.
func (p AggregatedPeriod) Total(m Metric) float64 {
	if m == MetricIPU {
		return p.TotalIPU
	}
	return p.TotalCost
}

// DimensionValue returns one dimension's sub-total, 0 when absent.
func (p AggregatedPeriod) DimensionValue(key string, m Metric) float64 {
	return p.Dimensions[key].Pick(m)
}

// MarshalJSON flattens per-dimension values into "<key>_ipu"/"<key>_cost"
// fields so the payload matches what the chart renderer keys its lines on.
func (p AggregatedPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.flatten())
}

func (p AggregatedPeriod) flatten() map[string]any {
	out := map[string]any{
		"period":      p.Period,
		"periodStart": p.PeriodStart.Format("2006-01-02"),
		"periodEnd":   p.PeriodEnd.Format("2006-01-02"),
		"totalIPU":    p.TotalIPU,
		"totalCost":   p.TotalCost,
	}
	for key, v := range p.Dimensions {
		out[key+"_ipu"] = v.IPU
		out[key+"_cost"] = v.Cost
	}
	return out
}

// UnmarshalJSON rebuilds a period from its flattened wire form. Needed to
// round-trip cached payloads.
func (p *AggregatedPeriod) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return p.unflatten(raw)
}

func (p *AggregatedPeriod) unflatten(raw map[string]json.RawMessage) error {
	if err := unmarshalField(raw, "period", &p.Period); err != nil {
		return err
	}
	if err := unmarshalDate(raw, "periodStart", &p.PeriodStart); err != nil {
		return err
	}
	if err := unmarshalDate(raw, "periodEnd", &p.PeriodEnd); err != nil {
		return err
	}
	if err := unmarshalField(raw, "totalIPU", &p.TotalIPU); err != nil {
		return err
	}
	if err := unmarshalField(raw, "totalCost", &p.TotalCost); err != nil {
		return err
	}

	p.Dimensions = map[string]SeriesValue{}
	for key, msg := range raw {
		var field string
		switch {
		case strings.HasSuffix(key, "_ipu"):
			field = strings.TrimSuffix(key, "_ipu")
		case strings.HasSuffix(key, "_cost"):
			field = strings.TrimSuffix(key, "_cost")
		default:
			continue
		}
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}
		sv := p.Dimensions[field]
		if strings.HasSuffix(key, "_ipu") {
			sv.IPU = v
		} else {
			sv.Cost = v
		}
		p.Dimensions[field] = sv
	}
	return nil
}

func unmarshalField(raw map[string]json.RawMessage, key string, dst any) error {
	msg, ok := raw[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(msg, dst)
}

func unmarshalDate(raw map[string]json.RawMessage, key string, dst *time.Time) error {
	var s string
	if err := unmarshalField(raw, key, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

// ForecastPoint is a projected AggregatedPeriod. It is produced only by the
// forecast engine, never persisted, and lives for one rendering cycle.
type ForecastPoint struct {
	AggregatedPeriod
	Confidence float64
}

// MarshalJSON extends the flattened period with the forecast markers.
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	out := p.flatten()
	out["confidence"] = p.Confidence
	out["isForecast"] = true
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a forecast point from its flattened wire form.
func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := unmarshalField(raw, "confidence", &p.Confidence); err != nil {
		return err
	}
	delete(raw, "confidence")
	delete(raw, "isForecast")
	return p.AggregatedPeriod.unflatten(raw)
}

// TrendResult classifies the latest complete cycle against the previous one.
// GrowthRate is the absolute percentage; the sign travels in IsPositive.
type TrendResult struct {
	GrowthRate float64 `json:"growthRate"`
	IsPositive bool    `json:"isPositive"`
	IsStable   bool    `json:"isStable"`
}

// Trend labels used by the forecast summary. The ±5% thresholds here are
// deliberately distinct from the classifier's ±2% stability band: one labels
// the forecast horizon, the other cycle-over-cycle movement.
const (
	TrendGrowth    = "crescimento"
	TrendReduction = "redução"
	TrendStable    = "estável"
	TrendUndefined = "indefinido"
)

// ForecastSummary is the headline KPI block derived from a forecast run.
// GrowthRate and ExpectedChange are absolute percentages.
type ForecastSummary struct {
	TotalForecast   float64 `json:"totalForecast"`
	AverageForecast float64 `json:"averageForecast"`
	Trend           string  `json:"trend"`
	GrowthRate      float64 `json:"growthRate"`
	AvgConfidence   float64 `json:"avgConfidence"`
	TotalHistorical float64 `json:"totalHistorical"`
	ExpectedChange  float64 `json:"expectedChange"`
}

// OrgShare is one organization's slice of the current cycle's consumption.
type OrgShare struct {
	OrgID          string  `json:"org_id"`
	OrgName        string  `json:"org_name"`
	ConsumptionIPU float64 `json:"consumption_ipu"`
	Cost           float64 `json:"cost"`
	Percentage     int     `json:"percentage"`
	IsPrincipal    bool    `json:"isPrincipal,omitempty"`
}

// DashboardKPIs is the current-cycle headline block for the dashboard.
type DashboardKPIs struct {
	TotalCost              float64       `json:"totalCost"`
	TotalIPU               float64       `json:"totalIPU"`
	AvgDailyCost           float64       `json:"avgDailyCost"`
	HistoricalAvgDailyCost float64       `json:"historicalAvgDailyCost"`
	HistoricalComparison   float64       `json:"historicalComparison"`
	ActiveOrgs             int           `json:"activeOrgs"`
	ContractedIPUs         float64       `json:"contractedIPUs"`
	PricePerIPU            float64       `json:"pricePerIPU"`
	CurrentPeriod          string        `json:"currentPeriod"`
	Organizations          []OrgShare    `json:"organizations"`
	CurrentCycle           *BillingCycle `json:"currentCycle"`
}
