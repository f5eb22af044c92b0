package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "Data_Integration", SanitizeKey("Data Integration"))
	assert.Equal(t, "CDI___Elastic_", SanitizeKey("CDI - Elastic!"))
	assert.Equal(t, "abc123", SanitizeKey("abc123"))
	assert.Equal(t, "", SanitizeKey(""))
}

func TestBillingCycle(t *testing.T) {
	c := BillingCycle{
		Start: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "01/06/2025 - 30/06/2025", c.Label())
	assert.True(t, c.Complete(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.Complete(time.Date(2025, time.June, 29, 0, 0, 0, 0, time.UTC)))
}

func TestAggregatedPeriodJSONRoundTrip(t *testing.T) {
	p := AggregatedPeriod{
		Period:      "01/06/2025 - 30/06/2025",
		PeriodStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		TotalIPU:    100,
		TotalCost:   250,
		Dimensions: map[string]SeriesValue{
			"Data_Integration": {IPU: 60, Cost: 150},
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, 150.0, wire["Data_Integration_cost"])
	assert.Equal(t, 60.0, wire["Data_Integration_ipu"])
	assert.Equal(t, "2025-06-01", wire["periodStart"])

	var back AggregatedPeriod
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestForecastPointJSONRoundTrip(t *testing.T) {
	p := ForecastPoint{
		AggregatedPeriod: AggregatedPeriod{
			Period:      "01/07/2025 - 30/07/2025",
			PeriodStart: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, time.July, 30, 0, 0, 0, 0, time.UTC),
			TotalCost:   1162.87,
			Dimensions:  map[string]SeriesValue{},
		},
		Confidence: 0.94,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, true, wire["isForecast"])
	assert.Equal(t, 0.94, wire["confidence"])

	var back ForecastPoint
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}
