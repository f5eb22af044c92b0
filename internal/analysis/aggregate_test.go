package analysis

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func cycle(id int, start, end time.Time) model.BillingCycle {
	return model.BillingCycle{ID: id, Start: start, End: end}
}

func summaryRow(meter string, start, end time.Time, ipu float64) model.ConsumptionRecord {
	return model.ConsumptionRecord{MeterName: meter, CycleStart: start, CycleEnd: end, IPU: ipu}
}

func assetRow(project string, date time.Time, ipu float64) model.ConsumptionRecord {
	return model.ConsumptionRecord{ProjectName: project, ConsumptionDate: date, IPU: ipu}
}

func TestAggregateMatchesSummaryRowsByCycleBounds(t *testing.T) {
	cycles := []model.BillingCycle{
		cycle(1, d(2025, time.May, 1), d(2025, time.May, 31)),
		cycle(2, d(2025, time.June, 1), d(2025, time.June, 30)),
	}
	records := []model.ConsumptionRecord{
		summaryRow("Data Integration", d(2025, time.May, 1), d(2025, time.May, 31), 100),
		summaryRow("Data Integration", d(2025, time.June, 1), d(2025, time.June, 30), 40),
		summaryRow("CDI Elastic", d(2025, time.June, 1), d(2025, time.June, 30), 10),
	}

	periods := Aggregate(records, model.ByMeter, cycles, 2.5)
	require.Len(t, periods, 2)

	assert.Equal(t, "01/05/2025 - 31/05/2025", periods[0].Period)
	assert.Equal(t, 100.0, periods[0].TotalIPU)
	assert.Equal(t, 250.0, periods[0].TotalCost)
	assert.Equal(t, 50.0, periods[1].TotalIPU)
	assert.InDelta(t, 40.0, periods[1].Dimensions["Data_Integration"].IPU, 1e-9)
	assert.InDelta(t, 25.0, periods[1].Dimensions["CDI_Elastic"].Cost, 1e-9)
}

func TestAggregateMatchesAssetRowsByContainment(t *testing.T) {
	cycles := []model.BillingCycle{
		cycle(1, d(2025, time.May, 1), d(2025, time.May, 31)),
		cycle(2, d(2025, time.June, 1), d(2025, time.June, 30)),
	}
	records := []model.ConsumptionRecord{
		assetRow("Projeto Vendas", d(2025, time.May, 15), 12),
		assetRow("Projeto Vendas", d(2025, time.June, 1), 8),
		assetRow("Projeto Vendas", d(2025, time.June, 30), 2),
		assetRow("Orphan", d(2025, time.July, 4), 99),
	}

	periods := Aggregate(records, model.ByProject, cycles, 1)
	require.Len(t, periods, 2)

	assert.Equal(t, 12.0, periods[0].TotalIPU)
	assert.Equal(t, 10.0, periods[1].TotalIPU)
	assert.Equal(t, 10.0, periods[1].Dimensions["Projeto_Vendas"].IPU)
	assert.NotContains(t, periods[1].Dimensions, "Orphan")
}

func TestAggregateConservation(t *testing.T) {
	cycles := []model.BillingCycle{cycle(1, d(2025, time.June, 1), d(2025, time.June, 30))}
	records := []model.ConsumptionRecord{
		summaryRow("A", d(2025, time.June, 1), d(2025, time.June, 30), 10),
		summaryRow("B", d(2025, time.June, 1), d(2025, time.June, 30), 20),
		summaryRow("C", d(2025, time.June, 1), d(2025, time.June, 30), 30.5),
	}

	periods := Aggregate(records, model.ByMeter, cycles, 3)
	require.Len(t, periods, 1)

	var dimIPU float64
	for _, v := range periods[0].Dimensions {
		dimIPU += v.IPU
	}
	assert.InDelta(t, periods[0].TotalIPU, dimIPU, 1e-9)
}

func TestAggregateOrderIndependence(t *testing.T) {
	cycles := []model.BillingCycle{
		cycle(1, d(2025, time.May, 1), d(2025, time.May, 31)),
		cycle(2, d(2025, time.June, 1), d(2025, time.June, 30)),
	}
	records := []model.ConsumptionRecord{
		summaryRow("A", d(2025, time.May, 1), d(2025, time.May, 31), 1),
		summaryRow("B", d(2025, time.May, 1), d(2025, time.May, 31), 2),
		summaryRow("A", d(2025, time.June, 1), d(2025, time.June, 30), 3),
		assetRow("P", d(2025, time.June, 12), 4),
	}

	want := Aggregate(records, model.ByMeter, cycles, 2)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]model.ConsumptionRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Aggregate(shuffled, model.ByMeter, cycles, 2))
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, model.ByMeter, nil, 1))

	periods := Aggregate(nil, model.ByMeter, []model.BillingCycle{cycle(1, d(2025, time.June, 1), d(2025, time.June, 30))}, 1)
	require.Len(t, periods, 1)
	assert.Zero(t, periods[0].TotalIPU)
	assert.Empty(t, periods[0].Dimensions)
}

func TestAggregateSortsAscendingByStart(t *testing.T) {
	cycles := []model.BillingCycle{
		cycle(2, d(2025, time.June, 1), d(2025, time.June, 30)),
		cycle(1, d(2025, time.May, 1), d(2025, time.May, 31)),
	}

	periods := Aggregate(nil, model.ByMeter, cycles, 1)
	require.Len(t, periods, 2)
	assert.True(t, periods[0].PeriodStart.Before(periods[1].PeriodStart))
}

func TestFilterComplete(t *testing.T) {
	now := d(2025, time.June, 30)
	periods := []model.AggregatedPeriod{
		{Period: "past", PeriodEnd: d(2025, time.May, 31)},
		{Period: "ends-today", PeriodEnd: now},
		{Period: "running", PeriodEnd: d(2025, time.July, 31)},
		{Period: "unknown-end"},
	}

	got := FilterComplete(periods, now)
	require.Len(t, got, 3)
	assert.Equal(t, "past", got[0].Period)
	assert.Equal(t, "ends-today", got[1].Period)
	assert.Equal(t, "unknown-end", got[2].Period)
}
