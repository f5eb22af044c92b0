package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// KPIs computes the current-cycle headline block: totals, average daily cost
// against the historical baseline, and the per-organization distribution.
func (s *Service) KPIs(ctx context.Context, clienteID int, orgID string) (*model.DashboardKPIs, error) {
	key := fmt.Sprintf("dashboard:%d:%s", clienteID, orgID)
	var cached model.DashboardKPIs
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	client, err := s.clients.GetByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("load client %d: %w", clienteID, err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	kpis := &model.DashboardKPIs{
		ContractedIPUs: client.ContractedIPUs,
		PricePerIPU:    client.PricePerIPU,
		Organizations:  []model.OrgShare{},
	}

	cycles, err := s.consumption.Cycles(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("load cycles: %w", err)
	}
	if len(cycles) == 0 {
		s.setCached(ctx, key, kpis)
		return kpis, nil
	}
	current := cycles[0]

	rows, err := s.consumption.SummaryRows(ctx, clienteID, orgID)
	if err != nil {
		return nil, fmt.Errorf("load summary rows: %w", err)
	}

	orgs := map[string]*model.OrgShare{}
	for _, r := range rows {
		if !r.CycleStart.Equal(current.Start) || !r.CycleEnd.Equal(current.End) {
			continue
		}
		kpis.TotalIPU += r.IPU
		share, ok := orgs[r.OrgID]
		if !ok {
			share = &model.OrgShare{OrgID: r.OrgID, OrgName: r.OrgName}
			orgs[r.OrgID] = share
		}
		share.ConsumptionIPU += r.IPU
		share.Cost += r.IPU * client.PricePerIPU
	}
	kpis.TotalCost = kpis.TotalIPU * client.PricePerIPU
	kpis.AvgDailyCost = kpis.TotalCost / float64(cycleDays(current))
	kpis.CurrentPeriod = current.Label()
	kpis.CurrentCycle = &current

	var histCost float64
	var histDays int
	for _, c := range cycles[1:] {
		var ipu float64
		for _, r := range rows {
			if r.CycleStart.Equal(c.Start) && r.CycleEnd.Equal(c.End) {
				ipu += r.IPU
			}
		}
		histCost += ipu * client.PricePerIPU
		histDays += cycleDays(c)
	}
	if histDays > 0 {
		kpis.HistoricalAvgDailyCost = histCost / float64(histDays)
	}
	if kpis.HistoricalAvgDailyCost > 0 {
		kpis.HistoricalComparison = (kpis.AvgDailyCost - kpis.HistoricalAvgDailyCost) / kpis.HistoricalAvgDailyCost * 100
	}

	for _, share := range orgs {
		if kpis.TotalIPU > 0 {
			share.Percentage = int(math.Round(share.ConsumptionIPU / kpis.TotalIPU * 100))
		}
		kpis.Organizations = append(kpis.Organizations, *share)
	}
	sort.Slice(kpis.Organizations, func(i, j int) bool {
		return kpis.Organizations[i].ConsumptionIPU > kpis.Organizations[j].ConsumptionIPU
	})
	if len(kpis.Organizations) > 0 {
		kpis.Organizations[0].IsPrincipal = true
	}
	kpis.ActiveOrgs = len(kpis.Organizations)

	s.setCached(ctx, key, kpis)
	return kpis, nil
}

// cycleDays is the billed day count of a cycle, never below one.
func cycleDays(c model.BillingCycle) int {
	days := int(math.Ceil(c.End.Sub(c.Start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
