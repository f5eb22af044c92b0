// Package dashboard orchestrates the consumption read path: repository
// fetches, cycle aggregation, trend/forecast computation and the KPI block,
// with a TTL cache in front of the expensive queries.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jefferson-ssantos/monitor-ipu/internal/analysis"
	"github.com/jefferson-ssantos/monitor-ipu/internal/cache"
	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
	"github.com/jefferson-ssantos/monitor-ipu/internal/repository"
)

// ErrClientNotFound is returned when the authenticated user's client record
// does not exist.
var ErrClientNotFound = errors.New("client not found")

const (
	defaultCycleWindow = 6
	defaultCacheTTL    = 5 * time.Minute
)

// Service is the dashboard read-path orchestrator. The cache is strictly a
// performance layer; any cache failure degrades to a direct computation.
type Service struct {
	clients     repository.ClientRepository
	consumption repository.ConsumptionRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *slog.Logger

	now func() time.Time
}

// NewService creates a dashboard service. A non-positive ttl falls back to
// the 5 minute default.
func NewService(clients repository.ClientRepository, consumption repository.ConsumptionRepository, c cache.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{
		clients:     clients,
		consumption: consumption,
		cache:       c,
		cacheTTL:    ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// SeriesRequest selects which aggregated series to build.
type SeriesRequest struct {
	ClienteID int
	Dimension model.Dimension
	// Cycles is the trailing cycle count, default 6.
	Cycles int
	// Items holds raw dimension names or the "all" sentinel.
	Items  []string
	Metric model.Metric
	OrgID  string
	// CompleteOnly fetches one extra cycle, drops periods still running and
	// keeps the trailing Cycles complete ones.
	CompleteOnly bool
}

func (r SeriesRequest) normalized() SeriesRequest {
	if r.Cycles <= 0 {
		r.Cycles = defaultCycleWindow
	}
	if r.Dimension == "" {
		r.Dimension = model.DimensionMeter
	}
	if r.Metric == "" {
		r.Metric = model.MetricCost
	}
	if len(r.Items) == 0 {
		r.Items = []string{model.AllKey}
	}
	return r
}

func (r SeriesRequest) filter() analysis.DimensionFilter {
	return analysis.DimensionFilter{Keys: r.Items}
}

func (r SeriesRequest) cacheKey() string {
	items := append([]string(nil), r.Items...)
	sort.Strings(items)
	return fmt.Sprintf("series:%d:%s:%d:%s:%t:%s",
		r.ClienteID, r.Dimension, r.Cycles, r.OrgID, r.CompleteOnly, strings.Join(items, ","))
}

// SeriesResult is the aggregated series plus the selectable dimension names.
type SeriesResult struct {
	Periods   []model.AggregatedPeriod `json:"periods"`
	Available []string                 `json:"available"`
}

// Series builds the aggregated multi-series view for the client's trailing
// billing cycles.
func (s *Service) Series(ctx context.Context, req SeriesRequest) (*SeriesResult, error) {
	req = req.normalized()

	key := req.cacheKey()
	var cached SeriesResult
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	client, err := s.clients.GetByID(ctx, req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("load client %d: %w", req.ClienteID, err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	cycles, err := s.consumption.Cycles(ctx, req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("load cycles: %w", err)
	}
	window := req.Cycles
	if req.CompleteOnly {
		window++
	}
	if len(cycles) > window {
		cycles = cycles[:window]
	}
	ascending(cycles)

	records, err := s.records(ctx, req)
	if err != nil {
		return nil, err
	}
	available, err := s.available(ctx, req)
	if err != nil {
		return nil, err
	}

	periods := analysis.Aggregate(records, model.SelectorFor(req.Dimension), cycles, client.PricePerIPU)
	if req.CompleteOnly {
		periods = analysis.FilterComplete(periods, s.now())
		if len(periods) > req.Cycles {
			periods = periods[len(periods)-req.Cycles:]
		}
	}
	prune(periods, req.filter(), available)

	res := &SeriesResult{Periods: periods, Available: available}
	s.setCached(ctx, key, res)
	return res, nil
}

// TrendResponse pairs the series with its classification.
type TrendResponse struct {
	Periods []model.AggregatedPeriod `json:"periods"`
	Trend   model.TrendResult        `json:"trend"`
}

// Trend classifies the latest cycle against the previous one. The series
// keeps the running cycle; the classifier projects it to full length.
func (s *Service) Trend(ctx context.Context, req SeriesRequest) (*TrendResponse, error) {
	req = req.normalized()
	req.CompleteOnly = false

	series, err := s.Series(ctx, req)
	if err != nil {
		return nil, err
	}
	trend := analysis.ClassifyTrend(series.Periods, req.filter(), series.Available, req.Metric, s.now())
	return &TrendResponse{Periods: series.Periods, Trend: trend}, nil
}

// ForecastRequest extends a series request with the projection horizon.
type ForecastRequest struct {
	SeriesRequest
	Periods int
}

// ForecastResponse carries the history the forecast was computed from, the
// projected points and the headline summary.
type ForecastResponse struct {
	History  []model.AggregatedPeriod `json:"history"`
	Forecast []model.ForecastPoint    `json:"forecast"`
	Summary  model.ForecastSummary    `json:"summary"`
}

// Forecast projects the client's consumption forward from complete cycles
// only. Forecast results are computed per request and never persisted.
func (s *Service) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error) {
	req.SeriesRequest = req.SeriesRequest.normalized()
	req.CompleteOnly = true

	series, err := s.Series(ctx, req.SeriesRequest)
	if err != nil {
		return nil, err
	}

	f := req.filter()
	points := analysis.Forecast(series.Periods, analysis.ForecastOptions{
		Metric:    req.Metric,
		Filter:    f,
		Available: series.Available,
		Periods:   req.Periods,
	})
	summary := analysis.Summarize(series.Periods, points, f, series.Available, req.Metric)
	return &ForecastResponse{History: series.Periods, Forecast: points, Summary: summary}, nil
}

// Cycles lists the client's billing cycles, newest first.
func (s *Service) Cycles(ctx context.Context, clienteID int) ([]model.BillingCycle, error) {
	return s.consumption.Cycles(ctx, clienteID)
}

func (s *Service) records(ctx context.Context, req SeriesRequest) ([]model.ConsumptionRecord, error) {
	if req.Dimension == model.DimensionProject {
		records, err := s.consumption.AssetRows(ctx, req.ClienteID, req.OrgID)
		if err != nil {
			return nil, fmt.Errorf("load asset rows: %w", err)
		}
		return records, nil
	}
	records, err := s.consumption.SummaryRows(ctx, req.ClienteID, req.OrgID)
	if err != nil {
		return nil, fmt.Errorf("load summary rows: %w", err)
	}
	return records, nil
}

func (s *Service) available(ctx context.Context, req SeriesRequest) ([]string, error) {
	if req.Dimension == model.DimensionProject {
		names, err := s.consumption.Projects(ctx, req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("load projects: %w", err)
		}
		return names, nil
	}
	names, err := s.consumption.Meters(ctx, req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("load meters: %w", err)
	}
	return names, nil
}

func (s *Service) getCached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Service) setCached(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// prune drops dimension series the filter did not select so the payload only
// carries the requested lines.
func prune(periods []model.AggregatedPeriod, f analysis.DimensionFilter, available []string) {
	if f.All(available) {
		return
	}
	keep := make(map[string]bool, len(f.Keys))
	for _, name := range f.Selected(available) {
		keep[model.SanitizeKey(name)] = true
	}
	for i := range periods {
		for key := range periods[i].Dimensions {
			if !keep[key] {
				delete(periods[i].Dimensions, key)
			}
		}
	}
}

// ascending sorts cycles oldest first, in place.
func ascending(cycles []model.BillingCycle) {
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Start.Before(cycles[j].Start)
	})
}
