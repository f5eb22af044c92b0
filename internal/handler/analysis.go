package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
	"github.com/jefferson-ssantos/monitor-ipu/internal/metrics"
)

// AnalysisHandler serves the trend classification and forecast endpoints.
type AnalysisHandler struct {
	svc *dashboard.Service
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *dashboard.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// GetTrend handles GET /api/v1/analysis/trend.
func (h *AnalysisHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		apiErr.Write(w, r)
		return
	}

	res, err := h.svc.Trend(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetForecast handles GET /api/v1/analysis/forecast.
func (h *AnalysisHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	seriesReq, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		apiErr.Write(w, r)
		return
	}

	req := dashboard.ForecastRequest{SeriesRequest: seriesReq}
	if p := r.URL.Query().Get("periods"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > maxForecastPeriods {
			apierrors.NewValidationError("periods must be between 1 and 12", nil).Write(w, r)
			return
		}
		req.Periods = n
	}

	start := time.Now()
	res, err := h.svc.Forecast(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	metrics.ObserveForecast(time.Since(start))

	writeJSON(w, http.StatusOK, res)
}
