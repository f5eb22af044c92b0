package handler

import (
	"net/http"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
	"github.com/jefferson-ssantos/monitor-ipu/internal/auth"
	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// SeriesHandler serves the aggregated consumption series and the cycle list.
type SeriesHandler struct {
	svc *dashboard.Service
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(svc *dashboard.Service) *SeriesHandler {
	return &SeriesHandler{svc: svc}
}

// GetSeries handles GET /api/v1/series.
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		apiErr.Write(w, r)
		return
	}
	if r.URL.Query().Get("complete") == "true" {
		req.CompleteOnly = true
	}

	res, err := h.svc.Series(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetCycles handles GET /api/v1/cycles.
func (h *SeriesHandler) GetCycles(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := auth.GetClienteIDFromContext(r.Context())
	if !ok {
		apierrors.NewUnauthorizedError("authentication required").Write(w, r)
		return
	}

	cycles, err := h.svc.Cycles(r.Context(), clienteID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if cycles == nil {
		cycles = []model.BillingCycle{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cycles": cycles})
}
