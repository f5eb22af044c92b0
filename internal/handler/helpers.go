// Package handler contains the HTTP handlers for the consumption dashboard
// API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
	"github.com/jefferson-ssantos/monitor-ipu/internal/auth"
	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

const (
	maxCycleWindow     = 24
	maxForecastPeriods = 12
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeServiceError maps service errors onto API error responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dashboard.ErrClientNotFound) {
		apierrors.NewNotFoundError("client").Write(w, r)
		return
	}
	apierrors.FromError(err).Write(w, r)
}

// parseSeriesRequest builds a series request from the query string and the
// authenticated user's client scope.
func parseSeriesRequest(r *http.Request) (dashboard.SeriesRequest, *apierrors.APIError) {
	var req dashboard.SeriesRequest

	clienteID, ok := auth.GetClienteIDFromContext(r.Context())
	if !ok {
		return req, apierrors.NewUnauthorizedError("authentication required")
	}
	req.ClienteID = clienteID

	q := r.URL.Query()
	req.OrgID = q.Get("org")

	switch q.Get("dimension") {
	case "", string(model.DimensionMeter):
		req.Dimension = model.DimensionMeter
	case string(model.DimensionProject):
		req.Dimension = model.DimensionProject
	default:
		return req, apierrors.NewValidationError("dimension must be meter or project", nil)
	}

	switch q.Get("metric") {
	case "", string(model.MetricCost):
		req.Metric = model.MetricCost
	case string(model.MetricIPU):
		req.Metric = model.MetricIPU
	default:
		return req, apierrors.NewValidationError("metric must be cost or ipu", nil)
	}

	if c := q.Get("cycles"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 1 || n > maxCycleWindow {
			return req, apierrors.NewValidationError("cycles must be between 1 and 24", nil)
		}
		req.Cycles = n
	}

	if items := q.Get("items"); items != "" {
		for _, item := range strings.Split(items, ",") {
			if item = strings.TrimSpace(item); item != "" {
				req.Items = append(req.Items, item)
			}
		}
	}

	return req, nil
}
