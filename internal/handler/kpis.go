package handler

import (
	"net/http"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
	"github.com/jefferson-ssantos/monitor-ipu/internal/auth"
	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
)

// DashboardHandler serves the current-cycle KPI block.
type DashboardHandler struct {
	svc *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetKPIs handles GET /api/v1/dashboard/kpis.
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	clienteID, ok := auth.GetClienteIDFromContext(r.Context())
	if !ok {
		apierrors.NewUnauthorizedError("authentication required").Write(w, r)
		return
	}

	kpis, err := h.svc.KPIs(r.Context(), clienteID, r.URL.Query().Get("org"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}
