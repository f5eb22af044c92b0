package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/jefferson-ssantos/monitor-ipu/internal/dashboard"
)

// ExportHandler serves CSV downloads of the aggregated series.
type ExportHandler struct {
	svc *dashboard.Service
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(svc *dashboard.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportCSV handles GET /api/v1/export/csv. Columns are the period bounds,
// the grand totals and one IPU/cost pair per dimension present in the data.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		apiErr.Write(w, r)
		return
	}

	res, err := h.svc.Series(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	keys := dimensionKeys(res)

	filename := fmt.Sprintf("monitor-ipu-consumo-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	header := []string{"period", "period_start", "period_end", "total_ipu", "total_cost"}
	for _, k := range keys {
		header = append(header, k+"_ipu", k+"_cost")
	}
	cw.Write(header)

	for _, p := range res.Periods {
		row := []string{
			p.Period,
			p.PeriodStart.Format("2006-01-02"),
			p.PeriodEnd.Format("2006-01-02"),
			formatFloat(p.TotalIPU),
			formatFloat(p.TotalCost),
		}
		for _, k := range keys {
			v := p.Dimensions[k]
			row = append(row, formatFloat(v.IPU), formatFloat(v.Cost))
		}
		cw.Write(row)
	}
	cw.Flush()
}

// dimensionKeys is the sorted union of dimension keys across all periods.
func dimensionKeys(res *dashboard.SeriesResult) []string {
	seen := map[string]bool{}
	for _, p := range res.Periods {
		for k := range p.Dimensions {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
