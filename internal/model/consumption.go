package model

import "time"

// ConsumptionRecord is one row of metered IPU usage as produced by the
// external extraction pipeline. Records are read-only inputs: summary rows
// carry their billing-cycle bounds, asset rows carry only a consumption date
// and are matched to a cycle by containment.
type ConsumptionRecord struct {
	ConfigID        int       `json:"configuracao_id" db:"configuracao_id"`
	OrgID           string    `json:"org_id" db:"org_id"`
	OrgName         string    `json:"org_name" db:"org_name"`
	MeterName       string    `json:"meter_name" db:"meter_name"`
	ProjectName     string    `json:"project_name" db:"project_name"`
	ConsumptionDate time.Time `json:"consumption_date" db:"consumption_date"`
	CycleStart      time.Time `json:"billing_period_start_date" db:"billing_period_start_date"`
	CycleEnd        time.Time `json:"billing_period_end_date" db:"billing_period_end_date"`
	IPU             float64   `json:"consumption_ipu" db:"consumption_ipu"`
}

// DimensionSelector maps a record to the dimension key it is grouped under.
type DimensionSelector func(ConsumptionRecord) string

// ByMeter groups records by meter name.
func ByMeter(r ConsumptionRecord) string { return r.MeterName }

// ByProject groups records by project name.
func ByProject(r ConsumptionRecord) string { return r.ProjectName }

// SelectorFor returns the grouping selector for a dimension axis.
func SelectorFor(d Dimension) DimensionSelector {
	if d == DimensionProject {
		return ByProject
	}
	return ByMeter
}
