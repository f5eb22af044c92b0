// Package model contains the core domain entities for the monitor-ipu API.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metric selects which measure a series carries: billed cost or raw IPU units.
type Metric string

const (
	MetricCost Metric = "cost"
	MetricIPU  Metric = "ipu"
)

// Dimension is the grouping axis for per-series sub-totals.
type Dimension string

const (
	DimensionMeter   Dimension = "meter"
	DimensionProject Dimension = "project"
)

// AllKey is the sentinel dimension key meaning "every dimension selected".
const AllKey = "all"

// BillingCycle is one billing period. Cycles are contiguous, non-overlapping
// and roughly monthly. A cycle is complete iff End <= today.
type BillingCycle struct {
	ID    int       `json:"ciclo_id"`
	Start time.Time `json:"billing_period_start_date"`
	End   time.Time `json:"billing_period_end_date"`
}

// Complete reports whether the cycle has ended as of now.
func (c BillingCycle) Complete(now time.Time) bool {
	return !c.End.After(now)
}

// Label renders the cycle as "dd/mm/yyyy - dd/mm/yyyy", the display form the
// renderer keys chart rows on.
func (c BillingCycle) Label() string {
	return c.Start.Format("02/01/2006") + " - " + c.End.Format("02/01/2006")
}

// Client holds the pricing contract used to turn IPU quantities into cost.
type Client struct {
	ID             int     `json:"id" db:"id"`
	Name           string  `json:"nome_cliente" db:"nome_cliente"`
	PricePerIPU    float64 `json:"preco_por_ipu" db:"preco_por_ipu"`
	ContractedIPUs float64 `json:"qtd_ipus_contratadas" db:"qnt_ipus_contratadas"`
}

// Profile is an authenticated dashboard user tied to a client.
type Profile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ClienteID    int       `json:"cliente_id" db:"cliente_id"`
	Active       bool      `json:"ativo" db:"ativo"`
}

// SanitizeKey normalizes a dimension name (meter or project) into the stable
// series key used in wire payloads: every non-alphanumeric rune becomes '_'.
func SanitizeKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
