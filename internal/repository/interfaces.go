// Package repository defines data access interfaces and their PostgreSQL
// implementations over the consumption tables the extraction pipeline fills.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// ClientRepository reads client contracts and their IDMC configurations.
type ClientRepository interface {
	GetByID(ctx context.Context, id int) (*model.Client, error)
	// ActiveIDs returns the ids of clients with at least one IDMC
	// configuration.
	ActiveIDs(ctx context.Context) ([]int, error)
}

// ConsumptionRepository reads metered consumption scoped to one client. All
// queries exclude zero-IPU rows and internal sandbox meters; asset queries
// require a non-empty project name.
type ConsumptionRepository interface {
	// SummaryRows returns meter-level consumption for the client, optionally
	// restricted to one organization.
	SummaryRows(ctx context.Context, clienteID int, orgID string) ([]model.ConsumptionRecord, error)
	// AssetRows returns project-level consumption for the client, optionally
	// restricted to one organization.
	AssetRows(ctx context.Context, clienteID int, orgID string) ([]model.ConsumptionRecord, error)
	// Cycles returns the client's billing cycles, deduplicated by bounds and
	// ordered descending by end date.
	Cycles(ctx context.Context, clienteID int) ([]model.BillingCycle, error)
	// Meters returns the distinct selectable meter names.
	Meters(ctx context.Context, clienteID int) ([]string, error)
	// Projects returns the distinct selectable project names.
	Projects(ctx context.Context, clienteID int) ([]string, error)
}

// UserRepository reads dashboard user profiles.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}
