package repository

import (
	"context"
	"database/sql"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// Meters excluded from consumption queries. Sandbox usage is never billed;
// metadata record consumption is billed but not user-selectable as a series.
const (
	sandboxMeter  = "Sandbox Organizations IPU Usage"
	metadataMeter = "Metadata Record Consumption"
)

// PostgresClientRepository implements ClientRepository for PostgreSQL.
type PostgresClientRepository struct {
	db *sql.DB
}

// NewPostgresClientRepository creates a new PostgresClientRepository.
func NewPostgresClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

func (r *PostgresClientRepository) GetByID(ctx context.Context, id int) (*model.Client, error) {
	var c model.Client
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nome_cliente, preco_por_ipu, qnt_ipus_contratadas
		FROM api_clientes WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.PricePerIPU, &c.ContractedIPUs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresClientRepository) ActiveIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT cliente_id FROM api_configuracaoidmc ORDER BY cliente_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PostgresConsumptionRepository implements ConsumptionRepository for
// PostgreSQL. Client scoping goes through api_configuracaoidmc so a client
// with several IDMC configurations sees all of them merged.
type PostgresConsumptionRepository struct {
	db *sql.DB
}

// NewPostgresConsumptionRepository creates a new PostgresConsumptionRepository.
func NewPostgresConsumptionRepository(db *sql.DB) *PostgresConsumptionRepository {
	return &PostgresConsumptionRepository{db: db}
}

func (r *PostgresConsumptionRepository) SummaryRows(ctx context.Context, clienteID int, orgID string) ([]model.ConsumptionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.configuracao_id, s.org_id, COALESCE(s.org_name, ''), s.meter_name,
		       COALESCE(s.consumption_date, '0001-01-01'::date),
		       s.billing_period_start_date, s.billing_period_end_date, s.consumption_ipu
		FROM api_consumosummary s
		JOIN api_configuracaoidmc c ON c.id = s.configuracao_id
		WHERE c.cliente_id = $1
		  AND s.consumption_ipu > 0
		  AND s.meter_name <> $2
		  AND ($3 = '' OR s.org_id = $3)
	`, clienteID, sandboxMeter, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ConsumptionRecord
	for rows.Next() {
		var rec model.ConsumptionRecord
		err := rows.Scan(&rec.ConfigID, &rec.OrgID, &rec.OrgName, &rec.MeterName,
			&rec.ConsumptionDate, &rec.CycleStart, &rec.CycleEnd, &rec.IPU)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresConsumptionRepository) AssetRows(ctx context.Context, clienteID int, orgID string) ([]model.ConsumptionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.configuracao_id, a.org_id, a.project_name, a.consumption_date, a.consumption_ipu
		FROM api_consumoasset a
		JOIN api_configuracaoidmc c ON c.id = a.configuracao_id
		WHERE c.cliente_id = $1
		  AND a.consumption_ipu > 0
		  AND a.project_name IS NOT NULL AND a.project_name <> ''
		  AND ($2 = '' OR a.org_id = $2)
	`, clienteID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ConsumptionRecord
	for rows.Next() {
		var rec model.ConsumptionRecord
		err := rows.Scan(&rec.ConfigID, &rec.OrgID, &rec.ProjectName, &rec.ConsumptionDate, &rec.IPU)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresConsumptionRepository) Cycles(ctx context.Context, clienteID int) ([]model.BillingCycle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT MIN(f.ciclo_id), f.billing_period_start_date, f.billing_period_end_date
		FROM api_ciclofaturamento f
		JOIN api_configuracaoidmc c ON c.id = f.configuracao_id
		WHERE c.cliente_id = $1
		GROUP BY f.billing_period_start_date, f.billing_period_end_date
		ORDER BY f.billing_period_end_date DESC
	`, clienteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []model.BillingCycle
	for rows.Next() {
		var c model.BillingCycle
		if err := rows.Scan(&c.ID, &c.Start, &c.End); err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (r *PostgresConsumptionRepository) Meters(ctx context.Context, clienteID int) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT s.meter_name
		FROM api_consumosummary s
		JOIN api_configuracaoidmc c ON c.id = s.configuracao_id
		WHERE c.cliente_id = $1
		  AND s.consumption_ipu > 0
		  AND s.meter_name NOT IN ($2, $3)
		ORDER BY s.meter_name
	`, clienteID, sandboxMeter, metadataMeter)
}

func (r *PostgresConsumptionRepository) Projects(ctx context.Context, clienteID int) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT a.project_name
		FROM api_consumoasset a
		JOIN api_configuracaoidmc c ON c.id = a.configuracao_id
		WHERE c.cliente_id = $1
		  AND a.consumption_ipu > 0
		  AND a.project_name IS NOT NULL AND a.project_name <> ''
		ORDER BY a.project_name
	`, clienteID)
}

func (r *PostgresConsumptionRepository) distinct(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
