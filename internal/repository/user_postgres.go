package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jefferson-ssantos/monitor-ipu/internal/model"
)

// PostgresUserRepository implements UserRepository for PostgreSQL.
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, cliente_id, ativo
		FROM profiles WHERE email = $1
	`, email))
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, cliente_id, ativo
		FROM profiles WHERE id = $1
	`, id))
}

// scanProfile scans a single row into a Profile, nil when absent.
func (r *PostgresUserRepository) scanProfile(row *sql.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.ClienteID, &p.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
