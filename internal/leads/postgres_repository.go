package leads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowQuerier is the subset of pgxpool.Pool the repository needs. Each call checks a
// connection out of the pool and returns it once the row is scanned.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q rowQuerier) *PostgresRepository {
	if q == nil {
		panic("leads: querier required")
	}
	return &PostgresRepository{pool: q}
}

// CountByAddress counts stored leads from the given source address.
func (r *PostgresRepository) CountByAddress(ctx context.Context, address string) (int, error) {
	query := `SELECT COUNT(*) FROM leads WHERE ip_address = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, address).Scan(&count); err != nil {
		return 0, fmt.Errorf("leads: count by address: %w", err)
	}
	return count, nil
}

// Insert writes the lead and fills in the database-assigned ID and creation time.
func (r *PostgresRepository) Insert(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (
			first_name, last_name, email, phone, experience, message, platform,
			country_code, country_name, ip_address, is_spam, spam_reason, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Experience,
		lead.Message,
		lead.Platform,
		lead.CountryCode,
		lead.CountryName,
		lead.IPAddress,
		lead.IsSpam,
		lead.SpamReason,
	).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	lead.CreatedAt = lead.CreatedAt.UTC()
	return nil
}
