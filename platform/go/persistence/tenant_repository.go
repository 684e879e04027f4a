package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a tenant record is not found.
	ErrNotFound = errors.New("tenant not found")
	// ErrDuplicateSlug is returned when the slug is already registered.
	ErrDuplicateSlug = errors.New("tenant slug already registered")
)

const uniqueViolation = "23505"

// TenantRecord is one row of the tenant registry.
type TenantRecord struct {
	TenantID     uuid.UUID `db:"tenant_id"`
	Slug         string    `db:"slug"`
	DisplayName  string    `db:"display_name"`
	DatabaseName string    `db:"database_name"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}

// TenantStore reads and writes the registry's tenants table.
type TenantStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewTenantStore creates a store; BootstrapRegistry must have created the table.
func NewTenantStore(pool *pgxpool.Pool, schema string) (*TenantStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	if schema == "" {
		schema = DefaultRegistrySchema
	}
	return &TenantStore{pool: pool, table: pgx.Identifier{schema, "tenants"}.Sanitize()}, nil
}

const tenantColumns = `tenant_id, slug, display_name, database_name, is_active, created_at`

// Create inserts a tenant.
func (s *TenantStore) Create(ctx context.Context, rec TenantRecord) (TenantRecord, error) {
	if rec.TenantID == uuid.Nil {
		return TenantRecord{}, errors.New("tenant id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`,
		s.table, tenantColumns, tenantColumns)

	out, err := scanTenantRecord(s.pool.QueryRow(ctx, query,
		rec.TenantID, rec.Slug, rec.DisplayName, rec.DatabaseName, rec.IsActive, rec.CreatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return TenantRecord{}, ErrDuplicateSlug
		}
		return TenantRecord{}, err
	}
	return out, nil
}

// GetBySlug returns the active tenant by slug.
func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1 AND is_active = TRUE`, tenantColumns, s.table)
	return scanTenantRecord(s.pool.QueryRow(ctx, query, slug))
}

// List returns tenants ordered by display name.
func (s *TenantStore) List(ctx context.Context, includeInactive bool) ([]TenantRecord, error) {
	where := "WHERE is_active = TRUE"
	if includeInactive {
		where = ""
	}
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY display_name, slug`, tenantColumns, s.table, where)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []TenantRecord{}
	for rows.Next() {
		rec, err := scanTenantRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetActive enables or disables a tenant.
func (s *TenantStore) SetActive(ctx context.Context, slug string, active bool) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`UPDATE %s SET is_active = $2 WHERE slug = $1`, s.table), slug, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTenantRecord(row pgx.Row) (TenantRecord, error) {
	var rec TenantRecord
	if err := row.Scan(&rec.TenantID, &rec.Slug, &rec.DisplayName, &rec.DatabaseName, &rec.IsActive, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TenantRecord{}, ErrNotFound
		}
		return TenantRecord{}, err
	}
	return rec, nil
}
