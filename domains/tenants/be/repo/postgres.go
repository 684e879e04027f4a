package repo

import (
	"context"
	"errors"

	"github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
)

// PostgresRepository implements the tenant repository over the registry store.
type PostgresRepository struct {
	store *persistence.TenantStore
}

// NewPostgresRepository constructs a repository backed by TenantStore.
func NewPostgresRepository(store *persistence.TenantStore) *PostgresRepository {
	if store == nil {
		panic("tenant store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) List(ctx context.Context, includeInactive bool) ([]service.Tenant, error) {
	rows, err := r.store.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]service.Tenant, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toServiceTenant(rec))
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	out, err := r.store.Create(ctx, toRecord(t))
	if err != nil {
		return service.Tenant{}, mapError(err)
	}
	return toServiceTenant(out), nil
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	rec, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return service.Tenant{}, mapError(err)
	}
	return toServiceTenant(rec), nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, slug string, active bool) error {
	return mapError(r.store.SetActive(ctx, slug, active))
}

func toRecord(t service.Tenant) persistence.TenantRecord {
	return persistence.TenantRecord{
		TenantID:     t.ID,
		Slug:         t.Slug,
		DisplayName:  t.DisplayName,
		DatabaseName: t.Database,
		IsActive:     t.Active,
		CreatedAt:    t.CreatedAt,
	}
}

func toServiceTenant(rec persistence.TenantRecord) service.Tenant {
	return service.Tenant{
		ID:          rec.TenantID,
		Slug:        rec.Slug,
		DisplayName: rec.DisplayName,
		Database:    rec.DatabaseName,
		Active:      rec.IsActive,
		CreatedAt:   rec.CreatedAt,
	}
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return service.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicateSlug):
		return service.ErrConflictSlug
	default:
		return err
	}
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
