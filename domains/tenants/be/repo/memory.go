package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
)

// MemoryRepository keeps the registry in memory. Used when no registry
// database is configured; seeded from TENANTS.
type MemoryRepository struct {
	mu     sync.RWMutex
	bySlug map[string]service.Tenant
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bySlug: make(map[string]service.Tenant)}
}

func (r *MemoryRepository) List(ctx context.Context, includeInactive bool) ([]service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]service.Tenant, 0, len(r.bySlug))
	for _, t := range r.bySlug {
		if !includeInactive && !t.Active {
			continue
		}
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].DisplayName != items[j].DisplayName {
			return items[i].DisplayName < items[j].DisplayName
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

func (r *MemoryRepository) Create(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySlug[t.Slug]; exists {
		return service.Tenant{}, service.ErrConflictSlug
	}
	r.bySlug[t.Slug] = t
	return t, nil
}

func (r *MemoryRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySlug[slug]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) SetActive(ctx context.Context, slug string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.bySlug[slug]
	if !ok {
		return service.ErrNotFound
	}
	t.Active = active
	r.bySlug[slug] = t
	return nil
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
