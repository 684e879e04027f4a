package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
)

// inMemoryRepo is a minimal in-memory impl of Repository for tests.
type inMemoryRepo struct {
	mu   sync.Mutex
	data map[string]Tenant
}

func newInMemoryRepo() *inMemoryRepo {
	return &inMemoryRepo{data: make(map[string]Tenant)}
}

func (r *inMemoryRepo) List(ctx context.Context, includeInactive bool) ([]Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Tenant{}
	for _, t := range r.data {
		if includeInactive || t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *inMemoryRepo) Create(ctx context.Context, t Tenant) (Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[t.Slug]; ok {
		return Tenant{}, ErrConflictSlug
	}
	r.data[t.Slug] = t
	return t, nil
}

func (r *inMemoryRepo) FindBySlug(ctx context.Context, slug string) (Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.data[slug]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

func (r *inMemoryRepo) SetActive(ctx context.Context, slug string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.data[slug]
	if !ok {
		return ErrNotFound
	}
	t.Active = active
	r.data[slug] = t
	return nil
}

type checkerFunc func(ctx context.Context, space tenant.Space) error

func (f checkerFunc) Check(ctx context.Context, space tenant.Space) error { return f(ctx, space) }

func TestRegisterNormalizesAndDefaults(t *testing.T) {
	svc := New(newInMemoryRepo(), nil)

	got, err := svc.Register(context.Background(), RegisterInput{Slug: " Acme-Haulage ", Database: "AcmeHaulage"})
	require.NoError(t, err)
	assert.Equal(t, "acme-haulage", got.Slug)
	assert.Equal(t, "Acme Haulage", got.DisplayName)
	assert.Equal(t, "AcmeHaulage", got.Database)
	assert.True(t, got.Active)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := New(newInMemoryRepo(), nil)

	_, err := svc.Register(context.Background(), RegisterInput{Slug: "bad slug", Database: "Acme"})
	require.ErrorIs(t, err, tenant.ErrInvalidSlug)

	_, err = svc.Register(context.Background(), RegisterInput{Slug: "acme", Database: "Acme;--"})
	require.ErrorIs(t, err, tenant.ErrInvalidDatabase)
}

func TestRegisterChecksDatabase(t *testing.T) {
	var checked tenant.Space
	svc := New(newInMemoryRepo(), checkerFunc(func(_ context.Context, space tenant.Space) error {
		checked = space
		return nil
	}))

	_, err := svc.Register(context.Background(), RegisterInput{Slug: "acme", Database: "AcmeTrucking"})
	require.NoError(t, err)
	assert.Equal(t, "AcmeTrucking", checked.Database)

	failing := New(newInMemoryRepo(), checkerFunc(func(context.Context, tenant.Space) error {
		return errors.New("login failed")
	}))
	_, err = failing.Register(context.Background(), RegisterInput{Slug: "acme", Database: "AcmeTrucking"})
	require.ErrorContains(t, err, "login failed")
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newInMemoryRepo()
	svc := New(repo, nil)

	seeds, err := ParseSeeds("acme=AcmeTrucking:Acme Trucking, beta=BetaHaulage")
	require.NoError(t, err)

	require.NoError(t, svc.Seed(context.Background(), seeds))
	require.NoError(t, svc.Seed(context.Background(), seeds))

	list, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	acme, err := svc.FindBySlug(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme Trucking", acme.DisplayName)
}

func TestParseSeeds(t *testing.T) {
	got, err := ParseSeeds(" acme = AcmeTrucking : Acme Trucking ,, beta=BetaHaulage")
	require.NoError(t, err)
	assert.Equal(t, []RegisterInput{
		{Slug: "acme", Database: "AcmeTrucking", DisplayName: "Acme Trucking"},
		{Slug: "beta", Database: "BetaHaulage"},
	}, got)

	empty, err := ParseSeeds("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseSeeds("acme")
	require.ErrorIs(t, err, ErrInvalidSeed)
	_, err = ParseSeeds("acme=")
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestResolveTenantSpace(t *testing.T) {
	svc := New(newInMemoryRepo(), nil)
	registered, err := svc.Register(context.Background(), RegisterInput{Slug: "acme", DisplayName: "Acme", Database: "AcmeTrucking"})
	require.NoError(t, err)

	space, err := svc.ResolveTenantSpace(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, tenant.Space{TenantID: registered.ID, Slug: "acme", DisplayName: "Acme", Database: "AcmeTrucking"}, space)

	require.NoError(t, svc.SetActive(context.Background(), "acme", false))
	_, err = svc.ResolveTenantSpace(context.Background(), "acme")
	require.ErrorIs(t, err, ErrDisabled)

	_, err = svc.ResolveTenantSpace(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ResolveTenantSpace(context.Background(), "not a slug")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewPanicsWithoutRepo(t *testing.T) {
	assert.Panics(t, func() { New(nil, nil) })
}
