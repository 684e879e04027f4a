package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
)

// Errors returned by the service layer.
var (
	ErrNotFound     = errors.New("tenant not found")
	ErrConflictSlug = errors.New("tenant slug already exists")
	ErrDisabled     = errors.New("tenant disabled")
	ErrInvalidSeed  = errors.New("invalid tenant seed")
)

// Tenant is one company database the back office can sign into.
type Tenant struct {
	ID          uuid.UUID
	Slug        string
	DisplayName string
	Database    string
	Active      bool
	CreatedAt   time.Time
}

// Space projects the tenant into the request-scoped routing value.
func (t Tenant) Space() tenant.Space {
	return tenant.Space{TenantID: t.ID, Slug: t.Slug, DisplayName: t.DisplayName, Database: t.Database}
}

// RegisterInput is the request to add a tenant.
type RegisterInput struct {
	Slug        string
	DisplayName string
	Database    string
}

// Repository abstracts persistence.
type Repository interface {
	List(ctx context.Context, includeInactive bool) ([]Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	FindBySlug(ctx context.Context, slug string) (Tenant, error)
	SetActive(ctx context.Context, slug string, active bool) error
}

// DatabaseChecker checks that a tenant database answers before it is registered.
type DatabaseChecker interface {
	Check(ctx context.Context, space tenant.Space) error
}

// Service provides tenant registry operations.
type Service struct {
	repo   Repository
	checker DatabaseChecker
}

// New constructs a Service. checker may be nil to skip reachability checks.
func New(repo Repository, checker DatabaseChecker) *Service {
	if repo == nil {
		panic("tenants repo is required")
	}
	return &Service{repo: repo, checker: checker}
}

// Register validates and stores a new tenant.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Tenant, error) {
	slug, err := tenant.NormalizeSlug(input.Slug)
	if err != nil {
		return Tenant{}, fmt.Errorf("%w: %q", err, input.Slug)
	}
	database := strings.TrimSpace(input.Database)
	if err := tenant.ValidateDatabase(database); err != nil {
		return Tenant{}, fmt.Errorf("%w: %q", err, input.Database)
	}

	t := Tenant{
		ID:          uuid.New(),
		Slug:        slug,
		DisplayName: tenant.DisplayNameOr(input.DisplayName, slug),
		Database:    database,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if s.checker != nil {
		if err := s.checker.Check(ctx, t.Space()); err != nil {
			return Tenant{}, fmt.Errorf("check tenant database %s: %w", database, err)
		}
	}

	return s.repo.Create(ctx, t)
}

// Seed registers every input, leaving already registered slugs untouched.
func (s *Service) Seed(ctx context.Context, inputs []RegisterInput) error {
	for _, in := range inputs {
		if _, err := s.Register(ctx, in); err != nil && !errors.Is(err, ErrConflictSlug) {
			return err
		}
	}
	return nil
}

// List returns registered tenants.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Tenant, error) {
	return s.repo.List(ctx, includeInactive)
}

// FindBySlug returns an active tenant.
func (s *Service) FindBySlug(ctx context.Context, slug string) (Tenant, error) {
	slug, err := tenant.NormalizeSlug(slug)
	if err != nil {
		return Tenant{}, ErrNotFound
	}
	return s.repo.FindBySlug(ctx, slug)
}

// SetActive enables or disables sign-in for a tenant.
func (s *Service) SetActive(ctx context.Context, slug string, active bool) error {
	return s.repo.SetActive(ctx, slug, active)
}

// ResolveTenantSpace returns the routing value for middleware consumption.
func (s *Service) ResolveTenantSpace(ctx context.Context, slug string) (tenant.Space, error) {
	t, err := s.FindBySlug(ctx, slug)
	if err != nil {
		return tenant.Space{}, err
	}
	if !t.Active {
		return tenant.Space{}, ErrDisabled
	}
	return t.Space(), nil
}

// ParseSeeds reads "slug=database[:Display Name],..." as used by the TENANTS
// environment variable.
func ParseSeeds(raw string) ([]RegisterInput, error) {
	var out []RegisterInput
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		slug, rest, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(slug) == "" || strings.TrimSpace(rest) == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, entry)
		}
		database, display, _ := strings.Cut(rest, ":")
		out = append(out, RegisterInput{
			Slug:        strings.TrimSpace(slug),
			Database:    strings.TrimSpace(database),
			DisplayName: strings.TrimSpace(display),
		})
	}
	return out, nil
}
