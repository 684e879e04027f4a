// Package service signs users into a tenant database.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	tenantsvc "github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
)

// Login errors.
var (
	ErrMissingFields      = errors.New("user id, password and tenant are required")
	ErrUnknownTenant      = errors.New("unknown tenant")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Tenants is the registry view the login screen needs.
type Tenants interface {
	List(ctx context.Context, includeInactive bool) ([]tenantsvc.Tenant, error)
	ResolveTenantSpace(ctx context.Context, slug string) (tenant.Space, error)
}

// Credentials checks passwords and lists grants inside one tenant database.
type Credentials interface {
	Authenticate(ctx context.Context, userID, password string) (bool, error)
	GrantedKeys(ctx context.Context, userID string) ([]string, error)
}

// CredentialsFor binds Credentials to a tenant space.
type CredentialsFor func(space tenant.Space) Credentials

// LoginInput is the submitted login form.
type LoginInput struct {
	UserID   string
	Password string
	Tenant   string
}

// Option is one selectable tenant.
type Option struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

// Service implements login.
type Service struct {
	tenants     Tenants
	credentials CredentialsFor
	logger      *zap.Logger
}

// New constructs the login service.
func New(tenants Tenants, credentials CredentialsFor, logger *zap.Logger) *Service {
	if tenants == nil {
		panic("tenant registry is required")
	}
	if credentials == nil {
		panic("credentials factory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tenants: tenants, credentials: credentials, logger: logger}
}

// Tenants lists the active tenants a user can sign into.
func (s *Service) Tenants(ctx context.Context) ([]Option, error) {
	list, err := s.tenants.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	out := make([]Option, 0, len(list))
	for _, t := range list {
		out = append(out, Option{Slug: t.Slug, DisplayName: t.DisplayName})
	}
	return out, nil
}

// Login verifies the credentials against the tenant database and returns the
// session data to store. The password never leaves this call.
func (s *Service) Login(ctx context.Context, input LoginInput) (session.Data, error) {
	userID := strings.TrimSpace(input.UserID)
	slug := strings.TrimSpace(input.Tenant)
	if userID == "" || input.Password == "" || slug == "" {
		return session.Data{}, ErrMissingFields
	}

	space, err := s.tenants.ResolveTenantSpace(ctx, slug)
	if err != nil {
		if errors.Is(err, tenantsvc.ErrNotFound) || errors.Is(err, tenantsvc.ErrDisabled) {
			return session.Data{}, ErrUnknownTenant
		}
		return session.Data{}, fmt.Errorf("resolve tenant %s: %w", slug, err)
	}

	creds := s.credentials(space)
	ok, err := creds.Authenticate(ctx, userID, input.Password)
	if err != nil {
		return session.Data{}, fmt.Errorf("authenticate %s: %w", userID, err)
	}
	logger := platformlogging.Or(ctx, s.logger).With(zap.String("user_id", userID), zap.String("tenant", space.Slug))
	if !ok {
		logger.Info("login rejected")
		return session.Data{}, ErrInvalidCredentials
	}

	keys, err := creds.GrantedKeys(ctx, userID)
	if err != nil {
		return session.Data{}, fmt.Errorf("load permissions for %s: %w", userID, err)
	}

	logger.Info("login succeeded", zap.Int("menu_keys", len(keys)))
	return session.Data{UserID: userID, Tenant: space.Slug, MenuKeys: keys}, nil
}
