package middleware

import (
	"context"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
)

// Resolver defines the minimal lookup capability required to populate a Tenant Space.
// Implemented by the tenant registry service.
type Resolver interface {
	ResolveTenantSpace(ctx context.Context, slug string) (tenant.Space, error)
}

// Config controls middleware behavior.
type Config struct {
	// CacheTTL keeps resolved spaces in memory; zero disables caching.
	CacheTTL time.Duration
}

// WithTenantSpace resolves the signed-in user's tenant slug and attaches
// tenant.Space to the context. It must run after the session gate.
func WithTenantSpace(resolver Resolver, cfg Config) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenant middleware: resolver is required")
	}

	var cache *gocache.Cache
	if cfg.CacheTTL > 0 {
		cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := platformauth.FromContext(r.Context())
			if !ok || id.Tenant == "" {
				http.Error(w, "tenant required", http.StatusUnauthorized)
				return
			}

			space, found := cacheGet(cache, id.Tenant)
			if !found {
				var err error
				space, err = resolver.ResolveTenantSpace(r.Context(), id.Tenant)
				if err != nil {
					platformlogging.Or(r.Context(), nil).Warn("resolve tenant",
						zap.String("tenant", id.Tenant),
						zap.Error(err),
					)
					http.Error(w, "tenant not found", http.StatusUnauthorized)
					return
				}
				if cache != nil {
					cache.SetDefault(id.Tenant, space)
				}
			}

			ctx := tenant.WithSpace(r.Context(), space)
			ctx = platformlogging.Enrich(ctx, zap.String("tenant", space.Slug))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cacheGet(c *gocache.Cache, slug string) (tenant.Space, bool) {
	if c == nil {
		return tenant.Space{}, false
	}
	v, ok := c.Get(slug)
	if !ok {
		return tenant.Space{}, false
	}
	space, ok := v.(tenant.Space)
	return space, ok
}
