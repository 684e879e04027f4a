package main

import (
	"context"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	entitieshandler "github.com/zenGate-Global/haulage-backoffice/domains/entities/be/handler"
	entitiesrepo "github.com/zenGate-Global/haulage-backoffice/domains/entities/be/repo"
	permissionshandler "github.com/zenGate-Global/haulage-backoffice/domains/permissions/be/handler"
	permissionsservice "github.com/zenGate-Global/haulage-backoffice/domains/permissions/be/service"
	sessionshandler "github.com/zenGate-Global/haulage-backoffice/domains/sessions/be/handler"
	sessionsservice "github.com/zenGate-Global/haulage-backoffice/domains/sessions/be/service"
	tenantsservice "github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/httpx"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/haulage-backoffice/platform/go/middleware"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/tenant"
	tenantmiddleware "github.com/zenGate-Global/haulage-backoffice/platform/go/tenant/middleware"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/validation"
)

type routerDeps struct {
	Logger         *zap.Logger
	Sessions       *session.Manager
	Gate           *platformauth.Gate
	Tenants        *tenantsservice.Service
	TenantDB       *persistence.TenantDB
	Metrics        http.Handler
	RequestTimeout time.Duration
	TenantCacheTTL time.Duration
	CORSOrigins    []string
	// Contract, when set, validates every authenticated request.
	Contract *openapi3.T
}

type menuEntry struct {
	Name    string `json:"name"`
	Section string `json:"section"`
	Path    string `json:"path"`
}

func newRouter(d routerDeps) http.Handler {
	root := chi.NewRouter()
	root.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(d.RequestTimeout),
		platformlogging.RequestLogger(d.Logger),
		platformmiddleware.CORS(d.CORSOrigins),
		d.Gate.Load,
	)

	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.TenantDB.Ping(ctx); err != nil {
			platformlogging.Or(r.Context(), d.Logger).Warn("readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if d.Metrics != nil {
		root.Handle("/metrics", d.Metrics)
	}

	login := sessionsservice.New(d.Tenants, func(space tenant.Space) sessionsservice.Credentials {
		return entitiesrepo.NewUserSecurity(d.TenantDB.Provider(space))
	}, d.Logger)
	sessionshandler.New(login, d.Sessions, d.Logger).Register(root)

	screens := entitieshandler.Screens(entitieshandler.Deps{
		Gateways:  d.TenantDB,
		Flashes:   d.Sessions,
		Validator: validation.New(),
		Logger:    d.Logger,
	})
	permissions := permissionshandler.New(
		permissionsservice.New(entitiesrepo.NewUserSecurity(d.TenantDB), d.Logger),
		d.Sessions,
		d.Logger,
	)

	root.Group(func(r chi.Router) {
		r.Use(d.Gate.RequireAuth)
		r.Use(platformmiddleware.RequestTrace)
		r.Use(tenantmiddleware.WithTenantSpace(d.Tenants, tenantmiddleware.Config{CacheTTL: d.TenantCacheTTL}))
		if d.Contract != nil {
			r.Use(platformmiddleware.ContractValidator(d.Contract))
		}

		r.Get("/", home)
		entitieshandler.Mount(r, d.Gate.RequireMenuPermission, screens...)
		r.With(d.Gate.RequireMenuPermission(permissionshandler.MenuKey)).
			Mount(permissionshandler.Path, permissions.Routes())
	})

	return root
}

// home lists the maintenance screens the signed-in user may open.
func home(w http.ResponseWriter, r *http.Request) {
	id, _ := platformauth.FromContext(r.Context())
	space, _ := tenant.FromContext(r.Context())

	menu := []menuEntry{}
	for _, desc := range entitiesrepo.Descriptors() {
		if id.HasMenuAccess(desc.MenuKey) {
			menu = append(menu, menuEntry{Name: desc.Name, Section: desc.Section, Path: desc.Path()})
		}
	}
	if id.HasMenuAccess(permissionshandler.MenuKey) {
		menu = append(menu, menuEntry{Name: "User Security", Section: "admin", Path: permissionshandler.Path})
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		"user_id": id.UserID,
		"tenant":  space.DisplayName,
		"menu":    menu,
	})
}
