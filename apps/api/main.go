package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zenGate-Global/haulage-backoffice/contracts"
	tenantsrepo "github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/repo"
	tenantsservice "github.com/zenGate-Global/haulage-backoffice/domains/tenants/be/service"
	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/persistence"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`

	SQLServerURL       string        `env:"SQLSERVER_URL,required"`
	SQLMaxOpenConns    int           `env:"SQL_MAX_OPEN_CONNS" envDefault:"20"`
	SQLMaxIdleConns    int           `env:"SQL_MAX_IDLE_CONNS" envDefault:"5"`
	SQLConnMaxLifetime time.Duration `env:"SQL_CONN_MAX_LIFETIME" envDefault:"30m"`

	RegistryDatabaseURL string        `env:"REGISTRY_DATABASE_URL"`
	RegistrySchema      string        `env:"REGISTRY_SCHEMA" envDefault:"registry"`
	Tenants             string        `env:"TENANTS"`
	TenantCacheTTL      time.Duration `env:"TENANT_CACHE_TTL" envDefault:"1m"`

	SessionHashKey  string        `env:"SESSION_HASH_KEY,required"`
	SessionBlockKey string        `env:"SESSION_BLOCK_KEY"`
	SessionSecure   bool          `env:"SESSION_SECURE" envDefault:"true"`
	SessionMaxAge   time.Duration `env:"SESSION_MAX_AGE" envDefault:"12h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "backoffice-api",
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tenantDB, err := persistence.NewTenantDB(persistence.TenantDBConfig{
		URL:             cfg.SQLServerURL,
		MaxOpenConns:    cfg.SQLMaxOpenConns,
		MaxIdleConns:    cfg.SQLMaxIdleConns,
		ConnMaxLifetime: cfg.SQLConnMaxLifetime,
		Logger:          logger,
		Metrics:         sproc.NewMetrics(registry),
	})
	if err != nil {
		logger.Fatal("init tenant databases", zap.Error(err))
	}
	defer func() {
		if err := tenantDB.Close(); err != nil {
			logger.Warn("close tenant databases", zap.Error(err))
		}
	}()

	tenantRepo, closeRegistry := buildTenantRepository(ctx, cfg, logger)
	defer closeRegistry()

	tenantService := tenantsservice.New(tenantRepo, tenantDB)
	if strings.TrimSpace(cfg.Tenants) != "" {
		seeds, err := tenantsservice.ParseSeeds(cfg.Tenants)
		if err != nil {
			logger.Fatal("parse TENANTS", zap.Error(err))
		}
		// Seeds are operator config; they are not checked so startup does not wait on SQL Server.
		if err := tenantsservice.New(tenantRepo, nil).Seed(ctx, seeds); err != nil {
			logger.Fatal("seed tenants", zap.Error(err))
		}
		logger.Info("tenants seeded", zap.Int("count", len(seeds)))
	}

	sessions, gate, err := buildSessionGate(cfg, logger)
	if err != nil {
		logger.Fatal("init sessions", zap.Error(err))
	}

	contract, err := contracts.Load(ctx)
	if err != nil {
		logger.Fatal("load contract", zap.Error(err))
	}
	logger.Info("contract loaded", zap.String("title", contract.Info.Title), zap.Int("paths", contract.Paths.Len()))

	handler := newRouter(routerDeps{
		Logger:         logger,
		Sessions:       sessions,
		Gate:           gate,
		Tenants:        tenantService,
		TenantDB:       tenantDB,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RequestTimeout: cfg.RequestTimeout,
		TenantCacheTTL: cfg.TenantCacheTTL,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		Contract:       contract,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildTenantRepository uses the Postgres registry when REGISTRY_DATABASE_URL
// is set and an in-memory registry otherwise.
func buildTenantRepository(ctx context.Context, cfg config, logger *zap.Logger) (tenantsservice.Repository, func()) {
	if cfg.RegistryDatabaseURL == "" {
		logger.Info("using in-memory tenant registry")
		return tenantsrepo.NewMemoryRepository(), func() {}
	}

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.RegistryDatabaseURL})
	if err != nil {
		logger.Fatal("init registry pool", zap.Error(err))
	}
	store, err := persistence.NewTenantStore(pool, cfg.RegistrySchema)
	if err != nil {
		persistence.ClosePool(pool)
		logger.Fatal("init tenant store", zap.Error(err))
	}
	return tenantsrepo.NewPostgresRepository(store), func() { persistence.ClosePool(pool) }
}
