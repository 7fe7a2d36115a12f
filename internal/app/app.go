package app

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/data/db"
	httpx "github.com/danfirsten/Standup/internal/http"
	"github.com/danfirsten/Standup/internal/observability"
	"github.com/danfirsten/Standup/internal/pkg/logger"
	"github.com/danfirsten/Standup/internal/temporalx/memoryflow"
	"github.com/danfirsten/Standup/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Clients  Clients
	Services Services
	Handlers Handlers

	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) (*logger.Logger, error) {
	log, err := logger.NewWithOptions(cfg.LogMode, logger.Options{
		Level:     cfg.LogLevel,
		Redaction: cfg.LogRedaction,
		HashSalt:  cfg.LogHashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects to the configured database and migrates it.
func OpenDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return theDB, nil
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	theDB, err := OpenDB(log, cfg)
	if err != nil {
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		return nil, err
	}
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Handlers:     wireHandlers(theDB, log, cfg, serviceset),
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start launches the background workers: the Temporal worker, the audit
// scheduler and the memory event forwarder that feeds it.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)

	if a.Clients.Temporal != nil {
		runner, err := temporalworker.NewRunner(a.Log, a.Clients.Temporal, a.Cfg.Temporal, &memoryflow.Activities{
			Log:     a.Log,
			Themes:  a.Services.Themes,
			Ingest:  a.Services.Ingest,
			Audit:   a.Services.Audit,
			Metrics: a.Metrics,
		})
		if err != nil {
			return err
		}
		if err := runner.Start(ctx); err != nil {
			return fmt.Errorf("start temporal worker: %w", err)
		}
	}

	if err := a.Clients.Bus.Subscribe(ctx, a.Services.Scheduler.HandleEvent); err != nil {
		return fmt.Errorf("subscribe memory events: %w", err)
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Services.Scheduler.Run(ctx)
	}()
	return nil
}

// Run serves the HTTP API until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := httpx.NewServer(httpx.RouterConfig{
		Log:             a.Log,
		ServiceName:     a.Cfg.ServiceName,
		TracingEnabled:  a.Cfg.Otel.Enabled,
		CORSOrigins:     a.Cfg.CORSAllowedOrigins,
		Metrics:         a.Metrics,
		AuthMiddleware:  a.Handlers.Auth,
		HealthHandler:   a.Handlers.Health,
		ProfileHandler:  a.Handlers.Profile,
		SessionHandler:  a.Handlers.Session,
		ThemeHandler:    a.Handlers.Theme,
		ArtifactHandler: a.Handlers.Artifact,
		GoalHandler:     a.Handlers.Goal,
		AuditHandler:    a.Handlers.Audit,
	})
	addr := ":" + a.Cfg.Port
	a.Log.Info("Serving HTTP API", "address", addr)
	return srv.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.wg.Wait()
	a.Clients.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.shutdownOtel != nil {
		_ = a.shutdownOtel(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
