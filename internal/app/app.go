package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/db"
	"github.com/yungbote/howscary-backend/internal/http"
	"github.com/yungbote/howscary-backend/internal/observability"
	"github.com/yungbote/howscary-backend/internal/platform/envutil"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	ctx := context.Background()

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := openDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       wireServer(log, cfg, handlerset, middleware, serviceset),
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		svc, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return svc.DB(), nil
	}
	svc, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	return svc.DB(), nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "addr", addr)
	return a.Server.Run(addr)
}

// Close stops the listener, then waits for in-flight generations before
// releasing clients.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown", "error", err)
		}
	}
	if a.Services.Runner != nil {
		if err := a.Services.Runner.Close(ctx); err != nil {
			a.Log.Warn("Background generations did not finish", "error", err)
		}
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
