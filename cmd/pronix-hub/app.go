package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/pronix-hub/internal/config"
	"github.com/rpggio/pronix-hub/internal/domain/audit"
	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/domain/dashboard"
	"github.com/rpggio/pronix-hub/internal/domain/workbook"
	"github.com/rpggio/pronix-hub/internal/hub"
	"github.com/rpggio/pronix-hub/internal/mcp"
	"github.com/rpggio/pronix-hub/internal/notify"
	"github.com/rpggio/pronix-hub/internal/redisstore"
	"github.com/rpggio/pronix-hub/internal/repository"
	"github.com/rpggio/pronix-hub/internal/sqlite"
	"github.com/rpggio/pronix-hub/internal/transport"
)

// app holds the wired hub for one process.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *hub.Store
	clients   *client.Service
	audit     *audit.Service
	workbooks *workbook.Service
	dashboard *dashboard.Service
	analysis  *notify.Workflow
	ready     func(context.Context) error
	closers   []func() error
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	state, err := a.openState(cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = hub.New(state, logger)
	var seed []client.Client
	if cfg.Seed.Sample {
		seed = hub.SampleClients(time.Now())
	}
	if err := a.store.Load(ctx, seed); err != nil {
		a.Close()
		return nil, fmt.Errorf("loading hub state: %w", err)
	}

	a.audit = audit.NewService(a.store.Logs(), logger)
	a.clients = client.NewService(a.store, a.audit, logger)
	a.workbooks = workbook.NewService(a.clients, a.audit, logger)
	a.dashboard = dashboard.NewService(a.clients)

	var generator notify.TextGenerator
	if cfg.GenAI.APIKey != "" {
		gen, err := notify.NewGenAIGenerator(ctx, cfg.GenAI.APIKey)
		if err != nil {
			logger.Warn("genai disabled", "error", err)
		} else {
			generator = gen
		}
	} else {
		logger.Debug("genai api key not set; analysis returns the fallback text")
	}
	analyzer := notify.NewAnalyzer(generator, cfg.GenAI.Model, logger)
	webhook := notify.NewWebhook(cfg.Webhook.URL, &http.Client{Timeout: cfg.Webhook.Timeout}, logger)
	a.analysis = notify.NewWorkflow(analyzer, webhook, a.audit, logger)

	return a, nil
}

func (a *app) openState(cfg config.StoreConfig) (repository.StateStore, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		store, err := redisstore.New(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.ready = store.Ping
		a.logger.Info("using redis state store")
		return store, nil
	default:
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.ready = db.PingContext
		if err := db.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.logger.Info("using sqlite state store", "path", cfg.Path)
		return sqlite.NewStateStore(db), nil
	}
}

func (a *app) transportServices() transport.Services {
	return transport.Services{
		Clients:   a.clients,
		Audit:     a.audit,
		Workbooks: a.workbooks,
		Dashboard: a.dashboard,
		Analysis:  a.analysis,
	}
}

func (a *app) mcpServices() mcp.Services {
	return mcp.Services{
		Clients:   a.clients,
		Audit:     a.audit,
		Workbooks: a.workbooks,
		Dashboard: a.dashboard,
		Analysis:  a.analysis,
	}
}

// Close releases backends in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
