package container

import (
	"context"
	"fmt"

	"csvexplorer/app"
	"csvexplorer/internal"
	"csvexplorer/internal/config"
	"csvexplorer/internal/dataset"
	"csvexplorer/internal/session"
	"csvexplorer/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Registry *prometheus.Registry
	Metrics  *app.Metrics

	// Session state
	Store       *session.MemoryStore
	SessionRepo ports.SessionRepository

	// Services
	Processor *dataset.Processor
	Explorer  *app.ExplorerService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initMetrics()
	c.initSessions()
	c.initServices()

	logger.Info("[Container] Initialized (max upload %d bytes, session TTL %s)", cfg.Data.MaxUploadBytes, cfg.Session.TTL)
	return c, nil
}

// initMetrics creates a private registry with the Go runtime collectors
func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// initSessions creates the in-memory session store
func (c *Container) initSessions() {
	c.Store = session.NewMemoryStore(c.Logger)
	c.SessionRepo = c.Store
	c.Metrics = app.NewMetrics(c.Registry, c.Store.Len)
}

// initServices wires ingestion and the explorer service
func (c *Container) initServices() {
	ingest := dataset.DefaultIngestConfig()
	ingest.MaxFileSize = c.Config.Data.MaxUploadBytes
	c.Processor = dataset.NewProcessor(ingest, c.Logger)

	c.Explorer = app.NewExplorerService(c.SessionRepo, c.Processor, c.Metrics, c.Logger, app.ViewConfig{
		PreviewRows:      c.Config.Data.PreviewRows,
		MissingRowsLimit: c.Config.Data.MissingRowsLimit,
	})
}

// RunJanitor expires idle sessions until ctx is cancelled
func (c *Container) RunJanitor(ctx context.Context) error {
	return c.Store.RunJanitor(ctx, c.Config.Session.JanitorInterval, c.Config.Session.TTL)
}

// Shutdown releases held sessions
func (c *Container) Shutdown(ctx context.Context) error {
	removed, err := c.Store.CleanupExpired(ctx, 0)
	if err != nil {
		return err
	}
	c.Logger.Info("[Container] Shutdown complete, released %d sessions", removed)
	return nil
}
