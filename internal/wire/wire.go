// Package wire provides dependency injection for the taskboard application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/adapters/api"
	cliadapter "github.com/example/taskboard/internal/adapters/cli"
	"github.com/example/taskboard/internal/adapters/redis"
	"github.com/example/taskboard/internal/adapters/sqlite"
	"github.com/example/taskboard/internal/app"
	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/logging"
	"github.com/example/taskboard/internal/metrics"
	"github.com/example/taskboard/internal/ports/secondary"
)

var (
	cfg      *config.Config
	logger   *log.Logger
	database *sql.DB
	services api.Services
	registry *prometheus.Registry
	once     sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	once.Do(initServices)
	return logger
}

// Services returns the singleton service bundle.
func Services() api.Services {
	once.Do(initServices)
	return services
}

// Server returns a new echo server over the singleton services.
func Server() *echo.Echo {
	once.Do(initServices)
	return api.NewServer(services, api.Options{
		AllowOrigins: cfg.AllowOrigins,
		JWTSecret:    cfg.JWTSecret,
		Registry:     registry,
	}, logger)
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	fallback := log.New()

	wd, err := os.Getwd()
	if err != nil {
		fallback.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.Load(wd)
	if err != nil {
		fallback.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fallback.Fatalf("failed to configure logging: %v", err)
	}

	path, err := cfg.DatabasePath()
	if err != nil {
		logger.Fatalf("failed to resolve database path: %v", err)
	}
	database, err = db.Open(cfg.DBDriver, path)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}

	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(registry); err != nil {
		logger.Fatalf("failed to register metrics: %v", err)
	}

	services = Build(database, newCache(cfg, logger), logger)
}

// Build wires every service against one database and cache.
func Build(database *sql.DB, cache secondary.BoardMetadataCache, logger *log.Logger) api.Services {
	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	tx := sqlite.NewTransactor(database)
	users := sqlite.NewUserRepository(database)
	workspaces := sqlite.NewWorkspaceRepository(database)
	boards := sqlite.NewBoardRepository(database)
	states := sqlite.NewStateRepository(database)
	catalog := sqlite.NewCatalogRepository(database)
	tasks := sqlite.NewTaskRepository(database)
	snaps := sqlite.NewSnapshotRepository(database)
	comments := sqlite.NewCommentRepository(database)
	sprints := sqlite.NewSprintRepository(database)

	// Create services (primary ports implementation)
	return api.Services{
		Users:      app.NewUserService(users),
		Workspaces: app.NewWorkspaceService(tx, users, workspaces),
		Boards:     app.NewBoardService(tx, workspaces, users, boards, states, catalog, sprints, cache, logger),
		States:     app.NewStateService(tx, boards, states, cache, logger),
		Tasks:      app.NewTaskService(tx, boards, states, catalog, tasks, snaps, comments, sprints, logger),
		Reorder:    app.NewReorderService(tx, tasks, states, snaps, comments, logger),
		Sprints:    app.NewSprintService(tx, boards, sprints, tasks, snaps, cache, logger),
	}
}

func newCache(cfg *config.Config, logger *log.Logger) secondary.BoardMetadataCache {
	if cfg.RedisURL == "" {
		return redis.NoopCache{}
	}
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid redis url, metadata cache disabled")
		return redis.NoopCache{}
	}
	ttl, _ := cfg.CacheTTLDuration()
	return redis.NewMetadataCache(client, ttl, logger)
}

// BoardAdapterWithOutput returns a new BoardAdapter writing to the given output.
func BoardAdapterWithOutput(out io.Writer) *cliadapter.BoardAdapter {
	once.Do(initServices)
	return cliadapter.NewBoardAdapter(services.Boards, services.States, services.Tasks, out)
}

// TaskAdapterWithOutput returns a new TaskAdapter writing to the given output.
func TaskAdapterWithOutput(out io.Writer) *cliadapter.TaskAdapter {
	once.Do(initServices)
	return cliadapter.NewTaskAdapter(services.Tasks, services.Reorder, out)
}

// SprintAdapterWithOutput returns a new SprintAdapter writing to the given output.
func SprintAdapterWithOutput(out io.Writer) *cliadapter.SprintAdapter {
	once.Do(initServices)
	return cliadapter.NewSprintAdapter(services.Sprints, out)
}

// WorkspaceAdapterWithOutput returns a new WorkspaceAdapter writing to the given output.
func WorkspaceAdapterWithOutput(out io.Writer) *cliadapter.WorkspaceAdapter {
	once.Do(initServices)
	return cliadapter.NewWorkspaceAdapter(services.Users, services.Workspaces, out)
}
