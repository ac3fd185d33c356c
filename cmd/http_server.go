package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/audit"
	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/cache"
	"github.com/frahmantamala/task-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/task-management/internal/permission/postgres"
	"github.com/frahmantamala/task-management/internal/role"
	rolePostgres "github.com/frahmantamala/task-management/internal/role/postgres"
	"github.com/frahmantamala/task-management/internal/task"
	taskPostgres "github.com/frahmantamala/task-management/internal/task/postgres"
	"github.com/frahmantamala/task-management/internal/transport"
	"github.com/frahmantamala/task-management/internal/transport/openapi"
	"github.com/frahmantamala/task-management/internal/transport/rest"
	"github.com/frahmantamala/task-management/internal/user"
	userPostgres "github.com/frahmantamala/task-management/internal/user/postgres"
	"github.com/frahmantamala/task-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	GormDB        *gorm.DB
	DB            *sqlx.DB
	Router        *chi.Mux
	HealthChecker *rest.HealthHandler
	AuditBus      *audit.Bus
	Logger        *slog.Logger

	// closers run in order once the server has stopped
	closers []namedCloser
}

type namedCloser struct {
	name   string
	closer io.Closer
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		deps.close()
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if d.AuditBus != nil {
		d.AuditBus.Wait()
	}
	for _, c := range d.closers {
		if err := c.closer.Close(); err != nil {
			d.Logger.Error("close error", "component", c.name, "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	opts := cfg.ServiceOptions()
	lg := deps.Logger

	var c *cache.Cache
	if cfg.Cache.Enabled {
		store, err := newCacheStore(deps)
		if err != nil {
			return err
		}
		c = cache.New(store, lg)
	}

	var recorder audit.Recorder = audit.Nop{}
	if cfg.Audit.Enabled {
		if err := subscribeAuditSink(deps); err != nil {
			return err
		}
		recorder = deps.AuditBus
	}

	userService := user.NewService(userPostgres.NewUserRepository(deps.GormDB), c, recorder, opts, cfg.Security.BCryptCost, lg)
	taskService := task.NewService(taskPostgres.NewTaskRepository(deps.GormDB), c, recorder, opts, lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(deps.GormDB), recorder, opts, lg)
	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(deps.GormDB), c, recorder, opts, lg)
	authService := auth.NewService(userService, auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration), lg)

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Health:      deps.HealthChecker,
		Auth:        auth.NewHandler(base, authService),
		Users:       user.NewHandler(base, userService),
		Tasks:       task.NewHandler(base, taskService),
		Roles:       role.NewHandler(base, roleService),
		Permissions: permission.NewHandler(base, permissionService),
	}

	routerOpts := routerOptions(cfg)
	if cfg.OpenAPI.ValidateRequests {
		doc, err := openapi.Load(context.Background(), cfg.OpenAPI.Path)
		if err != nil {
			return err
		}
		validator, err := openapi.NewValidator(doc, lg)
		if err != nil {
			return err
		}
		routerOpts.RequestValidator = validator.Middleware
	}

	rest.RegisterAllRoutes(deps.Router, handlers, routerOpts, lg)
	return nil
}

// routerOptions maps the http_server and openapi sections onto the router.
// The API document is served only when the file exists.
func routerOptions(cfg *internal.Config) rest.RouterOptions {
	opts := rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	}
	if _, err := os.Stat(cfg.OpenAPI.Path); err == nil {
		opts.SpecPath = cfg.OpenAPI.Path
	}
	return opts
}

func newCacheStore(deps *Dependencies) (cache.Store, error) {
	cfg := deps.Config.Cache
	if cfg.Driver == "redis" {
		store := cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.TTL,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		deps.HealthChecker.WithCheck("redis", store.Ping)
		deps.closers = append(deps.closers, namedCloser{name: "redis", closer: store})
		return store, nil
	}

	return cache.NewMemoryStore(cache.MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
	}), nil
}

func subscribeAuditSink(deps *Dependencies) error {
	cfg := deps.Config.Audit
	deps.AuditBus = audit.NewBus(deps.Logger)

	if cfg.Driver == "amqp" {
		sink, err := audit.NewAMQPSink(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return fmt.Errorf("failed to open audit queue: %w", err)
		}
		deps.AuditBus.Subscribe(sink)
		deps.closers = append(deps.closers, namedCloser{name: "audit_amqp", closer: sink})
		return nil
	}

	sink, err := audit.NewFileSink(cfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	deps.AuditBus.Subscribe(sink)
	deps.closers = append(deps.closers, namedCloser{name: "audit_file", closer: sink})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config := mustLoadConfig()
	lg := logger.LoggerWrapper()

	gormDB, db, err := initDB(config.Database, config.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:        config,
		Logger:        lg,
		GormDB:        gormDB,
		DB:            db,
		Router:        chi.NewRouter(),
		HealthChecker: rest.NewHealthHandler(db, config.Database.Driver),
	}, nil
}
