package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	httpapi "github.com/driftlock/mfahub/internal/mfa/http"
	"github.com/driftlock/mfahub/internal/mfa/service"
	"github.com/driftlock/mfahub/internal/mfa/store"
	redisdriver "github.com/driftlock/mfahub/internal/mfa/store/drivers/redis"
	"github.com/driftlock/mfahub/internal/mfa/store/drivers/sqlite"
	"github.com/driftlock/mfahub/pkg/authority"
	"github.com/driftlock/mfahub/pkg/notify"
	"github.com/driftlock/mfahub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the MFA hub service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	cache    *redisdriver.ProfileCache
	upstream *authority.Client
	notifier notify.Notifier
	kafka    *notify.KafkaNotifier // nil when no brokers configured

	// Services
	settingsService *service.SettingsService
	commandService  *service.CommandService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.AuthorityBaseURL == "" {
		return nil, errors.New("MFAHUB_AUTHORITY_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("MFAHUB_JWT_SECRET is required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mfahub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initUpstream()
	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("mfahub starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down mfahub...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Flush outstanding notification publishes
	if app.kafka != nil {
		if err := app.kafka.Close(); err != nil {
			app.logger.Error("error closing kafka writer", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("mfahub stopped")
	return nil
}

// initDatabase initializes the journal database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initUpstream wires the authority client and the redis-backed snapshot cache
// in front of it. Cache misses fall through to the authority; authority 404s
// surface as store.ErrNotFound so callers never see transport detail.
func (app *Application) initUpstream() {
	app.upstream = authority.NewClient(app.cfg.AuthorityBaseURL, app.cfg.AuthorityToken)

	rdb := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})

	fetch := func(ctx context.Context, username string) (domain.UserRecord, error) {
		rec, err := app.upstream.GetUser(ctx, username)
		if errors.Is(err, authority.ErrNotFound) {
			return domain.UserRecord{}, store.ErrNotFound
		}
		return rec, err
	}

	app.cache = redisdriver.NewProfileCache(rdb, fetch, app.cfg.CacheTTL)
}

// initNotifier builds the notification fan-out. The log sink is always
// installed; Kafka is added when brokers are configured.
func (app *Application) initNotifier() {
	sinks := notify.Multi{&notify.LogNotifier{Logger: app.logger}}

	if len(app.cfg.KafkaBrokers) > 0 {
		app.kafka = notify.NewKafkaNotifier(app.cfg.KafkaBrokers, app.cfg.KafkaTopic, app.logger)
		sinks = append(sinks, app.kafka)
		app.logger.Info("kafka notifications enabled",
			"brokers", app.cfg.KafkaBrokers, "topic", app.cfg.KafkaTopic)
	}

	app.notifier = sinks
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.settingsService = &service.SettingsService{Profiles: app.cache}

	app.commandService = &service.CommandService{
		Authority: app.upstream,
		Profiles:  app.cache,
		Notifier:  app.notifier,
		Journal:   app.db.Journal(),
		Logger:    app.logger,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		[]byte(app.cfg.JWTSecret),
		BuildVersion,
		app.db,
		app.cache,
		app.logger,
	)

	// Wire services to router
	router.SettingsService = app.settingsService
	router.CommandService = app.commandService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
