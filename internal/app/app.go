package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medroute/pilot/config"
	"github.com/medroute/pilot/internal/interfaces"
	"github.com/medroute/pilot/internal/landing"
	"github.com/medroute/pilot/internal/middleware"
	"github.com/medroute/pilot/internal/pilotrepo"
	mongoPilotRepo "github.com/medroute/pilot/internal/pilotrepo/mongo"
	postgresPilotRepo "github.com/medroute/pilot/internal/pilotrepo/postgres"
	"github.com/medroute/pilot/internal/pilotservice"
	"github.com/medroute/pilot/internal/routes"
	"github.com/medroute/pilot/internal/server"
	"github.com/medroute/pilot/pkg/databases/mongo"
	"github.com/medroute/pilot/pkg/databases/postgres"
	"github.com/medroute/pilot/pkg/metrics"
	"github.com/medroute/pilot/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests on exit.
var ShutdownTimeout = 10 * time.Second

// App represents the main application, containing server and configuration.
type App struct {
	Server interfaces.Server
	Config *config.ServiceConfig
	Logger interfaces.Logger

	metrics   interfaces.Metrics
	pilotRepo interfaces.PilotRepository
}

// NewApp reads the config file at configPath and builds the application from it.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return NewAppFromConfig(cfg, zerolog.NewZerologLogger(cfg.ServiceName))
}

// NewAppFromConfig validates cfg, connects the configured storage backend and
// registers every route.
func NewAppFromConfig(cfg *config.ServiceConfig, logger interfaces.Logger) (*App, error) {
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validation error: %s", validationErrors)
		}
		return nil, fmt.Errorf("validation error: %w", err)
	}

	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.metrics = app.initializeMetrics()

	repo, err := app.initializePilotRepo()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pilot repository: %w", err)
	}
	app.pilotRepo = repo

	pilotService := pilotservice.NewPilotService(repo, logger)
	route := routes.NewRoute(app.metrics, pilotService, logger, validator)

	app.Server = server.NewServer(cfg.Host, cfg.Port, logger)
	app.Server.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	if err := app.addRoutes(route); err != nil {
		app.closeRepo()
		return nil, err
	}

	return app, nil
}

func (app *App) addRoutes(route *routes.Route) error {
	var pilotHandler http.Handler = http.HandlerFunc(route.Pilot)
	if app.Config.RateLimit.Enabled {
		limiter := rate.NewLimiter(rate.Limit(app.Config.RateLimit.RequestsPerSecond), app.Config.RateLimit.Burst)
		pilotHandler = middleware.RateLimitMiddleware(limiter)(pilotHandler)
		app.Logger.Info("Rate limiting enabled",
			"requests_per_second", app.Config.RateLimit.RequestsPerSecond,
			"burst", app.Config.RateLimit.Burst)
	}

	metricsHandler := promhttp.HandlerFor(
		app.metrics.GetRegistry(),
		promhttp.HandlerOpts{})

	handlers := []struct {
		pattern string
		handler http.Handler
	}{
		{routes.PilotRouteAPI, otelhttp.NewHandler(pilotHandler, routes.PilotRouteAPI)},
		{routes.HealthRouteAPI, http.HandlerFunc(route.Health)},
		{routes.MetricsRouteAPI, otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)},
		{"/", landing.Handler()},
	}
	for _, h := range handlers {
		if err := app.Server.AddRoute(h.pattern, h.handler); err != nil {
			return fmt.Errorf("failed to add route %s: %w", h.pattern, err)
		}
	}
	return nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully and closes storage.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails.
func (app *App) RunContext(ctx context.Context) error {
	defer app.closeRepo()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (app *App) closeRepo() {
	if app.pilotRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := app.pilotRepo.Close(ctx); err != nil {
		app.Logger.Error("Failed to close pilot repository", "error", err)
	}
	app.pilotRepo = nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(routes.PilotRequestsTotal, routes.PilotRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.PilotSuccessTotal, routes.PilotSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.PilotErrorsTotal, routes.PilotErrorsTotalHelp)
	appMetrics.RegisterCounterVec(routes.PilotRejectedTotal, routes.PilotRejectedTotalHelp, []string{"reason"})
	appMetrics.RegisterHistogram(
		routes.PilotDurationSeconds,
		routes.PilotDurationSecondsHelp,
		routes.PilotDurationSecondsBuckets)
	appMetrics.RegisterGauge(routes.PilotInFlightRequests, routes.PilotInFlightRequestsHelp)

	return appMetrics
}

func (app *App) initializeDBClient(ctx context.Context) (interfaces.DBClient, error) {
	dbConfig := &app.Config.Database

	var dbClient interfaces.DBClient
	switch dbConfig.Type {
	case config.DatabaseTypeMongo:
		fields := append([]string{mongo.IDFIELD}, pilotrepo.DocumentFields...)
		dbClient = mongo.NewMongoDB(dbConfig, []string{dbConfig.MongoDB.Collection}, fields)
	case config.DatabaseTypePostgres:
		dbClient = postgres.NewPostgresDatabaseClient(dbConfig.Postgres.Options)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbConfig.Type)
	}

	if err := dbClient.Connect(ctx, dbConfig.DSN); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbConfig.Type, err)
	}
	return dbClient, nil
}

// initializePilotRepo returns nil when storage is disabled; accepted requests are then only logged.
func (app *App) initializePilotRepo() (interfaces.PilotRepository, error) {
	dbConfig := &app.Config.Database
	if dbConfig.Type == config.DatabaseTypeNone {
		app.Logger.Info("No storage backend configured, pilot requests are only logged")
		return nil, nil
	}

	ctx := context.Background()
	if dbConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dbConfig.Timeout)
		defer cancel()
	}

	dbClient, err := app.initializeDBClient(ctx)
	if err != nil {
		return nil, err
	}

	var repo interfaces.PilotRepository
	switch dbConfig.Type {
	case config.DatabaseTypeMongo:
		repo, err = mongoPilotRepo.NewMongoPilotRepository(dbClient, dbConfig.MongoDB.Collection)
	case config.DatabaseTypePostgres:
		repo, err = postgresPilotRepo.NewPostgresPilotRepository(dbClient, dbConfig.Postgres.Table)
	}
	if err != nil {
		_ = dbClient.Disconnect(ctx)
		return nil, err
	}

	if err = repo.EnsureIndices(ctx); err != nil {
		_ = repo.Close(ctx)
		return nil, fmt.Errorf("failed to ensure indices: %w", err)
	}

	app.Logger.Info("Storage backend ready", "type", dbConfig.Type)
	return repo, nil
}
