package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evdsrates/internal/adapters"
	"evdsrates/internal/adapters/cache"
	"evdsrates/internal/adapters/evds"
	"evdsrates/internal/adapters/postgres"
	"evdsrates/internal/api"
	"evdsrates/internal/config"
	"evdsrates/internal/metrics"
	"evdsrates/internal/platform/db"
	httpserver "evdsrates/internal/platform/http"
	"evdsrates/internal/platform/logging"
	"evdsrates/internal/rate"
	"evdsrates/internal/rate/handler"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		logrus.WithError(err).Error("Failed to load config")
		return err
	}
	if err = logging.Setup(appCfg.Logging); err != nil {
		return err
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, appCfg.DbServer.GetConnectionStr()); err != nil {
		logrus.WithError(err).Error("Failed to apply migrations")
		return err
	}
	logrus.Info("✅ Migrations applied")

	// Base HTTP client (configurable timeout)
	baseHTTPClient := &http.Client{Timeout: time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second}

	// External clients
	evdsClient, err := evds.NewClient(baseHTTPClient, appCfg.Evds.BaseEndpoint, appCfg.Evds.APIKey)
	if err != nil {
		logrus.WithError(err).Error("Failed to create EVDS client")
		return err
	}

	var resultCache adapters.ResultCache
	if appCfg.Cache.MaxItems > 0 && appCfg.Cache.TTL() > 0 {
		ristrettoCache, cacheErr := cache.NewResultCache(appCfg.Cache.MaxItems, appCfg.Cache.TTL())
		if cacheErr != nil {
			logrus.WithError(cacheErr).Error("Failed to create result cache")
			return cacheErr
		}
		defer ristrettoCache.Close()
		resultCache = ristrettoCache
	} else {
		logrus.Info("Result cache disabled")
	}

	clock := clockwork.NewRealClock()
	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Repositories and services
	rateRepo := postgres.NewRateRepository(pool)
	rateService := rate.NewService(evdsClient, rateRepo, resultCache, appMetrics, clock)

	supported := appCfg.Evds.SupportedCurrencies
	if len(supported) == 0 {
		supported = rate.DefaultSupportedCurrencies
	}
	rateValidator := rate.NewValidator(supported)
	if err = rateValidator.ValidateCodes(appCfg.Evds.Currencies...); err != nil {
		logrus.WithError(err).Error("Configured currencies are not supported")
		return err
	}

	if appCfg.Scheduler.Enabled {
		scheduler := rate.NewScheduler(rateService, rate.SyncConfig{
			Currencies:   appCfg.Evds.Currencies,
			LookbackDays: appCfg.Scheduler.LookbackDays,
			Workers:      appCfg.Scheduler.Workers,
			Defaults:     appCfg.Defaults(),
		}, appCfg.Scheduler.Interval(), clock, appMetrics)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateValidator, rateService, appCfg.Defaults(), clock)
	router := api.NewRouter(rateHandler, appMetrics, prometheus.DefaultGatherer)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
