package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/comitanigiacomo/onedo/internal/adapters/handler/http"
	"github.com/comitanigiacomo/onedo/internal/bootstrap"
	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

func buildRouter(app *bootstrap.App, startTime time.Time) *gin.Engine {
	cfg := app.Config
	clock := adapterHTTP.NewClock(cfg.Location)

	checks := make(map[string]adapterHTTP.HealthCheck)
	for name, check := range app.HealthChecks() {
		checks[name] = check
	}

	deps := adapterHTTP.RouterDependencies{
		HabitHandler:      adapterHTTP.NewHabitHandler(app.HabitService, clock),
		CompletionHandler: adapterHTTP.NewCompletionHandler(app.CompletionService, app.ProgressService, clock),
		StatsHandler:      adapterHTTP.NewStatsHandler(app.ProgressService, clock),
		TokenService:      app.TokenService,
		Redis:             app.Redis,
		RateLimit:         cfg.RateLimit,
		RateWindow:        cfg.RateWindow,
		HealthCheck:       checks,
		StartTime:         startTime,
	}
	if app.AuthService.Enabled() {
		deps.AuthHandler = adapterHTTP.NewAuthHandler(app.AuthService)
	}

	return adapterHTTP.NewRouter(deps)
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Critical: invalid configuration", "err", err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir}); err != nil {
		logger.Fatal("Critical: failed to initialise logger", "err", err)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		logger.Fatal("Critical: failed to open habit store", "backend", cfg.StoreBackend, "err", err)
	}
	defer app.Close()

	if cfg.AuthEnabled() {
		logger.Info("API protected by bearer tokens")
	} else {
		logger.Warn("Auth disabled: set PASSPHRASE_HASH and JWT_SECRET to protect the API")
	}

	app.Worker.Start(ctx)
	if habits, err := app.Habits.List(ctx); err != nil {
		logger.Error("Failed to load habits for reminder sync", "err", err)
	} else if err := app.Worker.SyncAll(ctx, habits); err != nil {
		logger.Warn("Some reminders could not be synced", "err", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildRouter(app, startTime),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("OneDo API running", "addr", "http://localhost:"+cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Critical server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stop signal received. Shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "err", err)
		return
	}

	logger.Info("Server stopped gracefully.")
}
