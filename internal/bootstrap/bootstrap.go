// Package bootstrap assembles the store, notifier, worker and services from
// configuration. The API server and the CLI share it so both see the same
// habits.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/onedo/internal/adapters/cache"
	"github.com/comitanigiacomo/onedo/internal/adapters/kvstore"
	"github.com/comitanigiacomo/onedo/internal/adapters/notifier"
	"github.com/comitanigiacomo/onedo/internal/adapters/repository"
	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/services"
	"github.com/comitanigiacomo/onedo/internal/core/workers"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

// Replacer swaps the whole habit collection. Every store in this module
// implements it.
type Replacer interface {
	Replace(ctx context.Context, habits []*domain.Habit) error
}

type Options struct {
	// Notifier overrides the one picked from configuration.
	Notifier workers.Notifier
}

type App struct {
	Config *config.Config

	Habits   domain.HabitRepository
	Redis    *redis.Client
	DB       *sqlx.DB
	Notifier workers.Notifier
	Worker   *workers.ReminderWorker

	HabitService      *services.HabitService
	CompletionService *services.CompletionService
	ProgressService   *services.ProgressService
	TokenService      *services.TokenService
	AuthService       *services.AuthService

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	if err := app.openStore(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Notifier = opts.Notifier
	if app.Notifier == nil {
		n, err := newNotifier(cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Notifier = n
	}

	app.Worker = workers.NewReminderWorker(app.Habits, app.Notifier)
	app.HabitService = services.NewHabitService(app.Habits, app.Worker)
	app.CompletionService = services.NewCompletionService(app.Habits, app.Worker)
	app.ProgressService = services.NewProgressService(app.Habits)
	app.TokenService = services.NewTokenService(cfg.JWTSecret, "onedo", cfg.TokenTTL)
	app.AuthService = services.NewAuthService(cfg.PassphraseHash, app.TokenService)

	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config

	if cfg.RedisRequired() {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		a.Redis = rdb
		a.closers = append(a.closers, rdb.Close)
	}

	var store domain.HabitRepository
	switch cfg.StoreBackend {
	case config.BackendMemory:
		store = repository.NewInMemoryHabitRepository()
	case config.BackendFile:
		store = repository.NewSnapshotHabitRepository(kvstore.NewFileStore(cfg.DataFile), cfg.DiscardCorruptData)
	case config.BackendRedis:
		store = repository.NewSnapshotHabitRepository(kvstore.NewRedisStore(a.Redis, kvstore.DefaultRedisKey), cfg.DiscardCorruptData)
	case config.BackendSQL:
		db, err := repository.OpenDB(ctx, cfg.SQLDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
		store = repository.NewSQLHabitRepository(db)
	default:
		return fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		store = repository.NewCachedHabitRepository(store, a.Redis)
	}

	logger.Debug("habit store ready", "backend", cfg.StoreBackend, "cache", cfg.CacheEnabled)
	a.Habits = store
	return nil
}

func newNotifier(cfg *config.Config) (workers.Notifier, error) {
	if cfg.ReminderWebhookURL == "" && cfg.ReminderRelayLockfile == "" {
		return notifier.NewLogNotifier(), nil
	}
	return notifier.NewWebhookNotifier(notifier.WebhookOptions{
		URL:      cfg.ReminderWebhookURL,
		Lockfile: cfg.ReminderRelayLockfile,
		Process:  cfg.ReminderRelayProcess,
		Timeout:  cfg.ReminderRequestTimeout,
	})
}

// Replace swaps the stored collection, then re-derives every reminder.
func (a *App) Replace(ctx context.Context, habits []*domain.Habit) error {
	replacer, ok := a.Habits.(Replacer)
	if !ok {
		return fmt.Errorf("%T cannot replace its collection", a.Habits)
	}

	previous, err := a.Habits.List(ctx)
	if err != nil {
		return err
	}
	if err := replacer.Replace(ctx, habits); err != nil {
		return err
	}

	var errs []error
	for _, h := range previous {
		if err := a.Worker.Sync(ctx, h.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Worker.SyncAll(ctx, habits); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HealthChecks returns a ping per external dependency in use.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := make(map[string]func(context.Context) error)
	if a.DB != nil {
		checks["database"] = a.DB.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
