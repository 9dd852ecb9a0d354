package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/adapters/notifier"
	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		StoreBackend:       backend,
		DataFile:           filepath.Join(dir, "habits.json"),
		SQLDriver:          "sqlite",
		DatabaseURL:        filepath.Join(dir, "onedo.db"),
		DiscardCorruptData: true,
		RateLimit:          100,
		Location:           time.UTC,
		TokenTTL:           time.Hour,
	}
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQL} {
		t.Run("Success: "+backend, func(t *testing.T) {
			app, err := New(ctx, testConfig(t, backend), Options{Notifier: notifier.NewRecordingNotifier()})
			require.NoError(t, err)
			t.Cleanup(func() { app.Close() })

			h, err := app.HabitService.Create(ctx, services.CreateHabitInput{Name: "Read"})
			require.NoError(t, err)

			list, err := app.Habits.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, h.ID, list[0].ID)

			assert.False(t, app.TokenService.Enabled())
			assert.False(t, app.AuthService.Enabled())
		})
	}

	t.Run("Success: File store survives a restart", func(t *testing.T) {
		cfg := testConfig(t, config.BackendFile)

		first, err := New(ctx, cfg, Options{})
		require.NoError(t, err)
		_, err = first.HabitService.Create(ctx, services.CreateHabitInput{Name: "Walk"})
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := New(ctx, cfg, Options{})
		require.NoError(t, err)
		list, err := second.Habits.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Walk", list[0].Name)
	})

	t.Run("Fail: Unknown backend", func(t *testing.T) {
		_, err := New(ctx, testConfig(t, "carrier-pigeon"), Options{})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestNew_NotifierFromConfig(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t, config.BackendMemory)
	app, err := New(ctx, cfg, Options{})
	require.NoError(t, err)
	assert.IsType(t, &notifier.LogNotifier{}, app.Notifier)

	cfg.ReminderWebhookURL = "http://127.0.0.1:1/reminders"
	app, err = New(ctx, cfg, Options{})
	require.NoError(t, err)
	assert.IsType(t, &notifier.WebhookNotifier{}, app.Notifier)
}

func TestApp_Replace(t *testing.T) {
	ctx := context.Background()
	rec := notifier.NewRecordingNotifier()
	app, err := New(ctx, testConfig(t, config.BackendSQL), Options{Notifier: rec})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	old, err := app.HabitService.Create(ctx, services.CreateHabitInput{
		Name:            "Old",
		ReminderEnabled: true,
		ReminderTime:    "08:00",
	})
	require.NoError(t, err)
	require.NoError(t, app.Worker.Sync(ctx, old.ID))
	require.Len(t, rec.Triggers(), 1)

	tod := domain.TimeOfDay{Hour: 21}
	fresh, err := domain.NewHabit(domain.HabitParams{
		Name:            "New",
		Recurrence:      domain.RecurrenceWeekends,
		ReminderEnabled: true,
		ReminderTime:    &tod,
	}, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, app.Replace(ctx, []*domain.Habit{fresh}))

	list, err := app.Habits.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Name)

	triggers := rec.Triggers()
	require.Len(t, triggers, 2)
	for _, tr := range triggers {
		assert.Equal(t, fresh.ID, tr.HabitID)
		assert.Equal(t, 21, tr.Hour)
	}
}

func TestApp_HealthChecks(t *testing.T) {
	ctx := context.Background()

	mem, err := New(ctx, testConfig(t, config.BackendMemory), Options{})
	require.NoError(t, err)
	assert.Empty(t, mem.HealthChecks())

	withDB, err := New(ctx, testConfig(t, config.BackendSQL), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { withDB.Close() })

	checks := withDB.HealthChecks()
	require.Contains(t, checks, "database")
	assert.NoError(t, checks["database"](ctx))
}
