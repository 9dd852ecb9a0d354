package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

type capture struct {
	payloads []WebhookPayload
	secrets  []string
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		c.payloads = append(c.payloads, p)
		c.secrets = append(c.secrets, r.Header.Get(SecretHeader))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func withProcess(t *testing.T, executable string, err error) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if err != nil {
			return nil, err
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func writeLockfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.lock")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func samplePlan() []domain.TriggerSpec {
	mon := domain.Monday
	return []domain.TriggerSpec{{
		TriggerID:        "h1-2",
		HabitID:          "h1",
		Hour:             8,
		Minute:           15,
		RepeatingWeekday: &mon,
		Title:            domain.ReminderTitle,
		Body:             "Time to do Read!",
	}}
}

func TestWebhookNotifier_DirectURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Schedule and cancel are posted", func(t *testing.T) {
		srv, got := newCaptureServer(t, http.StatusNoContent)
		n, err := NewWebhookNotifier(WebhookOptions{URL: srv.URL})
		require.NoError(t, err)

		require.NoError(t, n.Schedule(ctx, "h1", samplePlan()))
		require.NoError(t, n.Cancel(ctx, []string{"h1", "h1-2"}))

		require.Len(t, got.payloads, 2)
		assert.Equal(t, ActionSchedule, got.payloads[0].Action)
		assert.Equal(t, "h1", got.payloads[0].HabitID)
		assert.Equal(t, samplePlan(), got.payloads[0].Triggers)
		assert.Equal(t, ActionCancel, got.payloads[1].Action)
		assert.Equal(t, []string{"h1", "h1-2"}, got.payloads[1].TriggerIDs)
		assert.Empty(t, got.secrets[0])
	})

	t.Run("Success: Empty calls send nothing", func(t *testing.T) {
		srv, got := newCaptureServer(t, http.StatusOK)
		n, err := NewWebhookNotifier(WebhookOptions{URL: srv.URL})
		require.NoError(t, err)

		require.NoError(t, n.Schedule(ctx, "h1", nil))
		require.NoError(t, n.Cancel(ctx, nil))
		assert.Empty(t, got.payloads)
	})

	t.Run("Fail: Non-2xx status", func(t *testing.T) {
		srv, _ := newCaptureServer(t, http.StatusBadGateway)
		n, err := NewWebhookNotifier(WebhookOptions{URL: srv.URL})
		require.NoError(t, err)

		err = n.Schedule(ctx, "h1", samplePlan())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Fail: Nothing configured", func(t *testing.T) {
		_, err := NewWebhookNotifier(WebhookOptions{})
		assert.Error(t, err)
	})
}

func TestWebhookNotifier_Relay(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Lockfile points at the relay", func(t *testing.T) {
		srv, got := newCaptureServer(t, http.StatusOK)
		u, err := url.Parse(srv.URL)
		require.NoError(t, err)

		withProcess(t, "onedo-relay", nil)
		lock := writeLockfile(t, u.Port()+"|4242|s3cret\n")

		n, err := NewWebhookNotifier(WebhookOptions{Lockfile: lock, Process: "onedo-relay"})
		require.NoError(t, err)

		require.NoError(t, n.Schedule(ctx, "h1", samplePlan()))
		require.Len(t, got.secrets, 1)
		assert.Equal(t, "s3cret", got.secrets[0])
	})

	t.Run("Fail: Missing lockfile", func(t *testing.T) {
		n, err := NewWebhookNotifier(WebhookOptions{Lockfile: filepath.Join(t.TempDir(), "none.lock")})
		require.NoError(t, err)

		assert.ErrorIs(t, n.Cancel(ctx, []string{"h1"}), ErrRelayUnavailable)
	})

	t.Run("Fail: Dead process", func(t *testing.T) {
		withProcess(t, "", errors.New("no such process"))
		lock := writeLockfile(t, "9000|4242|s3cret")

		_, _, err := findAndValidateRelay(lock, "onedo-relay")
		assert.ErrorIs(t, err, ErrRelayUnavailable)
	})

	t.Run("Fail: Wrong executable", func(t *testing.T) {
		withProcess(t, "bash", nil)
		lock := writeLockfile(t, "9000|4242|s3cret")

		_, _, err := findAndValidateRelay(lock, "onedo-relay")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bash")
	})

	badLockfiles := []struct {
		name    string
		content string
	}{
		{"wrong field count", "9000|4242"},
		{"non numeric port", "http|4242|s"},
		{"port out of range", "70000|4242|s"},
		{"non numeric pid", "9000|me|s"},
		{"empty secret", "9000|4242| "},
	}
	for _, tc := range badLockfiles {
		t.Run("Fail: "+tc.name, func(t *testing.T) {
			withProcess(t, "onedo-relay", nil)
			lock := writeLockfile(t, tc.content)

			_, _, err := findAndValidateRelay(lock, "onedo-relay")
			assert.Error(t, err)
		})
	}
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.Schedule(context.Background(), "h1", samplePlan()))
	assert.NoError(t, n.Cancel(context.Background(), []string{"h1"}))
}
