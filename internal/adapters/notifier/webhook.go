package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

const SecretHeader = "X-OneDo-Secret"

var findProcessFunc = ps.FindProcess

var ErrRelayUnavailable = errors.New("reminder relay is not running")

type Action string

const (
	ActionSchedule Action = "schedule"
	ActionCancel   Action = "cancel"
)

// WebhookPayload is the body posted for every schedule or cancel call.
type WebhookPayload struct {
	Action     Action               `json:"action"`
	HabitID    string               `json:"habit_id,omitempty"`
	Triggers   []domain.TriggerSpec `json:"triggers,omitempty"`
	TriggerIDs []string             `json:"trigger_ids,omitempty"`
}

type WebhookOptions struct {
	// URL is posted to directly when set.
	URL string
	// Lockfile holds "port|pid|secret" written by a local relay process.
	// It is read on every call when URL is empty.
	Lockfile string
	// Process is the expected executable name prefix of the relay.
	Process string
	Timeout time.Duration
}

// WebhookNotifier hands reminder triggers to an external delivery service
// over HTTP.
type WebhookNotifier struct {
	opts   WebhookOptions
	client *http.Client
}

func NewWebhookNotifier(opts WebhookOptions) (*WebhookNotifier, error) {
	if opts.URL == "" && opts.Lockfile == "" {
		return nil, errors.New("webhook notifier needs a url or a relay lockfile")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}, nil
}

func (n *WebhookNotifier) Schedule(ctx context.Context, habitID string, triggers []domain.TriggerSpec) error {
	if len(triggers) == 0 {
		return nil
	}
	return n.post(ctx, WebhookPayload{Action: ActionSchedule, HabitID: habitID, Triggers: triggers})
}

func (n *WebhookNotifier) Cancel(ctx context.Context, triggerIDs []string) error {
	if len(triggerIDs) == 0 {
		return nil
	}
	return n.post(ctx, WebhookPayload{Action: ActionCancel, TriggerIDs: triggerIDs})
}

func (n *WebhookNotifier) endpoint() (string, string, error) {
	if n.opts.URL != "" {
		return n.opts.URL, "", nil
	}

	port, secret, err := findAndValidateRelay(n.opts.Lockfile, n.opts.Process)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("http://127.0.0.1:%s", port), secret, nil
}

func (n *WebhookNotifier) post(ctx context.Context, payload WebhookPayload) error {
	url, secret, err := n.endpoint()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("reminder %s: %w", payload.Action, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("reminder %s failed with status %d: %s", payload.Action, res.StatusCode, strings.TrimSpace(string(msg)))
}

func findAndValidateRelay(lockfilePath, processName string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrRelayUnavailable
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("relay lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in relay lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in relay lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in relay lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrRelayUnavailable
	}
	if processName != "" && !strings.HasPrefix(process.Executable(), processName) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, processName, process.Executable())
	}

	return port, secret, nil
}
