package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-alert/pkg/actions"
)

// LogDeliverer writes notifications to the log. It is always authorized.
type LogDeliverer struct {
	logger zerolog.Logger
}

func NewLogDeliverer(logger zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger.With().Str("component", "alert").Logger()}
}

func (d *LogDeliverer) Name() string { return "log" }

func (d *LogDeliverer) Authorized(context.Context) (bool, error) { return true, nil }

func (d *LogDeliverer) Deliver(_ context.Context, n Notification) error {
	event := d.logger.Warn().
		Str("id", n.ID).
		Str("category", n.Category).
		Str("title", n.Title).
		Str("body", n.Body)
	if n.Subtitle != "" {
		event = event.Str("subtitle", n.Subtitle)
	}
	if len(n.Metadata) > 0 {
		event = event.Interface("metadata", n.Metadata)
	}
	event.Msg("alert")
	return nil
}

// runNotifier allows tests to capture desktop notifier invocations.
var runNotifier = func(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil && len(out) > 0 {
		return fmt.Errorf("%w: %s", err, bytes.TrimSpace(out))
	}
	return err
}

var lookPath = exec.LookPath

// DesktopDeliverer posts through the platform notifier: osascript on darwin,
// notify-send elsewhere. It is authorized while that tool is installed.
type DesktopDeliverer struct {
	goos    string
	timeout time.Duration
}

func NewDesktopDeliverer() *DesktopDeliverer {
	return &DesktopDeliverer{goos: runtime.GOOS, timeout: 5 * time.Second}
}

func (d *DesktopDeliverer) Name() string { return "desktop" }

func (d *DesktopDeliverer) tool() string {
	if d.goos == "darwin" {
		return "osascript"
	}
	return "notify-send"
}

func (d *DesktopDeliverer) Authorized(context.Context) (bool, error) {
	if _, err := lookPath(d.tool()); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *DesktopDeliverer) Deliver(ctx context.Context, n Notification) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if d.goos == "darwin" {
		script := fmt.Sprintf("display notification \"%s\" with title \"%s\"",
			actions.AppleScriptEscape(n.Body), actions.AppleScriptEscape(n.Title))
		if n.Subtitle != "" {
			script += fmt.Sprintf(" subtitle \"%s\"", actions.AppleScriptEscape(n.Subtitle))
		}
		return runNotifier(ctx, "osascript", "-e", script)
	}

	urgency := "normal"
	if n.Category == CategoryCriticalProcess {
		urgency = "critical"
	}
	body := n.Body
	if n.Subtitle != "" {
		body = n.Subtitle + "\n" + body
	}
	return runNotifier(ctx, "notify-send", "--app-name=hotspot-alert", "--urgency="+urgency, n.Title, body)
}

// WebhookDeliverer POSTs notifications as JSON.
type WebhookDeliverer struct {
	url    string
	client *http.Client
}

// NewWebhookDeliverer uses client, or a client with a 10s timeout when nil.
func NewWebhookDeliverer(rawURL string, client *http.Client) *WebhookDeliverer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookDeliverer{url: rawURL, client: client}
}

func (d *WebhookDeliverer) Name() string { return "webhook" }

// Authorized is true when the configured URL is an absolute http(s) URL.
func (d *WebhookDeliverer) Authorized(context.Context) (bool, error) {
	if d.url == "" {
		return false, nil
	}
	u, err := url.ParseRequestURI(d.url)
	if err != nil {
		return false, fmt.Errorf("invalid webhook url: %w", err)
	}
	return u.Scheme == "http" || u.Scheme == "https", nil
}

func (d *WebhookDeliverer) Deliver(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
