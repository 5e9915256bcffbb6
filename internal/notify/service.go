package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hunt/internal/config"
	"hunt/internal/faults"
)

const userAgent = "Hunt/0.1.0"

// ReminderEvent carries the application details a follow-up notification needs.
type ReminderEvent struct {
	ReminderID    int64
	ApplicationID int64
	OwnerID       string
	Company       string
	Role          string
	DueAt         time.Time
}

// Service defines the notification surface exposed to the dispatcher and CLI.
type Service interface {
	NotifyReminderDue(ctx context.Context, event ReminderEvent) error
	TestNotification(ctx context.Context) error
	Enabled() bool
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perMinute := cfg.Notifications.RatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func (n *ntfyService) Enabled() bool { return true }

func (n *ntfyService) NotifyReminderDue(ctx context.Context, event ReminderEvent) error {
	company := strings.TrimSpace(event.Company)
	role := strings.TrimSpace(event.Role)
	message := fmt.Sprintf("⏰ Follow up on %s at %s", role, company)
	if !event.DueAt.IsZero() {
		message = fmt.Sprintf("%s\nDue: %s", message, event.DueAt.Local().Format("2006-01-02 15:04"))
	}
	data := payload{
		title:    "Hunt - Follow Up Due",
		message:  message,
		tags:     []string{"hunt", "reminder", "due"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Hunt - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"hunt", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	// ntfy rate-limits aggressively on the free tier, so sends are
	// throttled rather than fired in bursts when a tick drains many
	// reminders at once.
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("throttle ntfy notification: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return faults.Wrap(faults.ErrExternalService, "notify", "send", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return faults.Wrap(faults.ErrExternalService, "notify", "send",
			fmt.Sprintf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Enabled() bool                                          { return false }
func (noopService) NotifyReminderDue(context.Context, ReminderEvent) error { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
