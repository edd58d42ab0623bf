package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"winnow/internal/config"
)

const userAgent = "winnow/0.1.0"

// Service defines the notification surface exposed to the cleanup pipeline.
type Service interface {
	NotifyCleanupStarted(ctx context.Context, dryRun bool, movieCount int) error
	NotifyCleanupCompleted(ctx context.Context, dryRun bool, filesDeleted int, bytesReclaimed int64, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
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

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
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
}

func (n *ntfyService) NotifyCleanupStarted(ctx context.Context, dryRun bool, movieCount int) error {
	mode := "cleanup"
	if dryRun {
		mode = "dry-run cleanup"
	}
	data := payload{
		title:   "Winnow - Cleanup Started",
		message: fmt.Sprintf("Started %s across %d movies", mode, movieCount),
		tags:    []string{"winnow", "cleanup", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCleanupCompleted(ctx context.Context, dryRun bool, filesDeleted int, bytesReclaimed int64, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	if dryRun {
		title = "Winnow - Dry Run Complete"
		message = fmt.Sprintf("Dry run: %d duplicates would be deleted (%s) in %s",
			filesDeleted, humanize.Bytes(uint64(bytesReclaimed)), duration)
	} else {
		title = "Winnow - Cleanup Complete"
		message = fmt.Sprintf("Deleted %d duplicates, reclaimed %s in %s",
			filesDeleted, humanize.Bytes(uint64(bytesReclaimed)), duration)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"winnow", "cleanup", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Winnow - Error",
		message:  builder.String(),
		tags:     []string{"winnow", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Winnow - Test",
		message:  "Notification system test",
		tags:     []string{"winnow", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
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
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyCleanupStarted(context.Context, bool, int) error { return nil }
func (noopService) NotifyCleanupCompleted(context.Context, bool, int, int64, time.Duration) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
