package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/aquanorma/credentials/config"
	"github.com/aquanorma/credentials/notify"
	"golang.org/x/time/rate"
)

// maxMessageLength is the Discord limit for the content of a message.
const maxMessageLength = 2000

var _ notify.Notifier = (*Notifier)(nil)

type payload struct {
	Content string `json:"content"`
}

// Notifier posts notifications to a Discord webhook. Send never blocks on
// the network: the post runs in its own goroutine and failures are logged.
type Notifier struct {
	cfg        config.Discord
	logger     *slog.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
	wg         sync.WaitGroup
}

func New(cfg config.Discord, logger *slog.Logger) (*Notifier, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("discord: webhook url is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("discord: logger is required")
	}

	return &Notifier{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Every(cfg.Interval.Duration), cfg.Burst),
	}, nil
}

func formatMessage(n notify.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] from *%s*:\n> %s\n", n.Type, n.Source, n.Message)

	keys := make([]string, 0, len(n.Fields))
	for k, v := range n.Fields {
		if k != "" && v != nil {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		slices.Sort(keys)
		b.WriteString("\n**Fields**:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "> %s: `%v`\n", k, n.Fields[k])
		}
	}

	content := b.String()
	if len(content) > maxMessageLength {
		return content[:maxMessageLength-3] + "..."
	}
	return content
}

// Send drops the notification when the rate limit is exhausted.
func (d *Notifier) Send(_ context.Context, n notify.Notification) error {
	if !d.limiter.Allow() {
		d.logger.Warn("discord: rate limit reached, dropping notification",
			"source", n.Source, "message", n.Message)
		return nil
	}

	body, err := json.Marshal(payload{Content: formatMessage(n)})
	if err != nil {
		return fmt.Errorf("discord: failed to marshal payload: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.post(body, n)
	}()
	return nil
}

// post runs detached from the caller, bounded by the send timeout.
func (d *Notifier) post(body []byte, n notify.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout.Duration)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("discord: failed to create request", "source", n.Source, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("discord: failed to send", "source", n.Source, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.logger.Error("discord: unexpected status", "status_code", resp.StatusCode, "source", n.Source)
		return
	}
	d.logger.Debug("discord: notification sent", "source", n.Source)
}

// Close waits for the posts in flight or for ctx to end.
func (d *Notifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
