// Package ntfy publishes push notifications to an ntfy server topic.
package ntfy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	Server   string
	Topic    string
	Title    string
	Priority string
	Timeout  time.Duration
	// Burst and Refill shape the token bucket; Burst <= 0 disables limiting.
	Burst  int
	Refill time.Duration
}

// Client posts messages to <server>/<topic>.
type Client struct {
	url      string
	title    string
	priority string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a new ntfy client.
func New(opts Options, logger *slog.Logger) *Client {
	c := &Client{
		url:      strings.TrimRight(opts.Server, "/") + "/" + opts.Topic,
		title:    opts.Title,
		priority: opts.Priority,
		timeout:  opts.Timeout,
		client:   &http.Client{Timeout: opts.Timeout},
		logger:   logger,
	}
	if opts.Burst > 0 && opts.Refill > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.Refill), opts.Burst)
	}
	return c
}

// Send publishes "<title>: <body>". Any non-2xx status is an error.
func (c *Client) Send(ctx context.Context, title, body string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return oops.With("url", c.url).Wrapf(err, "waiting for push rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(fmt.Sprintf("%s: %s", title, body)))
	if err != nil {
		return oops.With("url", c.url).Wrapf(err, "create request")
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if c.title != "" {
		req.Header.Set("Title", c.title)
	}
	if c.priority != "" {
		req.Header.Set("Priority", c.priority)
	}

	c.logger.Debug("Push request starting", "method", http.MethodPost, "url", c.url)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		return oops.With("url", c.url, "duration_ms", duration.Milliseconds()).Wrapf(err, "post notification")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return oops.With("url", c.url, "status_code", resp.StatusCode, "response", strings.TrimSpace(string(snippet))).
			Errorf("HTTP %d", resp.StatusCode)
	}

	c.logger.Debug("Push request completed",
		"url", c.url,
		"status_code", resp.StatusCode,
		"duration_ms", duration.Milliseconds())

	return nil
}
