// Package discord reads messages from a single Discord channel over the REST API.
//
// Failures are sorted into two outcomes: a rejected credential is returned as
// *errors.AuthenticationError, everything else degrades to an empty result so
// the caller simply tries again on its next cycle.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultBaseURL is the versioned Discord REST endpoint.
const DefaultBaseURL = "https://discord.com/api/v9"

// PageSize is the largest page the messages endpoint returns.
const PageSize = 100

const (
	opLatest = "get_latest_message_id"
	opFetch  = "fetch_messages_after"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	ChannelID string
	// Token is sent verbatim in the Authorization header; bot tokens carry
	// their "Bot " prefix in the configured value.
	Token   string
	Timeout time.Duration
}

// Client talks to one channel.
type Client struct {
	baseURL   string
	channelID string
	token     string
	client    *http.Client
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a new Discord client.
func New(opts Options, m *metrics.Metrics, logger *slog.Logger) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		channelID: opts.ChannelID,
		token:     opts.Token,
		client:    &http.Client{Timeout: opts.Timeout},
		metrics:   m,
		logger:    logger,
	}
}

type apiAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type apiMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    apiAuthor `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

type rateLimitBody struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
	Global     bool    `json:"global"`
}

func (m apiMessage) toDomain() *domain.Message {
	return &domain.Message{
		ID:        m.ID,
		Content:   m.Content,
		Author:    domain.Author{Username: m.Author.Username, ID: m.Author.ID},
		Timestamp: m.Timestamp,
	}
}

// GetLatestMessageID returns the id of the newest message in the channel, or
// "" when the channel is empty or could not be read.
func (c *Client) GetLatestMessageID(ctx context.Context) (string, error) {
	messages, err := c.list(ctx, opLatest, url.Values{"limit": {"1"}})
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}
	return messages[0].ID, nil
}

// FetchMessagesAfter returns every message strictly newer than afterID, oldest first.
func (c *Client) FetchMessagesAfter(ctx context.Context, afterID string) ([]*domain.Message, error) {
	messages, err := c.list(ctx, opFetch, url.Values{
		"after": {afterID},
		"limit": {fmt.Sprint(PageSize)},
	})
	if err != nil {
		return nil, err
	}

	fresh := lo.Filter(messages, func(m apiMessage, _ int) bool {
		return domain.CompareIDs(m.ID, afterID) > 0
	})
	slices.SortFunc(fresh, func(a, b apiMessage) int {
		return domain.CompareIDs(a.ID, b.ID)
	})

	if dropped := len(messages) - len(fresh); dropped > 0 {
		c.logger.Debug("Dropped messages at or before watermark",
			"after_id", afterID,
			"count", dropped)
	}

	return lo.Map(fresh, func(m apiMessage, _ int) *domain.Message { return m.toDomain() }), nil
}

// list performs one GET on the channel messages endpoint. A nil slice with a
// nil error is the transient-empty outcome.
func (c *Client) list(ctx context.Context, op string, query url.Values) ([]apiMessage, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/messages?%s", c.baseURL, url.PathEscape(c.channelID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.transient(op, metrics.ReasonTransport, oops.With("op", op).Wrapf(err, "create request"))
		return nil, nil
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Discord request starting", "op", op, "channel_id", c.channelID)

	startTime := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		if c.cancelled(ctx, op) {
			return nil, nil
		}
		c.transient(op, metrics.ReasonTransport, oops.
			With("op", op, "channel_id", c.channelID, "duration_ms", duration.Milliseconds()).
			Wrapf(err, "request channel messages"))
		return nil, nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &apperrors.AuthenticationError{Op: op, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		c.rateLimited(op, resp)
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.transient(op, metrics.ReasonStatus, oops.
			With("op", op, "channel_id", c.channelID, "status_code", resp.StatusCode, "response", strings.TrimSpace(string(snippet))).
			Errorf("HTTP %d", resp.StatusCode))
		return nil, nil
	}

	var messages []apiMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		if c.cancelled(ctx, op) {
			return nil, nil
		}
		c.transient(op, metrics.ReasonDecode, oops.
			With("op", op, "channel_id", c.channelID).
			Wrapf(err, "decode channel messages"))
		return nil, nil
	}

	c.logger.Debug("Discord request completed",
		"op", op,
		"status_code", resp.StatusCode,
		"count", len(messages),
		"duration_ms", duration.Milliseconds())

	return messages, nil
}

// cancelled reports whether the caller gave up on the request. A shutdown is
// not a channel failure, so it is neither counted nor logged as one.
func (c *Client) cancelled(ctx context.Context, op string) bool {
	if ctx.Err() == nil {
		return false
	}
	c.logger.Debug("Discord request cancelled", "op", op, "channel_id", c.channelID, "error", ctx.Err())
	return true
}

func (c *Client) transient(op, reason string, err error) {
	c.metrics.ObserveFetchFailure(reason)
	c.logger.Error("Failed to read channel",
		"op", op,
		"channel_id", c.channelID,
		"reason", reason,
		"error", err)
}

func (c *Client) rateLimited(op string, resp *http.Response) {
	c.metrics.ObserveFetchFailure(metrics.ReasonRateLimited)

	retryAfter := resp.Header.Get("Retry-After")
	var body rateLimitBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.RetryAfter > 0 {
		retryAfter = fmt.Sprintf("%.3fs", body.RetryAfter)
	}

	c.logger.Warn("Rate limited by Discord",
		"op", op,
		"channel_id", c.channelID,
		"retry_after", retryAfter,
		"global", body.Global)
}
