package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m := metrics.New(prometheus.NewRegistry())
	c := New(Options{BaseURL: srv.URL, ChannelID: "42", Token: "Bot secret", Timeout: time.Second}, m, discardLogger())
	return c, m
}

func ids(messages []*domain.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestGetLatestMessageID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/42/messages", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bot secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":"100","content":"hi","author":{"id":"7","username":"trader"},"timestamp":"2024-05-01T12:00:00.000000+00:00"}]`)
	})

	id, err := c.GetLatestMessageID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", id)
}

func TestGetLatestMessageID_EmptyChannel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	id, err := c.GetLatestMessageID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestFetchMessagesAfter_SortsOldestFirst(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("after"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[
			{"id":"103","content":"c","author":{"id":"1","username":"u"},"timestamp":"2024-05-01T12:00:03Z"},
			{"id":"102","content":"b","author":{"id":"1","username":"u"},"timestamp":"2024-05-01T12:00:02Z"},
			{"id":"101","content":"","author":{"id":"1","username":"u"},"timestamp":"2024-05-01T12:00:01Z"}
		]`)
	})

	messages, err := c.FetchMessagesAfter(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, ids(messages))
	assert.Equal(t, "u", messages[0].Author.Username)
	assert.Equal(t, domain.AttachmentPlaceholder, messages[0].DisplayContent())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 3, 0, time.UTC), messages[2].Timestamp.UTC())
}

func TestFetchMessagesAfter_DropsAtOrBeforeWatermark(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"1000"},{"id":"999"},{"id":"998"},{"id":"1001"}]`)
	})

	messages, err := c.FetchMessagesAfter(context.Background(), "999")
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "1001"}, ids(messages))
}

func TestUnauthorizedIsFatal(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "401: Unauthorized", "code": 0}`, http.StatusUnauthorized)
	})

	_, err := c.GetLatestMessageID(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthenticationError(err))

	messages, err := c.FetchMessagesAfter(context.Background(), "100")
	require.Error(t, err)
	assert.Nil(t, messages)

	var authErr *apperrors.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, opFetch, authErr.Op)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)

	assert.Equal(t, 0, testutil.CollectAndCount(m.FetchFailures))
}

func TestRateLimitedIsTransientEmpty(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"message":"You are being rate limited.","retry_after":1.5,"global":false}`)
	})

	messages, err := c.FetchMessagesAfter(context.Background(), "100")
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(metrics.ReasonRateLimited)))
}

func TestServerErrorIsTransientEmpty(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	id, err := c.GetLatestMessageID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(metrics.ReasonStatus)))
}

func TestMalformedBodyIsTransientEmpty(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"`)
	})

	messages, err := c.FetchMessagesAfter(context.Background(), "100")
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(metrics.ReasonDecode)))
}

func TestTimeoutIsTransientEmpty(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	m := metrics.New(prometheus.NewRegistry())
	c := New(Options{BaseURL: srv.URL, ChannelID: "42", Token: "t", Timeout: 50 * time.Millisecond}, m, discardLogger())

	messages, err := c.FetchMessagesAfter(context.Background(), "100")
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(metrics.ReasonTransport)))
}

func TestCancelledRequestIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		<-r.Context().Done()
	})

	messages, err := c.FetchMessagesAfter(ctx, "100")
	require.NoError(t, err)
	assert.Empty(t, messages)

	id, err := c.GetLatestMessageID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	assert.Equal(t, 0, testutil.CollectAndCount(m.FetchFailures))
}
