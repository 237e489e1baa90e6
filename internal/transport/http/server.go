package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	feedService "github.com/reshetovitsme/channel-alert-monitor/internal/modules/feed/service"
	monitorDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/monitor/domain"
	notificationDomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/domain"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

// StateSource exposes the monitor state published after each completed cycle.
type StateSource interface {
	Snapshot() monitorDomain.State
}

// Options configures the status server.
type Options struct {
	Port      string
	ChannelID string
	Channels  []notificationDomain.Channel
}

// Server serves monitor status, the alert feed and metrics. It only reads
// published snapshots and never touches the monitor loop.
type Server struct {
	opts        Options
	feedService *feedService.Service
	state       StateSource
	gatherer    prometheus.Gatherer
	logger      *slog.Logger

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP server
func New(opts Options, feedService *feedService.Service, state StateSource, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	return &Server{
		opts:        opts,
		feedService: feedService,
		state:       state,
		gatherer:    gatherer,
		logger:      logger,
	}
}

// Handler returns the routed handler with logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /rss", s.handleRSSFeed)
	mux.HandleFunc("GET /atom", s.handleAtomFeed)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /{$}", s.handleRoot)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.opts.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Info("Status server starting", "addr", addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return oops.With("addr", addr).Wrap(err)
	}
	return nil
}

// Shutdown stops a started server; it is a no-op otherwise.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

type statusResponse struct {
	Phase             monitorDomain.Phase          `json:"phase"`
	ChannelID         string                       `json:"channel_id"`
	LastMessageID     string                       `json:"last_message_id"`
	MessagesProcessed int                          `json:"messages_processed"`
	StartTime         *time.Time                   `json:"start_time,omitempty"`
	UptimeSeconds     int64                        `json:"uptime_seconds"`
	Channels          []notificationDomain.Channel `json:"notification_channels"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.state.Snapshot()

	resp := statusResponse{
		Phase:             state.Phase,
		ChannelID:         s.opts.ChannelID,
		LastMessageID:     state.LastMessageID,
		MessagesProcessed: state.MessagesProcessed,
		UptimeSeconds:     int64(state.Uptime(time.Now()).Seconds()),
		Channels:          s.opts.Channels,
	}
	if !state.StartTime.IsZero() {
		resp.StartTime = &state.StartTime
	}
	if resp.Channels == nil {
		resp.Channels = []notificationDomain.Channel{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Error encoding status", "error", err)
	}
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	rss, err := s.feedService.RSS(baseURL(r))
	if err != nil {
		s.logger.Error("Error generating RSS feed", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleAtomFeed(w http.ResponseWriter, r *http.Request) {
	atom, err := s.feedService.Atom(baseURL(r))
	if err != nil {
		s.logger.Error("Error generating Atom feed", "error", err)
		http.Error(w, "Failed to generate Atom", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(atom))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.state.Snapshot().IsRunning() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Channel Alert Monitor</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Channel Alert Monitor</h1>
    <div class="info">
        <p>This service raises alerts for new messages in a Discord channel.</p>
        <p>Recent alerts: <code>/rss</code> or <code>/atom</code></p>
        <p>Monitor state: <code>/status</code></p>
    </div>
    <p><a href="/health">Health Check</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func baseURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s", getScheme(r), r.Host)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
