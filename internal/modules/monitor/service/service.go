// Package service runs the channel monitor: it seeds the watermark from the
// channel head, then repeatedly fetches what is new, dispatches each message
// in order, and advances the watermark once the whole batch is handled.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	msgdomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/monitor/domain"
	notifdomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/domain"
	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultAlertTitle is used when Config.AlertTitle is empty.
const DefaultAlertTitle = "🚨 SIGNAL ALERT 🚨"

// MessageSource reads the monitored channel.
type MessageSource interface {
	GetLatestMessageID(ctx context.Context) (string, error)
	FetchMessagesAfter(ctx context.Context, afterID string) ([]*msgdomain.Message, error)
}

// Dispatcher delivers one alert on every enabled channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string) []notifdomain.Result
}

// Recorder keeps a history of alerted messages.
type Recorder interface {
	SaveMessage(message *msgdomain.Message) error
}

// Lifecycle is told when the monitor starts and stops running.
type Lifecycle interface {
	Ready()
	Stopping()
}

type Config struct {
	Interval   time.Duration
	AlertTitle string
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithLifecycle(l Lifecycle) Option {
	return func(s *Service) { s.lifecycle = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service owns the monitor state. Only the goroutine calling Run (or
// Initialize and PollOnce) touches it; readers use Snapshot.
type Service struct {
	source     MessageSource
	dispatcher Dispatcher
	recorder   Recorder
	lifecycle  Lifecycle
	metrics    *metrics.Metrics
	cfg        Config
	logger     *slog.Logger

	snapshot atomic.Pointer[domain.State]
}

// New creates a monitor service.
func New(source MessageSource, dispatcher Dispatcher, cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if cfg.AlertTitle == "" {
		cfg.AlertTitle = DefaultAlertTitle
	}
	s := &Service{
		source:     source,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publish(domain.NewState())
	return s
}

// Snapshot returns the state as of the last completed cycle.
func (s *Service) Snapshot() domain.State {
	return *s.snapshot.Load()
}

func (s *Service) publish(state domain.State) {
	s.snapshot.Store(&state)
}

// Initialize seeds the watermark with the newest message id in the channel.
// Nothing already in the channel is alerted. An unreadable or empty channel
// yields ErrInitializationFailed; a rejected credential is returned as is.
func (s *Service) Initialize(ctx context.Context) (domain.State, error) {
	s.logger.Info("Initializing monitor")

	latestID, err := s.source.GetLatestMessageID(ctx)
	if err != nil {
		return domain.NewState(), err
	}
	if latestID == "" {
		return domain.NewState(), apperrors.ErrInitializationFailed
	}

	state := domain.NewState().Initialized(latestID, time.Now())
	s.publish(state)
	s.logger.Info("Monitor initialized", "last_message_id", latestID)
	return state, nil
}

// PollOnce runs one cycle from state and returns the state to carry forward.
// Anything that goes wrong inside the cycle, panics included, is logged and
// the prior state is returned. Only an authentication failure is returned as
// an error.
func (s *Service) PollOnce(ctx context.Context, state domain.State) (next domain.State, err error) {
	logger := s.logger.With("cycle_id", uuid.NewString())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Poll cycle panicked",
				"after_id", state.LastMessageID,
				"error", oops.With("after_id", state.LastMessageID).Errorf("poll cycle panicked: %v", r))
			s.metrics.ObservePollCycle(metrics.CycleRecovered)
			next, err = state, nil
		}
	}()

	messages, err := s.source.FetchMessagesAfter(ctx, state.LastMessageID)
	if err != nil {
		if apperrors.IsAuthenticationError(err) {
			s.metrics.ObservePollCycle(metrics.CycleAuthFailed)
			return state, err
		}
		logger.Error("Poll cycle failed", "after_id", state.LastMessageID, "error", err)
		s.metrics.ObservePollCycle(metrics.CycleRecovered)
		return state, nil
	}

	if len(messages) > 0 {
		logger.Info("New messages", "count", len(messages), "after_id", state.LastMessageID)
	}

	// A batch is delivered in full; senders are bounded by their own timeouts.
	dispatchCtx := context.WithoutCancel(ctx)
	for _, message := range messages {
		s.handle(dispatchCtx, logger, message)
	}

	next = state.Advance(messages)
	s.record(logger, messages)
	s.metrics.ObservePollCycle(metrics.CycleOK)
	s.metrics.ObserveMessages(len(messages))
	s.publish(next)

	logger.Debug("Poll cycle completed",
		"last_message_id", next.LastMessageID,
		"count", len(messages),
		"duration_ms", time.Since(start).Milliseconds())

	return next, nil
}

func (s *Service) handle(ctx context.Context, logger *slog.Logger, message *msgdomain.Message) {
	results := s.dispatcher.Dispatch(ctx, s.cfg.AlertTitle, message.AlertBody())

	failed := lo.Filter(results, func(r notifdomain.Result, _ int) bool { return !r.Success })
	logger.Info("Alert dispatched",
		"message_id", message.ID,
		"author", message.Author.Username,
		"channels", len(results),
		"failed", len(failed))
}

// record adds a completed batch to the alert history. A batch interrupted by a
// panic is not recorded, so its redelivery on the next cycle is stored once.
func (s *Service) record(logger *slog.Logger, messages []*msgdomain.Message) {
	if s.recorder == nil {
		return
	}
	for _, message := range messages {
		if err := s.recorder.SaveMessage(message); err != nil {
			logger.Warn("Failed to record alert", "message_id", message.ID, "error", err)
		}
	}
}

// Run initializes the monitor and polls until ctx is cancelled or the
// credential is rejected. Cancellation is a clean stop and returns nil.
func (s *Service) Run(ctx context.Context) error {
	state, err := s.Initialize(ctx)
	if err != nil {
		if ctx.Err() != nil && !apperrors.IsAuthenticationError(err) {
			s.logger.Info("Monitor stopped before initialization completed")
			return nil
		}
		return err
	}

	if s.lifecycle != nil {
		s.lifecycle.Ready()
	}
	s.logger.Info("Monitor running", "interval", s.cfg.Interval)

	for ctx.Err() == nil {
		next, err := s.PollOnce(ctx, state)
		if err != nil {
			s.stop(state)
			return oops.With("last_message_id", state.LastMessageID).Wrap(err)
		}
		state = next

		if !sleep(ctx, s.cfg.Interval) {
			break
		}
	}

	s.stop(state)
	return nil
}

func (s *Service) stop(state domain.State) {
	if s.lifecycle != nil {
		s.lifecycle.Stopping()
	}
	stopped := state.Stopped()
	s.publish(stopped)
	s.logger.Info("Monitor stopped",
		"uptime", stopped.Uptime(time.Now()).Round(time.Second).String(),
		"messages_processed", stopped.MessagesProcessed)
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
