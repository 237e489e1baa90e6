// Package service fans a notification out to every enabled delivery channel.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/notification/domain"
	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Sender delivers a single notification on one channel.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// Target binds a Sender to the channel it reports as.
type Target struct {
	Channel domain.Channel
	Sender  Sender
}

// Service dispatches notifications to its targets one after another.
type Service struct {
	targets []Target
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a dispatcher. Disabled channels are simply not passed in.
func New(logger *slog.Logger, m *metrics.Metrics, targets ...Target) *Service {
	return &Service{
		targets: targets,
		metrics: m,
		logger:  logger,
	}
}

// Channels lists the enabled channels in dispatch order.
func (s *Service) Channels() []domain.Channel {
	return lo.Map(s.targets, func(t Target, _ int) domain.Channel { return t.Channel })
}

// Dispatch attempts every target and returns one result per target, in order.
// It never fails as a whole.
func (s *Service) Dispatch(ctx context.Context, title, body string) []domain.Result {
	results := make([]domain.Result, 0, len(s.targets))
	for _, target := range s.targets {
		result := s.attempt(ctx, target, title, body)
		s.metrics.ObserveNotification(target.Channel.String(), result.Success)
		results = append(results, result)
	}

	successCount := lo.CountBy(results, func(r domain.Result) bool { return r.Success })
	s.logger.Debug("Notifications sent",
		"successful", successCount,
		"channels", len(results))

	return results
}

func (s *Service) attempt(ctx context.Context, target Target, title, body string) (result domain.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := oops.With("channel", target.Channel).Errorf("notification sender panicked: %v", r)
			s.logger.Error("Notification channel panicked", "channel", target.Channel, "error", err)
			result = domain.Failed(target.Channel, err)
		}
	}()

	err := target.Sender.Send(ctx, title, body)
	duration := time.Since(start)

	switch {
	case err == nil:
		s.logger.Debug("Notification delivered",
			"channel", target.Channel,
			"duration_ms", duration.Milliseconds())
		return domain.Succeeded(target.Channel)
	case errors.Is(err, apperrors.ErrUnsupportedPlatform):
		s.logger.Warn("Notification channel unsupported",
			"channel", target.Channel,
			"error", err)
	default:
		s.logger.Error("Failed to send notification",
			"channel", target.Channel,
			"duration_ms", duration.Milliseconds(),
			"error", err)
	}
	return domain.Failed(target.Channel, err)
}
