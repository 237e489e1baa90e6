// Package desktop shows native desktop notifications. Each supported OS family
// has its own command strategy; other platforms get an explicit unsupported
// notifier that never spawns a process.
package desktop

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/pkg/executil"
	"github.com/samber/oops"
)

// DefaultTimeout bounds a single OS notification call.
const DefaultTimeout = 5 * time.Second

// Notifier delivers one desktop notification.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// strategy builds the OS command for a notification.
type strategy interface {
	command(title, body string) (name string, args []string)
}

// New picks the strategy for goos ("darwin", "linux", "windows").
func New(goos string, exec executil.Executor, timeout time.Duration, logger *slog.Logger) Notifier {
	var s strategy
	switch goos {
	case "darwin":
		s = macOS{}
	case "linux":
		s = linux{}
	case "windows":
		s = windows{}
	default:
		return &Unsupported{GOOS: goos}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &commandNotifier{
		platform: goos,
		strategy: s,
		exec:     exec,
		timeout:  timeout,
		logger:   logger,
	}
}

type commandNotifier struct {
	platform string
	strategy strategy
	exec     executil.Executor
	timeout  time.Duration
	logger   *slog.Logger
}

func (n *commandNotifier) Send(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	name, args := n.strategy.command(title, body)
	start := time.Now()
	out, err := n.exec.Run(ctx, name, args...)
	duration := time.Since(start)

	if err != nil {
		builder := oops.With("platform", n.platform, "command", name, "duration_ms", duration.Milliseconds())
		if output := strings.TrimSpace(string(out)); output != "" {
			builder = builder.With("output", output)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return builder.Wrapf(err, "desktop notification timed out after %s", n.timeout)
		}
		return builder.Wrapf(err, "desktop notification failed")
	}

	n.logger.Debug("Desktop notification shown",
		"platform", n.platform,
		"duration_ms", duration.Milliseconds())
	return nil
}

// Unsupported is the notifier for platforms without a strategy.
type Unsupported struct {
	GOOS string
}

func (u *Unsupported) Send(context.Context, string, string) error {
	return oops.With("goos", u.GOOS).Wrapf(apperrors.ErrUnsupportedPlatform, "unsupported platform: %s", u.GOOS)
}
