// Package systemd reports monitor lifecycle transitions to the service manager.
// Outside systemd (no NOTIFY_SOCKET) every call is a no-op.
package systemd

import (
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

type Notifier struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Ready signals that the monitor entered the running state.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping signals that shutdown has begun.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

func (n *Notifier) send(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.logger.Warn("Failed to notify service manager", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("Service manager notified", "state", state)
	}
}
