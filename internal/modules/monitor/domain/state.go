package domain

import (
	"time"

	msgdomain "github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
)

// State is the monitor's view of the channel after a completed poll cycle.
// Values are never mutated in place; every transition returns a new State.
type State struct {
	Phase             Phase     `json:"phase"`
	LastMessageID     string    `json:"last_message_id"`
	MessagesProcessed int       `json:"messages_processed"`
	StartTime         time.Time `json:"start_time"`
}

// NewState returns the zero-watermark state of a monitor that has not started.
func NewState() State {
	return State{Phase: PhaseUninitialized}
}

// Initialized moves to running with the channel head as watermark.
func (s State) Initialized(lastMessageID string, now time.Time) State {
	s.Phase = PhaseRunning
	s.LastMessageID = lastMessageID
	s.StartTime = now
	return s
}

// Advance accounts for a dispatched batch. The watermark moves to the last
// message of the batch; an empty batch leaves the state unchanged.
func (s State) Advance(batch []*msgdomain.Message) State {
	if len(batch) == 0 {
		return s
	}
	last := batch[len(batch)-1].ID
	if msgdomain.CompareIDs(last, s.LastMessageID) > 0 {
		s.LastMessageID = last
	}
	s.MessagesProcessed += len(batch)
	return s
}

func (s State) Stopped() State {
	s.Phase = PhaseStopped
	return s
}

func (s State) IsRunning() bool {
	return s.Phase == PhaseRunning
}

// Uptime is zero until the monitor has been initialized.
func (s State) Uptime(now time.Time) time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return now.Sub(s.StartTime)
}
