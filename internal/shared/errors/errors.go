package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDiscordToken   = errors.New("DISCORD_TOKEN environment variable is required")
	ErrMissingChannelID      = errors.New("DISCORD_CHANNEL_ID environment variable is required")
	ErrMissingNtfyTopic      = errors.New("NTFY_TOPIC environment variable is required when mobile notifications are enabled")
	ErrInvalidCheckInterval  = errors.New("check interval must be at least 1 second")
	ErrInvalidRequestTimeout = errors.New("request timeout must be at least 1 second")
	ErrInvalidDesktopTimeout = errors.New("desktop timeout must be at least 1 second")
	ErrInvalidLogLevel       = errors.New("invalid log level")
	ErrInvalidLogFormat      = errors.New("invalid log format")
	ErrInitializationFailed  = errors.New("cannot start monitor without a valid channel connection")
	ErrUnsupportedPlatform   = errors.New("desktop notifications not supported on this platform")
)

// AuthenticationError is returned when the remote channel rejects the configured credentials.
// It is the only error that stops the monitor loop.
type AuthenticationError struct {
	Op     string
	Status int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: invalid Discord token (op=%s, status=%d)", e.Op, e.Status)
}

// IsAuthenticationError reports whether err wraps an *AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
