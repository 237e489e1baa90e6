package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
)

func TestIsAuthenticationError(t *testing.T) {
	authErr := &apperrors.AuthenticationError{Op: "fetchMessagesAfter", Status: 401}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bare", authErr, true},
		{"fmt wrapped", fmt.Errorf("poll: %w", authErr), true},
		{"oops wrapped", oops.With("channel_id", "42").Wrap(authErr), true},
		{"other error", errors.New("connection reset"), false},
		{"sentinel", apperrors.ErrInitializationFailed, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.IsAuthenticationError(tt.err))
		})
	}
}

func TestAuthenticationError_Message(t *testing.T) {
	err := &apperrors.AuthenticationError{Op: "getLatestMessageId", Status: 401}
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "getLatestMessageId")
}
