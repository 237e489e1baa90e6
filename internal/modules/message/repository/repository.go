package repository

import (
	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
)

// Repository defines the interface for the alerted-message history
type Repository interface {
	SaveMessage(message *domain.Message) error
	GetMessages(limit int) ([]*domain.Message, error)
}
