package service

import (
	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/repository"
)

// Service handles the alerted-message history
type Service struct {
	repo repository.Repository
}

// New creates a new message service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// SaveMessage records a message that was handed to the dispatcher
func (s *Service) SaveMessage(message *domain.Message) error {
	return s.repo.SaveMessage(message)
}

// GetMessages retrieves the most recent alerted messages
func (s *Service) GetMessages(limit int) ([]*domain.Message, error) {
	return s.repo.GetMessages(limit)
}
