package repository

import (
	"sync"

	"github.com/reshetovitsme/channel-alert-monitor/internal/modules/message/domain"
	"github.com/samber/oops"
)

// DefaultCapacity bounds the history kept in memory.
const DefaultCapacity = 100

// MemoryStorage implements Repository as a bounded in-memory history.
// Nothing survives a restart.
type MemoryStorage struct {
	capacity int
	messages []*domain.Message
	mu       sync.RWMutex
}

// NewMemoryStorage creates a history holding at most capacity messages
func NewMemoryStorage(capacity int) Repository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStorage{
		capacity: capacity,
		messages: make([]*domain.Message, 0, capacity),
	}
}

func (s *MemoryStorage) SaveMessage(message *domain.Message) error {
	if message == nil {
		return oops.Errorf("message is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *message
	if len(s.messages) == s.capacity {
		copy(s.messages, s.messages[1:])
		s.messages = s.messages[:len(s.messages)-1]
	}
	s.messages = append(s.messages, &stored)
	return nil
}

// GetMessages returns up to limit messages, newest first.
func (s *MemoryStorage) GetMessages(limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]*domain.Message, 0, min(limit, len(s.messages)))
	for i := len(s.messages) - 1; i >= 0 && len(messages) < limit; i-- {
		msg := *s.messages[i]
		messages = append(messages, &msg)
	}
	return messages, nil
}
