package services

import (
	"strings"
	"time"

	"github.com/fanvault/fanvault-be/internal/apperrors"
	"github.com/fanvault/fanvault-be/internal/identity"
	"github.com/fanvault/fanvault-be/internal/models"
	"github.com/fanvault/fanvault-be/internal/store"
)

const messageBodyLimit = 2000

// MessageServiceProvider defines the interface for fan messages.
type MessageServiceProvider interface {
	Send(viewer identity.Viewer, creatorUsername, body string) (models.Message, error)
	ListForCreator(viewer identity.Viewer, creatorUsername string) ([]models.Message, error)
}

// MessageService provides business logic for fan-to-creator messages.
type MessageService struct {
	store *store.Store
	now   func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(st *store.Store) *MessageService {
	return &MessageService{store: st, now: time.Now}
}

// Send leaves a message for a creator. A resolvable fan identity is
// required.
func (s *MessageService) Send(viewer identity.Viewer, creatorUsername, body string) (models.Message, error) {
	if !viewer.HasFanIdentity() {
		return models.Message{}, apperrors.Validation("a fan identity is required to send a message")
	}

	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return models.Message{}, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, apperrors.Validation("message body is required")
	}
	if runes := []rune(body); len(runes) > messageBodyLimit {
		body = string(runes[:messageBodyLimit])
	}

	return s.store.AppendMessage(models.Message{
		CreatorUsername: creator.Username,
		FanUsername:     viewer.Username,
		FanEmail:        viewer.Email,
		Body:            body,
		CreatedAt:       s.now(),
	}), nil
}

// ListForCreator returns a creator's inbox. Only the authenticated owner
// may read it.
func (s *MessageService) ListForCreator(viewer identity.Viewer, creatorUsername string) ([]models.Message, error) {
	creator, err := s.store.CreatorByName(creatorUsername)
	if err != nil {
		return nil, err
	}
	if !viewer.Owns(creator.Username) {
		return nil, apperrors.Auth("only %s can read these messages", creator.Username)
	}

	messages := s.store.MessagesFor(creator.Username)
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
