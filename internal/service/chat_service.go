package service

import (
	"context"
	"strings"
	"time"

	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
)

const maxMessageLength = 4000

// ChatService handles one-to-one conversations between mutual followers.
type ChatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	social      *SocialService
	notifier    Notifier
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, social *SocialService) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		social:      social,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

// ListConversationPartners returns everyone userID can chat with.
func (s *ChatService) ListConversationPartners(ctx context.Context, userID uuid.UUID) ([]domain.PublicProfile, error) {
	return s.social.Mutuals(ctx, userID)
}

// GetHistory returns every message between a and b, oldest first.
func (s *ChatService) GetHistory(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.messageRepo.ListConversation(ctx, userA, userB)
	if err != nil {
		return nil, persistence("loading conversation", err)
	}
	return msgs, nil
}

// SendMessage stores a message and pushes it to the receiver's room.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "Message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, invalid("content", "Message is too long")
	}
	if senderID == receiverID {
		return nil, ErrSelfReference
	}

	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, persistence("looking up receiver", err)
	}
	if receiver == nil {
		return nil, ErrNotFound
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, persistence("creating message", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyMessage(msg)
	}
	return msg, nil
}
