package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alankrit98/DevLog/internal/cache"
	"github.com/alankrit98/DevLog/internal/domain"
	"github.com/alankrit98/DevLog/internal/metrics"
	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	profiles  cache.ProfileCache
	logger    *zap.Logger
	metrics   *metrics.Collector
	notifier  Notifier
}

var _ Dispatcher = (*NotificationService)(nil)

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	profiles cache.ProfileCache,
	logger *zap.Logger,
	m *metrics.Collector,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		profiles:  profiles,
		logger:    logger,
		metrics:   m,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *NotificationService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Notify persists a notification and pushes an enriched copy to the
// recipient's room. Acting on your own content produces nothing.
func (s *NotificationService) Notify(
	ctx context.Context,
	recipientID, senderID uuid.UUID,
	typ domain.NotificationType,
	projectID *uuid.UUID,
) (*domain.Notification, error) {
	if recipientID == senderID {
		return nil, nil
	}
	if !typ.Valid() {
		return nil, invalid("type", "unknown notification type")
	}

	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        typ,
		ProjectID:   projectID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, persistence("creating notification", err)
	}
	s.metrics.Notifications.WithLabelValues(string(typ)).Inc()

	enriched := *n
	sender, err := s.profile(ctx, senderID)
	if err != nil {
		s.logger.Warn("enriching notification", zap.Stringer("sender_id", senderID), zap.Error(err))
	} else {
		enriched.Sender = sender
	}

	if s.notifier != nil {
		s.notifier.NotifyNotification(&enriched)
	}
	return &enriched, nil
}

func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	list, err := s.notifRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return list, nil
}

// MarkAllRead flags every unread notification of the recipient and returns
// how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	n, err := s.notifRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	n, err := s.notifRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

// profile resolves a public profile through the cache.
func (s *NotificationService) profile(ctx context.Context, userID uuid.UUID) (*domain.PublicProfile, error) {
	cached, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.Debug("profile cache get", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	p := user.Profile()
	if err := s.profiles.Set(ctx, p); err != nil {
		s.logger.Debug("profile cache set", zap.Error(err))
	}
	return &p, nil
}
