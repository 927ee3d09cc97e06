package services

import (
	"context"
	"fmt"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

// NotificationService creates and manages user notifications
type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo}
}

// NotifyUser creates a notification for a user
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, title, message, notificationType string) error {
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notificationType,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.FindByUser(ctx, userID, unreadOnly)
}

// MarkAsRead marks one notification as read. Only the owner may do so.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if notification.UserID != userID {
		return &AuthError{Reason: "notification belongs to another user"}
	}

	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

// MarkAllAsRead marks all of a user's notifications as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete removes a notification. Only the owner may do so.
func (s *NotificationService) Delete(ctx context.Context, id, userID uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if notification.UserID != userID {
		return &AuthError{Reason: "notification belongs to another user"}
	}
	return s.repo.Delete(ctx, id)
}
