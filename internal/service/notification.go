package service

import (
	"context"
	"fmt"
	"log"

	"inkpress/internal/model"
	"inkpress/internal/repository"
)

// NotificationService creates in-app notifications (invoked by the fan-out
// workers) and serves the per-user notification inbox.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
	}
}

// CreateNotification persists one notification with a composed message.
// Users never get notified about their own activity.
func (s *NotificationService) CreateNotification(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64) error {
	if userID == actorID {
		return nil
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("get actor: %w", err)
	}

	message := composeMessage(actor.Username, notifType)
	if err := s.notifRepo.Create(ctx, userID, actorID, notifType, postID, commentID, message); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func composeMessage(username, notifType string) string {
	switch notifType {
	case model.NotificationTypeCommentReply:
		return fmt.Sprintf("%s replied to your comment", username)
	case model.NotificationTypePostComment:
		return fmt.Sprintf("%s commented on your post", username)
	case model.NotificationTypePostLike:
		return fmt.Sprintf("%s liked your post", username)
	case model.NotificationTypeCommentLike:
		return fmt.Sprintf("%s liked your comment", username)
	case model.NotificationTypeFollow:
		return fmt.Sprintf("%s started following you", username)
	case model.NotificationTypePostMention:
		return fmt.Sprintf("%s mentioned you in a comment", username)
	case model.NotificationTypeThreadActivity:
		return fmt.Sprintf("%s commented in a thread you follow", username)
	default:
		return fmt.Sprintf("%s interacted with you", username)
	}
}

// List returns a page of the user's notifications, newest first, plus the
// unread count.
func (s *NotificationService) List(ctx context.Context, userID int64, cursor *string, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	notifications, nextCursor, err := s.notifRepo.List(ctx, userID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.notifRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get unread count: %w", err)
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		NextCursor:    nextCursor,
		HasMore:       nextCursor != nil,
		UnreadCount:   unread,
	}, nil
}

// MarkAsRead marks the given notifications read. Only the owner's rows are
// touched.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return s.notifRepo.MarkAsRead(ctx, userID, notificationIDs)
}

// MarkAllAsRead marks every notification of the user read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID int64) error {
	return s.notifRepo.Delete(ctx, userID, notificationID)
}

// ClearRead removes all read notifications of the user.
func (s *NotificationService) ClearRead(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.notifRepo.DeleteRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("[NotificationService] Cleared %d read notifications for user %d", deleted, userID)
	}
	return deleted, nil
}
