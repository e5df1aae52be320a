package service

import (
	"context"
	"strings"
	"testing"

	"inkpress/internal/model"
)

func notifierWithActor(username string) (*NotificationService, *mockNotificationRepository) {
	notifRepo := &mockNotificationRepository{}
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: username}, nil
		},
	}
	return NewNotificationService(notifRepo, userRepo), notifRepo
}

func TestNotificationService_CreateNotification_SkipsSelf(t *testing.T) {
	svc, notifRepo := notifierWithActor("alice")

	err := svc.CreateNotification(context.Background(), 20, 20, model.NotificationTypeCommentReply, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(notifRepo.createCalls) != 0 {
		t.Error("no notification should be created for the actor's own activity")
	}
}

func TestNotificationService_CreateNotification_ComposesMessage(t *testing.T) {
	svc, notifRepo := notifierWithActor("alice")

	tests := []struct {
		notifType string
		fragment  string
	}{
		{model.NotificationTypeCommentReply, "replied to your comment"},
		{model.NotificationTypePostComment, "commented on your post"},
		{model.NotificationTypePostLike, "liked your post"},
		{model.NotificationTypeCommentLike, "liked your comment"},
		{model.NotificationTypeFollow, "started following you"},
		{model.NotificationTypePostMention, "mentioned you in a comment"},
		{model.NotificationTypeThreadActivity, "commented in a thread you follow"},
	}

	for _, tt := range tests {
		if err := svc.CreateNotification(context.Background(), 20, 30, tt.notifType, nil, nil); err != nil {
			t.Fatalf("%s: expected no error, got: %v", tt.notifType, err)
		}
	}

	if len(notifRepo.createCalls) != len(tests) {
		t.Fatalf("Create called %d times, want %d", len(notifRepo.createCalls), len(tests))
	}
	for i, tt := range tests {
		msg := notifRepo.createCalls[i].Message
		if !strings.HasPrefix(msg, "alice ") {
			t.Errorf("%s: message %q should start with the actor username", tt.notifType, msg)
		}
		if !strings.Contains(msg, tt.fragment) {
			t.Errorf("%s: message %q should contain %q", tt.notifType, msg, tt.fragment)
		}
	}
}
