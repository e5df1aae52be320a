package service

import (
	"context"
	"log"

	"inkpress/internal/model"
	"inkpress/internal/repository"
)

// SubscriptionService manages per-thread notification subscriptions.
// Subscriptions are keyed by the thread's top-level comment, so subscribing
// anywhere in a thread covers the whole thread.
type SubscriptionService struct {
	subRepo     repository.SubscriptionRepository
	commentRepo repository.CommentRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, commentRepo repository.CommentRepository) *SubscriptionService {
	return &SubscriptionService{
		subRepo:     subRepo,
		commentRepo: commentRepo,
	}
}

// Subscribe registers the user for activity in the thread containing the
// given comment.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted() {
		return model.ErrCommentNotFound
	}

	rootID, err := s.commentRepo.ThreadRoot(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.subRepo.Create(ctx, userID, rootID); err != nil {
		return err
	}

	log.Printf("[SubscriptionService] User %d subscribed to thread %d", userID, rootID)
	return nil
}

// Unsubscribe removes the user's subscription to the thread containing the
// given comment. Not being subscribed is an error, and the comment must pass
// the same existence checks as Subscribe.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted() {
		return model.ErrCommentNotFound
	}

	rootID, err := s.commentRepo.ThreadRoot(ctx, commentID)
	if err != nil {
		return err
	}
	return s.subRepo.Delete(ctx, userID, rootID)
}

// IsSubscribed reports whether the user is subscribed to the thread
// containing the given comment.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, commentID int64) (bool, error) {
	rootID, err := s.commentRepo.ThreadRoot(ctx, commentID)
	if err != nil {
		return false, err
	}
	return s.subRepo.Exists(ctx, userID, rootID)
}
