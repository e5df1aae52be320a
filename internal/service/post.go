package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"inkpress/internal/model"
	"inkpress/internal/queue"
	"inkpress/internal/repository"
)

// PostService covers the slice of post behavior the comment system leans
// on: lookup and likes. Post CRUD lives in the main blog service.
type PostService struct {
	postRepo  repository.PostRepository
	db        *sqlx.DB
	publisher queue.Publisher
}

func NewPostService(postRepo repository.PostRepository, db *sqlx.DB, publisher queue.Publisher) *PostService {
	return &PostService{
		postRepo:  postRepo,
		db:        db,
		publisher: publisher,
	}
}

func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Like records a like on a post. Uses transaction: insert like + increment
// counter.
func (s *PostService) Like(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := s.postRepo.Like(ctx, tx, postID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyLiked
	}

	if err := s.postRepo.IncrementLikeCount(ctx, tx, postID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	// Publish notification event (after commit, best-effort)
	if s.publisher != nil && post.UserID != userID {
		event := queue.NewPostLikedEvent(userID, postID, post.UserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
			log.Printf("[PostService] Failed to publish PostLiked event: %v", err)
		}
	}

	return nil
}

// Unlike removes a like from a post. Uses transaction: delete like +
// decrement counter.
func (s *PostService) Unlike(ctx context.Context, postID, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.postRepo.Unlike(ctx, tx, postID, userID); err != nil {
		return err
	}

	if err := s.postRepo.IncrementLikeCount(ctx, tx, postID, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
