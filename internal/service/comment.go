package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"inkpress/internal/model"
	"inkpress/internal/queue"
	"inkpress/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	statsRepo   repository.StatsRepository
	db          *sqlx.DB
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	db *sqlx.DB,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		statsRepo:   statsRepo,
		db:          db,
		publisher:   publisher,
	}
}

// Create adds a comment to a post. Uses transaction: insert comment +
// increment the commenter's per-author counter.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if len(req.Content) == 0 {
		return nil, model.ErrContentRequired
	}
	if len(req.Content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, model.ErrPostNotFound
	}
	if !post.AllowComments {
		return nil, model.ErrCommentsDisabled
	}

	// If a parent is given, it must exist, be alive, belong to the same post
	// and leave room under the depth cap.
	var parentAuthorID *int64
	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, model.ErrParentMismatch
		}
		if parent.IsDeleted() {
			return nil, model.ErrCommentDeleted
		}

		depth, err := s.commentRepo.Depth(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if depth >= model.MaxCommentDepth {
			return nil, model.ErrMaxDepthExceeded
		}
		parentAuthorID = &parent.UserID
	}

	// Resolve @mentions before the transaction; unknown names drop out.
	var mentionIDs []int64
	if usernames := model.ExtractMentions(req.Content); len(usernames) > 0 {
		mentionIDs, err = s.userRepo.GetIDsByUsernames(ctx, usernames)
		if err != nil {
			return nil, fmt.Errorf("resolve mentions: %w", err)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	comment, err := s.commentRepo.Create(ctx, tx, postID, userID, req.Content, req.ParentCommentID)
	if err != nil {
		return nil, err
	}

	// Authors commenting under their own posts are not tracked.
	if userID != post.UserID {
		if err := s.statsRepo.Increment(ctx, tx, post.UserID, userID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		comment.Author = &model.UserSummary{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}

	log.Printf("[CommentService] User %d commented on post %d", userID, postID)

	// Publish notification event (after commit, best-effort)
	if s.publisher != nil {
		event := queue.NewCommentCreatedEvent(userID, postID, post.UserID, comment.ID, req.ParentCommentID, parentAuthorID, mentionIDs)
		if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
			log.Printf("[CommentService] Failed to publish CommentCreated event: %v", err)
		}
	}

	return comment, nil
}

// Update edits a comment's content. Only the author may edit, and only while
// the comment is alive.
func (s *CommentService) Update(ctx context.Context, commentID, userID int64, req model.UpdateCommentRequest) (*model.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if len(req.Content) == 0 {
		return nil, model.ErrContentRequired
	}
	if len(req.Content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if existing.IsDeleted() {
		return nil, model.ErrCommentDeleted
	}

	// Repository re-checks ownership in the UPDATE itself.
	comment, err := s.commentRepo.Update(ctx, commentID, userID, req.Content)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		comment.Author = &model.UserSummary{
			ID:          author.ID,
			Username:    author.Username,
			DisplayName: author.DisplayName,
			AvatarURL:   author.AvatarURL,
		}
	}

	log.Printf("[CommentService] User %d updated comment %d", userID, commentID)
	return comment, nil
}

// Delete soft-deletes a comment. The author may remove their own comment;
// the post author may remove any comment under their post. Uses transaction:
// mark deleted + decrement the commenter's counter.
func (s *CommentService) Delete(ctx context.Context, commentID int64, viewer model.Viewer) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted() {
		return model.ErrCommentNotFound
	}
	if !canRemoveComment(comment, viewer) {
		return model.ErrNotCommentOwner
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.commentRepo.SoftDelete(ctx, tx, commentID); err != nil {
		return err
	}

	if comment.UserID != comment.PostAuthorID {
		if err := s.statsRepo.Decrement(ctx, tx, comment.PostAuthorID, comment.UserID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[CommentService] User %d deleted comment %d from post %d", viewer.ID, commentID, comment.PostID)
	return nil
}

// canRemoveComment reports whether the viewer may soft-delete the comment:
// its author, the author of the post it sits under, or an admin. PostAuthorID
// comes off the comment row itself, joined in by the repository.
func canRemoveComment(c *model.Comment, viewer model.Viewer) bool {
	return c.UserID == viewer.ID || c.PostAuthorID == viewer.ID || viewer.IsAdmin()
}

// Like records a like on a comment. Duplicate likes are rejected.
func (s *CommentService) Like(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsDeleted() {
		return model.ErrCommentNotFound
	}

	inserted, err := s.commentRepo.Like(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyLiked
	}

	if s.publisher != nil && comment.UserID != userID {
		event := queue.NewCommentLikedEvent(userID, comment.PostID, commentID, comment.UserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamNotifications, event); err != nil {
			log.Printf("[CommentService] Failed to publish CommentLiked event: %v", err)
		}
	}
	return nil
}

// Unlike removes a like from a comment.
func (s *CommentService) Unlike(ctx context.Context, commentID, userID int64) error {
	return s.commentRepo.Unlike(ctx, commentID, userID)
}
