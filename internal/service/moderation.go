package service

import (
	"context"
	"fmt"
	"log"

	"inkpress/internal/model"
	"inkpress/internal/repository"
)

// ModerationService lets post authors curate the comments under their own
// posts: a moderation queue with report context, and approve/hide actions.
type ModerationService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	reportRepo  repository.ReportRepository
}

func NewModerationService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	reportRepo repository.ReportRepository,
) *ModerationService {
	return &ModerationService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		reportRepo:  reportRepo,
	}
}

// Moderate applies an approve or hide action to a comment. Only the post's
// author (or an admin) may moderate.
func (s *ModerationService) Moderate(ctx context.Context, commentID int64, viewer model.Viewer, action string) (*model.Comment, error) {
	var status string
	switch action {
	case "approve":
		status = model.StatusApproved
	case "hide":
		status = model.StatusHidden
	default:
		return nil, model.ErrInvalidModAction
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted() {
		return nil, model.ErrCommentNotFound
	}
	if comment.PostAuthorID != viewer.ID && !viewer.IsAdmin() {
		return nil, model.ErrNotPostAuthor
	}

	if comment.Status != status {
		if err := s.commentRepo.SetStatus(ctx, commentID, status); err != nil {
			return nil, err
		}
		comment.Status = status
	}

	log.Printf("[ModerationService] User %d set comment %d to %s", viewer.ID, commentID, status)
	return comment, nil
}

// Queue returns a post's comments for the moderation view, annotated with
// any reports filed against them. Optionally filtered to one status.
func (s *ModerationService) Queue(ctx context.Context, postID int64, viewer model.Viewer, statusFilter *string) ([]model.ModerationEntry, error) {
	if statusFilter != nil {
		switch *statusFilter {
		case model.StatusPending, model.StatusApproved, model.StatusHidden:
		default:
			return nil, model.ErrInvalidStatusFilter
		}
	}

	authorID, err := s.postRepo.GetAuthorID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID != viewer.ID && !viewer.IsAdmin() {
		return nil, model.ErrNotPostAuthor
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("get comments for moderation: %w", err)
	}

	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if !c.IsDeleted() {
			ids = append(ids, c.ID)
		}
	}

	reports, err := s.reportRepo.GetByCommentIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get reports for moderation: %w", err)
	}

	entries := make([]model.ModerationEntry, 0, len(comments))
	for _, c := range comments {
		if c.IsDeleted() {
			continue
		}
		entries = append(entries, model.ModerationEntry{
			Comment:     c,
			ReportCount: len(reports[c.ID]),
			Reports:     reports[c.ID],
		})
	}
	return entries, nil
}
