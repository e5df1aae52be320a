package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"inkpress/internal/model"
	"inkpress/internal/repository"
)

// ReportService files reader reports against comments and exposes the
// admin-facing report ledger.
type ReportService struct {
	reportRepo  repository.ReportRepository
	commentRepo repository.CommentRepository
}

func NewReportService(reportRepo repository.ReportRepository, commentRepo repository.CommentRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		commentRepo: commentRepo,
	}
}

// Report files a report against a comment. One report per reader per
// comment; repeats are rejected.
func (s *ReportService) Report(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < model.MinReportReasonLength || len(reason) > model.MaxReportReasonLength {
		return nil, model.ErrReasonLength
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted() {
		return nil, model.ErrCommentNotFound
	}

	report, err := s.reportRepo.Create(ctx, commentID, reporterID, reason)
	if err != nil {
		return nil, err
	}
	// Hand back the reported comment alongside the row so moderation surfaces
	// can show what was reported without a second lookup.
	report.Comment = comment

	log.Printf("[ReportService] User %d reported comment %d", reporterID, commentID)
	return report, nil
}

// List returns the report ledger, newest first. Admin only.
func (s *ReportService) List(ctx context.Context, viewer model.Viewer, cursor *string, limit int) ([]model.CommentReport, *string, error) {
	if !viewer.IsAdmin() {
		return nil, nil, model.ErrAdminOnly
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	reports, nextCursor, err := s.reportRepo.List(ctx, cursor, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nextCursor, nil
}
