package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkpress/internal/model"
)

func reportableComment() *mockCommentRepository {
	return &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, PostAuthorID: 10, Content: "rude", Status: model.StatusApproved}, nil
		},
	}
}

func TestReportService_Report_ReasonTooShort(t *testing.T) {
	svc := NewReportService(&mockReportRepository{}, reportableComment())

	_, err := svc.Report(context.Background(), 5, 20, "meh")
	if !errors.Is(err, model.ErrReasonLength) {
		t.Errorf("error = %v, want %v", err, model.ErrReasonLength)
	}
}

func TestReportService_Report_ReasonTooLong(t *testing.T) {
	svc := NewReportService(&mockReportRepository{}, reportableComment())

	_, err := svc.Report(context.Background(), 5, 20, strings.Repeat("a", model.MaxReportReasonLength+1))
	if !errors.Is(err, model.ErrReasonLength) {
		t.Errorf("error = %v, want %v", err, model.ErrReasonLength)
	}
}

func TestReportService_Report_WhitespaceNotCounted(t *testing.T) {
	svc := NewReportService(&mockReportRepository{}, reportableComment())

	// Padding around a too-short reason must not rescue it.
	_, err := svc.Report(context.Background(), 5, 20, "   hm   ")
	if !errors.Is(err, model.ErrReasonLength) {
		t.Errorf("error = %v, want %v", err, model.ErrReasonLength)
	}
}

func TestReportService_Report_Success(t *testing.T) {
	reportRepo := &mockReportRepository{
		createFn: func(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error) {
			return &model.CommentReport{
				ID: 7, CommentID: commentID, ReporterID: reporterID, Reason: reason,
				Status:   model.ReportStatusPending,
				Reporter: &model.UserSummary{ID: reporterID, Username: "carol"},
			}, nil
		},
	}
	svc := NewReportService(reportRepo, reportableComment())

	report, err := svc.Report(context.Background(), 5, 20, "contains an offensive slur")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if report.Status != model.ReportStatusPending {
		t.Errorf("status = %q, want %q", report.Status, model.ReportStatusPending)
	}

	// The returned report carries the context a moderation surface needs:
	// who reported, and the comment (with its post) that was reported.
	if report.Reporter == nil || report.Reporter.Username != "carol" {
		t.Errorf("reporter context missing, got %+v", report.Reporter)
	}
	if report.Comment == nil {
		t.Fatal("comment context missing from created report")
	}
	if report.Comment.ID != 5 || report.Comment.PostID != 1 {
		t.Errorf("comment context = id %d post %d, want id 5 post 1", report.Comment.ID, report.Comment.PostID)
	}
}

func TestReportService_Report_Duplicate(t *testing.T) {
	reportRepo := &mockReportRepository{
		createFn: func(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error) {
			return nil, model.ErrAlreadyReported
		},
	}
	svc := NewReportService(reportRepo, reportableComment())

	_, err := svc.Report(context.Background(), 5, 20, "reported this twice")
	if !errors.Is(err, model.ErrAlreadyReported) {
		t.Errorf("error = %v, want %v", err, model.ErrAlreadyReported)
	}
}

func TestReportService_Report_DeletedComment(t *testing.T) {
	deletedAt := time.Now()
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, PostID: 1, UserID: 30, Status: model.StatusApproved, DeletedAt: &deletedAt}, nil
		},
	}
	svc := NewReportService(&mockReportRepository{}, commentRepo)

	_, err := svc.Report(context.Background(), 5, 20, "this one is gone already")
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}

func TestReportService_List_AdminOnly(t *testing.T) {
	svc := NewReportService(&mockReportRepository{}, &mockCommentRepository{})

	reader := model.Viewer{ID: 20, Role: model.RoleUser, Authenticated: true}
	_, _, err := svc.List(context.Background(), reader, nil, 20)
	if !errors.Is(err, model.ErrAdminOnly) {
		t.Errorf("error = %v, want %v", err, model.ErrAdminOnly)
	}

	admin := model.Viewer{ID: 99, Role: model.RoleAdmin, Authenticated: true}
	if _, _, err := svc.List(context.Background(), admin, nil, 20); err != nil {
		t.Errorf("admin list failed: %v", err)
	}
}
