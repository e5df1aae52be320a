package model

import (
	"errors"
	"time"
)

// Report review states for the admin queue.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusRejected = "rejected"
)

// Report reason bounds, applied after trimming whitespace.
const (
	MinReportReasonLength = 5
	MaxReportReasonLength = 500
)

// CommentReport is a community report against a comment. A given user can
// report a given comment at most once; the duplicate is a conflict, enforced
// by a unique constraint.
type CommentReport struct {
	ID         int64     `db:"id" json:"id"`
	CommentID  int64     `db:"comment_id" json:"comment_id"`
	ReporterID int64     `db:"reporter_id" json:"-"`
	Reason     string    `db:"reason" json:"reason"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Joined fields for moderation-queue and admin display
	Reporter *UserSummary `json:"reporter,omitempty"`
	Comment  *Comment     `json:"comment,omitempty"`
}

// ReportCommentRequest is the request body for reporting a comment.
type ReportCommentRequest struct {
	Reason string `json:"reason"`
}

// ReportListResponse is the paginated admin report listing.
type ReportListResponse struct {
	Reports    []CommentReport `json:"reports"`
	NextCursor *string         `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

// Report errors
var (
	ErrAlreadyReported = errors.New("you have already reported this comment")
	ErrReasonLength    = errors.New("reason must be between 5 and 500 characters")
	ErrReportNotFound  = errors.New("report not found")
)
