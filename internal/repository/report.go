package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"inkpress/internal/model"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create persists a pending report and returns it with the reporter joined,
// ready for moderation-queue display. The unique (comment, reporter)
// constraint rejects duplicates at the storage layer.
func (r *reportRepository) Create(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error) {
	query := `
		WITH ins AS (
			INSERT INTO comment_reports (comment_id, reporter_id, reason)
			VALUES ($1, $2, $3)
			RETURNING id, comment_id, reporter_id, reason, status, created_at
		)
		SELECT ins.id, ins.comment_id, ins.reporter_id, ins.reason, ins.status, ins.created_at,
		       u.id AS "reporter.id", u.username AS "reporter.username",
		       u.display_name AS "reporter.display_name", u.avatar_url AS "reporter.avatar_url"
		FROM ins
		JOIN users u ON u.id = ins.reporter_id
	`
	var row reportRow
	err := r.db.GetContext(ctx, &row, query, commentID, reporterID, reason)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyReported
		}
		return nil, fmt.Errorf("insert report: %w", err)
	}
	report := row.toReport()
	return &report, nil
}

type reportRow struct {
	ID               int64     `db:"id"`
	CommentID        int64     `db:"comment_id"`
	ReporterID       int64     `db:"reporter_id"`
	Reason           string    `db:"reason"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	ReporterIDJoined int64     `db:"reporter.id"`
	ReporterUsername string    `db:"reporter.username"`
	ReporterDisplay  *string   `db:"reporter.display_name"`
	ReporterAvatar   *string   `db:"reporter.avatar_url"`
}

func (row reportRow) toReport() model.CommentReport {
	return model.CommentReport{
		ID:         row.ID,
		CommentID:  row.CommentID,
		ReporterID: row.ReporterID,
		Reason:     row.Reason,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		Reporter: &model.UserSummary{
			ID:          row.ReporterIDJoined,
			Username:    row.ReporterUsername,
			DisplayName: row.ReporterDisplay,
			AvatarURL:   row.ReporterAvatar,
		},
	}
}

// GetByCommentIDs returns reports grouped by comment, with reporter info,
// for the moderation queue.
func (r *reportRepository) GetByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64][]model.CommentReport, error) {
	grouped := make(map[int64][]model.CommentReport)
	if len(commentIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT r.id, r.comment_id, r.reporter_id, r.reason, r.status, r.created_at,
		       u.id AS "reporter.id", u.username AS "reporter.username",
		       u.display_name AS "reporter.display_name", u.avatar_url AS "reporter.avatar_url"
		FROM comment_reports r
		JOIN users u ON u.id = r.reporter_id
		WHERE r.comment_id = ANY($1)
		ORDER BY r.created_at DESC
	`
	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(commentIDs)); err != nil {
		return nil, fmt.Errorf("get reports by comments: %w", err)
	}

	for _, row := range rows {
		grouped[row.CommentID] = append(grouped[row.CommentID], row.toReport())
	}
	return grouped, nil
}

// List returns all reports, newest first, with comment and reporter context.
// Admin review queue only.
func (r *reportRepository) List(ctx context.Context, cursor *string, limit int) ([]model.CommentReport, *string, error) {
	type listRow struct {
		reportRow
		CmtID        int64      `db:"comment.id"`
		CmtPostID    int64      `db:"comment.post_id"`
		CmtUserID    int64      `db:"comment.user_id"`
		CmtContent   string     `db:"comment.content"`
		CmtStatus    string     `db:"comment.status"`
		CmtCreatedAt time.Time  `db:"comment.created_at"`
		CmtDeletedAt *time.Time `db:"comment.deleted_at"`
	}

	base := `
		SELECT r.id, r.comment_id, r.reporter_id, r.reason, r.status, r.created_at,
		       u.id AS "reporter.id", u.username AS "reporter.username",
		       u.display_name AS "reporter.display_name", u.avatar_url AS "reporter.avatar_url",
		       c.id AS "comment.id", c.post_id AS "comment.post_id", c.user_id AS "comment.user_id",
		       c.content AS "comment.content", c.status AS "comment.status",
		       c.created_at AS "comment.created_at", c.deleted_at AS "comment.deleted_at"
		FROM comment_reports r
		JOIN users u ON u.id = r.reporter_id
		JOIN comments c ON c.id = r.comment_id
	`

	var query string
	var args []interface{}
	if cursor == nil {
		query = base + `
			ORDER BY r.created_at DESC, r.id DESC
			LIMIT $1
		`
		args = []interface{}{limit + 1}
	} else {
		ts, id, err := parseCommentCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query = base + `
			WHERE (r.created_at, r.id) < ($1, $2)
			ORDER BY r.created_at DESC, r.id DESC
			LIMIT $3
		`
		args = []interface{}{ts, id, limit + 1}
	}

	var rows []listRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list reports: %w", err)
	}

	reports := make([]model.CommentReport, len(rows))
	for i, row := range rows {
		report := row.toReport()
		report.Comment = &model.Comment{
			ID:        row.CmtID,
			PostID:    row.CmtPostID,
			UserID:    row.CmtUserID,
			Content:   row.CmtContent,
			Status:    row.CmtStatus,
			CreatedAt: row.CmtCreatedAt,
			DeletedAt: row.CmtDeletedAt,
		}
		reports[i] = report
	}

	var nextCursor *string
	if len(reports) > limit {
		reports = reports[:limit]
		last := reports[len(reports)-1]
		c := formatCommentCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return reports, nextCursor, nil
}
