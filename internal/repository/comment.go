package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"inkpress/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// commentRow scans a comment joined with its author and the owning post's
// author id.
type commentRow struct {
	ID                int64      `db:"id"`
	PostID            int64      `db:"post_id"`
	UserID            int64      `db:"user_id"`
	ParentID          *int64     `db:"parent_id"`
	Content           string     `db:"content"`
	Status            string     `db:"status"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
	PostAuthorID      int64      `db:"post_author_id"`
	AuthorID          int64      `db:"author.id"`
	AuthorUsername    string     `db:"author.username"`
	AuthorDisplay     *string    `db:"author.display_name"`
	AuthorAvatar      *string    `db:"author.avatar_url"`
	AuthorDeactivated *time.Time `db:"author.deactivated_at"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:           row.ID,
		PostID:       row.PostID,
		UserID:       row.UserID,
		ParentID:     row.ParentID,
		Content:      row.Content,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		DeletedAt:    row.DeletedAt,
		PostAuthorID: row.PostAuthorID,
		Author: &model.UserSummary{
			ID:          row.AuthorID,
			Username:    row.AuthorUsername,
			DisplayName: row.AuthorDisplay,
			AvatarURL:   row.AuthorAvatar,
		},
		AuthorDeactivated: row.AuthorDeactivated != nil,
	}
}

const commentSelectColumns = `
	c.id, c.post_id, c.user_id, c.parent_id, c.content, c.status,
	c.created_at, c.updated_at, c.deleted_at,
	p.user_id AS post_author_id,
	u.id AS "author.id", u.username AS "author.username",
	u.display_name AS "author.display_name", u.avatar_url AS "author.avatar_url",
	u.deactivated_at AS "author.deactivated_at"
`

// Create inserts a new comment. Runs inside the caller's transaction so the
// commenter-stats upsert commits atomically with it.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, parent_id, content, status, created_at, updated_at, deleted_at
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, postID, userID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// Update updates a comment's content. Only the owner can update.
func (r *commentRepository) Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
		RETURNING id, post_id, user_id, parent_id, content, status, created_at, updated_at, deleted_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, content, commentID, userID)
	if err == sql.ErrNoRows {
		// Distinguish wrong owner from a missing or deleted comment
		var exists bool
		r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1 AND deleted_at IS NULL)`, commentID)
		if exists {
			return nil, model.ErrNotCommentOwner
		}
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// SoftDelete marks a comment deleted. Descendants are left in place; the
// assembler renders the deleted node as a placeholder while it still has
// visible children.
func (r *commentRepository) SoftDelete(ctx context.Context, tx *sqlx.Tx, commentID int64) error {
	query := `
		UPDATE comments
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := tx.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// GetByID retrieves a single comment without author info. The owning post's
// author id rides along: permission checks and stats bookkeeping key on it.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.status,
		       c.created_at, c.updated_at, c.deleted_at,
		       p.user_id AS post_author_id
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Depth walks the parent chain with a recursive CTE and returns the nesting
// depth of the comment. A top-level comment has depth 1.
func (r *commentRepository) Depth(ctx context.Context, commentID int64) (int, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id, 1 AS depth
			FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id, a.depth + 1
			FROM comments c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT COALESCE(MAX(depth), 0) FROM ancestors
	`
	var depth int
	err := r.db.GetContext(ctx, &depth, query, commentID)
	if err != nil {
		return 0, fmt.Errorf("comment depth: %w", err)
	}
	if depth == 0 {
		return 0, model.ErrCommentNotFound
	}
	return depth, nil
}

// ThreadRoot resolves the top-level ancestor of a comment.
func (r *commentRepository) ThreadRoot(ctx context.Context, commentID int64) (int64, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id
			FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id
			FROM comments c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT id FROM ancestors WHERE parent_id IS NULL
	`
	var rootID int64
	err := r.db.GetContext(ctx, &rootID, query, commentID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("thread root: %w", err)
	}
	return rootID, nil
}

// GetTopLevel returns all top-level comments of a post, newest first.
func (r *commentRepository) GetTopLevel(ctx context.Context, postID int64) ([]model.Comment, error) {
	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE c.post_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("get top-level comments: %w", err)
	}
	return rowsToComments(rows), nil
}

// GetByParentIDs loads one tree level in a single query.
func (r *commentRepository) GetByParentIDs(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE c.parent_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(parentIDs)); err != nil {
		return nil, fmt.Errorf("get comment children: %w", err)
	}
	return rowsToComments(rows), nil
}

// GetRecent returns top-level comments on published posts across all posts.
func (r *commentRepository) GetRecent(ctx context.Context, cursor *string, limit int) ([]model.Comment, *string, error) {
	var query string
	var args []interface{}

	base := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE c.parent_id IS NULL AND c.deleted_at IS NULL
		  AND p.published AND p.deleted_at IS NULL
	`

	if cursor == nil {
		query = base + `
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $1
		`
		args = []interface{}{limit + 1}
	} else {
		ts, id, err := parseCommentCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query = base + `
			AND (c.created_at, c.id) < ($1, $2)
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $3
		`
		args = []interface{}{ts, id, limit + 1}
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("get recent comments: %w", err)
	}

	comments := rowsToComments(rows)

	var nextCursor *string
	if len(comments) > limit {
		comments = comments[:limit]
		last := comments[len(comments)-1]
		c := formatCommentCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return comments, nextCursor, nil
}

// GetByPostID returns every comment of a post regardless of visibility,
// optionally filtered by moderation status. Moderation-queue use only.
func (r *commentRepository) GetByPostID(ctx context.Context, postID int64, statusFilter *string) ([]model.Comment, error) {
	query := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.user_id
		JOIN posts p ON p.id = c.post_id
		WHERE c.post_id = $1 AND c.deleted_at IS NULL
	`
	args := []interface{}{postID}
	if statusFilter != nil {
		query += ` AND c.status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY c.created_at DESC, c.id DESC`

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get comments by post: %w", err)
	}
	return rowsToComments(rows), nil
}

func (r *commentRepository) SetStatus(ctx context.Context, commentID int64, status string) error {
	query := `
		UPDATE comments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, commentID)
	if err != nil {
		return fmt.Errorf("set comment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// CountLikesByCommentIDs issues one grouped count for a whole tree. This is
// the batched alternative to one count query per node.
func (r *commentRepository) CountLikesByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(commentIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT comment_id, COUNT(*) AS like_count
		FROM comment_likes
		WHERE comment_id = ANY($1)
		GROUP BY comment_id
	`
	rows, err := r.db.QueryxContext(ctx, query, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID int64
		var count int
		if err := rows.Scan(&commentID, &count); err != nil {
			return nil, fmt.Errorf("scan like count: %w", err)
		}
		counts[commentID] = count
	}
	return counts, rows.Err()
}

// Like inserts a comment like. Returns false without error on a duplicate.
func (r *commentRepository) Like(ctx context.Context, commentID, userID int64) (bool, error) {
	query := `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("insert comment like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *commentRepository) Unlike(ctx context.Context, commentID, userID int64) error {
	query := `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		return fmt.Errorf("delete comment like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

func rowsToComments(rows []commentRow) []model.Comment {
	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments
}

// Helper: parse comment cursor "id:timestamp". The timestamp carries
// nanoseconds; truncating would skip same-second rows across pages.
func parseCommentCursor(cursor string) (time.Time, int64, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid cursor format")
	}
	var id int64
	var ts int64
	_, err := fmt.Sscanf(parts[0], "%d", &id)
	if err != nil {
		return time.Time{}, 0, err
	}
	_, err = fmt.Sscanf(parts[1], "%d", &ts)
	if err != nil {
		return time.Time{}, 0, err
	}
	return time.Unix(0, ts), id, nil
}

// Helper: format comment cursor "id:timestamp"
func formatCommentCursor(t time.Time, id int64) string {
	return fmt.Sprintf("%d:%d", id, t.UnixNano())
}
