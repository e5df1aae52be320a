package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"inkpress/internal/model"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Increment upserts the (post author, commenter) row. The ON CONFLICT upsert
// keeps two concurrent first-comments from both trying to create the row.
// Must run in the same transaction as the comment insert.
func (r *statsRepository) Increment(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error {
	query := `
		INSERT INTO commenter_stats (post_author_id, commenter_id, comment_count, last_comment_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (post_author_id, commenter_id)
		DO UPDATE SET comment_count = commenter_stats.comment_count + 1, last_comment_at = NOW()
	`
	_, err := tx.ExecContext(ctx, query, postAuthorID, commenterID)
	if err != nil {
		return fmt.Errorf("increment commenter stats: %w", err)
	}
	return nil
}

// Decrement lowers the count by one, removing the row entirely when the
// count would reach zero. No zero-count rows persist. An absent row is a
// no-op.
func (r *statsRepository) Decrement(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error {
	// The row lock taken by the delete serializes concurrent decrements.
	result, err := tx.ExecContext(ctx, `
		DELETE FROM commenter_stats
		WHERE post_author_id = $1 AND commenter_id = $2 AND comment_count = 1
	`, postAuthorID, commenterID)
	if err != nil {
		return fmt.Errorf("delete commenter stats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE commenter_stats
		SET comment_count = comment_count - 1
		WHERE post_author_id = $1 AND commenter_id = $2 AND comment_count > 1
	`, postAuthorID, commenterID)
	if err != nil {
		return fmt.Errorf("decrement commenter stats: %w", err)
	}
	return nil
}

func (r *statsRepository) Get(ctx context.Context, postAuthorID, commenterID int64) (*model.CommenterStats, error) {
	query := `
		SELECT post_author_id, commenter_id, comment_count, last_comment_at
		FROM commenter_stats
		WHERE post_author_id = $1 AND commenter_id = $2
	`
	var stats model.CommenterStats
	err := r.db.GetContext(ctx, &stats, query, postAuthorID, commenterID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get commenter stats: %w", err)
	}
	return &stats, nil
}

// TopCommenters returns the commenters among commenterIDs whose tracked
// count against the post author has reached the badge threshold.
func (r *statsRepository) TopCommenters(ctx context.Context, postAuthorID int64, commenterIDs []int64) (map[int64]bool, error) {
	top := make(map[int64]bool)
	if len(commenterIDs) == 0 {
		return top, nil
	}

	query := `
		SELECT commenter_id
		FROM commenter_stats
		WHERE post_author_id = $1 AND commenter_id = ANY($2) AND comment_count >= $3
	`
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, postAuthorID, pq.Array(commenterIDs), model.TopCommenterThreshold)
	if err != nil {
		return nil, fmt.Errorf("get top commenters: %w", err)
	}

	for _, id := range ids {
		top[id] = true
	}
	return top, nil
}
