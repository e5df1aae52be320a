package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"inkpress/internal/model"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create inserts a subscription row. The composite primary key turns a
// duplicate subscribe into model.ErrAlreadySubscribed.
func (r *subscriptionRepository) Create(ctx context.Context, userID, commentID int64) error {
	query := `
		INSERT INTO comment_subscriptions (user_id, comment_id)
		VALUES ($1, $2)
	`
	_, err := r.db.ExecContext(ctx, query, userID, commentID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadySubscribed
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription. A missing row is NotFound, not a silent
// success.
func (r *subscriptionRepository) Delete(ctx context.Context, userID, commentID int64) error {
	query := `DELETE FROM comment_subscriptions WHERE user_id = $1 AND comment_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, commentID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, commentID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM comment_subscriptions WHERE user_id = $1 AND comment_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, commentID)
	if err != nil {
		return false, fmt.Errorf("check subscription existence: %w", err)
	}
	return exists, nil
}

func (r *subscriptionRepository) SubscriberIDs(ctx context.Context, commentID int64) ([]int64, error) {
	query := `SELECT user_id FROM comment_subscriptions WHERE comment_id = $1`
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, commentID)
	if err != nil {
		return nil, fmt.Errorf("get subscribers: %w", err)
	}
	return ids, nil
}
