package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"inkpress/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64, message string) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, post_id, comment_id, message)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, userID, actorID, notifType, postID, commentID, message)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns a user's notifications, newest first, with actor info.
func (r *notificationRepository) List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Notification, *string, error) {
	type notifRow struct {
		ID             int64     `db:"id"`
		UserID         int64     `db:"user_id"`
		ActorID        int64     `db:"actor_id"`
		Type           string    `db:"type"`
		PostID         *int64    `db:"post_id"`
		CommentID      *int64    `db:"comment_id"`
		Message        string    `db:"message"`
		IsRead         bool      `db:"is_read"`
		CreatedAt      time.Time `db:"created_at"`
		ActorIDJoined  int64     `db:"actor.id"`
		ActorUsername  string    `db:"actor.username"`
		ActorDisplay   *string   `db:"actor.display_name"`
		ActorAvatarURL *string   `db:"actor.avatar_url"`
	}

	base := `
		SELECT n.id, n.user_id, n.actor_id, n.type, n.post_id, n.comment_id, n.message, n.is_read, n.created_at,
		       u.id AS "actor.id", u.username AS "actor.username",
		       u.display_name AS "actor.display_name", u.avatar_url AS "actor.avatar_url"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.user_id = $1
	`

	var query string
	var args []interface{}
	if cursor == nil {
		query = base + `
			ORDER BY n.created_at DESC, n.id DESC
			LIMIT $2
		`
		args = []interface{}{userID, limit + 1}
	} else {
		ts, id, err := parseCommentCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query = base + `
			AND (n.created_at, n.id) < ($2, $3)
			ORDER BY n.created_at DESC, n.id DESC
			LIMIT $4
		`
		args = []interface{}{userID, ts, id, limit + 1}
	}

	var rows []notifRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = model.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			ActorID:   row.ActorID,
			Type:      row.Type,
			PostID:    row.PostID,
			CommentID: row.CommentID,
			Message:   row.Message,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
			Actor: &model.UserSummary{
				ID:          row.ActorIDJoined,
				Username:    row.ActorUsername,
				DisplayName: row.ActorDisplay,
				AvatarURL:   row.ActorAvatarURL,
			},
		}
	}

	var nextCursor *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		c := formatCommentCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return notifications, nextCursor, nil
}

// GetUnreadCount returns the count of unread notifications.
func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("get unread count: %w", err)
	}
	return count, nil
}

// MarkAsRead marks specific notifications as read. Scoped to the owner so a
// user cannot flip other users' notifications.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND id = ANY($2)
	`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(notificationIDs))
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all notifications for a user as read.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete removes a single notification owned by the user.
func (r *notificationRepository) Delete(ctx context.Context, userID, notificationID int64) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotificationNotFound
	}
	return nil
}

// DeleteRead clears all read notifications for a user.
func (r *notificationRepository) DeleteRead(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM notifications WHERE user_id = $1 AND is_read`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return result.RowsAffected()
}
