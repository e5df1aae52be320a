package model

import (
	"errors"
	"time"
)

// Notification types
const (
	NotificationTypeCommentReply   = "comment_reply"
	NotificationTypePostComment    = "post_comment"
	NotificationTypePostLike       = "post_like"
	NotificationTypeCommentLike    = "comment_like"
	NotificationTypeFollow         = "follow"
	NotificationTypePostMention    = "post_mention"
	NotificationTypeThreadActivity = "thread_activity"
)

// Notification represents a single notification record in the database.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`         // Recipient
	ActorID   int64     `db:"actor_id" json:"actor_id"` // Who triggered it
	Type      string    `db:"type" json:"type"`
	PostID    *int64    `db:"post_id" json:"post_id,omitempty"`
	CommentID *int64    `db:"comment_id" json:"comment_id,omitempty"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field for display
	Actor *UserSummary `json:"actor,omitempty"`
}

// NotificationListResponse is the paginated notification list response.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	NextCursor    *string        `json:"next_cursor,omitempty"`
	HasMore       bool           `json:"has_more"`
	UnreadCount   int            `json:"unread_count"`
}

// MarkReadRequest is the request body for marking notifications as read.
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)
