package model

import (
	"errors"
	"time"
)

// CommentSubscription is a per-(user, thread) opt-in to activity
// notifications. The comment reference is always the thread root; the
// composite primary key makes duplicate subscriptions a storage-level
// conflict.
type CommentSubscription struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	CommentID int64     `db:"comment_id" json:"comment_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subscription errors
var (
	ErrAlreadySubscribed    = errors.New("already subscribed to this thread")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
