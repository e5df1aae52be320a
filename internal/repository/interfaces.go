package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"inkpress/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// GetIDsByUsernames resolves @mention usernames to user IDs. Unknown
	// names are silently skipped.
	GetIDsByUsernames(ctx context.Context, usernames []string) ([]int64, error)
	IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
	IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type FollowRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
}

type PostRepository interface {
	// GetByID returns post metadata (author, publication state, the
	// allow-comments gate). Soft-deleted posts are treated as absent.
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	Exists(ctx context.Context, postID int64) (bool, error)
	GetAuthorID(ctx context.Context, postID int64) (int64, error)
	Like(ctx context.Context, tx *sqlx.Tx, postID, userID int64) (bool, error)
	Unlike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error
	IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	Update(ctx context.Context, commentID, userID int64, content string) (*model.Comment, error)
	// SoftDelete marks the comment deleted and returns its post ID. The row
	// is kept so descendants stay attached to the thread.
	SoftDelete(ctx context.Context, tx *sqlx.Tx, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// Depth returns the nesting depth of a comment; a top-level comment has
	// depth 1.
	Depth(ctx context.Context, commentID int64) (int, error)
	// ThreadRoot returns the id of the top-level ancestor of a comment
	// (the comment itself when it is top-level).
	ThreadRoot(ctx context.Context, commentID int64) (int64, error)
	// GetTopLevel returns all top-level comments of a post, newest first,
	// with author info joined.
	GetTopLevel(ctx context.Context, postID int64) ([]model.Comment, error)
	// GetByParentIDs returns the direct children of the given comments in
	// one query, with author info joined.
	GetByParentIDs(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	// GetRecent returns top-level comments on published posts across all
	// posts, newest first, cursor-paginated.
	GetRecent(ctx context.Context, cursor *string, limit int) ([]model.Comment, *string, error)
	// GetByPostID returns all of a post's comments regardless of status,
	// optionally filtered by moderation status. Used by the moderation queue.
	GetByPostID(ctx context.Context, postID int64, statusFilter *string) ([]model.Comment, error)
	SetStatus(ctx context.Context, commentID int64, status string) error
	// CountLikesByCommentIDs returns like counts for the given comments in
	// one grouped query. Comments with no likes are absent from the map.
	CountLikesByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	Like(ctx context.Context, commentID, userID int64) (bool, error)
	Unlike(ctx context.Context, commentID, userID int64) error
}

type ReportRepository interface {
	// Create persists a pending report. A duplicate (comment, reporter)
	// pair fails with model.ErrAlreadyReported via the unique constraint.
	Create(ctx context.Context, commentID, reporterID int64, reason string) (*model.CommentReport, error)
	// GetByCommentIDs returns reports grouped by comment for queue display.
	GetByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64][]model.CommentReport, error)
	// List returns all reports with comment and reporter context, newest
	// first, cursor-paginated.
	List(ctx context.Context, cursor *string, limit int) ([]model.CommentReport, *string, error)
}

type StatsRepository interface {
	// Increment atomically upserts the (post author, commenter) row.
	Increment(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error
	// Decrement lowers the count, deleting the row when it reaches zero.
	// Absent rows are a no-op.
	Decrement(ctx context.Context, tx *sqlx.Tx, postAuthorID, commenterID int64) error
	Get(ctx context.Context, postAuthorID, commenterID int64) (*model.CommenterStats, error)
	// TopCommenters returns the subset of commenterIDs whose tracked count
	// against the post author has reached the badge threshold.
	TopCommenters(ctx context.Context, postAuthorID int64, commenterIDs []int64) (map[int64]bool, error)
}

type SubscriptionRepository interface {
	// Create inserts a subscription row; a duplicate fails with
	// model.ErrAlreadySubscribed via the primary key.
	Create(ctx context.Context, userID, commentID int64) error
	// Delete removes the subscription; a missing row fails with
	// model.ErrSubscriptionNotFound.
	Delete(ctx context.Context, userID, commentID int64) error
	Exists(ctx context.Context, userID, commentID int64) (bool, error)
	SubscriberIDs(ctx context.Context, commentID int64) ([]int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64, message string) error
	List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Notification, *string, error)
	GetUnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID, notificationID int64) error
	DeleteRead(ctx context.Context, userID int64) (int64, error)
}
