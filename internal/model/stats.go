package model

import "time"

// TopCommenterThreshold is the tracked-comment count at which a commenter
// earns the top-commenter badge against a specific post author.
const TopCommenterThreshold = 5

// CommenterStats is the running comment count for one commenter against one
// post author. Rows are created on first tracked comment, incremented and
// decremented in the same transaction as the comment mutation, and deleted
// outright when the count returns to zero. Self-comments are never tracked.
type CommenterStats struct {
	PostAuthorID  int64     `db:"post_author_id" json:"post_author_id"`
	CommenterID   int64     `db:"commenter_id" json:"commenter_id"`
	CommentCount  int       `db:"comment_count" json:"comment_count"`
	LastCommentAt time.Time `db:"last_comment_at" json:"last_comment_at"`
}

// IsTopCommenter reports whether the tracked count has reached the badge
// threshold.
func (s *CommenterStats) IsTopCommenter() bool {
	return s.CommentCount >= TopCommenterThreshold
}
