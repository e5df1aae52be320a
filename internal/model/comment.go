package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Moderation status values. Comments are approved by default; reports move
// them toward hidden only through an explicit post-author action.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusHidden   = "hidden"
)

// Comment constraints
const (
	// MaxCommentLength bounds comment bodies.
	MaxCommentLength = 5000

	// MaxCommentDepth is the deepest nesting level a comment may occupy.
	// A top-level comment sits at depth 1; replies below depth 5 are
	// rejected at creation time.
	MaxCommentDepth = 5
)

// Comment represents a comment on a post. Deletion is a soft delete: the row
// stays so descendants keep their place in the thread.
type Comment struct {
	ID        int64      `db:"id" json:"id"`
	PostID    int64      `db:"post_id" json:"post_id"`
	UserID    int64      `db:"user_id" json:"-"`
	ParentID  *int64     `db:"parent_id" json:"parent_id,omitempty"`
	Content   string     `db:"content" json:"content"`
	Status    string     `db:"status" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`

	// Joined fields
	Author            *UserSummary `json:"author,omitempty"`
	AuthorDeactivated bool         `db:"author_deactivated" json:"-"`
	PostAuthorID      int64        `db:"post_author_id" json:"-"`
}

// IsDeleted reports whether the comment has been soft-deleted.
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CommentNode is one node of an assembled thread: a visible comment plus
// its engagement metadata and visible replies.
type CommentNode struct {
	ID               int64          `json:"id"`
	Content          string         `json:"content"`
	Author           *UserSummary   `json:"author,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	LikeCount        int            `json:"like_count"`
	IsTopCommenter   bool           `json:"is_top_commenter"`
	Deleted          bool           `json:"deleted,omitempty"`
	ModerationStatus string         `json:"moderation_status,omitempty"` // only set for post author / admin
	Replies          []*CommentNode `json:"replies"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest is the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// RecentCommentsResponse is the paginated flat recent-comments response.
type RecentCommentsResponse struct {
	Comments   []*CommentNode `json:"comments"`
	NextCursor *string        `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

// ExtractMentions returns the distinct usernames referenced as @name tokens
// in a comment body, in order of first appearance.
func ExtractMentions(content string) []string {
	var names []string
	seen := make(map[string]bool)

	fields := strings.FieldsFunc(content, unicode.IsSpace)
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") || len(f) < 2 {
			continue
		}
		name := strings.TrimFunc(f[1:], func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Comment errors
var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentOwner  = errors.New("not the owner of this comment")
	ErrContentRequired  = errors.New("comment content is required")
	ErrContentTooLong   = errors.New("comment content too long")
	ErrParentMismatch   = errors.New("parent comment does not belong to this post")
	ErrMaxDepthExceeded = errors.New("maximum reply depth exceeded")
	ErrNotPostAuthor    = errors.New("must be the post author")
	ErrInvalidModAction = errors.New("must be approve or hide")
	ErrCommentDeleted   = errors.New("comment has been deleted")

	ErrInvalidStatusFilter = errors.New("status must be pending, approved or hidden")
)

// ModerationEntry is one comment in the moderation queue, annotated with the
// reports filed against it.
type ModerationEntry struct {
	Comment     Comment         `json:"comment"`
	ReportCount int             `json:"report_count"`
	Reports     []CommentReport `json:"reports,omitempty"`
}

// ModerateRequest is the request body for a moderation action.
type ModerateRequest struct {
	Action string `json:"action"`
}
