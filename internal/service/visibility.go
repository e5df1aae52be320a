package service

import "inkpress/internal/model"

// Visibility is a pure policy over a comment's moderation status, its
// author's account state and the viewer's identity. It is applied per node
// during thread assembly rather than filtering post-hoc: a hidden parent
// must not suppress independently visible children.
//
// Rules:
//   - approved comments are visible to everyone
//   - hidden comments are visible only to the post author and admins,
//     including being invisible to the comment's own author
//   - pending comments are visible to their own author, the post author
//     and admins
//   - comments by deactivated accounts are visible only to admins

// CommentVisible reports whether the viewer may see the comment.
func CommentVisible(c *model.Comment, viewer model.Viewer, postAuthorID int64) bool {
	if c.AuthorDeactivated && !viewer.IsAdmin() {
		return false
	}

	if viewer.IsAdmin() {
		return true
	}
	isPostAuthor := viewer.Authenticated && viewer.ID == postAuthorID

	switch c.Status {
	case model.StatusApproved:
		return true
	case model.StatusHidden:
		return isPostAuthor
	case model.StatusPending:
		return isPostAuthor || (viewer.Authenticated && viewer.ID == c.UserID)
	default:
		return false
	}
}

// ExposeModerationStatus reports whether moderation metadata is revealed to
// the viewer alongside the comment.
func ExposeModerationStatus(viewer model.Viewer, postAuthorID int64) bool {
	if viewer.IsAdmin() {
		return true
	}
	return viewer.Authenticated && viewer.ID == postAuthorID
}
