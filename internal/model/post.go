package model

import (
	"errors"
	"time"
)

// Post is the minimal post shape the comment subsystem needs: existence,
// authorship, publication state and the allow-comments gate. Post CRUD
// itself lives outside this service.
type Post struct {
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Title         string     `db:"title" json:"title"`
	Published     bool       `db:"published" json:"published"`
	AllowComments bool       `db:"allow_comments" json:"allow_comments"`
	LikeCount     int        `db:"like_count" json:"like_count"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

var (
	// ErrPostNotFound is returned when a post does not exist or is deleted
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentsDisabled is returned when commenting is turned off for a post
	ErrCommentsDisabled = errors.New("comments are disabled for this post")

	// ErrAlreadyLiked is returned on a duplicate like
	ErrAlreadyLiked = errors.New("already liked")

	// ErrNotLiked is returned when removing a like that does not exist
	ErrNotLiked = errors.New("not liked")
)
