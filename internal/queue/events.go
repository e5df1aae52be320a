package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventCommentCreated = "comment_created"
	EventCommentLiked   = "comment_liked"
	EventPostLiked      = "post_liked"
	EventUserFollowed   = "user_followed"
)

// Stream names
const (
	StreamNotifications = "stream:notifications"
)

// Consumer group name for notification fan-out workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// ThreadEvent is one logical trigger for notification fan-out. Publishers
// emit it exactly once per mutation, after the owning transaction commits;
// the worker derives the recipient set from it.
type ThreadEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ActorID int64 `json:"actor_id"`

	// Comment / post context
	PostID       int64  `json:"post_id,omitempty"`
	PostAuthorID int64  `json:"post_author_id,omitempty"`
	CommentID    *int64 `json:"comment_id,omitempty"`

	// Reply context (CommentCreated on a non-top-level comment)
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
	ParentAuthorID  *int64 `json:"parent_author_id,omitempty"`

	// Users @mentioned in the comment body (CommentCreated)
	MentionIDs []int64 `json:"mention_ids,omitempty"`

	// Direct recipient (CommentLiked, UserFollowed)
	TargetUserID int64 `json:"target_user_id,omitempty"`
}

// NewCommentCreatedEvent builds the fan-out trigger for a new comment.
// parentAuthorID is nil for a top-level comment.
func NewCommentCreatedEvent(actorID, postID, postAuthorID, commentID int64, parentCommentID, parentAuthorID *int64, mentionIDs []int64) ThreadEvent {
	cid := commentID
	return ThreadEvent{
		Type:            EventCommentCreated,
		Timestamp:       time.Now().Unix(),
		ActorID:         actorID,
		PostID:          postID,
		PostAuthorID:    postAuthorID,
		CommentID:       &cid,
		ParentCommentID: parentCommentID,
		ParentAuthorID:  parentAuthorID,
		MentionIDs:      mentionIDs,
	}
}

// NewCommentLikedEvent notifies the comment's author of a like.
func NewCommentLikedEvent(actorID, postID, commentID, commentAuthorID int64) ThreadEvent {
	cid := commentID
	return ThreadEvent{
		Type:         EventCommentLiked,
		Timestamp:    time.Now().Unix(),
		ActorID:      actorID,
		PostID:       postID,
		CommentID:    &cid,
		TargetUserID: commentAuthorID,
	}
}

// NewPostLikedEvent notifies the post's author of a like.
func NewPostLikedEvent(actorID, postID, postAuthorID int64) ThreadEvent {
	return ThreadEvent{
		Type:         EventPostLiked,
		Timestamp:    time.Now().Unix(),
		ActorID:      actorID,
		PostID:       postID,
		PostAuthorID: postAuthorID,
		TargetUserID: postAuthorID,
	}
}

// NewUserFollowedEvent notifies the followee of a new follower.
func NewUserFollowedEvent(followerID, followeeID int64) ThreadEvent {
	return ThreadEvent{
		Type:         EventUserFollowed,
		Timestamp:    time.Now().Unix(),
		ActorID:      followerID,
		TargetUserID: followeeID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ThreadEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseThreadEvent parses a ThreadEvent from Redis stream message values.
func ParseThreadEvent(values map[string]interface{}) (ThreadEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ThreadEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ThreadEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ThreadEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
