package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkpress/internal/model"
	"inkpress/internal/queue"
)

// SubscriberProvider resolves thread subscriptions. Abstracts the repository
// layer so the worker doesn't depend on the DB directly.
type SubscriberProvider interface {
	// SubscriberIDs returns the users subscribed to a thread root.
	SubscriberIDs(ctx context.Context, commentID int64) ([]int64, error)
}

// ThreadResolver resolves a comment to its thread root.
type ThreadResolver interface {
	ThreadRoot(ctx context.Context, commentID int64) (int64, error)
}

// NotificationCreator persists one notification per recipient. Expected to
// skip self-notifications (recipient == actor).
type NotificationCreator interface {
	CreateNotification(ctx context.Context, userID, actorID int64, notifType string, postID, commentID *int64) error
}

// Handler turns thread events into per-recipient notification records.
type Handler struct {
	subscribers  SubscriberProvider
	threads      ThreadResolver
	notifCreator NotificationCreator
}

// NewHandler creates a new event handler.
func NewHandler(subscribers SubscriberProvider, threads ThreadResolver, notifCreator NotificationCreator) *Handler {
	return &Handler{
		subscribers:  subscribers,
		threads:      threads,
		notifCreator: notifCreator,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ThreadEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventCommentCreated:
		err = h.handleCommentCreated(ctx, event)
	case queue.EventCommentLiked:
		err = h.notifCreator.CreateNotification(ctx, event.TargetUserID, event.ActorID, model.NotificationTypeCommentLike, idPtr(event.PostID), event.CommentID)
	case queue.EventPostLiked:
		err = h.notifCreator.CreateNotification(ctx, event.TargetUserID, event.ActorID, model.NotificationTypePostLike, idPtr(event.PostID), nil)
	case queue.EventUserFollowed:
		err = h.notifCreator.CreateNotification(ctx, event.TargetUserID, event.ActorID, model.NotificationTypeFollow, nil, nil)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleCommentCreated fans one comment out to its recipient set: thread
// subscribers, the parent comment's author on a direct reply, the post
// author on a top-level comment, and any @mentioned users. The actor never
// notifies themselves; when a recipient qualifies under several rules the
// most specific notification type wins (reply beats subscription activity).
func (h *Handler) handleCommentCreated(ctx context.Context, event queue.ThreadEvent) error {
	if event.CommentID == nil {
		return fmt.Errorf("comment_created event missing comment id")
	}

	log.Printf("[Worker] CommentCreated: comment=%d post=%d actor=%d", *event.CommentID, event.PostID, event.ActorID)

	// recipient -> notification type, least specific assigned first
	recipients := make(map[int64]string)

	root, err := h.threads.ThreadRoot(ctx, *event.CommentID)
	if err != nil {
		return fmt.Errorf("resolve thread root: %w", err)
	}

	subscriberIDs, err := h.subscribers.SubscriberIDs(ctx, root)
	if err != nil {
		return fmt.Errorf("get subscribers: %w", err)
	}
	for _, id := range subscriberIDs {
		recipients[id] = model.NotificationTypeThreadActivity
	}

	for _, id := range event.MentionIDs {
		recipients[id] = model.NotificationTypePostMention
	}

	if event.ParentAuthorID != nil {
		recipients[*event.ParentAuthorID] = model.NotificationTypeCommentReply
	} else {
		recipients[event.PostAuthorID] = model.NotificationTypePostComment
	}

	delete(recipients, event.ActorID)

	var failCount int
	for userID, notifType := range recipients {
		err := h.notifCreator.CreateNotification(ctx, userID, event.ActorID, notifType, idPtr(event.PostID), event.CommentID)
		if err != nil {
			log.Printf("[Worker] CommentCreated: failed to notify user=%d err=%v", userID, err)
			failCount++
			// Keep going - one failed recipient doesn't fail the fan-out
		}
	}

	log.Printf("[Worker] CommentCreated DONE: comment=%d recipients=%d failed=%d",
		*event.CommentID, len(recipients), failCount)

	if failCount == len(recipients) && failCount > 0 {
		return fmt.Errorf("all %d notifications failed", failCount)
	}
	return nil
}

func idPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
