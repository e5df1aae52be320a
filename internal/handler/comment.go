package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/httputil"
	"inkpress/internal/model"
	"inkpress/internal/service"
	"inkpress/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
	threadService  *service.ThreadService
}

func NewCommentHandler(commentService *service.CommentService, threadService *service.ThreadService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		threadService:  threadService,
	}
}

// Create handles POST /posts/{id}/comments
// Creates a comment (or reply) on a post for the authenticated user.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), postID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrCommentsDisabled):
			httputil.WriteForbidden(w, "Comments are disabled for this post")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteValidation(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteValidation(w, "Comment content too long")
		case errors.Is(err, model.ErrParentMismatch):
			httputil.WriteValidation(w, "Parent comment does not belong to this post")
		case errors.Is(err, model.ErrCommentDeleted):
			httputil.WriteValidation(w, "Cannot reply to a deleted comment")
		case errors.Is(err, model.ErrMaxDepthExceeded):
			httputil.WriteValidation(w, "Maximum reply depth exceeded")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// GetThread handles GET /posts/{id}/comments
// Returns the assembled comment tree of a post as seen by the viewer.
func (h *CommentHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	viewer := middleware.GetViewer(r.Context())

	thread, err := h.threadService.GetThread(r.Context(), postID, viewer)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			log.Printf("[ERROR] Get thread handler: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to load comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"comments": thread,
	})
}

// GetRecent handles GET /comments/recent
// Returns the site-wide recent comments feed.
func (h *CommentHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	cursor := parseCursorParam(r)
	limit := parseLimitParam(r)

	resp, err := h.threadService.GetRecent(r.Context(), viewer, cursor, limit)
	if err != nil {
		log.Printf("[ERROR] Get recent comments handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load recent comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /comments/{commentId}
// Updates a comment's content (only the author can update).
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req model.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrCommentDeleted):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only edit your own comments")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteValidation(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteValidation(w, "Comment content too long")
		default:
			log.Printf("[ERROR] Update comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to update comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{commentId}
// Soft-deletes a comment. The author or the post author can delete.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if !viewer.Authenticated {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	err = h.commentService.Delete(r.Context(), commentID, viewer)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			log.Printf("[ERROR] Delete comment handler: user=%d comment=%d err=%v", viewer.ID, commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}

// Like handles POST /comments/{commentId}/like
func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	err = h.commentService.Like(r.Context(), commentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteConflict(w, "Already liked")
		default:
			log.Printf("[ERROR] Like comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to like comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment liked",
	})
}

// Unlike handles DELETE /comments/{commentId}/like
func (h *CommentHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	err = h.commentService.Unlike(r.Context(), commentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteNotFound(w, "Like not found")
		default:
			log.Printf("[ERROR] Unlike comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to unlike comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Like removed",
	})
}

// parseCursorParam reads the optional cursor query parameter.
func parseCursorParam(r *http.Request) *string {
	if c := r.URL.Query().Get("cursor"); c != "" {
		return &c
	}
	return nil
}

// parseLimitParam reads the optional limit query parameter; 0 means default.
func parseLimitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}
