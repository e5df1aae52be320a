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

type ModerationHandler struct {
	moderationService *service.ModerationService
}

func NewModerationHandler(moderationService *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
	}
}

// Moderate handles POST /comments/{commentId}/moderate
// Applies an approve or hide action. Post author only.
func (h *ModerationHandler) Moderate(w http.ResponseWriter, r *http.Request) {
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

	var req model.ModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.moderationService.Moderate(r.Context(), commentID, viewer, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotPostAuthor):
			httputil.WriteForbidden(w, "Only the post author can moderate comments")
		case errors.Is(err, model.ErrInvalidModAction):
			httputil.WriteValidation(w, "Action must be approve or hide")
		default:
			log.Printf("[ERROR] Moderate handler: user=%d comment=%d err=%v", viewer.ID, commentID, err)
			httputil.WriteInternalError(w, "Failed to moderate comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comment)
}

// Queue handles GET /posts/{id}/moderation
// Returns the post's comments with report annotations. Post author only.
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if !viewer.Authenticated {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var statusFilter *string
	if s := r.URL.Query().Get("status"); s != "" {
		statusFilter = &s
	}

	entries, err := h.moderationService.Queue(r.Context(), postID, viewer, statusFilter)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostAuthor):
			httputil.WriteForbidden(w, "Only the post author can view the moderation queue")
		case errors.Is(err, model.ErrInvalidStatusFilter):
			httputil.WriteValidation(w, "Status must be pending, approved or hidden")
		default:
			log.Printf("[ERROR] Moderation queue handler: user=%d post=%d err=%v", viewer.ID, postID, err)
			httputil.WriteInternalError(w, "Failed to load moderation queue")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
