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

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List handles GET /notifications
// Returns a page of the user's notifications plus the unread count.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	cursor := parseCursorParam(r)
	limit := parseLimitParam(r)

	resp, err := h.notificationService.List(r.Context(), userID, cursor, limit)
	if err != nil {
		log.Printf("[ERROR] List notifications handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// MarkRead handles PATCH /notifications/read
// Marks the given notifications as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), userID, req.NotificationIDs); err != nil {
		log.Printf("[ERROR] Mark read handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Notifications marked read",
	})
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.notificationService.MarkAllAsRead(r.Context(), userID); err != nil {
		log.Printf("[ERROR] Mark all read handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to mark notifications read")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "All notifications marked read",
	})
}

// Delete handles DELETE /notifications/{notificationId}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	notificationID, err := strconv.ParseInt(chi.URLParam(r, "notificationId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid notification ID")
		return
	}

	err = h.notificationService.Delete(r.Context(), userID, notificationID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotificationNotFound):
			httputil.WriteNotFound(w, "Notification not found")
		default:
			log.Printf("[ERROR] Delete notification handler: user=%d notification=%d err=%v", userID, notificationID, err)
			httputil.WriteInternalError(w, "Failed to delete notification")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Notification deleted",
	})
}

// ClearRead handles DELETE /notifications/read
// Removes all read notifications.
func (h *NotificationHandler) ClearRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	deleted, err := h.notificationService.ClearRead(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Clear read handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to clear notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{
		"deleted": deleted,
	})
}
