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

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Create handles POST /comments/{commentId}/report
// Files a report against a comment for the authenticated user.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.ReportCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	report, err := h.reportService.Report(r.Context(), commentID, userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrReasonLength):
			httputil.WriteValidation(w, "Reason must be between 5 and 500 characters")
		case errors.Is(err, model.ErrAlreadyReported):
			httputil.WriteConflict(w, "You have already reported this comment")
		default:
			log.Printf("[ERROR] Create report handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to report comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, report)
}

// List handles GET /admin/reports
// Returns the report ledger, newest first. Admin only.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if !viewer.Authenticated {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	cursor := parseCursorParam(r)
	limit := parseLimitParam(r)

	reports, nextCursor, err := h.reportService.List(r.Context(), viewer, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAdminOnly):
			httputil.WriteForbidden(w, "Admin access required")
		default:
			log.Printf("[ERROR] List reports handler: user=%d err=%v", viewer.ID, err)
			httputil.WriteInternalError(w, "Failed to list reports")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports":     reports,
		"next_cursor": nextCursor,
		"has_more":    nextCursor != nil,
	})
}
