package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trongtuan99/review-company/internal/service"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
	"github.com/trongtuan99/review-company/pkg/httputil"
	"github.com/trongtuan99/review-company/pkg/validator"
)

// ReplyHandler handles HTTP requests for reply endpoints.
type ReplyHandler struct {
	replies *service.ReplyService
	logger  *slog.Logger
}

// NewReplyHandler creates a new reply HTTP handler.
func NewReplyHandler(replies *service.ReplyService, logger *slog.Logger) *ReplyHandler {
	return &ReplyHandler{
		replies: replies,
		logger:  logger,
	}
}

// ReplyRequest is the JSON request body for creating or editing a reply.
type ReplyRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CreateReply handles POST /api/v1/reviews/{reviewId}/replies
func (h *ReplyHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	req, ok := h.decodeReplyRequest(w, r)
	if !ok {
		return
	}

	reply, err := h.replies.AddReply(r.Context(), reviewID.String(), userID, req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: reply})
}

// ListReplies handles GET /api/v1/reviews/{reviewId}/replies
func (h *ReplyHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	replies, total, err := h.replies.ListReplies(r.Context(), reviewID.String(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: replies,
		Meta: &httputil.Meta{Page: page, PerPage: perPage, Total: total},
	})
}

// EditReply handles PUT /api/v1/replies/{replyId}
func (h *ReplyHandler) EditReply(w http.ResponseWriter, r *http.Request) {
	replyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "replyId"))
	if !ok {
		return
	}

	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	req, ok := h.decodeReplyRequest(w, r)
	if !ok {
		return
	}

	reply, err := h.replies.EditReply(r.Context(), replyID.String(), userID, req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reply})
}

// DeleteReply handles DELETE /api/v1/replies/{replyId}
func (h *ReplyHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	replyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "replyId"))
	if !ok {
		return
	}

	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	if err := h.replies.RemoveReply(r.Context(), replyID.String(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReplyHandler) decodeReplyRequest(w http.ResponseWriter, r *http.Request) (ReplyRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return req, false
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return req, false
	}

	return req, true
}
