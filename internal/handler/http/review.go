package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/service"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
	"github.com/trongtuan99/review-company/pkg/httputil"
	"github.com/trongtuan99/review-company/pkg/validator"
)

// ReviewHandler handles HTTP requests for review and reaction endpoints.
type ReviewHandler struct {
	reviews     *service.ReviewService
	engagements *service.EngagementService
	logger      *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, engagements *service.EngagementService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:     reviews,
		engagements: engagements,
		logger:      logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content" validate:"max=10000"`
	Score       int    `json:"score" validate:"required,gte=1,lte=5"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// --- Handlers ---

// Like handles POST /api/v1/reviews/{reviewId}/like
func (h *ReviewHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, domain.StatusLiked)
}

// Dislike handles POST /api/v1/reviews/{reviewId}/dislike
func (h *ReviewHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, domain.StatusDisliked)
}

func (h *ReviewHandler) react(w http.ResponseWriter, r *http.Request, requested domain.Status) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	review, err := h.engagements.React(r.Context(), reviewID.String(), userID, requested)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// CreateReview handles POST /api/v1/companies/{companyId}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	companyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "companyId"))
	if !ok {
		return
	}

	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), &domain.Review{
		CompanyID:   companyID.String(),
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Score:       req.Score,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// GetReview handles GET /api/v1/reviews/{reviewId}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	review, err := h.reviews.GetReview(r.Context(), reviewID.String(), callerID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ListCompanyReviews handles GET /api/v1/companies/{companyId}/reviews
func (h *ReviewHandler) ListCompanyReviews(w http.ResponseWriter, r *http.Request) {
	companyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "companyId"))
	if !ok {
		return
	}

	page, perPage := parsePagination(r)

	reviews, total, err := h.reviews.ListCompanyReviews(r.Context(), companyID.String(), callerID(r), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: reviews,
		Meta: &httputil.Meta{Page: page, PerPage: perPage, Total: total},
	})
}

// DeleteReview handles DELETE /api/v1/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := httputil.ParseUUID(w, chi.URLParam(r, "reviewId"))
	if !ok {
		return
	}

	if err := h.reviews.SoftDeleteReview(r.Context(), reviewID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePagination reads page/per_page query parameters with defaults.
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
