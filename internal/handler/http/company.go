package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/service"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
	"github.com/trongtuan99/review-company/pkg/httputil"
	"github.com/trongtuan99/review-company/pkg/validator"
)

// CompanyHandler handles HTTP requests for company endpoints.
type CompanyHandler struct {
	companies *service.CompanyService
	logger    *slog.Logger
}

// NewCompanyHandler creates a new company HTTP handler.
func NewCompanyHandler(companies *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		logger:    logger,
	}
}

// CreateCompanyRequest is the JSON request body for creating a company.
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	CompanyType string `json:"company_type" validate:"omitempty,oneof=unknown personal government"`
}

// CreateCompany handles POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		httputil.WriteError(w, r, apperrors.Unauthorized("X-User-ID header is required"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateCompanyRequest
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

	company, err := h.companies.CreateCompany(r.Context(), &domain.Company{
		Name:        req.Name,
		Owner:       userID,
		CompanyType: req.CompanyType,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: company})
}

// GetCompany handles GET /api/v1/companies/{companyId}
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "companyId"))
	if !ok {
		return
	}

	company, err := h.companies.GetCompany(r.Context(), companyID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: company})
}

// DeleteCompany handles DELETE /api/v1/companies/{companyId}
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := httputil.ParseUUID(w, chi.URLParam(r, "companyId"))
	if !ok {
		return
	}

	if err := h.companies.SoftDeleteCompany(r.Context(), companyID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
