package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/repository"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// CompanyService implements company creation, reads and soft deletion.
type CompanyService struct {
	companyRepo repository.CompanyRepository
	logger      *slog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo repository.CompanyRepository, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// CreateCompany inserts a new company with zero reviews and no score.
func (s *CompanyService) CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	if company.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if company.CompanyType == "" {
		company.CompanyType = domain.CompanyTypeUnknown
	}

	company.ID = uuid.New().String()
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	company.TotalReviews = 0
	company.AvgScore = nil

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	s.logger.InfoContext(ctx, "company created",
		slog.String("company_id", company.ID),
		slog.String("name", company.Name),
	)

	return company, nil
}

// GetCompany retrieves a non-deleted company.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return company, nil
}

// SoftDeleteCompany marks a company deleted. Its reviews stay in place until
// the lifecycle sweep purges the company and cascades through them.
func (s *CompanyService) SoftDeleteCompany(ctx context.Context, id string) error {
	if err := s.companyRepo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("soft delete company: %w", err)
	}

	s.logger.InfoContext(ctx, "company soft deleted", slog.String("company_id", id))
	return nil
}
