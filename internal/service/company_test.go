package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trongtuan99/review-company/internal/domain"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

func TestCreateCompany_Success(t *testing.T) {
	repo := new(mockCompanyRepository)
	svc := NewCompanyService(repo, newTestLogger())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
		return c.ID != "" && c.TotalReviews == 0 && c.AvgScore == nil
	})).Return(nil)

	company, err := svc.CreateCompany(context.Background(), &domain.Company{Name: "Acme Corp"})
	require.NoError(t, err)
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, domain.CompanyTypeUnknown, company.CompanyType)
	assert.Nil(t, company.AvgScore)
	repo.AssertExpectations(t)
}

func TestCreateCompany_MissingName(t *testing.T) {
	repo := new(mockCompanyRepository)
	svc := NewCompanyService(repo, newTestLogger())

	_, err := svc.CreateCompany(context.Background(), &domain.Company{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestSoftDeleteCompany_Success(t *testing.T) {
	repo := new(mockCompanyRepository)
	svc := NewCompanyService(repo, newTestLogger())

	repo.On("SoftDelete", mock.Anything, "company-1", mock.Anything).Return(nil)

	err := svc.SoftDeleteCompany(context.Background(), "company-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSoftDeleteCompany_NotFound(t *testing.T) {
	repo := new(mockCompanyRepository)
	svc := NewCompanyService(repo, newTestLogger())

	repo.On("SoftDelete", mock.Anything, "company-x", mock.Anything).
		Return(apperrors.NotFound("company", "company-x"))

	err := svc.SoftDeleteCompany(context.Background(), "company-x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
