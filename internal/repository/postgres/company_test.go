package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

func setupCompanyRepo(t *testing.T) (*CompanyRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCompanyRepository(mock)
	return repo, mock
}

var companyColumns = []string{
	"id", "name", "owner", "company_type", "total_reviews", "avg_score",
	"created_at", "updated_at",
}

func sampleCompany() domain.Company {
	avg := 4.25
	return domain.Company{
		ID:           "company-1",
		Name:         "Acme Corp",
		Owner:        "user-9",
		CompanyType:  domain.CompanyTypePersonal,
		TotalReviews: 12,
		AvgScore:     &avg,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCompanyRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	c := sampleCompany()
	mock.ExpectQuery("SELECT .+ FROM companies WHERE").
		WithArgs(c.ID).
		WillReturnRows(
			pgxmock.NewRows(companyColumns).
				AddRow(c.ID, c.Name, c.Owner, c.CompanyType, c.TotalReviews,
					c.AvgScore, c.CreatedAt, c.UpdatedAt),
		)

	result, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, c.TotalReviews, result.TotalReviews)
	require.NotNil(t, result.AvgScore)
	assert.InDelta(t, 4.25, *result.AvgScore, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_GetByID_NullAvgScore(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	c := sampleCompany()
	mock.ExpectQuery("SELECT .+ FROM companies WHERE").
		WithArgs(c.ID).
		WillReturnRows(
			pgxmock.NewRows(companyColumns).
				AddRow(c.ID, c.Name, c.Owner, c.CompanyType, 0,
					(*float64)(nil), c.CreatedAt, c.UpdatedAt),
		)

	result, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, result.AvgScore)
	assert.Zero(t, result.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM companies WHERE").
		WithArgs("company-x").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "company-x")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_RecomputeScore_Success(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE companies SET avg_score").
		WithArgs("company-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.RecomputeScore(context.Background(), "company-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_RecomputeScore_Error(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE companies SET avg_score").
		WithArgs("company-1").
		WillReturnError(errors.New("db write error"))

	err := repo.RecomputeScore(context.Background(), "company-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recompute company score")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_SoftDelete_Success(t *testing.T) {
	repo, mock := setupCompanyRepo(t)
	defer mock.Close()

	deletedAt := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE companies SET is_deleted").
		WithArgs(deletedAt, "company-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SoftDelete(context.Background(), "company-1", deletedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
