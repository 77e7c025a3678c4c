package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// --- Mock ReviewRepository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByCompany(ctx context.Context, companyID string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, companyID, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

// --- Mock CompanyRepository ---

type mockCompanyRepository struct {
	mock.Mock
}

func (m *mockCompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *mockCompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *mockCompanyRepository) RecomputeScore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCompanyRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedAt)
	return args.Error(0)
}

// --- Test Helpers ---

type reviewServiceMocks struct {
	reviewRepo     *mockReviewRepository
	companyRepo    *mockCompanyRepository
	engagementRepo *mockEngagementRepository
	pool           pgxmock.PgxPoolIface
}

func newReviewService(t *testing.T) (*ReviewService, reviewServiceMocks) {
	t.Helper()
	pool, err := database.NewMockPool()
	require.NoError(t, err)

	m := reviewServiceMocks{
		reviewRepo:     new(mockReviewRepository),
		companyRepo:    new(mockCompanyRepository),
		engagementRepo: new(mockEngagementRepository),
		pool:           pool,
	}
	svc := NewReviewService(m.reviewRepo, m.companyRepo, m.engagementRepo, pool, newTestProducer(), newTestLogger())
	return svc, m
}

// --- CreateReview ---

func TestCreateReview_Success(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	m.pool.ExpectExec("INSERT INTO reviews").
		WithArgs(pgxmock.AnyArg(), "company-1", "user-1", "Great team", "Detail.",
			5, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	m.pool.ExpectExec("UPDATE companies SET total_reviews").
		WithArgs("company-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	m.pool.ExpectCommit()
	m.companyRepo.On("RecomputeScore", mock.Anything, "company-1").Return(nil)

	review, err := svc.CreateReview(context.Background(), &domain.Review{
		CompanyID: "company-1",
		UserID:    "user-1",
		Title:     "Great team",
		Content:   "Detail.",
		Score:     5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, m.pool.ExpectationsWereMet())
	m.companyRepo.AssertExpectations(t)
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	for _, score := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), &domain.Review{
			CompanyID: "company-1",
			UserID:    "user-1",
			Title:     "t",
			Score:     score,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "score %d", score)
	}
}

func TestCreateReview_CompanyMissing(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	m.pool.ExpectExec("INSERT INTO reviews").
		WithArgs(pgxmock.AnyArg(), "company-x", "user-1", "t", "",
			3, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	m.pool.ExpectExec("UPDATE companies SET total_reviews").
		WithArgs("company-x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	m.pool.ExpectRollback()

	_, err := svc.CreateReview(context.Background(), &domain.Review{
		CompanyID: "company-x",
		UserID:    "user-1",
		Title:     "t",
		Score:     3,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, m.pool.ExpectationsWereMet())
}

// --- GetReview ---

func TestGetReview_WithCallerStatus(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.reviewRepo.On("GetByID", mock.Anything, "review-1").
		Return(&domain.Review{ID: "review-1", TotalLike: 2}, nil)
	m.engagementRepo.On("GetStatus", mock.Anything, "user-1", "review-1").
		Return(domain.StatusLiked, nil)

	review, err := svc.GetReview(context.Background(), "review-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLiked, review.UserStatus)
	m.reviewRepo.AssertExpectations(t)
	m.engagementRepo.AssertExpectations(t)
}

func TestGetReview_AnonymousSkipsStatusLookup(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.reviewRepo.On("GetByID", mock.Anything, "review-1").
		Return(&domain.Review{ID: "review-1"}, nil)

	review, err := svc.GetReview(context.Background(), "review-1", "")
	require.NoError(t, err)
	assert.Empty(t, review.UserStatus)
	m.engagementRepo.AssertNotCalled(t, "GetStatus")
}

// --- ListCompanyReviews ---

func TestListCompanyReviews_AnnotatesStatuses(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	reviews := []domain.Review{{ID: "review-1"}, {ID: "review-2"}}
	m.reviewRepo.On("ListByCompany", mock.Anything, "company-1", 1, 20).
		Return(reviews, 2, nil)
	m.engagementRepo.On("GetStatusForReviews", mock.Anything, "user-1", []string{"review-1", "review-2"}).
		Return(map[string]domain.Status{"review-2": domain.StatusDisliked}, nil)

	result, total, err := svc.ListCompanyReviews(context.Background(), "company-1", "user-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, result[0].UserStatus)
	assert.Equal(t, domain.StatusDisliked, result[1].UserStatus)
}

// --- SoftDeleteReview ---

func TestSoftDeleteReview_Success(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	m.pool.ExpectQuery("UPDATE reviews SET is_deleted").
		WithArgs("review-1").
		WillReturnRows(pgxmock.NewRows([]string{"company_id"}).AddRow("company-1"))
	m.pool.ExpectExec("UPDATE companies SET total_reviews").
		WithArgs("company-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	m.pool.ExpectCommit()
	m.companyRepo.On("RecomputeScore", mock.Anything, "company-1").Return(nil)

	err := svc.SoftDeleteReview(context.Background(), "review-1")
	require.NoError(t, err)
	assert.NoError(t, m.pool.ExpectationsWereMet())
	m.companyRepo.AssertExpectations(t)
}

func TestSoftDeleteReview_AlreadyDeleted(t *testing.T) {
	svc, m := newReviewService(t)
	defer m.pool.Close()

	m.pool.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	m.pool.ExpectQuery("UPDATE reviews SET is_deleted").
		WithArgs("review-1").
		WillReturnError(pgx.ErrNoRows)
	m.pool.ExpectRollback()

	err := svc.SoftDeleteReview(context.Background(), "review-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, m.pool.ExpectationsWereMet())
}
