package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/event"
	"github.com/trongtuan99/review-company/internal/repository"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// ReviewService implements review creation, reads and soft deletion, keeping
// the owning company's total_reviews and avg_score in step.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	companyRepo    repository.CompanyRepository
	engagementRepo repository.EngagementRepository
	pool           database.DBTX
	producer       *event.Producer
	logger         *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	companyRepo repository.CompanyRepository,
	engagementRepo repository.EngagementRepository,
	pool database.DBTX,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		companyRepo:    companyRepo,
		engagementRepo: engagementRepo,
		pool:           pool,
		producer:       producer,
		logger:         logger,
	}
}

// CreateReview inserts a review and increments the company's total_reviews
// in one transaction, then recomputes the company's average score outside
// the transaction.
func (s *ReviewService) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if review.CompanyID == "" {
		return nil, apperrors.InvalidInput("company_id is required")
	}
	if review.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if review.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if review.Score < domain.MinScore || review.Score > domain.MaxScore {
		return nil, apperrors.InvalidInput(fmt.Sprintf("score must be between %d and %d", domain.MinScore, domain.MaxScore))
	}

	review.ID = uuid.New().String()
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin create review transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertQuery := `
		INSERT INTO reviews (id, company_id, user_id, title, content, score, is_anonymous, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, insertQuery,
		review.ID,
		review.CompanyID,
		review.UserID,
		review.Title,
		review.Content,
		review.Score,
		review.IsAnonymous,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	adjustQuery := `
		UPDATE companies
		SET total_reviews = total_reviews + 1, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`

	ct, err := tx.Exec(ctx, adjustQuery, review.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("increment company total reviews: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, apperrors.NotFound("company", review.CompanyID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create review transaction: %w", err)
	}

	s.recomputeScore(ctx, review.CompanyID)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("company_id", review.CompanyID),
		slog.Int("score", review.Score),
	)

	return review, nil
}

// GetReview retrieves a review. When userID is non-empty the caller's own
// reaction is attached so clients can render toggle state.
func (s *ReviewService) GetReview(ctx context.Context, id, userID string) (*domain.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	if userID != "" {
		status, err := s.engagementRepo.GetStatus(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("get reaction for review: %w", err)
		}
		review.UserStatus = status
	}

	return review, nil
}

// ListCompanyReviews returns a page of a company's reviews, each annotated
// with the caller's reaction when userID is non-empty.
func (s *ReviewService) ListCompanyReviews(ctx context.Context, companyID, userID string, page, perPage int) ([]domain.Review, int, error) {
	reviews, total, err := s.reviewRepo.ListByCompany(ctx, companyID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list company reviews: %w", err)
	}

	if userID != "" && len(reviews) > 0 {
		ids := make([]string, len(reviews))
		for i := range reviews {
			ids[i] = reviews[i].ID
		}

		statuses, err := s.engagementRepo.GetStatusForReviews(ctx, userID, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("get reactions for reviews: %w", err)
		}
		for i := range reviews {
			if status, ok := statuses[reviews[i].ID]; ok {
				reviews[i].UserStatus = status
			}
		}
	}

	return reviews, total, nil
}

// SoftDeleteReview marks the review deleted and decrements the company's
// total_reviews in one transaction, then recomputes the average. The review
// keeps its engagement and reply rows until the lifecycle sweep purges it.
func (s *ReviewService) SoftDeleteReview(ctx context.Context, id string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin delete review transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleteQuery := `
		UPDATE reviews
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING company_id`

	var companyID string
	err = tx.QueryRow(ctx, deleteQuery, id).Scan(&companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("soft delete review: %w", err)
	}

	adjustQuery := `
		UPDATE companies
		SET total_reviews = GREATEST(total_reviews - 1, 0), updated_at = NOW()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, adjustQuery, companyID); err != nil {
		return fmt.Errorf("decrement company total reviews: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete review transaction: %w", err)
	}

	s.recomputeScore(ctx, companyID)

	if err := s.producer.PublishReviewDeleted(ctx, id, companyID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review soft deleted",
		slog.String("review_id", id),
		slog.String("company_id", companyID),
	)

	return nil
}

// RecomputeCompanyScore rederives the company's average score from its
// surviving reviews. Safe to call any number of times.
func (s *ReviewService) RecomputeCompanyScore(ctx context.Context, companyID string) error {
	if err := s.companyRepo.RecomputeScore(ctx, companyID); err != nil {
		return fmt.Errorf("recompute company score: %w", err)
	}
	return nil
}

// recomputeScore is the best-effort variant used after commits: the review
// mutation already landed, so a failed recompute is logged and left for the
// next mutation (or a manual call) to repair.
func (s *ReviewService) recomputeScore(ctx context.Context, companyID string) {
	if err := s.companyRepo.RecomputeScore(ctx, companyID); err != nil {
		s.logger.ErrorContext(ctx, "failed to recompute company score",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
	}
}
