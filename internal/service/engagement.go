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

// EngagementService applies user reactions to reviews and keeps the
// denormalized like/dislike counters consistent with the stored per-user
// statuses.
type EngagementService struct {
	engagementRepo repository.EngagementRepository
	pool           database.DBTX
	producer       *event.Producer
	logger         *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	pool database.DBTX,
	producer *event.Producer,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		engagementRepo: engagementRepo,
		pool:           pool,
		producer:       producer,
		logger:         logger,
	}
}

// React applies one user's reaction to one review and returns the review
// with updated counters and the caller's resulting status.
//
// The whole mutation runs in a single transaction holding a SELECT FOR
// UPDATE lock on the review row, so concurrent reactions to the same review
// serialize: each one reads fresh state, applies the state machine, and
// writes the engagement row and both counters atomically. Requesting the
// status already held toggles back to neutral, which also makes replayed
// bus deliveries safe without any dedup bookkeeping.
func (s *EngagementService) React(ctx context.Context, reviewID, userID string, requested domain.Status) (*domain.Review, error) {
	if requested != domain.StatusLiked && requested != domain.StatusDisliked {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid reaction %q", requested))
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin reaction transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the review row. Every reaction to this review queues behind the
	// lock, so the counters below are computed from current values.
	lockQuery := `
		SELECT company_id, user_id, title, content, score, is_anonymous,
		       total_like, total_dislike, total_reply, created_at
		FROM reviews
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`

	rv := domain.Review{ID: reviewID}
	err = tx.QueryRow(ctx, lockQuery, reviewID).Scan(
		&rv.CompanyID,
		&rv.UserID,
		&rv.Title,
		&rv.Content,
		&rv.Score,
		&rv.IsAnonymous,
		&rv.TotalLike,
		&rv.TotalDislike,
		&rv.TotalReply,
		&rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("lock review for reaction: %w", err)
	}

	// Read the caller's stored status under the same lock; a missing row
	// is neutral.
	current := domain.StatusNeutral
	statusQuery := `
		SELECT status
		FROM engagements
		WHERE user_id = $1 AND review_id = $2`

	err = tx.QueryRow(ctx, statusQuery, userID, reviewID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("read engagement status: %w", err)
	}

	next, delta := domain.Decide(current, requested)

	upsertQuery := `
		INSERT INTO engagements (id, user_id, review_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, review_id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = NOW()`

	_, err = tx.Exec(ctx, upsertQuery, uuid.New().String(), userID, reviewID, next)
	if err != nil {
		return nil, fmt.Errorf("upsert engagement: %w", err)
	}

	newLike := rv.TotalLike + delta.Like
	newDislike := rv.TotalDislike + delta.Dislike

	// A decrement below zero means the counter and the engagement rows
	// disagreed, which points at an upstream ordering anomaly rather than
	// anything this user did. Clamp and flag it.
	if newLike < 0 || newDislike < 0 {
		s.logger.WarnContext(ctx, "reaction counter clamped at zero",
			slog.String("review_id", reviewID),
			slog.String("user_id", userID),
			slog.Int("total_like", newLike),
			slog.Int("total_dislike", newDislike),
		)
		newLike = max(newLike, 0)
		newDislike = max(newDislike, 0)
	}

	updateQuery := `
		UPDATE reviews
		SET total_like = $1, total_dislike = $2, updated_at = NOW()
		WHERE id = $3`

	_, err = tx.Exec(ctx, updateQuery, newLike, newDislike, reviewID)
	if err != nil {
		return nil, fmt.Errorf("update review counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reaction transaction: %w", err)
	}

	rv.TotalLike = newLike
	rv.TotalDislike = newDislike
	rv.UserStatus = next
	rv.UpdatedAt = time.Now().UTC()

	// Best effort: the counters are committed, a lost event never undoes them.
	if err := s.producer.PublishEngagementUpdated(ctx, &rv, userID, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.engagement.updated event",
			slog.String("review_id", reviewID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "reaction applied",
		slog.String("review_id", reviewID),
		slog.String("user_id", userID),
		slog.String("from", string(current)),
		slog.String("to", string(next)),
		slog.Int("total_like", newLike),
		slog.Int("total_dislike", newDislike),
	)

	return &rv, nil
}

// Status returns the stored reaction of one user toward one review.
func (s *EngagementService) Status(ctx context.Context, userID, reviewID string) (domain.Status, error) {
	status, err := s.engagementRepo.GetStatus(ctx, userID, reviewID)
	if err != nil {
		return "", fmt.Errorf("get engagement status: %w", err)
	}
	return status, nil
}
