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
	"github.com/trongtuan99/review-company/internal/repository"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// ReplyService implements reply creation, editing and removal. Creating and
// removing a reply adjusts the owning review's total_reply in the same
// transaction as the reply row itself.
type ReplyService struct {
	replyRepo repository.ReplyRepository
	pool      database.DBTX
	logger    *slog.Logger
}

// NewReplyService creates a new reply service.
func NewReplyService(replyRepo repository.ReplyRepository, pool database.DBTX, logger *slog.Logger) *ReplyService {
	return &ReplyService{
		replyRepo: replyRepo,
		pool:      pool,
		logger:    logger,
	}
}

// AddReply inserts a reply and increments the review's total_reply in one
// transaction.
func (s *ReplyService) AddReply(ctx context.Context, reviewID, userID, content string) (*domain.Reply, error) {
	if content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin add reply transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the review so the counter moves with the row insert.
	lockQuery := `
		SELECT total_reply
		FROM reviews
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`

	var totalReply int
	if err := tx.QueryRow(ctx, lockQuery, reviewID).Scan(&totalReply); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, fmt.Errorf("lock review for reply: %w", err)
	}

	now := time.Now().UTC()
	reply := &domain.Reply{
		ID:        uuid.New().String(),
		ReviewID:  reviewID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertQuery := `
		INSERT INTO replies (id, review_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.Exec(ctx, insertQuery,
		reply.ID,
		reply.ReviewID,
		reply.UserID,
		reply.Content,
		reply.CreatedAt,
		reply.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reply: %w", err)
	}

	counterQuery := `
		UPDATE reviews
		SET total_reply = $1, updated_at = NOW()
		WHERE id = $2`

	if _, err := tx.Exec(ctx, counterQuery, totalReply+1, reviewID); err != nil {
		return nil, fmt.Errorf("increment reply counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add reply transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "reply added",
		slog.String("reply_id", reply.ID),
		slog.String("review_id", reviewID),
		slog.Int("total_reply", totalReply+1),
	)

	return reply, nil
}

// EditReply replaces a reply's content and marks it edited. Only the author
// may edit; the reply counter never moves on edits.
func (s *ReplyService) EditReply(ctx context.Context, replyID, userID, content string) (*domain.Reply, error) {
	if content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, fmt.Errorf("get reply for edit: %w", err)
	}
	if reply.UserID != userID {
		return nil, apperrors.Forbidden("only the author can edit a reply")
	}

	now := time.Now().UTC()
	if err := s.replyRepo.Edit(ctx, replyID, content, now); err != nil {
		return nil, fmt.Errorf("edit reply: %w", err)
	}

	reply.Content = content
	reply.IsEdited = true
	reply.UpdatedAt = now

	return reply, nil
}

// RemoveReply deletes a reply and decrements the review's total_reply in one
// transaction. Only the author may remove their reply.
func (s *ReplyService) RemoveReply(ctx context.Context, replyID, userID string) error {
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return fmt.Errorf("get reply for removal: %w", err)
	}
	if reply.UserID != userID {
		return apperrors.Forbidden("only the author can remove a reply")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin remove reply transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lockQuery := `
		SELECT total_reply
		FROM reviews
		WHERE id = $1
		FOR UPDATE`

	var totalReply int
	if err := tx.QueryRow(ctx, lockQuery, reply.ReviewID).Scan(&totalReply); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", reply.ReviewID)
		}
		return fmt.Errorf("lock review for reply removal: %w", err)
	}

	deleteQuery := `DELETE FROM replies WHERE id = $1`

	ct, err := tx.Exec(ctx, deleteQuery, replyID)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("reply", replyID)
	}

	newTotal := totalReply - 1
	if newTotal < 0 {
		s.logger.WarnContext(ctx, "reply counter clamped at zero",
			slog.String("review_id", reply.ReviewID),
			slog.String("reply_id", replyID),
		)
		newTotal = 0
	}

	counterQuery := `
		UPDATE reviews
		SET total_reply = $1, updated_at = NOW()
		WHERE id = $2`

	if _, err := tx.Exec(ctx, counterQuery, newTotal, reply.ReviewID); err != nil {
		return fmt.Errorf("decrement reply counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove reply transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "reply removed",
		slog.String("reply_id", replyID),
		slog.String("review_id", reply.ReviewID),
		slog.Int("total_reply", newTotal),
	)

	return nil
}

// ListReplies returns a page of a review's replies, oldest first.
func (s *ReplyService) ListReplies(ctx context.Context, reviewID string, page, perPage int) ([]domain.Reply, int, error) {
	replies, total, err := s.replyRepo.ListByReview(ctx, reviewID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies: %w", err)
	}
	return replies, total, nil
}
