package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// ReplyRepository implements repository.ReplyRepository using PostgreSQL.
// Creating and destroying replies happens inside the reply-counter
// transaction in the service layer; this repository serves reads and edits.
type ReplyRepository struct {
	pool database.DBTX
}

// NewReplyRepository creates a new PostgreSQL-backed reply repository.
func NewReplyRepository(pool database.DBTX) *ReplyRepository {
	return &ReplyRepository{pool: pool}
}

// GetByID retrieves a reply by its unique identifier.
func (r *ReplyRepository) GetByID(ctx context.Context, id string) (*domain.Reply, error) {
	query := `
		SELECT id, review_id, user_id, content, is_edited, created_at, updated_at
		FROM replies
		WHERE id = $1`

	var rp domain.Reply
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rp.ID,
		&rp.ReviewID,
		&rp.UserID,
		&rp.Content,
		&rp.IsEdited,
		&rp.CreatedAt,
		&rp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get reply by id: %w", err)
	}

	return &rp, nil
}

// ListByReview returns replies for a review, oldest first.
func (r *ReplyRepository) ListByReview(ctx context.Context, reviewID string, page, perPage int) ([]domain.Reply, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	offset := (page - 1) * perPage

	query := `
		SELECT id, review_id, user_id, content, is_edited, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM replies
		WHERE review_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, reviewID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list replies by review: %w", err)
	}
	defer rows.Close()

	var (
		replies    []domain.Reply
		totalCount int
	)

	for rows.Next() {
		var rp domain.Reply
		if err := rows.Scan(
			&rp.ID,
			&rp.ReviewID,
			&rp.UserID,
			&rp.Content,
			&rp.IsEdited,
			&rp.CreatedAt,
			&rp.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reply row: %w", err)
		}
		replies = append(replies, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reply rows: %w", err)
	}

	if replies == nil {
		replies = []domain.Reply{}
	}

	return replies, totalCount, nil
}

// Edit replaces a reply's content and marks it edited. The review's reply
// counter is untouched: editing does not change how many replies exist.
func (r *ReplyRepository) Edit(ctx context.Context, id, content string, editedAt time.Time) error {
	query := `
		UPDATE replies
		SET content = $1, is_edited = TRUE, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, content, editedAt, id)
	if err != nil {
		return fmt.Errorf("edit reply: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("reply", id)
	}

	return nil
}
