package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// GetByID retrieves a non-deleted review by its unique identifier.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, company_id, user_id, title, content, score, is_anonymous,
		       total_like, total_dislike, total_reply, created_at, updated_at
		FROM reviews
		WHERE id = $1 AND is_deleted = FALSE`

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
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
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	return &rv, nil
}

// ListByCompany returns non-deleted reviews for a company, newest first.
func (r *ReviewRepository) ListByCompany(ctx context.Context, companyID string, page, perPage int) ([]domain.Review, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}

	offset := (page - 1) * perPage

	query := `
		SELECT id, company_id, user_id, title, content, score, is_anonymous,
		       total_like, total_dislike, total_reply, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM reviews
		WHERE company_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, companyID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews by company: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
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
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}
