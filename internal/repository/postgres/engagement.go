package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/pkg/database"
)

// EngagementRepository implements repository.EngagementRepository using
// PostgreSQL. Writes to engagement rows happen inside the reaction
// transaction in the service layer; this repository serves the read paths.
type EngagementRepository struct {
	pool database.DBTX
}

// NewEngagementRepository creates a new PostgreSQL-backed engagement repository.
func NewEngagementRepository(pool database.DBTX) *EngagementRepository {
	return &EngagementRepository{pool: pool}
}

// GetStatus returns the stored reaction of one user toward one review.
// A missing row reads as neutral rather than an error: neutral is the
// default state, not an exceptional one.
func (r *EngagementRepository) GetStatus(ctx context.Context, userID, reviewID string) (domain.Status, error) {
	query := `
		SELECT status
		FROM engagements
		WHERE user_id = $1 AND review_id = $2`

	var status domain.Status
	err := r.pool.QueryRow(ctx, query, userID, reviewID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StatusNeutral, nil
		}
		return "", fmt.Errorf("get engagement status: %w", err)
	}

	return status, nil
}

// GetStatusForReviews returns the user's reaction per review for a batch of
// review IDs. Reviews without a row are absent from the map.
func (r *EngagementRepository) GetStatusForReviews(ctx context.Context, userID string, reviewIDs []string) (map[string]domain.Status, error) {
	if len(reviewIDs) == 0 {
		return map[string]domain.Status{}, nil
	}

	query := `
		SELECT review_id, status
		FROM engagements
		WHERE user_id = $1 AND review_id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, userID, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("get engagement statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[string]domain.Status, len(reviewIDs))
	for rows.Next() {
		var (
			reviewID string
			status   domain.Status
		)
		if err := rows.Scan(&reviewID, &status); err != nil {
			return nil, fmt.Errorf("scan engagement status row: %w", err)
		}
		statuses[reviewID] = status
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engagement status rows: %w", err)
	}

	return statuses, nil
}
