package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/trongtuan99/review-company/pkg/database"
)

// LifecycleRepository implements repository.LifecycleRepository using
// PostgreSQL. Every purge is a single DELETE over the soft-deleted rows
// past their cutoff; dependent rows fall via ON DELETE CASCADE, so the
// database enforces the no-orphans rule rather than application code.
type LifecycleRepository struct {
	pool database.DBTX
}

// NewLifecycleRepository creates a new PostgreSQL-backed lifecycle repository.
func NewLifecycleRepository(pool database.DBTX) *LifecycleRepository {
	return &LifecycleRepository{pool: pool}
}

// PurgeReviews hard-deletes reviews soft-deleted before the cutoff.
// Engagements and replies cascade with each review.
func (r *LifecycleRepository) PurgeReviews(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM reviews
		WHERE is_deleted = TRUE AND deleted_at < $1`

	ct, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge reviews: %w", err)
	}

	return ct.RowsAffected(), nil
}

// PurgeCompanies hard-deletes companies soft-deleted before the cutoff.
// The company's reviews, and through them engagements and replies, cascade.
func (r *LifecycleRepository) PurgeCompanies(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM companies
		WHERE is_deleted = TRUE AND deleted_at < $1`

	ct, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge companies: %w", err)
	}

	return ct.RowsAffected(), nil
}

// PurgeUsers hard-deletes users soft-deleted before the cutoff. The user_id
// columns on reviews, engagements and replies are weak references without
// foreign keys, so a user purge removes user rows only; review counters and
// company aggregates are untouched by it.
func (r *LifecycleRepository) PurgeUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM users
		WHERE is_deleted = TRUE AND deleted_at < $1`

	ct, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge users: %w", err)
	}

	return ct.RowsAffected(), nil
}
