package repository

import (
	"context"
	"time"

	"github.com/trongtuan99/review-company/internal/domain"
)

// ReviewRepository defines the read operations for reviews. Review writes
// move counters alongside the row, so they live inside service transactions
// rather than here.
type ReviewRepository interface {
	// GetByID retrieves a non-deleted review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByCompany returns non-deleted reviews for a company, newest first.
	ListByCompany(ctx context.Context, companyID string, page, perPage int) ([]domain.Review, int, error)
}

// CompanyRepository defines the interface for company persistence operations.
type CompanyRepository interface {
	// Create inserts a new company row.
	Create(ctx context.Context, company *domain.Company) error

	// GetByID retrieves a non-deleted company by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Company, error)

	// RecomputeScore recalculates avg_score from the company's non-deleted
	// reviews in a single statement. A company with no surviving reviews
	// gets a NULL average.
	RecomputeScore(ctx context.Context, id string) error

	// SoftDelete marks a company deleted and stamps deleted_at.
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
}

// EngagementRepository defines the interface for per-user reaction rows.
type EngagementRepository interface {
	// GetStatus returns the stored reaction of one user toward one review.
	// A missing row reads as neutral.
	GetStatus(ctx context.Context, userID, reviewID string) (domain.Status, error)

	// GetStatusForReviews returns the user's reaction per review for a batch
	// of review IDs. Reviews without a row are absent from the map.
	GetStatusForReviews(ctx context.Context, userID string, reviewIDs []string) (map[string]domain.Status, error)
}

// ReplyRepository defines the interface for reply persistence operations.
type ReplyRepository interface {
	// GetByID retrieves a reply by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Reply, error)

	// ListByReview returns replies for a review, oldest first.
	ListByReview(ctx context.Context, reviewID string, page, perPage int) ([]domain.Reply, int, error)

	// Edit replaces a reply's content and marks it edited.
	Edit(ctx context.Context, id, content string, editedAt time.Time) error
}

// LifecycleRepository defines the purge operations run by the retention
// scheduler. Each call is idempotent: rows already purged simply no longer
// match the predicate.
type LifecycleRepository interface {
	// PurgeReviews hard-deletes reviews soft-deleted before the cutoff and
	// returns how many rows were removed.
	PurgeReviews(ctx context.Context, cutoff time.Time) (int64, error)

	// PurgeCompanies hard-deletes companies soft-deleted before the cutoff.
	// Dependent reviews, engagements and replies go with them via cascade.
	PurgeCompanies(ctx context.Context, cutoff time.Time) (int64, error)

	// PurgeUsers hard-deletes users soft-deleted before the cutoff.
	PurgeUsers(ctx context.Context, cutoff time.Time) (int64, error)
}
