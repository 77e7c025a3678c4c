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

// CompanyRepository implements repository.CompanyRepository using PostgreSQL.
type CompanyRepository struct {
	pool database.DBTX
}

// NewCompanyRepository creates a new PostgreSQL-backed company repository.
func NewCompanyRepository(pool database.DBTX) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create inserts a new company row.
func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, owner, company_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		company.ID,
		company.Name,
		company.Owner,
		company.CompanyType,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	return nil
}

// GetByID retrieves a non-deleted company by its unique identifier.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `
		SELECT id, name, owner, company_type, total_reviews, avg_score, created_at, updated_at
		FROM companies
		WHERE id = $1 AND is_deleted = FALSE`

	var c domain.Company
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Owner,
		&c.CompanyType,
		&c.TotalReviews,
		&c.AvgScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get company by id: %w", err)
	}

	return &c, nil
}

// RecomputeScore recalculates avg_score from the company's non-deleted
// reviews in one statement. The subquery yields NULL when no reviews
// survive, which is exactly the stored representation for "no score yet".
// Running it twice in a row is a no-op, so callers may retry freely.
func (r *CompanyRepository) RecomputeScore(ctx context.Context, id string) error {
	query := `
		UPDATE companies
		SET avg_score = (
			SELECT ROUND(AVG(score)::numeric, 2)
			FROM reviews
			WHERE company_id = $1 AND is_deleted = FALSE
		),
		updated_at = NOW()
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("recompute company score: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("company", id)
	}

	return nil
}

// SoftDelete marks a company deleted and stamps deleted_at.
func (r *CompanyRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := `
		UPDATE companies
		SET is_deleted = TRUE, deleted_at = $1, updated_at = $1
		WHERE id = $2 AND is_deleted = FALSE`

	ct, err := r.pool.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("soft delete company: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("company", id)
	}

	return nil
}
