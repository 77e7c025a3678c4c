package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trongtuan99/review-company/internal/domain"
	"github.com/trongtuan99/review-company/internal/repository"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
)

// LifecycleService runs retention sweeps: hard-deleting entities whose
// soft-delete stamp has aged past the retention window for their kind.
type LifecycleService struct {
	lifecycleRepo repository.LifecycleRepository
	logger        *slog.Logger
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(lifecycleRepo repository.LifecycleRepository, logger *slog.Logger) *LifecycleService {
	return &LifecycleService{
		lifecycleRepo: lifecycleRepo,
		logger:        logger,
	}
}

// Purge removes all entities of the given kind soft-deleted before
// now()-window and returns the purge count. Rows deleted by an earlier run
// simply no longer match the predicate, so overlapping or repeated sweeps
// are harmless.
func (s *LifecycleService) Purge(ctx context.Context, kind domain.EntityKind, window time.Duration) (int64, error) {
	if window <= 0 {
		return 0, apperrors.InvalidInput("retention window must be positive")
	}

	cutoff := time.Now().UTC().Add(-window)

	var (
		purged int64
		err    error
	)

	switch kind {
	case domain.KindReview:
		purged, err = s.lifecycleRepo.PurgeReviews(ctx, cutoff)
	case domain.KindCompany:
		purged, err = s.lifecycleRepo.PurgeCompanies(ctx, cutoff)
	case domain.KindUser:
		purged, err = s.lifecycleRepo.PurgeUsers(ctx, cutoff)
	default:
		return 0, apperrors.InvalidInput(fmt.Sprintf("unknown entity kind %q", kind))
	}

	if err != nil {
		return 0, fmt.Errorf("purge %s entities: %w", kind, err)
	}

	if purged > 0 {
		s.logger.InfoContext(ctx, "lifecycle purge completed",
			slog.String("kind", string(kind)),
			slog.Time("cutoff", cutoff),
			slog.Int64("purged", purged),
		)
	}

	return purged, nil
}
