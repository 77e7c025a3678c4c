package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trongtuan99/review-company/internal/domain"
)

// Purger runs one retention purge; satisfied by service.LifecycleService.
type Purger interface {
	Purge(ctx context.Context, kind domain.EntityKind, window time.Duration) (int64, error)
}

// SweepConfig sets the cadence and retention window for one entity kind.
type SweepConfig struct {
	// Interval is how often the sweep ticks.
	Interval time.Duration

	// Window is how long a soft-deleted entity survives before the sweep
	// hard-deletes it.
	Window time.Duration
}

// Scheduler runs one sweep goroutine per entity kind. Each tick takes the
// kind's distributed sweep lock, purges entities whose soft-delete stamp has
// aged past the retention window, and releases the lock. A failed sweep
// aborts that run only; the next tick starts clean.
type Scheduler struct {
	lifecycle Purger
	lock      SweepLocker
	sweeps    map[domain.EntityKind]SweepConfig
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// New creates a scheduler with one sweep per configured entity kind.
func New(lifecycle Purger, lock SweepLocker, sweeps map[domain.EntityKind]SweepConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		lifecycle: lifecycle,
		lock:      lock,
		sweeps:    sweeps,
		logger:    logger,
	}
}

// Start launches the sweep goroutines. They stop when the context is
// canceled; call Wait to block until they have drained.
func (s *Scheduler) Start(ctx context.Context) {
	for kind, cfg := range s.sweeps {
		s.wg.Add(1)
		go s.run(ctx, kind, cfg)

		s.logger.Info("lifecycle sweep scheduled",
			slog.String("kind", string(kind)),
			slog.Duration("interval", cfg.Interval),
			slog.Duration("window", cfg.Window),
		)
	}
}

// Wait blocks until all sweep goroutines have exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, kind domain.EntityKind, cfg SweepConfig) {
	defer s.wg.Done()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle sweep stopped", slog.String("kind", string(kind)))
			return
		case <-ticker.C:
			s.sweep(ctx, kind, cfg)
		}
	}
}

// sweep runs one locked purge for a kind. The lock TTL matches the tick
// interval so a crashed holder cannot block the next cycle.
func (s *Scheduler) sweep(ctx context.Context, kind domain.EntityKind, cfg SweepConfig) {
	acquired, err := s.lock.Acquire(ctx, string(kind), cfg.Interval)
	if err != nil {
		SweepRuns.WithLabelValues(string(kind), "error").Inc()
		s.logger.ErrorContext(ctx, "failed to acquire sweep lock",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return
	}
	if !acquired {
		SweepLockContention.WithLabelValues(string(kind)).Inc()
		s.logger.DebugContext(ctx, "sweep lock held elsewhere, skipping tick",
			slog.String("kind", string(kind)),
		)
		return
	}
	defer func() {
		if err := s.lock.Release(ctx, string(kind)); err != nil {
			s.logger.WarnContext(ctx, "failed to release sweep lock",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}()

	start := time.Now()
	purged, err := s.lifecycle.Purge(ctx, kind, cfg.Window)
	SweepDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		SweepRuns.WithLabelValues(string(kind), "error").Inc()
		s.logger.ErrorContext(ctx, "lifecycle sweep failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return
	}

	SweepRuns.WithLabelValues(string(kind), "success").Inc()
	PurgedEntities.WithLabelValues(string(kind)).Add(float64(purged))
}
