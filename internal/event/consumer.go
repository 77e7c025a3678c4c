package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/trongtuan99/review-company/internal/domain"
	apperrors "github.com/trongtuan99/review-company/pkg/errors"
	pkgkafka "github.com/trongtuan99/review-company/pkg/kafka"
)

// Reactor applies a reaction event; satisfied by service.EngagementService.
type Reactor interface {
	React(ctx context.Context, reviewID, userID string, requested domain.Status) (*domain.Review, error)
}

// likeEventPayload is the wire shape of messages on the like_event topic.
// Producers outside this service may attach extra fields; only these three
// matter and anything else is ignored.
type likeEventPayload struct {
	UserID   string `json:"user_id"`
	ReviewID string `json:"review_id"`
	Status   string `json:"status"`
}

// LikeEventHandler decodes like_event messages and feeds them through the
// same reaction path HTTP requests use. At-least-once redelivery needs no
// dedup bookkeeping here: re-applying a reaction is a toggle by the state
// machine's own rule, so the handler stays oblivious to delivery counts.
type LikeEventHandler struct {
	reactor Reactor
	logger  *slog.Logger
}

// NewLikeEventHandler creates a handler for the like_event topic.
func NewLikeEventHandler(reactor Reactor, logger *slog.Logger) *LikeEventHandler {
	return &LikeEventHandler{
		reactor: reactor,
		logger:  logger,
	}
}

// Handle processes one raw like_event message. Undecodable or incomplete
// payloads are dropped without retry: a payload that cannot be parsed now
// will not parse on redelivery either.
func (h *LikeEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var payload likeEventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("%w: decode like_event payload: %v", pkgkafka.ErrDropMessage, err)
	}

	if payload.UserID == "" || payload.ReviewID == "" || payload.Status == "" {
		return fmt.Errorf("%w: like_event payload missing required fields", pkgkafka.ErrDropMessage)
	}

	requested, err := domain.ParseRequestedStatus(payload.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", pkgkafka.ErrDropMessage, err)
	}

	review, err := h.reactor.React(ctx, payload.ReviewID, payload.UserID, requested)
	if err != nil {
		// A reaction to a review that no longer exists will never apply,
		// no matter how often the broker redelivers it.
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: review %s not found", pkgkafka.ErrDropMessage, payload.ReviewID)
		}
		return fmt.Errorf("apply like_event reaction: %w", err)
	}

	h.logger.DebugContext(ctx, "like_event applied",
		slog.String("review_id", payload.ReviewID),
		slog.String("user_id", payload.UserID),
		slog.String("status", string(review.UserStatus)),
	)

	return nil
}
