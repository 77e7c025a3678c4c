package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trongtuan99/review-company/internal/domain"
	pkgkafka "github.com/trongtuan99/review-company/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	// TopicLikeEvent carries inbound reaction events from other services.
	TopicLikeEvent = "like_event"

	TopicEngagementUpdated = "review.engagement.updated"
	TopicReviewCreated     = "review.created"
	TopicReviewDeleted     = "review.deleted"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from this service.
const SourceReviewService = "review-service"

// EngagementUpdatedData is the payload for a review.engagement.updated event.
type EngagementUpdatedData struct {
	ReviewID     string        `json:"review_id"`
	UserID       string        `json:"user_id"`
	Status       domain.Status `json:"status"`
	TotalLike    int           `json:"total_like"`
	TotalDislike int           `json:"total_dislike"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID  string `json:"review_id"`
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id"`
	Score     int    `json:"score"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ReviewID  string `json:"review_id"`
	CompanyID string `json:"company_id"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishEngagementUpdated publishes a review.engagement.updated event after
// a committed counter change.
func (p *Producer) PublishEngagementUpdated(ctx context.Context, review *domain.Review, userID string, status domain.Status) error {
	data := EngagementUpdatedData{
		ReviewID:     review.ID,
		UserID:       userID,
		Status:       status,
		TotalLike:    review.TotalLike,
		TotalDislike: review.TotalDislike,
	}

	evt, err := pkgkafka.NewEvent(TopicEngagementUpdated, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("build engagement updated event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicEngagementUpdated, evt)
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:  review.ID,
		CompanyID: review.CompanyID,
		UserID:    review.UserID,
		Score:     review.Score,
	}

	evt, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("build review created event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicReviewCreated, evt)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, companyID string) error {
	data := ReviewDeletedData{
		ReviewID:  reviewID,
		CompanyID: companyID,
	}

	evt, err := pkgkafka.NewEvent(TopicReviewDeleted, reviewID, AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("build review deleted event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicReviewDeleted, evt)
}
