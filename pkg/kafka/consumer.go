package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds how many times a handler runs for one message
// before it is treated as a poison pill.
const maxHandlerRetries = 3

// ErrDropMessage signals that a message is unprocessable (e.g. an undecodable
// payload) and must be committed without retry: redelivering a payload that
// cannot be parsed will never succeed.
var ErrDropMessage = errors.New("kafka: drop message")

// Handler processes one raw message. The payload format is topic-specific,
// so decoding is the handler's responsibility. Returning an error wrapping
// ErrDropMessage commits the message without retrying it.
type Handler func(ctx context.Context, msg kafka.Message) error

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

// Consumer wraps the kafka-go reader. Messages that exhaust handler retries
// are forwarded to the dead-letter queue (when one is configured) and
// committed so they cannot wedge the partition.
type Consumer struct {
	reader    *kafka.Reader
	logger    *slog.Logger
	handler   Handler
	dlq       *DLQProducer
	closeOnce sync.Once
}

// NewConsumer creates a consumer for a single topic and group. dlq may be nil.
func NewConsumer(cfg ConsumerConfig, handler Handler, dlq *DLQProducer, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})

	return &Consumer{
		reader:  r,
		logger:  logger,
		handler: handler,
		dlq:     dlq,
	}
}

// Start consumes messages until the context is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	topic := c.reader.Config().Topic
	group := c.reader.Config().GroupID

	c.logger.Info("consumer started",
		slog.String("topic", topic),
		slog.String("group", group),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", slog.String("topic", topic))
			return c.Close()
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
				continue
			}

			ConsumerMessagesReceived.WithLabelValues(topic, group).Inc()

			if err := c.process(ctx, msg, topic, group); err != nil {
				// process only fails when the context is canceled mid-retry.
				return nil
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit message", slog.String("error", err.Error()))
			}
		}
	}
}

// process runs the handler with bounded retries. On a drop signal the message
// is discarded immediately; after exhausted retries it goes to the DLQ.
func (c *Consumer) process(ctx context.Context, msg kafka.Message, topic, group string) error {
	var lastErr error

	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		start := time.Now()
		err := c.handler(ctx, msg)
		ConsumerProcessingDuration.WithLabelValues(topic, group).Observe(time.Since(start).Seconds())

		if err == nil {
			ConsumerMessagesProcessed.WithLabelValues(topic, group).Inc()
			return nil
		}

		if errors.Is(err, ErrDropMessage) {
			ConsumerMessagesDropped.WithLabelValues(topic, group).Inc()
			c.logger.Warn("dropping unprocessable message",
				slog.String("topic", topic),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
			return nil
		}

		lastErr = err
		c.logger.Warn("handler failed, will retry",
			slog.String("topic", topic),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxHandlerRetries),
			slog.String("error", err.Error()),
		)

		if attempt < maxHandlerRetries {
			backoff := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	ConsumerMessagesFailed.WithLabelValues(topic, group).Inc()
	c.logger.Error("handler failed after all retries",
		slog.String("topic", topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.Int("retries", maxHandlerRetries),
		slog.String("error", lastErr.Error()),
	)

	if c.dlq != nil {
		if err := c.dlq.Publish(ctx, msg, lastErr, group); err != nil {
			c.logger.Error("failed to publish poison message to DLQ",
				slog.String("topic", topic),
				slog.String("error", err.Error()),
			)
		} else {
			ConsumerDLQPublished.WithLabelValues(topic, group).Inc()
		}
	}

	return nil
}

// Close closes the consumer. Safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
