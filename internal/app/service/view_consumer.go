package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/nats-io/nats.go"
	"github.com/snapbite/snapbite/internal/app/model"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/infra/metrics"
	"go.uber.org/zap"
)

const (
	seenFilterCapacity = 1_000_000
	seenFilterFPRate   = 0.001
)

// ViewConsumer consumes view analytics events from NATS JetStream and
// persists them as audit rows. A bloom filter of processed event ids skips
// most redeliveries without a round trip; the insert itself is conflict-safe
// either way.
type ViewConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.ViewEventRepository
	seen   *bloom.BloomFilter
}

// NewViewConsumer creates a view event consumer.
func NewViewConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.ViewEventRepository) *ViewConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewConsumer{
		js:     js,
		logger: logger,
		repo:   repo,
		seen:   bloom.NewWithEstimates(seenFilterCapacity, seenFilterFPRate),
	}
}

// Start ensures the stream and durable consumer exist, then begins
// consuming in the background.
func (c *ViewConsumer) Start() error {
	_, err := c.js.StreamInfo(model.ViewStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ViewStreamName,
			Subjects: []string{model.ViewStreamSubject},
			MaxBytes: model.ViewStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	_, err = c.js.ConsumerInfo(model.ViewStreamName, model.ViewConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.ViewStreamName, &nats.ConsumerConfig{
			Durable:   model.ViewConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ViewStreamSubject, model.ViewConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *ViewConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch view events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.StoryViewEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal view event", zap.Error(err))
				msg.Nak()
				continue
			}

			if c.seen.TestString(event.ID) {
				// Almost certainly a redelivery we already stored.
				msg.Ack()
				continue
			}

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("failed to store view event",
					zap.String("id", event.ID),
					zap.String("story_id", event.StoryID),
					zap.Error(err))
				msg.Nak()
				continue
			}
			c.seen.AddString(event.ID)
			metrics.ViewEventsConsumed.Inc()

			c.logger.Debug("view event stored",
				zap.String("id", event.ID),
				zap.String("story_id", event.StoryID),
				zap.String("viewer_id", event.ViewerID),
				zap.Time("viewed_at", event.ViewedAt),
			)

			msg.Ack()
		}
	}
}
