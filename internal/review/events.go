package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// EventReviewCreated is the event type emitted after a review is stored.
const EventReviewCreated = "review.created"

// Event is the payload published to Pub/Sub when a review changes.
type Event struct {
	Type     string `json:"type"`
	ObjectID string `json:"object_id"`
	ReviewID string `json:"review_id"`
}

// EventPublisher publishes review events for asynchronous processing.
type EventPublisher interface {
	PublishReviewCreated(ctx context.Context, objectID, reviewID string)
}

// PubSubPublisher publishes review events to a Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

// PubSubPublisherConfig holds configuration for the publisher.
type PubSubPublisherConfig struct {
	ProjectID string
	Topic     string
	Logger    zerolog.Logger
}

// NewPubSubPublisher creates a publisher for the given topic.
func NewPubSubPublisher(ctx context.Context, cfg PubSubPublisherConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.Topic),
		topic:     cfg.Topic,
		logger:    cfg.Logger,
	}, nil
}

// PublishReviewCreated publishes a review.created event and waits for
// the broker to confirm delivery, bounded by a 5s timeout. Failures
// are logged and never surfaced to the caller. The review service
// invokes this off the request goroutine, so the wait here cannot
// stretch an HTTP response.
func (p *PubSubPublisher) PublishReviewCreated(ctx context.Context, objectID, reviewID string) {
	event := Event{
		Type:     EventReviewCreated,
		ObjectID: objectID,
		ReviewID: reviewID,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode review event")
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result := p.publisher.Publish(publishCtx, &pubsub.Message{Data: data})
	if _, err := result.Get(publishCtx); err != nil {
		p.logger.Warn().
			Err(err).
			Str("topic", p.topic).
			Str("object_id", objectID).
			Msg("failed to publish review event")
		return
	}

	p.logger.Debug().
		Str("object_id", objectID).
		Str("review_id", reviewID).
		Msg("published review event")
}

// Close closes the underlying Pub/Sub client.
func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}
