package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/socnav/socnav/internal/review"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	summaryJob       *SummaryJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SummaryJob       *SummaryJob
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		summaryJob:       cfg.SummaryJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var event review.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on event type.
	var err error
	switch event.Type {
	case review.EventReviewCreated:
		err = h.handleReviewCreated(ctx, event)
	case "summary_refresh":
		err = h.handleFullRefresh(ctx)
	default:
		logger.Warn().Str("type", event.Type).Msg("unknown event type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("event handling failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("type", event.Type).
		Dur("duration", duration).
		Msg("event handled successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleReviewCreated(ctx context.Context, event review.Event) error {
	if event.ObjectID == "" {
		return fmt.Errorf("review event without object_id")
	}

	h.logger.Debug().
		Str("object_id", event.ObjectID).
		Str("review_id", event.ReviewID).
		Msg("refreshing summary for reviewed object")

	return h.summaryJob.RefreshObject(ctx, event.ObjectID)
}

func (h *PubSubHandler) handleFullRefresh(ctx context.Context) error {
	h.logger.Info().Msg("starting full summary refresh")

	result := h.summaryJob.Run(ctx)

	// Consider it successful if more than half succeeded.
	if result.Failed > result.Updated {
		return fmt.Errorf("too many summary failures: %d/%d", result.Failed, result.TotalObjects)
	}

	return nil
}
