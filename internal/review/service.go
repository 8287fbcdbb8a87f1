package review

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const (
	// maxListSize caps how many reviews a single listing returns.
	maxListSize = 50

	// summaryCacheTTL bounds how stale a cached summary may be.
	summaryCacheTTL = time.Minute
)

// Service provides review operations.
type Service struct {
	repo      Repository
	publisher EventPublisher
	cache     *gocache.Cache
	logger    zerolog.Logger
}

// ServiceConfig holds configuration for the review service.
type ServiceConfig struct {
	Repo Repository

	// Publisher emits review events. Optional: nil disables publishing.
	Publisher EventPublisher

	Logger zerolog.Logger
}

// NewService creates a new review service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		publisher: cfg.Publisher,
		cache:     gocache.New(summaryCacheTTL, 2*summaryCacheTTL),
		logger:    cfg.Logger,
	}
}

// Create validates and stores a review, then emits a review.created event.
func (s *Service) Create(ctx context.Context, objectID, userID, nickname string, req *CreateRequest) (*Review, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	review := &Review{
		ID:        "rev_" + uuid.New().String()[:22],
		ObjectID:  objectID,
		UserID:    userID,
		Nickname:  nickname,
		Rating:    req.Rating,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}

	s.cache.Delete(summaryCacheKey(objectID))

	if s.publisher != nil {
		// Best-effort and off the request path: a degraded broker must
		// not stretch review creation. The context is detached so the
		// finished request does not cancel the delivery.
		go s.publisher.PublishReviewCreated(context.WithoutCancel(ctx), objectID, review.ID)
	}

	return review, nil
}

// List returns the newest reviews for a destination.
func (s *Service) List(ctx context.Context, objectID string) ([]Review, error) {
	reviews, err := s.repo.ListByObject(ctx, objectID, maxListSize)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review owned by the given user. Deleting a review
// that does not exist, or that belongs to someone else, returns
// ErrReviewNotFound either way.
func (s *Service) Delete(ctx context.Context, reviewID, userID string) error {
	objectID, err := s.repo.Delete(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	s.cache.Delete(summaryCacheKey(objectID))
	return nil
}

// Summary returns the review count and average rating for a destination,
// served from cache when fresh.
func (s *Service) Summary(ctx context.Context, objectID string) (*Summary, error) {
	key := summaryCacheKey(objectID)
	if cached, ok := s.cache.Get(key); ok {
		summary := cached.(Summary)
		return &summary, nil
	}

	summary, err := s.repo.Summarize(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("summarizing reviews: %w", err)
	}

	// Round to two decimals for display parity across cached and
	// materialized values.
	summary.AvgRating = math.Round(summary.AvgRating*100) / 100

	s.cache.SetDefault(key, *summary)
	return summary, nil
}

// Stats returns a user's review activity stats.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting reviews: %w", err)
	}

	stats := NewStats(count)
	return &stats, nil
}

func summaryCacheKey(objectID string) string {
	return "summary:" + objectID
}
