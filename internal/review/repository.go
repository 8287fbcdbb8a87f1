package review

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrReviewNotFound is returned when a review does not exist or does not
// belong to the requesting user.
var ErrReviewNotFound = errors.New("review not found")

// Repository defines the interface for review data operations.
type Repository interface {
	// Create stores a new review.
	Create(ctx context.Context, review *Review) error

	// ListByObject returns the newest reviews for a destination, capped
	// at limit.
	ListByObject(ctx context.Context, objectID string, limit int) ([]Review, error)

	// Delete removes a review owned by the given user and returns the
	// destination it belonged to. Returns ErrReviewNotFound if no such
	// review exists.
	Delete(ctx context.Context, reviewID, userID string) (objectID string, err error)

	// Summarize computes the review count and average rating for a
	// destination.
	Summarize(ctx context.Context, objectID string) (*Summary, error)

	// CountByUser returns the number of reviews a user has left.
	CountByUser(ctx context.Context, userID string) (int, error)

	// ObjectIDs returns the distinct destination IDs that have reviews.
	ObjectIDs(ctx context.Context) ([]string, error)

	// UpsertSummary materializes a summary row for a destination.
	UpsertSummary(ctx context.Context, summary *Summary) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu        sync.RWMutex
	reviews   map[string]*Review // keyed by review ID
	summaries map[string]*Summary
}

// NewInMemoryRepository creates a new in-memory review repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reviews:   make(map[string]*Review),
		summaries: make(map[string]*Summary),
	}
}

// Create stores a new review.
func (r *InMemoryRepository) Create(_ context.Context, review *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviewCopy := *review
	r.reviews[review.ID] = &reviewCopy
	return nil
}

// ListByObject returns the newest reviews for a destination, capped at limit.
func (r *InMemoryRepository) ListByObject(_ context.Context, objectID string, limit int) ([]Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Review
	for _, rev := range r.reviews {
		if rev.ObjectID == objectID {
			out = append(out, *rev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a review owned by the given user.
func (r *InMemoryRepository) Delete(_ context.Context, reviewID, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[reviewID]
	if !ok || rev.UserID != userID {
		return "", ErrReviewNotFound
	}

	delete(r.reviews, reviewID)
	return rev.ObjectID, nil
}

// Summarize computes the review count and average rating for a destination.
func (r *InMemoryRepository) Summarize(_ context.Context, objectID string) (*Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count, total int
	for _, rev := range r.reviews {
		if rev.ObjectID == objectID {
			count++
			total += rev.Rating
		}
	}

	summary := &Summary{ObjectID: objectID, Count: count}
	if count > 0 {
		summary.AvgRating = float64(total) / float64(count)
	}
	return summary, nil
}

// CountByUser returns the number of reviews a user has left.
func (r *InMemoryRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rev := range r.reviews {
		if rev.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ObjectIDs returns the distinct destination IDs that have reviews.
func (r *InMemoryRepository) ObjectIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, rev := range r.reviews {
		if _, ok := seen[rev.ObjectID]; !ok {
			seen[rev.ObjectID] = struct{}{}
			out = append(out, rev.ObjectID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// UpsertSummary materializes a summary row for a destination.
func (r *InMemoryRepository) UpsertSummary(_ context.Context, summary *Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaryCopy := *summary
	r.summaries[summary.ObjectID] = &summaryCopy
	return nil
}
