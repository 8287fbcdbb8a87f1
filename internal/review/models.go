// Package review stores user reviews of destinations and the derived
// per-object and per-user aggregates.
package review

import "time"

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a single user review of a destination.
type Review struct {
	ID        string    `json:"id"`
	ObjectID  string    `json:"objectId"`
	UserID    string    `json:"-"`
	Nickname  string    `json:"nickname"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest represents the request body for posting a review.
type CreateRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Validate validates the create request.
func (r *CreateRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Rating < MinRating || r.Rating > MaxRating {
		errors = append(errors, FieldError{
			Field:   "rating",
			Message: "rating must be between 1 and 5",
			Code:    "OUT_OF_RANGE",
		})
	}

	return errors
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary aggregates the reviews of one destination.
type Summary struct {
	ObjectID  string  `json:"objectId"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}

// Achievement is a milestone unlocked by leaving reviews.
type Achievement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Threshold int    `json:"threshold"`
	Completed bool   `json:"completed"`
}

// Stats summarizes one user's review activity. Points drive the level
// shown in the profile: 10 points per review, a level per 100 points.
type Stats struct {
	ReviewCount  int           `json:"reviewCount"`
	Points       int           `json:"points"`
	Level        int           `json:"level"`
	Achievements []Achievement `json:"achievements"`
}

const pointsPerReview = 10

var achievementDefs = []Achievement{
	{ID: "achv-1", Title: "Первый шаг", Threshold: 1},
	{ID: "achv-2", Title: "Новичок", Threshold: 10},
	{ID: "achv-3", Title: "Авантюрист", Threshold: 25},
}

// NewStats derives the profile stats from a review count.
func NewStats(reviewCount int) Stats {
	points := reviewCount * pointsPerReview

	achievements := make([]Achievement, len(achievementDefs))
	for i, def := range achievementDefs {
		def.Completed = reviewCount >= def.Threshold
		achievements[i] = def
	}

	return Stats{
		ReviewCount:  reviewCount,
		Points:       points,
		Level:        points/100 + 1,
		Achievements: achievements,
	}
}
