package models

import "github.com/socnav/socnav/internal/review"

// Review represents a review in API responses.
type Review struct {
	ID        string    `json:"id"`
	ObjectID  string    `json:"objectId"`
	Nickname  string    `json:"nickname"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewReview converts a review to the API representation.
func NewReview(r *review.Review) Review {
	return Review{
		ID:        r.ID,
		ObjectID:  r.ObjectID,
		Nickname:  r.Nickname,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: Timestamp(r.CreatedAt),
	}
}

// ReviewList is the response for listing a destination's reviews.
type ReviewList struct {
	Reviews []Review `json:"reviews"`
}

// NewReviewList converts reviews to the API representation.
func NewReviewList(reviews []review.Review) ReviewList {
	out := ReviewList{Reviews: make([]Review, len(reviews))}
	for i := range reviews {
		out.Reviews[i] = NewReview(&reviews[i])
	}
	return out
}

// ReviewSummary is the aggregate rating of one destination.
type ReviewSummary struct {
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
}
