package models

import (
	"github.com/socnav/socnav/internal/auth"
	"github.com/socnav/socnav/internal/review"
)

// User represents a user in API responses.
type User struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewUser converts an auth user to the API representation.
func NewUser(u *auth.User) User {
	return User{
		ID:        u.ID,
		Nickname:  u.Nickname,
		CreatedAt: Timestamp(u.CreatedAt),
	}
}

// Me is the authenticated user's account summary with review stats.
type Me struct {
	User  User         `json:"user"`
	Stats review.Stats `json:"stats"`
}
