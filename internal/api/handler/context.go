package handler

import (
	"context"

	"github.com/socnav/socnav/internal/api/middleware"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// GetNickname retrieves the authenticated user's nickname from the context.
func GetNickname(ctx context.Context) string {
	return middleware.GetNickname(ctx)
}
