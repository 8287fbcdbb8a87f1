package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socnav/socnav/internal/api/models"
	"github.com/socnav/socnav/internal/api/response"
	"github.com/socnav/socnav/internal/auth"
	"github.com/socnav/socnav/internal/review"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   *auth.Service
	reviewService *review.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, reviewService *review.Service) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		reviewService: reviewService,
	}
}

// Register handles POST /api/auth/register - account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrNicknameTaken) {
			response.Conflict(w, r, "nickname is already taken")
			return
		}
		response.InternalError(w, r, "registration failed")
		return
	}

	response.JSON(w, r, http.StatusCreated, tokenResp)
}

// Login handles POST /api/auth/login - nickname/password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid nickname or password")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// Me handles GET /api/auth/me - current user with review stats.
// This endpoint requires authentication.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.Unauthorized(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to load user")
		return
	}

	stats, err := h.reviewService.Stats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load stats")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Me{
		User:  models.NewUser(user),
		Stats: *stats,
	})
}

// fieldErrors converts auth validation errors to the API form.
func fieldErrors(errs []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, len(errs))
	for i, e := range errs {
		out[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		}
	}
	return out
}
