// Package auth provides nickname/password authentication for the API.
package auth

import (
	"time"
	"unicode/utf8"
)

// User represents an authenticated user in the system.
type User struct {
	ID        string    `json:"userId"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`

	// PasswordHash is the bcrypt hash of the user's password. Never
	// exposed in API responses.
	PasswordHash string `json:"-"`
}

// Nickname and password length bounds enforced on registration.
const (
	minNicknameLength = 3
	maxNicknameLength = 32
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
)

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Validate validates the registration request.
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	switch n := utf8.RuneCountInString(r.Nickname); {
	case r.Nickname == "":
		errors = append(errors, FieldError{
			Field:   "nickname",
			Message: "nickname is required",
			Code:    "REQUIRED",
		})
	case n < minNicknameLength || n > maxNicknameLength:
		errors = append(errors, FieldError{
			Field:   "nickname",
			Message: "nickname must be between 3 and 32 characters",
			Code:    "INVALID_LENGTH",
		})
	}

	switch n := len(r.Password); {
	case r.Password == "":
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
		})
	case n < minPasswordLength || n > maxPasswordLength:
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password must be between 6 and 72 bytes",
			Code:    "INVALID_LENGTH",
		})
	}

	return errors
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Nickname == "" {
		errors = append(errors, FieldError{
			Field:   "nickname",
			Message: "nickname is required",
			Code:    "REQUIRED",
		})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
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

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// User contains the authenticated user's information.
	User *User `json:"user"`
}
