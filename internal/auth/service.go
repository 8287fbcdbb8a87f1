package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 10

// Predefined service errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNicknameTaken      = errors.New("nickname is already taken")
	ErrInvalidCredentials = errors.New("invalid nickname or password")
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create creates a new user. Returns ErrNicknameTaken if the
	// nickname is already registered.
	Create(ctx context.Context, user *User) error

	// FindByNickname finds a user by their nickname.
	FindByNickname(ctx context.Context, nickname string) (*User, error)

	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id string) (*User, error)
}

// Service provides authentication operations.
type Service struct {
	jwtService *JWTService
	userRepo   UserRepository
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService *JWTService
	UserRepo   UserRepository
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwtService: cfg.JWTService,
		userRepo:   cfg.UserRepo,
	}
}

// Register creates a new account and returns an access token for it.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:           generateUserID(),
		Nickname:     req.Nickname,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrNicknameTaken) {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.tokenResponse(user)
}

// Login authenticates a user by nickname and password.
// A missing user and a wrong password produce the same error so the
// endpoint does not reveal which nicknames exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation error: %s", errs[0].Message)
	}

	user, err := s.userRepo.FindByNickname(ctx, req.Nickname)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// ValidateAccessToken validates an access token and returns the claims.
func (s *Service) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return s.jwtService.ValidateAccessToken(tokenString)
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// tokenResponse builds the authentication response for a user.
func (s *Service) tokenResponse(user *User) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	// Never hand the password hash back, even internally.
	safe := *user
	safe.PasswordHash = ""

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        &safe,
	}, nil
}

// generateUserID generates a unique user ID with prefix.
func generateUserID() string {
	return "usr_" + uuid.New().String()[:22]
}
