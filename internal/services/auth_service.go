package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/torqride/rentals-api/internal/config"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, token refresh and logout
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	cfg       *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo, cfg: cfg}
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         models.UserResponse `json:"user"`
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, &AuthError{Reason: "invalid email or password"}
	}

	if !user.IsActive() {
		return nil, &AuthError{Reason: "account is disabled"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)); err != nil {
		return nil, &AuthError{Reason: "invalid email or password"}
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, &AuthError{Reason: "invalid refresh token"}
	}
	if stored.IsExpired() {
		return nil, &AuthError{Reason: "refresh token expired"}
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, &AuthError{Reason: "invalid refresh token"}
	}
	if !user.IsActive() {
		return nil, &AuthError{Reason: "account is disabled"}
	}

	// Rotate: the old refresh token dies with the exchange
	if err := s.tokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes all refresh tokens for a user
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.tokenRepo.DeleteByUser(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)

	claims := &middleware.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		StoreID: user.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refreshExpiry := time.Now().Add(30 * 24 * time.Hour)
	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: &refreshExpiry,
	}
	if err := s.tokenRepo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresAt:    expiresAt,
		User:         user.ToResponse(),
	}, nil
}
