package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedloom/feedloom/internal/config"
	"github.com/feedloom/feedloom/internal/metrics"
	"github.com/feedloom/feedloom/internal/models"
	"github.com/feedloom/feedloom/internal/repository"
	"github.com/feedloom/feedloom/pkg/tokens"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrDuplicateUser      = errors.New("email or username already in use")
)

type AuthService struct {
	repo     repository.Repository
	tokenGen *tokens.TokenGenerator
}

// NewAuthService fails when the signing secrets are not configured;
// the caller must treat that as fatal.
func NewAuthService(repo repository.Repository, cfg *config.AuthConfig) (*AuthService, error) {
	tokenGen, err := tokens.NewTokenGenerator(
		cfg.AccessSecret, cfg.RefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:     repo,
		tokenGen: tokenGen,
	}, nil
}

// Register creates the user and issues its first token pair. The
// refresh token is persisted into the user's ledger before returning.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:            userID.String(),
		Username:      req.Username,
		Email:         email,
		PasswordHash:  string(hashedPassword),
		RefreshTokens: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateUser
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pair, err := s.tokenGen.GenerateTokenPair(user.ID)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	user.RefreshTokens = append(user.RefreshTokens, pair.RefreshToken)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return &models.RegisterResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Login verifies credentials and appends a new refresh token to the
// ledger. The ledger grows: each login is an independent session, all
// valid until used or revoked. Lookup and password failures are
// deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokenGen.GenerateTokenPair(user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	user.RefreshTokens = append(user.RefreshTokens, pair.RefreshToken)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &models.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh rotates a refresh token: verify signature and expiry, check
// ledger membership, then swap the consumed token for a fresh one.
// Every refresh token is good for exactly one refresh call.
//
// A cryptographically valid token that is missing from the ledger has
// already been consumed (or the ledger was revoked): that is treated as
// a compromise signal and every outstanding session for the user is
// revoked by clearing the whole ledger.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	claims, err := s.tokenGen.ValidateRefreshToken(refreshToken)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidToken
	}

	if !user.HasRefreshToken(refreshToken) {
		revoked := len(user.RefreshTokens)
		user.RefreshTokens = []string{}
		if err := s.repo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		metrics.RefreshTotal.WithLabelValues("reused").Inc()
		metrics.SessionsRevoked.Add(float64(revoked))
		return nil, ErrInvalidToken
	}

	pair, err := s.tokenGen.GenerateTokenPair(user.ID)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	user.RemoveRefreshToken(refreshToken)
	user.RefreshTokens = append(user.RefreshTokens, pair.RefreshToken)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()
	return &models.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout removes exactly the presented token from its owner's ledger.
// Other sessions stay valid.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	user.RemoveRefreshToken(refreshToken)
	return s.repo.UpdateUser(ctx, user)
}

// ValidateAccessToken verifies an access token and returns the embedded
// user ID. Purely cryptographic: the ledger is not consulted.
func (s *AuthService) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.tokenGen.ValidateAccessToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
