package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrMissingSecret = errors.New("signing secret not configured")
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenGenerator mints and verifies the access/refresh token pair.
// Access and refresh tokens are signed with separate secrets so a
// leaked access token can never be replayed against the refresh
// endpoint.
type TokenGenerator struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenGenerator fails when either secret is empty: running without
// configured secrets is a fatal misconfiguration, not a defaultable one.
func NewTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenGenerator, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenGenerator{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// GenerateTokenPair mints an access token and a refresh token for userID.
// Each token carries a unique jti so two pairs issued in the same second
// are still distinct strings.
func (tg *TokenGenerator) GenerateTokenPair(userID string) (*TokenPair, error) {
	access, err := tg.sign(userID, tg.accessSecret, tg.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := tg.sign(userID, tg.refreshSecret, tg.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (tg *TokenGenerator) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "feedloom",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken verifies signature and expiry of an access token.
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return tg.parse(tokenString, tg.accessSecret)
}

// ValidateRefreshToken verifies signature and expiry of a refresh token.
// Ledger membership is the caller's concern.
func (tg *TokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return tg.parse(tokenString, tg.refreshSecret)
}

func (tg *TokenGenerator) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
