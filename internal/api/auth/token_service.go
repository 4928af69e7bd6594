// Package auth implements operator authentication: bcrypt credential checks
// against system_users and stateless HS256 JWT session tokens.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/aicoconsole/internal/store"
	"github.com/aicoconsole/pkg/models"
)

// TokenService handles JWT token creation and validation
type TokenService struct {
	systemUsers *store.SystemUserStore
	secretKey   []byte

	// AccessTokenDuration controls how long issued tokens stay valid
	AccessTokenDuration time.Duration
}

// JWTClaims represents the claims in our JWT tokens
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewTokenService creates a new token service
func NewTokenService(systemUsers *store.SystemUserStore, secretKey string) *TokenService {
	return &TokenService{
		systemUsers:         systemUsers,
		secretKey:           []byte(secretKey),
		AccessTokenDuration: 24 * time.Hour,
	}
}

// Authenticate checks operator credentials and returns a signed access token
func (ts *TokenService) Authenticate(ctx context.Context, username, password string) (string, *models.SystemUser, error) {
	user, err := ts.systemUsers.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up operator: %w", err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := ts.CreateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CreateToken signs a JWT access token for an operator
func (ts *TokenService) CreateToken(user *models.SystemUser) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "aicoconsole",
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken validates a JWT access token and returns the operator
func (ts *TokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*models.SystemUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	user, err := ts.systemUsers.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("operator not found")
	}
	return user, nil
}
