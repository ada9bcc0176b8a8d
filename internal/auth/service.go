package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Claims represents the JWT claims carried by portal tokens
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and validates portal JWTs. The token only identifies
// the principal; team-level roles are re-derived from the roster on every
// guarded operation, never trusted from claims.
type AuthService struct {
	secret   []byte
	provider *ProviderConfig
	userRepo repository.UserRepositoryInterface
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, provider *ProviderConfig, userRepo repository.UserRepositoryInterface) *AuthService {
	return &AuthService{
		secret:   []byte(secret),
		provider: provider,
		userRepo: userRepo,
	}
}

// IssueToken creates a signed token for the user with the given email
func (s *AuthService) IssueToken(email string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return "", apperrors.NewAuthenticationError("user is inactive")
	}

	now := time.Now()
	claims := &Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.provider.Issuer,
			Audience:  jwt.ClaimStrings{s.provider.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.provider.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateJWT parses and verifies a token, returning its claims
func (s *AuthService) ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewAuthenticationError("invalid token")
	}
	return claims, nil
}
