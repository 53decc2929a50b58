package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docvet/internal/config"
	"docvet/internal/domain"
)

// apiAudience is the audience every API token is minted for.
const apiAudience = "docvet-api"

// Claims represents the JWT claims of an API client token.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a freshly minted API token.
type IssuedToken struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService issues and validates the bearer tokens that guard the HTTP API.
type AuthService interface {
	IssueToken(subject string, ttl time.Duration) (*IssuedToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg config.AuthConfig
	now func() time.Time
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) IssueToken(subject string, ttl time.Duration) (*IssuedToken, error) {
	if !s.cfg.Enabled() {
		return nil, domain.ErrAuthDisabled
	}
	if subject == "" {
		return nil, fmt.Errorf("auth.IssueToken: subject is required")
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}
	now := s.now()
	expiry := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{apiAudience},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("auth.IssueToken: signing: %w", err)
	}
	return &IssuedToken{Token: signed, Subject: subject, ExpiresAt: expiry.UTC()}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	if !s.cfg.Enabled() {
		return nil, domain.ErrAuthDisabled
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithAudience(apiAudience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
