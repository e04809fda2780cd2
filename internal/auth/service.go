// Package auth signs and checks the tokens that gate the editor bridge and
// the scene API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Service issues and validates HS256 tokens. A Service without a secret is
// disabled and accepts every request.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
}

// Enabled reports whether tokens are required.
func (s *Service) Enabled() bool { return len(s.secret) > 0 }

// IssueToken signs a token for subject.
func (s *Service) IssueToken(subject string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("token signing disabled")
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken returns the token's subject.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return subject, nil
}
