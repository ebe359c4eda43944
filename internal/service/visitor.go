package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// VisitorTTL is how long an issued visitor token stays valid.
const VisitorTTL = 24 * time.Hour

// VisitorService issues and validates the signed token that identifies an
// anonymous visitor across requests. It carries no personal data, only a
// random visitor ID used to key per-visitor modal state.
type VisitorService struct {
	secret []byte
	now    func() time.Time
}

// NewVisitorService creates a VisitorService signing with secret.
func NewVisitorService(secret string) *VisitorService {
	return &VisitorService{secret: []byte(secret), now: time.Now}
}

// Issue creates a new visitor ID and a signed token carrying it.
func (s *VisitorService) Issue() (id, token string, err error) {
	id = uuid.NewString()
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(VisitorTTL)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign visitor token: %w", err)
	}
	return id, token, nil
}

// Validate parses a token and returns the visitor ID it carries.
func (s *VisitorService) Validate(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
