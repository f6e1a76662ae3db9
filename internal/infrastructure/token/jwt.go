package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

const issuer = "teamsync"

// JWTManager issues and verifies HS256 session tokens. The subject is the
// user id and the jti is a ULID, which logout revokes.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *JWTManager) TTL() time.Duration { return m.ttl }

func (m *JWTManager) Issue(userID string) (ports.IssuedToken, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	id := ulid.Make().String()

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.IssuedToken{Token: signed, ID: id, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify checks signature, algorithm and expiry. Expired tokens map to
// domain.ErrTokenExpired, anything else to domain.ErrUnauthenticated.
func (m *JWTManager) Verify(raw string) (*ports.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return &ports.TokenClaims{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
