package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextClaims = "token_claims"
)

// Auth validates the session token and injects its claims into context.
// The token is read from the Authorization bearer header first, then from
// the session cookie. revocations may be nil when no store is configured;
// a store error rejects the request.
func Auth(verifier ports.TokenVerifier, revocations ports.TokenRevocationStore, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := extractToken(c, cookieName)
			if err != nil {
				return err
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				return err
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(c.Request().Context(), claims.TokenID)
				if err != nil {
					return fmt.Errorf("check token revocation: %w", err)
				}
				if revoked {
					return domain.ErrTokenRevoked
				}
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextClaims, claims)

			return next(c)
		}
	}
}

func extractToken(c echo.Context, cookieName string) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrUnauthenticated
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", domain.ErrUnauthenticated
}

// Claims returns the verified claims Auth stored on the context.
func Claims(c echo.Context) (*ports.TokenClaims, bool) {
	claims, ok := c.Get(ContextClaims).(*ports.TokenClaims)
	return claims, ok && claims != nil
}
