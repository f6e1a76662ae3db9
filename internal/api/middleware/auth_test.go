package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

type stubVerifier struct{}

func (stubVerifier) Verify(raw string) (*ports.TokenClaims, error) {
	switch raw {
	case "good":
		return &ports.TokenClaims{UserID: "u1", TokenID: "jti-good", ExpiresAt: time.Now().Add(time.Hour)}, nil
	case "revoked":
		return &ports.TokenClaims{UserID: "u1", TokenID: "jti-revoked", ExpiresAt: time.Now().Add(time.Hour)}, nil
	case "expired":
		return nil, domain.ErrTokenExpired
	}
	return nil, domain.ErrUnauthenticated
}

type stubStore struct{ err error }

func (stubStore) Revoke(context.Context, string, time.Time) error { return nil }

func (s stubStore) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return id == "jti-revoked", nil
}

func run(t *testing.T, store ports.TokenRevocationStore, prepare func(*http.Request)) (bool, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	prepare(req)
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	h := Auth(stubVerifier{}, store, "token")(func(c echo.Context) error {
		called = true
		return nil
	})
	err := h(c)
	return called, c, err
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	called, c, err := run(t, stubStore{}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good")
	})
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v", err)
	}
	if c.Get(ContextUserID) != "u1" {
		t.Fatalf("user_id not set")
	}
	claims, ok := Claims(c)
	if !ok || claims.TokenID != "jti-good" {
		t.Fatalf("claims not set")
	}
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	called, _, err := run(t, nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	})
	if err != nil || !called {
		t.Fatalf("expected cookie auth to pass, err=%v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]struct {
		prepare func(*http.Request)
		want    error
	}{
		"missing":        {func(*http.Request) {}, domain.ErrUnauthenticated},
		"invalid format": {func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, domain.ErrUnauthenticated},
		"bad token":      {func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, domain.ErrUnauthenticated},
		"expired":        {func(r *http.Request) { r.Header.Set("Authorization", "Bearer expired") }, domain.ErrTokenExpired},
		"revoked":        {func(r *http.Request) { r.Header.Set("Authorization", "Bearer revoked") }, domain.ErrTokenRevoked},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called, _, err := run(t, stubStore{}, tc.prepare)
			if called {
				t.Fatalf("should not reach next")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailureFailsClosed(t *testing.T) {
	called, _, err := run(t, stubStore{err: errors.New("redis down")}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good")
	})
	if called {
		t.Fatalf("should not reach next")
	}
	if err == nil || domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
