package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/workspace-api/internal/pkg/config"
)

type testServer struct {
	t *testing.T
	h http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Port:            "0",
		Env:             "test",
		StoreDriver:     config.StoreMemory,
		ShutdownTimeout: time.Second,
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			CookieName: "token",
			Hasher:     config.HasherBcrypt,
			BcryptCost: 4,
		},
	}
	a, err := New(context.Background(), cfg, zerolog.Nop(), WithMetricsRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	return &testServer{t: t, h: a.Handler()}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec.Code, out
}

func (s *testServer) register(name, email string) (token, userID, workspaceID string) {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret-pass",
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string), body["current_workspace"].(string)
}

func TestApplication_WorkspaceLifecycle(t *testing.T) {
	s := newTestServer(t)

	aliceToken, _, wsID := s.register("Alice", "alice@example.com")
	bobToken, bobID, _ := s.register("Bob", "bob@example.com")
	carolToken, _, _ := s.register("Carol", "carol@example.com")

	code, body := s.do(http.MethodGet, "/user/current", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, wsID, body["user"].(map[string]any)["current_workspace"])

	code, body = s.do(http.MethodGet, "/workspace/"+wsID, aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	invite := body["workspace"].(map[string]any)["invite_code"].(string)
	assert.Equal(t, "OWNER", body["role"].(map[string]any)["name"])

	code, body = s.do(http.MethodPost, "/member/workspace/"+invite+"/join", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "MEMBER", body["role"])
	assert.Equal(t, wsID, body["workspace_id"])

	code, body = s.do(http.MethodPost, "/project/workspace/"+wsID+"/create", bobToken, map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "AUTHORIZATION_DENIED", body["kind"])

	code, body = s.do(http.MethodPost, "/project/workspace/"+wsID+"/create", aliceToken, map[string]string{"name": "Launch"})
	require.Equal(t, http.StatusCreated, code)
	projectID := body["project"].(map[string]any)["id"].(string)

	code, _ = s.do(http.MethodPost, "/task/project/"+projectID+"/workspace/"+wsID+"/create", aliceToken, map[string]any{
		"title": "Write launch post", "priority": "HIGH", "assigned_to": bobID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, body = s.do(http.MethodGet, "/task/workspace/"+wsID+"/all?assignedTo="+bobID+"&priority=HIGH", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["total_count"])

	code, body = s.do(http.MethodGet, "/workspace/analytics/"+wsID, bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["analytics"].(map[string]any)["total_tasks"])

	code, body = s.do(http.MethodGet, "/workspace/"+wsID, carolToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_A_MEMBER", body["kind"])

	code, _ = s.do(http.MethodDelete, "/workspace/delete/"+wsID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, "/workspace/delete/"+wsID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodGet, "/task/workspace/"+wsID+"/all", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "WORKSPACE_NOT_FOUND", body["code"])
}

func TestApplication_AuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.register("Alice", "alice@example.com")

	code, body := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice 2", "email": "alice@example.com", "password": "secret-pass",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EMAIL_TAKEN", body["code"])

	code, body = s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	code, body = s.do(http.MethodGet, "/workspace/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", body["kind"])

	code, _ = s.do(http.MethodGet, "/workspace/all", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/auth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApplication_Probes(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["dependencies"], "memory")

	code, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
