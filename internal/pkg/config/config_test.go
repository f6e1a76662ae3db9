package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s"})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, HasherBcrypt, cfg.Auth.Hasher)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Google.Enabled())
	assert.Empty(t, cfg.RBAC.AdminPermissions)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":              "s",
		"TOKEN_TTL":               "90m",
		"STORE_DRIVER":            "memory",
		"PASSWORD_HASHER":         "argon2id",
		"RBAC_MEMBER_PERMISSIONS": "VIEW_ONLY,CREATE_TASK",
		"GOOGLE_CLIENT_ID":        "id",
		"GOOGLE_CLIENT_SECRET":    "secret",
		"GOOGLE_CALLBACK_URL":     "http://localhost/cb",
	})
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"VIEW_ONLY", "CREATE_TASK"}, cfg.RBAC.MemberPermissions)
	assert.True(t, cfg.Google.Enabled())
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "s", "STORE_DRIVER": "postgres"},
		"bad hasher":     {"JWT_SECRET": "s", "PASSWORD_HASHER": "md5"},
		"zero ttl":       {"JWT_SECRET": "s", "TOKEN_TTL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}
