package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// FrontendOrigin is the single origin allowed by CORS, with credentials.
	FrontendOrigin string `env:"FRONTEND_ORIGIN, default=http://localhost:5173"`
	// StoreDriver selects the persistence backend: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	// AuthRateLimit is the per-IP request rate allowed on /auth routes.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth   AuthConfig
	RBAC   RBACConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Google GoogleConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=24h"`
	CookieName string        `env:"COOKIE_NAME, default=token"`
	Hasher     string        `env:"PASSWORD_HASHER, default=bcrypt"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

// RBACConfig overrides the ADMIN and MEMBER grants. Empty keeps defaults.
type RBACConfig struct {
	AdminPermissions  []string `env:"RBAC_ADMIN_PERMISSIONS"`
	MemberPermissions []string `env:"RBAC_MEMBER_PERMISSIONS"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=teamsync"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED, default=true"`
	Addr     string `env:"REDIS_ADDR,    default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,      default=0"`
}

type GoogleConfig struct {
	ClientID            string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret        string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL         string `env:"GOOGLE_CALLBACK_URL"`
	FrontendCallbackURL string `env:"FRONTEND_GOOGLE_CALLBACK_URL"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate checks the enumerated settings envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver))
	}
	switch c.Auth.Hasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASHER must be %q or %q, got %q", HasherBcrypt, HasherArgon2id, c.Auth.Hasher))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
