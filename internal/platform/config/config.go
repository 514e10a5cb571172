package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	pstrings "cruddur/pkg/platform/strings"
)

// Server captures process level configuration. It is assembled once at start-up
// and passed by value to the components that need it.
type Server struct {
	Addr        string
	FrontendURL string
	BackendURL  string
	// AllowAnyOrigin opens /api to every origin. Without it and without
	// FRONTEND_URL/BACKEND_URL, cross-origin requests are refused.
	AllowAnyOrigin bool
	DatabaseURL    string
	Log         LogConfig
	Cognito     CognitoConfig
	Redis       RedisConfig
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string
	Format string
}

// CognitoConfig identifies the user pool whose access tokens are accepted.
type CognitoConfig struct {
	Region             string
	UserPoolID         string
	ClientID           string
	KeySetTTL          time.Duration
	MinRefreshInterval time.Duration
	HTTPTimeout        time.Duration
	ClockSkew          time.Duration
}

// RedisConfig configures the optional Redis mirror of the signing key set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	defaultAddr               = ":4567"
	defaultKeySetTTL          = time.Hour
	defaultMinRefreshInterval = time.Minute
	defaultJWKSHTTPTimeout    = 5 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        getEnv("CRUDDUR_ADDR", defaultAddr),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		BackendURL:  os.Getenv("BACKEND_URL"),
		DatabaseURL: os.Getenv("CONNECTION_URL"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Cognito: CognitoConfig{
			Region:     os.Getenv("AWS_DEFAULT_REGION"),
			UserPoolID: os.Getenv("AWS_COGNITO_USER_POOL_ID"),
			ClientID:   os.Getenv("AWS_COGNITO_USER_POOL_CLIENT_ID"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 1,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}

	var err error
	if cfg.Cognito.KeySetTTL, err = durationEnv("JWKS_CACHE_TTL", defaultKeySetTTL); err != nil {
		return Server{}, err
	}
	if cfg.Cognito.MinRefreshInterval, err = durationEnv("JWKS_MIN_REFRESH_INTERVAL", defaultMinRefreshInterval); err != nil {
		return Server{}, err
	}
	if cfg.Cognito.HTTPTimeout, err = durationEnv("JWKS_HTTP_TIMEOUT", defaultJWKSHTTPTimeout); err != nil {
		return Server{}, err
	}
	if cfg.Cognito.ClockSkew, err = durationEnv("JWT_CLOCK_SKEW", 0); err != nil {
		return Server{}, err
	}
	if v := os.Getenv("CORS_ALLOW_ANY_ORIGIN"); v != "" {
		if cfg.AllowAnyOrigin, err = strconv.ParseBool(v); err != nil {
			return Server{}, fmt.Errorf("CORS_ALLOW_ANY_ORIGIN: invalid value %q", v)
		}
	}
	if v := os.Getenv("REDIS_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Server{}, fmt.Errorf("REDIS_POOL_SIZE: invalid value %q", v)
		}
		cfg.Redis.PoolSize = n
	}

	if err := cfg.Cognito.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// AllowedOrigins returns the configured cross-origin callers, skipping unset
// ones. An empty result means no origin is allowed.
func (s Server) AllowedOrigins() []string {
	if s.AllowAnyOrigin {
		return []string{"*"}
	}
	return pstrings.DedupeAndTrim(s.FrontendURL, s.BackendURL)
}

// Validate ensures the user pool can be resolved.
func (c CognitoConfig) Validate() error {
	switch {
	case c.Region == "":
		return fmt.Errorf("AWS_DEFAULT_REGION is required")
	case c.UserPoolID == "":
		return fmt.Errorf("AWS_COGNITO_USER_POOL_ID is required")
	case c.ClientID == "":
		return fmt.Errorf("AWS_COGNITO_USER_POOL_CLIENT_ID is required")
	}
	return nil
}

// Issuer is the iss claim Cognito writes into tokens for this pool.
func (c CognitoConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL is where the pool publishes its signing keys.
func (c CognitoConfig) JWKSURL() string {
	return c.Issuer() + "/.well-known/jwks.json"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
