package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	StoreDriver string
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration
	BcryptCost       int

	AccessCookieMaxAge  time.Duration
	RefreshCookieMaxAge time.Duration
	CookieSecure        bool
	CookieDomain        string
	CookieSameSite      string

	RefreshRotation           bool
	RevocationCleanupInterval time.Duration

	CORSOrigins    []string
	LogLevel       string
	MetricsEnabled bool
}

// Load reads the given env files (".env" when none are given, missing files
// are ignored), then the process environment, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 1)),

		JWTAccessSecret:  strings.TrimSpace(os.Getenv("JWT_ACCESS_SECRET")),
		JWTRefreshSecret: strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET")),
		JWTAccessTTL:     getDuration("JWT_ACCESS_TTL", time.Hour),
		JWTRefreshTTL:    getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", 12),

		AccessCookieMaxAge:  getDuration("ACCESS_COOKIE_MAX_AGE", 24*time.Hour),
		RefreshCookieMaxAge: getDuration("REFRESH_COOKIE_MAX_AGE", 7*24*time.Hour),
		CookieSecure:        getBool("COOKIE_SECURE", false),
		CookieDomain:        getEnv("COOKIE_DOMAIN", ""),
		CookieSameSite:      strings.ToLower(getEnv("COOKIE_SAMESITE", "lax")),

		RefreshRotation:           getBool("REFRESH_ROTATION", false),
		RevocationCleanupInterval: getDuration("REVOCATION_CLEANUP_INTERVAL", time.Hour),

		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getBool("METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on missing or weak secrets; there is no fallback secret.
func (c *Config) Validate() error {
	if c.JWTAccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is required")
	}

	if c.JWTRefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}

	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}

	if c.ServerPort == "" {
		return errors.New("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.CookieSameSite {
	case "", "lax", "strict":
	case "none":
		// Cross-site origins in CORS_ORIGINS only receive the session cookies
		// with SameSite=None, which browsers accept on Secure cookies only.
		if !c.CookieSecure {
			return errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
		}
	default:
		return fmt.Errorf("COOKIE_SAMESITE must be lax, strict or none, got %q", c.CookieSameSite)
	}

	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return errors.New("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, and DB_MAX_CONNS at least 1")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
