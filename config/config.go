// Package config loads the server settings from a .env file and the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds every setting the server reads at startup
type Config struct {
	ListenAddr     string
	DatabaseURL    string
	SigningPepper  string
	AllowedOrigins []string
	SessionTTL     time.Duration
	CookieSecure   bool
	Debug          bool
}

const (
	defaultListenAddr  = ":8080"
	defaultDatabaseURL = "sqlite://roomboard.sqlite"
	defaultSessionTTL  = 30 * 24 * time.Hour
)

// Load reads the .env file at envFile, if it exists, and then builds the
// config from the environment. Variables already set in the environment win
// over the file.
func Load(envFile string) (*Config, error) {

	// Load the .env file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", defaultListenAddr),
		DatabaseURL:    getEnv("DB_URL", defaultDatabaseURL),
		SigningPepper:  os.Getenv("AUTH_TOKEN_SIGNING_PEPPER"),
		AllowedOrigins: GetAllowedOrigins(),
		SessionTTL:     defaultSessionTTL,
	}

	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE"); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getBool("DEBUG"); err != nil {
		return nil, err
	}

	if len(cfg.SigningPepper) == 0 {
		return nil, errors.New("AUTH_TOKEN_SIGNING_PEPPER must be set")
	}
	return cfg, nil

}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && len(v) > 0 {
		return v
	}
	return fallback
}

func getBool(key string) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || len(v) == 0 {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// GetAllowedOrigins gets the slice of allowed CORS origins
func GetAllowedOrigins() []string {

	// Get the list of origins allowed
	env, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if !ok {
		return []string{}
	}

	// Split up the env value
	origins := []string{}
	for _, originRaw := range strings.Split(env, ",") {
		origin := strings.TrimSpace(originRaw)
		if len(origin) > 0 {
			origins = append(origins, origin)
		}
	}
	return origins

}

// ParseDatabaseDriver gets the GORM dialector for a database URL. Supported
// schemes are sqlite:// (followed by a file path or :memory:) and mysql://
// (followed by a go-sql-driver DSN). It returns nil for anything else.
func ParseDatabaseDriver(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(strings.TrimPrefix(url, "mysql://"))
	default:
		return nil
	}
}
