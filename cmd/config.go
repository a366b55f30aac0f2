package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"multistop/internal/pkg/errs"
)

// Config is the process configuration read by LoadConfig.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	GoogleMapsAPIKey string
	LogLevel         slog.Level

	OfferWindow         time.Duration
	OfferSweepSchedule  string
	OfferSweepLimit     int
	ReconcileSchedule   string
	ReconcileStaleAfter time.Duration
	DispatchRadiusKm    float64
	RequiredDocuments   []string
	EditRetryAttempts   int
	RouteCacheTTL       time.Duration
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; it never overrides
// variables that are already set.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}
	cfg := Config{
		HTTPPort:   env.string("HTTP_PORT", "8080"),
		DBHost:     env.string("DB_HOST", ""),
		DBPort:     env.string("DB_PORT", "5432"),
		DBUser:     env.string("DB_USER", "postgres"),
		DBPassword: env.string("DB_PASSWORD", ""),
		DBName:     env.string("DB_NAME", "multistop"),
		DBSslMode:  env.string("DB_SSLMODE", "disable"),

		RedisAddr:     env.string("REDIS_ADDR", "localhost:6379"),
		RedisPassword: env.string("REDIS_PASSWORD", ""),
		RedisDB:       env.int("REDIS_DB", 0),

		JWTSecret:        env.string("JWT_SECRET", ""),
		GoogleMapsAPIKey: env.string("GOOGLE_MAPS_API_KEY", ""),
		LogLevel:         env.level("LOG_LEVEL", slog.LevelInfo),

		OfferWindow:         env.duration("OFFER_WINDOW", 30*time.Second),
		OfferSweepSchedule:  env.string("OFFER_SWEEP_SCHEDULE", "@every 10s"),
		OfferSweepLimit:     env.int("OFFER_SWEEP_LIMIT", 100),
		ReconcileSchedule:   env.string("RECONCILE_SCHEDULE", "@every 1m"),
		ReconcileStaleAfter: env.duration("RECONCILE_STALE_AFTER", time.Minute),
		DispatchRadiusKm:    env.float("DISPATCH_RADIUS_KM", 10),
		RequiredDocuments:   env.list("REQUIRED_DOCUMENTS", []string{"DRIVING_LICENSE", "INSURANCE"}),
		EditRetryAttempts:   env.int("EDIT_RETRY_ATTEMPTS", 3),
		RouteCacheTTL:       env.duration("ROUTE_CACHE_TTL", 10*time.Minute),
	}
	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateDatabase checks what every command touching the database needs.
func (c Config) ValidateDatabase() error {
	if c.DBHost == "" {
		return errs.NewValueIsRequiredError("DB_HOST")
	}
	return nil
}

// ValidateServe checks what the HTTP server and the jobs need on top of the
// database.
func (c Config) ValidateServe() error {
	var err error
	if c.JWTSecret == "" {
		err = errs.NewValueIsRequiredError("JWT_SECRET")
	}
	if c.GoogleMapsAPIKey == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("GOOGLE_MAPS_API_KEY"))
	}
	return errors.Join(c.ValidateDatabase(), err)
}

// PostgresDSN formats the connection string for the pgx driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) string(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) int(key string, def int) int {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return n
}

func (r *envReader) float(key string, def float64) float64 {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return f
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return d
}

func (r *envReader) level(key string, def slog.Level) slog.Level {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return level
}

func (r *envReader) list(key string, def []string) []string {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
