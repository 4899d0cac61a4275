package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Webhook endpoints used when nothing is configured.
const (
	defaultOTPWebhookURL     = "http://localhost:5678/webhook/otp-auth"
	defaultBookingWebhookURL = "http://localhost:5678/webhook/booking-completed"
	defaultCancelWebhookURL  = "http://localhost:5678/webhook/booking-cancel-confirmation"
)

// devJWTSecret signs sessions outside production when JWT_SECRET is unset.
const devJWTSecret = "dev-only-journey-compass-secret"

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when APP_ENV=production")

type Env struct {
	AppAddr string
	AppEnv  string
	GinMode string

	StoreDriver string
	StorePath   string
	StoreKey    string
	DBDSN       string
	RedisAddr   string
	LockTTL     time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	OTPWebhookURL     string
	BookingWebhookURL string
	CancelWebhookURL  string
	WebhookTimeout    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSAllowedOrigins []string
	OTPRatePerMinute   int
	CatalogPath        string
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	env := Env{
		AppAddr: getString("APP_ADDR", ":8080"),
		AppEnv:  getString("APP_ENV", "development"),
		GinMode: getString("GIN_MODE", ""),

		StoreDriver: strings.ToLower(getString("STORE_DRIVER", "file")),
		StorePath:   getString("STORE_PATH", "data/journey-compass-db.json"),
		StoreKey:    getString("STORE_KEY", "journey-compass-db"),
		DBDSN:       getString("DB_DSN", ""),
		RedisAddr:   getString("REDIS_ADDR", ""),
		LockTTL:     getDuration("LOCK_TTL", 10*time.Second),

		JWTSecret:  getString("JWT_SECRET", ""),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),

		OTPWebhookURL:     getString("OTP_WEBHOOK_URL", defaultOTPWebhookURL),
		BookingWebhookURL: getString("BOOKING_WEBHOOK_URL", defaultBookingWebhookURL),
		CancelWebhookURL:  getString("CANCEL_BOOKING_WEBHOOK_URL", defaultCancelWebhookURL),
		WebhookTimeout:    getDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getString("KAFKA_TOPIC", "booking-events"),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
		OTPRatePerMinute:   getInt("OTP_RATE_PER_MIN", 5),
		CatalogPath:        getString("CATALOG_PATH", ""),
	}
	if env.JWTSecret == "" && !env.IsProduction() {
		env.JWTSecret = devJWTSecret
	}
	return env
}

func (e Env) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(e.AppEnv), "production")
}

// Validate rejects settings the server must not start with.
func (e Env) Validate() error {
	if e.IsProduction() && e.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
