package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// GeocodeCacheTTL bounds how long reverse/forward geocode results are served
// from cache before the provider is consulted again.
var GeocodeCacheTTL = 24 * time.Hour

// Config captures process-level configuration. Built from environment
// variables so main stays lean.
type Config struct {
	Addr       string
	AdminToken string

	// Postgres connection string; empty means in-memory stores.
	DatabaseURL string

	// Redis connection URL for the geocode cache; empty disables caching.
	RedisURL string

	// Kafka seed brokers for the audit event bus; empty disables publishing.
	KafkaBrokers string
	KafkaTopic   string

	// Provider endpoints.
	NominatimBaseURL string
	OCREndpoint      string

	// Object storage for photo re-hosting; empty endpoint disables re-hosting.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// ProviderTimeout bounds each outbound provider call.
	ProviderTimeout time.Duration
}

// Load reads .env (when present) and builds a Config from the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("SHOPDIR_ADDR", ":8080"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       envOr("KAFKA_AUDIT_TOPIC", "shopdir.audit"),
		NominatimBaseURL: envOr("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		OCREndpoint:      os.Getenv("OCR_ENDPOINT"),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:      envOr("MINIO_BUCKET", "shop-media"),
		MinioUseSSL:      os.Getenv("MINIO_USE_SSL") == "true",
		ProviderTimeout:  durationOr("PROVIDER_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
