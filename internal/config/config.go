package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	Env        string
	DataDir    string
	StaticDir  string
	CORSOrigin string
	// Admin credentials - login disabled if password is not configured
	AdminUsername string
	AdminPassword string
	// Stripe - mock checkout sessions if not configured
	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	// GA4 - mock analytics if not configured
	GAPropertyID  string
	GAAccessToken string
	// Redis - analytics cache disabled if not configured
	RedisURL          string
	AnalyticsCacheTTL time.Duration
	// S3-compatible document storage - local files if not configured
	DocsS3Endpoint  string
	DocsS3AccessKey string
	DocsS3SecretKey string
	DocsS3Bucket    string
	DocsS3UseSSL    bool
}

func Load() Config {
	return Config{
		Addr:       getenv("API_ADDR", ":3000"),
		Env:        getenv("NODE_ENV", "development"),
		DataDir:    getenv("COASTLINE_DATA_DIR", "./data"),
		StaticDir:  getenv("COASTLINE_STATIC_DIR", "./public"),
		CORSOrigin: getenv("COASTLINE_CORS_ORIGIN", "*"),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", ""),

		StripeSecretKey:    getenv("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getenv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CheckoutCancelURL:  getenv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),

		GAPropertyID:  getenv("GA_PROPERTY_ID", ""),
		GAAccessToken: getenv("GA_ACCESS_TOKEN", ""),

		RedisURL:          getenv("REDIS_URL", ""),
		AnalyticsCacheTTL: time.Duration(getenvInt("ANALYTICS_CACHE_TTL_SECONDS", 300)) * time.Second,

		DocsS3Endpoint:  getenv("DOCS_S3_ENDPOINT", ""),
		DocsS3AccessKey: getenv("DOCS_S3_ACCESS_KEY", ""),
		DocsS3SecretKey: getenv("DOCS_S3_SECRET_KEY", ""),
		DocsS3Bucket:    getenv("DOCS_S3_BUCKET", "coastline-docs"),
		DocsS3UseSSL:    getenvBool("DOCS_S3_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
