package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// Admin gate for the analytics read endpoint. When AdminPasswordHash is
	// set it wins over the plain password.
	AdminPassword     string
	AdminPasswordHash string

	// Analytics store selection: memory | sqlite | postgres.
	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	// Generation vendors. Credentials are checked per invocation, not here;
	// a proxy call against a provider with no credential fails that call only.
	Provider          string
	ReplicateAPIToken string
	ReplicateModel    string
	ReplicateBaseURL  string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string

	PollInterval    time.Duration
	PollMaxAttempts int

	StylesPath    string
	StaticDir     string
	GeoIPDBPath   string
	DefaultLocale string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	// Whether a retake keeps the previously selected style.
	RetakeKeepsStyle bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "looks2025"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		StoreDriver:       getEnv("STORE_DRIVER", "memory"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getEnv("SQLITE_PATH", "./data"),
		Provider:          getEnv("GENERATION_PROVIDER", "replicate"),
		ReplicateAPIToken: os.Getenv("REPLICATE_API_TOKEN"),
		ReplicateModel:    getEnv("REPLICATE_MODEL", "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"),
		ReplicateBaseURL:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		PollMaxAttempts:   getEnvInt("POLL_MAX_ATTEMPTS", 60),
		StylesPath:        getEnv("STYLES_PATH", "./web/styles-data.json"),
		StaticDir:         getEnv("STATIC_DIR", "./web"),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		RetakeKeepsStyle:  getEnvBool("RETAKE_KEEPS_STYLE", true),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
