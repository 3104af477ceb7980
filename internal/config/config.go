package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Supabase Config
	SupabaseURL     string        `env:"SUPABASE_URL"`
	SupabaseAnonKey string        `env:"SUPABASE_ANON_KEY"`
	SupabaseTimeout time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"10s"`

	// Storage Config
	StoreBackend string `env:"STORE_BACKEND" envDefault:"rest"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session Config
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionWatchInterval time.Duration `env:"SESSION_WATCH_INTERVAL" envDefault:"30s"`
	SessionCookieSecure  bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Geocoding Config
	GeocodeURL           string        `env:"GEOCODE_URL" envDefault:"https://nominatim.openstreetmap.org/reverse"`
	GeocodeTimeout       time.Duration `env:"GEOCODE_TIMEOUT" envDefault:"5s"`
	GeocodeCacheTTL      time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
	GeocodeFailureBlocks bool          `env:"GEOCODE_FAILURE_BLOCKS" envDefault:"true"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Static host Config
	WebRoot    string `env:"WEB_ROOT" envDefault:"."`
	IndexPath  string `env:"INDEX_PATH" envDefault:"src/index.html"`
	StylesPath string `env:"STYLES_PATH" envDefault:"dist/styles.css"`
}

// SupabaseConfigured сообщает, заданы ли оба параметра подключения к Supabase.
// Без них сервер работает только в режиме "configuration required".
func (c *Config) SupabaseConfigured() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "3000"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		SupabaseURL:          strings.TrimRight(firstEnv("SUPABASE_URL", "VITE_SUPABASE_URL"), "/"),
		SupabaseAnonKey:      firstEnv("SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"),
		SupabaseTimeout:      getEnvAsDuration("SUPABASE_TIMEOUT", 10*time.Second),
		StoreBackend:         strings.ToLower(getEnv("STORE_BACKEND", BackendREST)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		SessionWatchInterval: getEnvAsDuration("SESSION_WATCH_INTERVAL", 30*time.Second),
		SessionCookieSecure:  getEnvAsBool("SESSION_COOKIE_SECURE", false),
		GeocodeURL:           getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/reverse"),
		GeocodeTimeout:       getEnvAsDuration("GEOCODE_TIMEOUT", 5*time.Second),
		GeocodeCacheTTL:      getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		GeocodeFailureBlocks: getEnvAsBool("GEOCODE_FAILURE_BLOCKS", true),
		WebhookURL:           os.Getenv("WEBHOOK_URL"),
		WebhookSecret:        os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:       getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:    getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:     getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		WebRoot:              getEnv("WEB_ROOT", "."),
		IndexPath:            getEnv("INDEX_PATH", "src/index.html"),
		StylesPath:           getEnv("STYLES_PATH", "dist/styles.css"),
	}

	switch cfg.StoreBackend {
	case BackendREST:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// firstEnv возвращает первое непустое значение из списка переменных
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
