package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// HTTP Config
	CORSOrigins        []string `env:"CORS_ORIGINS"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Auth Config
	JWTSecret         string        `env:"JWT_SECRET"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`

	// API Keys for machine clients
	APIKeys []string `env:"API_KEYS"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Stats Config
	StatsTimeWindowMinutes int `env:"STATS_TIME_WINDOW_MINUTES" envDefault:"60"`

	// Messaging platforms
	TelegramBotToken     string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramWebhookURL   string `env:"TELEGRAM_WEBHOOK_URL"`
	WhatsAppAPIKey       string `env:"WHATSAPP_API_KEY"`
	WhatsAppAPIURL       string `env:"WHATSAPP_API_URL" envDefault:"https://waba.360dialog.io/v1"`
	WhatsAppVerifyToken  string `env:"WHATSAPP_WEBHOOK_VERIFY_TOKEN"`
	SlackBotToken        string `env:"SLACK_BOT_TOKEN"`
	SlackAlertsChannelID string `env:"SLACK_ALERTS_CHANNEL_ID"`

	// External APIs
	OpenWeatherAPIKey string        `env:"OPENWEATHER_API_KEY"`
	OpenWeatherURL    string        `env:"OPENWEATHER_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	NominatimURL      string        `env:"NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org"`
	IPAPIURL          string        `env:"IPAPI_URL" envDefault:"https://ipapi.co"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	GeocodeCacheTTL   time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`

	// Mail
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@floodwatch.local"`

	// Alerts & incidents
	AlertRadiusBufferKM     float64 `env:"ALERT_RADIUS_BUFFER_KM" envDefault:"2.0"`
	DefaultAlertRadiusKM    float64 `env:"DEFAULT_ALERT_RADIUS_KM" envDefault:"5.0"`
	MinReportsForIncident   int     `env:"MIN_REPORTS_FOR_INCIDENT" envDefault:"1"`
	IncidentClusterRadiusKM float64 `env:"INCIDENT_CLUSTER_RADIUS_KM" envDefault:"0.5"`

	// Verification
	VerificationConfidenceThreshold float64 `env:"VERIFICATION_CONFIDENCE_THRESHOLD" envDefault:"0.6"`
	CommunityVerifyThreshold        int     `env:"COMMUNITY_VERIFY_THRESHOLD" envDefault:"3"`

	// Monitoring
	SentryDSN string `env:"SENTRY_DSN"`
}

// IsProduction сообщает, запущено ли приложение в production окружении
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AutoMigrate:        getEnvAsBool("AUTO_MIGRATE", true),
		CORSOrigins:        getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenExpiry: time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		APIKeys:           getEnvAsSlice("API_KEYS", nil),

		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),

		StatsTimeWindowMinutes: getEnvAsInt("STATS_TIME_WINDOW_MINUTES", 60),

		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:   os.Getenv("TELEGRAM_WEBHOOK_URL"),
		WhatsAppAPIKey:       os.Getenv("WHATSAPP_API_KEY"),
		WhatsAppAPIURL:       getEnv("WHATSAPP_API_URL", "https://waba.360dialog.io/v1"),
		WhatsAppVerifyToken:  os.Getenv("WHATSAPP_WEBHOOK_VERIFY_TOKEN"),
		SlackBotToken:        os.Getenv("SLACK_BOT_TOKEN"),
		SlackAlertsChannelID: os.Getenv("SLACK_ALERTS_CHANNEL_ID"),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherURL:    getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5"),
		NominatimURL:      getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		IPAPIURL:          getEnv("IPAPI_URL", "https://ipapi.co"),
		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		GeocodeCacheTTL:   getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@floodwatch.local"),

		AlertRadiusBufferKM:     getEnvAsFloat("ALERT_RADIUS_BUFFER_KM", 2.0),
		DefaultAlertRadiusKM:    getEnvAsFloat("DEFAULT_ALERT_RADIUS_KM", 5.0),
		MinReportsForIncident:   getEnvAsInt("MIN_REPORTS_FOR_INCIDENT", 1),
		IncidentClusterRadiusKM: getEnvAsFloat("INCIDENT_CLUSTER_RADIUS_KM", 0.5),

		VerificationConfidenceThreshold: getEnvAsFloat("VERIFICATION_CONFIDENCE_THRESHOLD", 0.6),
		CommunityVerifyThreshold:        getEnvAsInt("COMMUNITY_VERIFY_THRESHOLD", 3),

		SentryDSN: os.Getenv("SENTRY_DSN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.VerificationConfidenceThreshold <= 0 || c.VerificationConfidenceThreshold > 1 {
		return fmt.Errorf("VERIFICATION_CONFIDENCE_THRESHOLD must be in (0, 1]")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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

// getEnvAsSlice разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
