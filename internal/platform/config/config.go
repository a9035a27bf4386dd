package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host      string
	Port      string
	KeyPrefix string
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type EmailConfig struct {
	APIKey string
	From   string
}

type AMQPConfig struct {
	URL   string
	Queue string
}

func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

type Config struct {
	CatalogPath     string
	BillPath        string
	BillPDFPath     string
	ConfirmTimeout  time.Duration
	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	Redis RedisConfig
	Email EmailConfig
	AMQP  AMQPConfig
}

// Load reads an optional env file and then the process environment.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("env file not loaded, using process environment", "error", err)
	}

	return &Config{
		CatalogPath:     getEnv("CATALOG_PATH", "movies.csv"),
		BillPath:        getEnv("BILL_PATH", "bill.txt"),
		BillPDFPath:     getEnv("BILL_PDF_PATH", ""),
		ConfirmTimeout:  time.Duration(getEnvInt("CONFIRM_TIMEOUT_SEC", 30)) * time.Second,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),

		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", ""),
			Port:      getEnv("REDIS_PORT", "6379"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "showings"),
		},

		Email: EmailConfig{
			APIKey: getEnv("RESEND_API_KEY", ""),
			From:   getEnv("EMAIL_FROM", "Movie Cashier <noreply@movie-cashier.local>"),
		},

		AMQP: AMQPConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("AMQP_QUEUE", "bill.finalized"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
