package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey        string
	JWTExpiration time.Duration
	SaltRound     int

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string
	WebhookURL      string
	KafkaBrokers    []string
	KafkaTopic      string
	NotifyTimeout   time.Duration

	NotificationRetention     time.Duration
	NotificationPurgeSchedule string

	MaxAttachmentBytes int
	AuthRateLimit      int
	SeedDemoUser       bool
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "kursai"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:        getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		SaltRound:     getEnvInt("SALT_ROUND", 10),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "noreply@kursai.lt"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Kursai Platform"),
		WebhookURL:      getEnv("NOTIFY_WEBHOOK_URL", ""),
		KafkaBrokers:    getEnvList("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "kursai-events"),
		NotifyTimeout:   getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),

		NotificationRetention:     getEnvDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		NotificationPurgeSchedule: getEnv("NOTIFICATION_PURGE_SCHEDULE", "@daily"),

		MaxAttachmentBytes: getEnvInt("MAX_ATTACHMENT_BYTES", 10<<20),
		AuthRateLimit:      getEnvInt("AUTH_RATE_LIMIT", 30),
		SeedDemoUser:       getEnvBool("SEED_DEMO_USER", false),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY is not set. Emails will only be logged.")
	}

	return cfg
}

// IsDevelopment reports whether the app runs with APP_ENV=development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
