package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"restaurant-order-services/internal/storage"
)

type Config struct {
	Env                 string
	LogLevel            string
	HTTPAddr            string
	StoreDriver         string
	DatabaseURL         string
	AutoMigrate         bool
	JWTSecret           string
	JWTExpirySeconds    int64
	AdminEmail          string
	AdminPassword       string
	MaxFileSizeBytes    int64
	RabbitMQURL         string
	RabbitMQWorkerMode  string
	KitchenAutoTicket   bool
	CorsAllowedOrigins  []string
	MetricsEnabled      bool
	Timezone            string
	RestaurantProfile   string
	WSHeartbeatInterval time.Duration
	ShutdownTimeout     time.Duration

	ObjectStore storage.Config
}

func Load() Config {
	cfg := Config{
		Env:                 getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", ""),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8086"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		AutoMigrate:         getEnvBool("DB_AUTO_MIGRATE", true),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpirySeconds:    getEnvInt64("JWT_EXPIRY", 3600),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		MaxFileSizeBytes:    getEnvInt64("MAX_FILE_SIZE", 5*1024*1024),
		RabbitMQURL:         getEnv("RABBITMQ_URL", ""),
		RabbitMQWorkerMode:  getEnv("RABBITMQ_WORKER_MODE", "daemon"),
		KitchenAutoTicket:   getEnvBool("KITCHEN_AUTO_TICKET", false),
		CorsAllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		Timezone:            getEnv("RESTAURANT_TIMEZONE", "UTC"),
		RestaurantProfile:   getEnv("RESTAURANT_PROFILE", ""),
		WSHeartbeatInterval: getEnvDuration("WS_HEARTBEAT_INTERVAL", 30*time.Second),
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		// S3-compatible bucket for menu photos and archived invoices.
		ObjectStore: storage.Config{
			Endpoint:        getEnvFirst([]string{"OBJECT_STORE_ENDPOINT", "S3_ENDPOINT"}, ""),
			Region:          getEnvFirst([]string{"OBJECT_STORE_REGION", "AWS_REGION"}, "auto"),
			AccessKeyID:     getEnvFirst([]string{"OBJECT_STORE_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}, ""),
			SecretAccessKey: getEnvFirst([]string{"OBJECT_STORE_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}, ""),
			Bucket:          getEnvFirst([]string{"OBJECT_STORE_BUCKET", "S3_BUCKET"}, ""),
			PublicBaseURL:   getEnv("OBJECT_STORE_PUBLIC_BASE_URL", ""),
			StorageClass:    getEnv("OBJECT_STORE_STORAGE_CLASS", "STANDARD"),
		},
	}

	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	if cfg.JWTExpirySeconds <= 0 {
		cfg.JWTExpirySeconds = 3600
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) UsesMemoryStore() bool {
	return c.StoreDriver == "memory"
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvFirst(keys []string, fallback string) string {
	for _, k := range keys {
		value := strings.TrimSpace(os.Getenv(k))
		if value != "" {
			return value
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
