package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// ImagesConfig describes where converted files land and what they are encoded as.
// Format is the decoded-format name reported by image.Decode (e.g. "jpeg");
// Extension is appended to the record id to derive the on-disk filename.
type ImagesConfig struct {
	Path      string
	Format    string
	Extension string
}

// LogConfig holds the path of the log file served by GET /log/.
type LogConfig struct {
	Path string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port                 string
	MaxUploadBytes       int
	MaxTransforms        int
	ReconcileIntervalSec int
	Images               ImagesConfig
	Log                  LogConfig
	Database             DatabaseConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:                 getEnv("PORT", "8080"),
		MaxUploadBytes:       getEnvInt("MAX_UPLOAD_MB", 50) << 20,
		MaxTransforms:        getEnvInt("MAX_TRANSFORMS", 4),
		ReconcileIntervalSec: getEnvInt("RECONCILE_INTERVAL_SEC", 3600),
		Images: ImagesConfig{
			Path:      getEnv("IMAGES_PATH", "./images"),
			Format:    getEnv("IMAGE_FORMAT", "jpeg"),
			Extension: getEnv("IMAGE_EXTENSION", "jpg"),
		},
		Log: LogConfig{
			Path: getEnv("LOG_PATH", "./logs/imageconv.log"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
