package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	MigrationsDir string
	CORSOrigin    string
	// Redis - refresh sessions fall back to the main store when empty
	RedisURL string
	// Uploads
	UploadDir      string
	MaxUploadBytes int64
	// MinIO - disk blobs are used when the endpoint is empty
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() Config {
	return Config{
		Addr:          getenv("API_ADDR", ":8787"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		JWTSecret:     getenv("TRACKER_JWT_SECRET", "tracker-dev-secret"),
		JWTIssuer:     getenv("TRACKER_JWT_ISSUER", "tracker"),
		AccessTTL:     time.Duration(getenvInt("TRACKER_ACCESS_TTL_SECONDS", 900)) * time.Second,
		RefreshTTL:    time.Duration(getenvInt("TRACKER_REFRESH_TTL_SECONDS", 2592000)) * time.Second,
		MigrationsDir: getenv("TRACKER_MIGRATIONS_DIR", "./db/migrations"),
		CORSOrigin:    getenv("TRACKER_CORS_ORIGIN", "*"),
		RedisURL:      getenv("REDIS_URL", ""),

		UploadDir:      getenv("TRACKER_UPLOAD_DIR", "./data/uploads"),
		MaxUploadBytes: int64(getenvInt("TRACKER_MAX_UPLOAD_BYTES", 5<<20)),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "tracker-files"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
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
