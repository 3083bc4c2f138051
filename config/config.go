package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort     string
	Environment    string
	BackendURL     string        // Базовый URL основного API центра
	BackendTimeout time.Duration // Таймаут одного запроса к API
	Location       *time.Location

	CacheTTL    time.Duration // Время жизни снимка дашборда
	WatchTTL    time.Duration // Сколько держать токен в списке обновления без запросов
	RefreshSpec string        // Cron-выражение периодического обновления

	UpcomingWindowDays int
	WeeklyWindowDays   int
	UpcomingLimit      int
	HistoryDays        int

	CORSOrigins []string

	MinIOEnabled    bool
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	ReportBucket    string // Бакет для выгруженных отчетов
	PresignedURLTTL time.Duration
}

func Load() *Config {
	backendTimeout, _ := strconv.Atoi(getEnv("BACKEND_TIMEOUT_SECONDS", "10"))
	cacheSeconds, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "30"))
	watchMinutes, _ := strconv.Atoi(getEnv("WATCH_TTL_MINUTES", "5"))
	presignedMinutes, _ := strconv.Atoi(getEnv("PRESIGNED_URL_TTL_MINUTES", "15"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	minioEnabled, _ := strconv.ParseBool(getEnv("MINIO_ENABLED", "false"))

	tz := getEnv("TIMEZONE", "America/Lima")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("unknown TIMEZONE %q, falling back to UTC: %v", tz, err)
		loc = time.UTC
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		BackendURL:         strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:3000/api"), "/"),
		BackendTimeout:     time.Duration(backendTimeout) * time.Second,
		Location:           loc,
		CacheTTL:           time.Duration(cacheSeconds) * time.Second,
		WatchTTL:           time.Duration(watchMinutes) * time.Minute,
		RefreshSpec:        getEnv("REFRESH_SPEC", "@every 30s"),
		UpcomingWindowDays: getEnvInt("UPCOMING_WINDOW_DAYS", 14),
		WeeklyWindowDays:   getEnvInt("WEEKLY_WINDOW_DAYS", 6),
		UpcomingLimit:      getEnvInt("UPCOMING_LIMIT", 6),
		HistoryDays:        getEnvInt("HISTORY_DAYS", 30),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		MinIOEnabled:       minioEnabled,
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", "minio:9000"),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOUseSSL:        useSSL,
		ReportBucket:       getEnv("REPORT_BUCKET", "training-center-reports"),
		PresignedURLTTL:    time.Duration(presignedMinutes) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
