package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	ServerPort     string
	Env            string
	LogLevel       string
	CORSOrigins    []string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// HistoryRetentionDays bounds the ticket change log; 0 keeps everything.
	HistoryRetentionDays int
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "taskflow")
	ServerPort = getEnv("SERVER_PORT", "8000")
	Env = getEnv("ENV", "development")
	LogLevel = getEnv("LOG_LEVEL", "info")
	CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:,http://127.0.0.1:"))

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minio")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minio123")
	MinioBucket = getEnv("MINIO_BUCKET", "taskflow-avatars")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	HistoryRetentionDays, _ = strconv.Atoi(getEnv("HISTORY_RETENTION_DAYS", "0"))
}

// IsProduction reports whether ENV names a production deployment.
func IsProduction() bool {
	return strings.EqualFold(Env, "production") || strings.EqualFold(Env, "prod")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
