package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends
const (
	SessionStoreFile     = "file"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
	SessionStoreMemory   = "memory"
)

// Upload backends
const (
	UploadBackendFirebase = "firebase"
	UploadBackendR2       = "r2"
)

type Config struct {
	AppEnv   string
	LogLevel string

	APIBaseURL        string
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	ReconcileDelay    time.Duration

	SessionStore   string
	SessionFile    string
	SessionProfile string
	RedisURL       string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	UploadBackend string

	FirebaseProjectID     string
	FirebaseStorageBucket string
	FirebaseClientEmail   string
	FirebasePrivateKey    string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	DevServerPort string
	JWTSecret     string
}

// IsDevelopment reports whether request/response debug logging should be on.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	timeoutSeconds, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}

	rps, err := strconv.ParseFloat(os.Getenv("REQUESTS_PER_SECOND"), 64)
	if err != nil || rps < 0 {
		rps = 10
	}

	reconcileMs, err := strconv.Atoi(os.Getenv("RECONCILE_DELAY_MS"))
	if err != nil || reconcileMs < 0 {
		reconcileMs = 800
	}

	sessionFile := os.Getenv("SESSION_FILE")
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		sessionFile = filepath.Join(home, ".skillshare", "session.json")
	}

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/api"),
		HTTPTimeout:       time.Duration(timeoutSeconds) * time.Second,
		RequestsPerSecond: rps,
		ReconcileDelay:    time.Duration(reconcileMs) * time.Millisecond,

		SessionStore:   getEnv("SESSION_STORE", SessionStoreFile),
		SessionFile:    sessionFile,
		SessionProfile: getEnv("SESSION_PROFILE", "default"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),

		UploadBackend: getEnv("UPLOAD_BACKEND", UploadBackendFirebase),

		FirebaseProjectID:     os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseStorageBucket: os.Getenv("FIREBASE_STORAGE_BUCKET"),
		FirebaseClientEmail:   os.Getenv("FIREBASE_CLIENT_EMAIL"),
		FirebasePrivateKey:    os.Getenv("FIREBASE_PRIVATE_KEY"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		DevServerPort: getEnv("DEV_SERVER_PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
