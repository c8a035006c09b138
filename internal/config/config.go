package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeOff  = "off"
	BlobModeS3   = "s3"
	BlobModeAuto = "auto"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a loggable summary with secrets masked.
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTL,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode string // off|s3|auto
	S3   S3Config
}

// Config holds the application configuration.
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Document uploads
	UploadMaxMB       int
	UploadAllowedMime string
	Blob              BlobConfig

	// Chat
	ChatHistoryLimit int

	// AI
	AIMode            string // mock | groq
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeoutSeconds  int
	GroqAPIKey        string
	GroqModel         string

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// PORT (default: 8080)
	port := envInt("PORT", 8080)

	// LOG_LEVEL (default: debug)
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Document uploads / blob ----------
	uploadMaxMB := envInt("UPLOAD_MAX_MB", 10)

	uploadAllowedMime := os.Getenv("UPLOAD_ALLOWED_MIME")
	if uploadAllowedMime == "" {
		uploadAllowedMime = "text/plain,image/jpeg,image/png,application/pdf"
	}

	blobMode := parseBlobMode("BLOB_MODE", BlobModeOff)

	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:        strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:     strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PresignTTL:      s3PresignTTL,
	}

	// ---------- Chat ----------
	chatHistoryLimit := envInt("CHAT_HISTORY_LIMIT", 20)
	if chatHistoryLimit <= 0 {
		chatHistoryLimit = 20
	}

	// ---------- AI ----------
	aiMode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	if aiMode == "" {
		aiMode = "mock"
	}
	if aiMode != "mock" && aiMode != "groq" {
		log.Printf("WARNING: unknown AI_MODE=%q, fallback to mock", aiMode)
		aiMode = "mock"
	}

	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 4000)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 4000
	}

	aiTemperature := envFloat("AI_TEMPERATURE", 0.7)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 60)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 60
	}

	groqAPIKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	groqModel := strings.TrimSpace(os.Getenv("GROQ_MODEL"))
	if groqModel == "" {
		groqModel = "llama-3.3-70b-versatile"
	}

	if aiMode == "groq" && groqAPIKey == "" {
		log.Fatal("GROQ_API_KEY is required when AI_MODE=groq")
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		UploadMaxMB:       uploadMaxMB,
		UploadAllowedMime: uploadAllowedMime,
		Blob: BlobConfig{
			Mode: blobMode,
			S3:   s3Cfg,
		},

		ChatHistoryLimit: chatHistoryLimit,

		AIMode:            aiMode,
		AIMaxOutputTokens: aiMaxOutputTokens,
		AITemperature:     aiTemperature,
		AITimeoutSeconds:  aiTimeoutSeconds,
		GroqAPIKey:        groqAPIKey,
		GroqModel:         groqModel,

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeOff, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
