package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Security  SecurityConfig
	Screening ScreeningConfig
	Ai        AIConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type SecurityConfig struct {
	EncryptionKey  string
	SecretName     string
	SecretKeyField string
	AWSRegion      string
	JwtSecret      string
}

type ScreeningConfig struct {
	NumQuestions  int
	RetentionDays int
	SweepInterval time.Duration
	SessionTTL    time.Duration
	LockTTL       time.Duration
	CompanyName   string
	RecallTopK    int
}

type AIConfig struct {
	LLMProvider       string // "ollama", "huggingface" or "none"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
	OllamaBaseURL     string
	EmbeddingProvider string // "ollama", "jina" or "" to disable recall
	EmbeddingModel    string
	EmbeddingAPIKey   string
}

type EventsConfig struct {
	ScreeningCompletedTopic string
	AuditSubjectPrefix      string
}

type TelemetryConfig struct {
	OtelEnabled  bool
	OtelEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "TalentScout"),
		},
		Security: SecurityConfig{
			EncryptionKey:  getEnv("ENCRYPTION_KEY", ""),
			SecretName:     getEnv("SECRET_NAME", "talentscout/encryption_key"),
			SecretKeyField: getEnv("SECRET_KEY_FIELD", "ENCRYPTION_KEY"),
			AWSRegion:      getEnv("AWS_REGION", "eu-north-1"),
			JwtSecret:      getEnv("JWT_SECRET", ""),
		},
		Screening: ScreeningConfig{
			NumQuestions:  getEnvAsInt("NUM_QUESTIONS", 5),
			RetentionDays: getEnvAsInt("RETENTION_DAYS", 365),
			SweepInterval: getEnvAsDuration("SWEEP_INTERVAL", 24*time.Hour),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", time.Hour),
			LockTTL:       getEnvAsDuration("SESSION_LOCK_TTL", 2*time.Minute),
			CompanyName:   getEnv("COMPANY_NAME", "TalentScout"),
			RecallTopK:    getEnvAsInt("RECALL_TOP_K", 3),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
		},
		Events: EventsConfig{
			ScreeningCompletedTopic: getEnv("SCREENING_COMPLETED_TOPIC", "SCREENING_COMPLETED"),
			AuditSubjectPrefix:      getEnv("AUDIT_SUBJECT_PREFIX", "audit"),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "talentscout-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("90s", "24h").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
