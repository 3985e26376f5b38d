package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheets  SheetsConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Audit   AuditConfig
	JWT     JWTConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Log     LogConfig
	Exports ExportsConfig
}

// SheetsConfig points at the hosted spreadsheet holding all records.
type SheetsConfig struct {
	BaseURL         string
	Token           string
	SpreadsheetID   string
	StudentSheet    string
	IncomeSheet     string
	AttendanceSheet string
	Timeout         time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs the optional Redis read cache for list responses.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuditConfig governs the optional Postgres audit trail.
type AuditConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig holds the single-operator credential. The password hash is
// a bcrypt digest; the plaintext never appears in configuration.
type AuthConfig struct {
	OperatorEmail        string
	OperatorPasswordHash string
	OperatorRole         string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportsConfig tunes document export and the bulk PDF job worker.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheets = SheetsConfig{
		BaseURL:         v.GetString("SHEETS_BASE_URL"),
		Token:           v.GetString("SHEETS_TOKEN"),
		SpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
		StudentSheet:    v.GetString("SHEETS_STUDENT_SHEET"),
		IncomeSheet:     v.GetString("SHEETS_INCOME_SHEET"),
		AttendanceSheet: v.GetString("SHEETS_ATTENDANCE_SHEET"),
		Timeout:         parseDuration(v.GetString("SHEETS_TIMEOUT"), 15*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 2*time.Minute),
	}

	cfg.Audit = AuditConfig{
		Enabled:      v.GetBool("ENABLE_AUDIT"),
		Host:         v.GetString("AUDIT_DB_HOST"),
		Port:         v.GetInt("AUDIT_DB_PORT"),
		User:         v.GetString("AUDIT_DB_USER"),
		Password:     v.GetString("AUDIT_DB_PASSWORD"),
		Name:         v.GetString("AUDIT_DB_NAME"),
		SSLMode:      v.GetString("AUDIT_DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("AUDIT_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("AUDIT_DB_MAX_IDLE_CONNS"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{
		OperatorEmail:        v.GetString("OPERATOR_EMAIL"),
		OperatorPasswordHash: v.GetString("OPERATOR_PASSWORD_HASH"),
		OperatorRole:         v.GetString("OPERATOR_ROLE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SHEETS_BASE_URL", "")
	v.SetDefault("SHEETS_TOKEN", "")
	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_STUDENT_SHEET", "Students")
	v.SetDefault("SHEETS_INCOME_SHEET", "Income")
	v.SetDefault("SHEETS_ATTENDANCE_SHEET", "Attendance")
	v.SetDefault("SHEETS_TIMEOUT", "15s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "2m")

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("AUDIT_DB_HOST", "localhost")
	v.SetDefault("AUDIT_DB_PORT", 5432)
	v.SetDefault("AUDIT_DB_USER", "postgres")
	v.SetDefault("AUDIT_DB_PASSWORD", "postgres")
	v.SetDefault("AUDIT_DB_NAME", "rekod_audit")
	v.SetDefault("AUDIT_DB_SSL_MODE", "disable")
	v.SetDefault("AUDIT_DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("AUDIT_DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "rekod-api")

	v.SetDefault("OPERATOR_EMAIL", "admin@sekolah.local")
	v.SetDefault("OPERATOR_PASSWORD_HASH", "")
	v.SetDefault("OPERATOR_ROLE", "admin")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
