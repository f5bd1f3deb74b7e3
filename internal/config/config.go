package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// UploadConfig bounds file ingestion.
type UploadConfig struct {
	// MaxBytes is the upload size ceiling. Files over it are rejected with
	// a reported error, not a crash.
	MaxBytes int64 `validate:"gt=0"`
}

// ReconConfig holds the default matching tolerances. Per-run overrides are
// accepted on the reconcile request; these are the fallbacks.
type ReconConfig struct {
	AmountTolerance   decimal.Decimal
	PercentTolerance  decimal.Decimal
	DateToleranceDays int `validate:"gte=0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string `validate:"required"`
	Upload  UploadConfig
	Recon   ReconConfig
	MinIO   MinIOConfig
}

// Load reads configuration from environment variables and validates it.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the .env file.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Upload: UploadConfig{
			MaxBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 50*1024*1024)),
		},
		Recon: ReconConfig{
			AmountTolerance:   getEnvDecimal("RECON_AMOUNT_TOLERANCE", decimal.New(1, 0)),
			PercentTolerance:  getEnvDecimal("RECON_AMOUNT_TOLERANCE_PCT", decimal.New(1, 0)),
			DateToleranceDays: getEnvInt("RECON_DATE_TOLERANCE_DAYS", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	// Tolerances are rejected here, never clamped; the engine re-validates
	// per run for request-level overrides.
	if cfg.Recon.AmountTolerance.IsNegative() {
		return nil, fmt.Errorf("invalid configuration: RECON_AMOUNT_TOLERANCE is negative")
	}
	if cfg.Recon.PercentTolerance.IsNegative() || cfg.Recon.PercentTolerance.GreaterThan(decimal.New(100, 0)) {
		return nil, fmt.Errorf("invalid configuration: RECON_AMOUNT_TOLERANCE_PCT must be within [0, 100]")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
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

func getEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return def
}
