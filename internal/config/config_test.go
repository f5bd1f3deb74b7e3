package config

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origPort := os.Getenv("PORT")
	defer os.Setenv("PORT", origPort)

	os.Setenv("PORT", "9090")
	os.Setenv("MAX_UPLOAD_BYTES", "1024")
	os.Setenv("RECON_AMOUNT_TOLERANCE", "2.50")
	os.Setenv("RECON_DATE_TOLERANCE_DAYS", "3")
	os.Setenv("MINIO_USE_SSL", "true")
	defer func() {
		os.Unsetenv("MAX_UPLOAD_BYTES")
		os.Unsetenv("RECON_AMOUNT_TOLERANCE")
		os.Unsetenv("RECON_DATE_TOLERANCE_DAYS")
		os.Unsetenv("MINIO_USE_SSL")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.True(t, cfg.Recon.AmountTolerance.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, 3, cfg.Recon.DateToleranceDays)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxBytes)
	assert.True(t, cfg.Recon.AmountTolerance.Equal(decimal.New(1, 0)))
	assert.True(t, cfg.Recon.PercentTolerance.Equal(decimal.New(1, 0)))
	assert.Equal(t, 0, cfg.Recon.DateToleranceDays)
}

func TestLoad_RejectsBadTolerances(t *testing.T) {
	os.Setenv("RECON_AMOUNT_TOLERANCE", "-1")
	defer os.Unsetenv("RECON_AMOUNT_TOLERANCE")

	_, err := Load()
	assert.Error(t, err)

	os.Setenv("RECON_AMOUNT_TOLERANCE", "1")
	os.Setenv("RECON_AMOUNT_TOLERANCE_PCT", "101")
	defer os.Unsetenv("RECON_AMOUNT_TOLERANCE_PCT")

	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNegativeDateDays(t *testing.T) {
	os.Setenv("RECON_DATE_TOLERANCE_DAYS", "-2")
	defer os.Unsetenv("RECON_DATE_TOLERANCE_DAYS")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDecimal(t *testing.T) {
	key := "TEST_DEC_VAR"

	os.Setenv(key, "0.05")
	assert.True(t, getEnvDecimal(key, decimal.Zero).Equal(decimal.RequireFromString("0.05")))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvDecimal(key, decimal.New(1, 0)).Equal(decimal.New(1, 0)))

	os.Unsetenv(key)
	assert.True(t, getEnvDecimal(key, decimal.New(1, 0)).Equal(decimal.New(1, 0)))
}
