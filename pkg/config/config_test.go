package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_StrokeAPIConfig(t *testing.T) {
	os.Setenv("STROKE_API_URL", "http://prediction.internal:9090")
	os.Setenv("STROKE_API_TIMEOUT", "45s")
	defer func() {
		os.Unsetenv("STROKE_API_URL")
		os.Unsetenv("STROKE_API_TIMEOUT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "http://prediction.internal:9090", cfg.StrokeAPI.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.StrokeAPI.Timeout)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("MEDIA_BACKEND")
	os.Unsetenv("CAPTURE_FACE_DURATION")
	os.Unsetenv("CAPTURE_MAX_RETRIES")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, 5*time.Second, cfg.Capture.FaceDuration)
	assert.Equal(t, 3, cfg.Capture.MaxCaptureRetry)
	assert.Equal(t, 1024, cfg.Sessions.MaxSessions)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "app",
		Password: "secret",
		Database: "stroke_screening",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=stroke_screening sslmode=disable",
		cfg.DatabaseDSN(),
	)
}
