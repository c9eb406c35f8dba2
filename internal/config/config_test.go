package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("ADMIN_TOKEN_TTL", "90m")
	t.Setenv("RSVP_FUZZY_MATCH", "true")
	t.Setenv("RATE_LIMIT_PUBLIC", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example.com , ,https://b.example.com")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, int64(2048), cfg.Upload.MaxFileSize)
	assert.Equal(t, 90*time.Minute, cfg.Auth.AdminTokenTTL)
	assert.True(t, cfg.RSVP.FuzzyMatch)
	assert.Equal(t, 30, cfg.RateLimit.PublicPerMinute)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.DB.User = "convite"
	cfg.DB.Password = "secret"
	cfg.DB.Host = "db"
	cfg.DB.Port = "5432"
	cfg.DB.Name = "convite_db"
	cfg.DB.SSLMode = "disable"

	assert.Equal(t, "postgres://convite:secret@db:5432/convite_db?sslmode=disable", cfg.GetDatabaseURL())
}

func TestValidateJWTSecret(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Environment = "production"

	for _, secret := range []string{"", DefaultJWTSecret, "short-secret"} {
		cfg.Auth.JWTSecret = secret
		assert.True(t, cfg.InsecureJWTSecret(), secret)
		assert.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret, secret)
	}

	cfg.Auth.JWTSecret = "8f3c1e9a7b2d4f6081a5c3e7d9b1f2a4"
	assert.False(t, cfg.InsecureJWTSecret())
	assert.NoError(t, cfg.Validate())

	cfg.Server.Environment = "development"
	cfg.Auth.JWTSecret = DefaultJWTSecret
	assert.True(t, cfg.InsecureJWTSecret())
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultSecretRefusedInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret)
}
