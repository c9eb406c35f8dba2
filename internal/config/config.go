package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development fallback for JWT_SECRET
const DefaultJWTSecret = "change-me-in-production"

const minJWTSecretLength = 32

// ErrInsecureJWTSecret is returned by Validate when production runs
// without a private signing secret
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a private value")

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Driver     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SSLMode    string
		SQLitePath string
	}

	Server struct {
		Port        string
		GinMode     string
		Environment string
		LogLevel    string
	}

	Upload struct {
		MaxFileSize int64
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Auth struct {
		JWTSecret         string
		AdminEmail        string
		AdminPasswordHash string
		AdminTokenTTL     time.Duration
		ManualTokenTTL    time.Duration
	}

	Blob struct {
		Driver        string
		Endpoint      string
		Region        string
		Bucket        string
		AccessKey     string
		SecretKey     string
		UseSSL        bool
		PublicBaseURL string
	}

	AI struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	RateLimit struct {
		PublicPerMinute int
		UnlockPerMinute int
	}

	RSVP struct {
		FuzzyMatch bool
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Driver = getEnv("DB_DRIVER", "postgres")
	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "convite")
	config.DB.Password = getEnv("DB_PASSWORD", "convite_password")
	config.DB.Name = getEnv("DB_NAME", "convite_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	config.DB.SQLitePath = getEnv("DB_SQLITE_PATH", "convite.db")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.Environment = getEnv("APP_ENV", "development")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Auth.JWTSecret = getEnv("JWT_SECRET", DefaultJWTSecret)
	config.Auth.AdminEmail = getEnv("ADMIN_EMAIL", "")
	config.Auth.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")
	config.Auth.AdminTokenTTL = getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour)
	config.Auth.ManualTokenTTL = getEnvAsDuration("MANUAL_TOKEN_TTL", 24*time.Hour)

	config.Blob.Driver = getEnv("BLOB_DRIVER", "inline")
	config.Blob.Endpoint = getEnv("BLOB_ENDPOINT", "localhost:9000")
	config.Blob.Region = getEnv("BLOB_REGION", "us-east-1")
	config.Blob.Bucket = getEnv("BLOB_BUCKET", "convite")
	config.Blob.AccessKey = getEnv("BLOB_ACCESS_KEY", "")
	config.Blob.SecretKey = getEnv("BLOB_SECRET_KEY", "")
	config.Blob.UseSSL = getEnvAsBool("BLOB_USE_SSL", false)
	config.Blob.PublicBaseURL = getEnv("BLOB_PUBLIC_BASE_URL", "")

	config.AI.APIKey = getEnv("GEMINI_API_KEY", "")
	config.AI.Model = getEnv("GEMINI_MODEL", "gemini-2.5-flash")
	config.AI.Timeout = getEnvAsDuration("AI_TIMEOUT", 30*time.Second)

	config.Redis.Addr = getEnv("REDIS_ADDR", "")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Redis.DB = int(getEnvAsInt64("REDIS_DB", 0))

	config.RateLimit.PublicPerMinute = int(getEnvAsInt64("RATE_LIMIT_PUBLIC", 30))
	config.RateLimit.UnlockPerMinute = int(getEnvAsInt64("RATE_LIMIT_UNLOCK", 5))

	config.RSVP.FuzzyMatch = getEnvAsBool("RSVP_FUZZY_MATCH", false)

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// AllowedOrigins splits the comma separated CORS origin list
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORS.AllowOrigins)
}

// AllowedMethods splits the comma separated CORS method list
func (c *Config) AllowedMethods() []string {
	return splitList(c.CORS.AllowMethods)
}

// AllowedHeaders splits the comma separated CORS header list
func (c *Config) AllowedHeaders() []string {
	return splitList(c.CORS.AllowHeaders)
}

// InsecureJWTSecret reports whether tokens are signed with an empty,
// default or short secret
func (c *Config) InsecureJWTSecret() bool {
	secret := strings.TrimSpace(c.Auth.JWTSecret)
	return secret == "" || secret == DefaultJWTSecret || len(secret) < minJWTSecretLength
}

// Validate rejects settings that must not reach production
func (c *Config) Validate() error {
	if c.IsProduction() && c.InsecureJWTSecret() {
		return fmt.Errorf("%w: use at least %d random characters", ErrInsecureJWTSecret, minJWTSecretLength)
	}
	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
