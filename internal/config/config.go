package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Blob backends.
const (
	BlobBackendPostgres = "postgres"
	BlobBackendMongo    = "mongo"
	BlobBackendS3       = "s3"
)

// Uniqueness policies checked before a user is inserted.
const (
	UniqueEmail        = "email"
	UniqueEmailOrPhone = "email_or_phone"
)

// Register response modes.
const (
	RegisterResponseUser    = "user"
	RegisterResponseMessage = "message"
)

type Config struct {
	// Database. DBURL wins over the individual parts when set.
	DBURL      string `env:"DB_URL"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"user_registration_user"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"user_registration_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Blob storage
	BlobBackend     string `env:"BLOB_BACKEND" envDefault:"postgres"`
	MongoURL        string `env:"MONGO_URL" envDefault:"mongodb://localhost:27017/"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"profile_pictures"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"profile_pictures"`
	S3Bucket        string `env:"S3_BUCKET" envDefault:"profile-pictures"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3Prefix        string `env:"S3_PREFIX" envDefault:"profile-pictures"`

	// Registration behavior
	UniquenessPolicy string `env:"UNIQUENESS_POLICY" envDefault:"email"`
	RegisterResponse string `env:"REGISTER_RESPONSE" envDefault:"user"`
	MaxUploadBytes   int    `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	BcryptCost       int    `env:"BCRYPT_COST" envDefault:"10"`

	// Server
	Host               string `env:"HOST" envDefault:"127.0.0.1"`
	Port               string `env:"PORT" envDefault:"8000"`
	CORSOrigins        string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	// Observability
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`
	SentryDSN    string        `env:"SENTRY_DSN"`
	AppEnv       string        `env:"APP_ENV" envDefault:"development"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendPostgres, BlobBackendMongo, BlobBackendS3:
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}
	switch c.UniquenessPolicy {
	case UniqueEmail, UniqueEmailOrPhone:
	default:
		return fmt.Errorf("unknown UNIQUENESS_POLICY %q", c.UniquenessPolicy)
	}
	switch c.RegisterResponse {
	case RegisterResponseUser, RegisterResponseMessage:
	default:
		return fmt.Errorf("unknown REGISTER_RESPONSE %q", c.RegisterResponse)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.DBURL == "" && c.DBPassword == "" {
		return errors.New("DB_URL or DB_PASSWORD environment variable is required")
	}
	return nil
}

// DSN returns the relational connection target.
func (c *Config) DSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) UniquePhone() bool {
	return c.UniquenessPolicy == UniqueEmailOrPhone
}
