package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "helloworld")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BlobBackendPostgres, cfg.BlobBackend)
	assert.Equal(t, UniqueEmail, cfg.UniquenessPolicy)
	assert.Equal(t, RegisterResponseUser, cfg.RegisterResponse)
	assert.Equal(t, "mongodb://localhost:27017/", cfg.MongoURL)
	assert.Equal(t, "profile_pictures", cfg.MongoDatabase)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadBytes)
	assert.Equal(t, 720*time.Hour, cfg.LogRetention)
	assert.False(t, cfg.UniquePhone())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@db:5432/reg?sslmode=disable")
	t.Setenv("BLOB_BACKEND", "mongo")
	t.Setenv("UNIQUENESS_POLICY", "email_or_phone")
	t.Setenv("REGISTER_RESPONSE", "message")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/reg?sslmode=disable", cfg.DSN())
	assert.Equal(t, BlobBackendMongo, cfg.BlobBackend)
	assert.True(t, cfg.UniquePhone())
	assert.Equal(t, RegisterResponseMessage, cfg.RegisterResponse)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("BLOB_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOB_BACKEND")
}

func TestValidate_RequiresDatabaseCredentials(t *testing.T) {
	cfg := &Config{
		BlobBackend:      BlobBackendPostgres,
		UniquenessPolicy: UniqueEmail,
		RegisterResponse: RegisterResponseUser,
		MaxUploadBytes:   1,
	}
	require.Error(t, cfg.Validate())

	cfg.DBPassword = "secret"
	require.NoError(t, cfg.Validate())
}

func TestDSN_FromParts(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "user_registration_user",
		DBPassword: "helloworld",
		DBName:     "user_registration_db",
		DBSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost user=user_registration_user password=helloworld dbname=user_registration_db port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}
