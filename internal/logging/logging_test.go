package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errOnly bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With("service", "registry")

	log.Info("user registered", "user_id", int64(1))
	log.Error("profile picture write failed", "user_id", int64(2))

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errOnly.Bytes(), []byte("\n")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(errOnly.Bytes(), &rec))
	assert.Equal(t, "registry", rec["service"])
	assert.Equal(t, "profile picture write failed", rec["msg"])
}

func TestPGHandler_PersistsErrors(t *testing.T) {
	db := newLogDB(t)
	h := NewPGHandler(db)
	log := slog.New(h).With("trace_id", "req-1")

	log.Info("ignored")
	log.Error("profile picture write failed after user insert",
		"user_id", int64(7),
		"action", "profile_picture_put",
		"path", "/register/",
		"error", "mongo down",
		"backend", "mongo",
	)
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.TraceID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, int64(7), *row.UserID)
	assert.Equal(t, "profile_picture_put", row.Action)
	assert.Equal(t, "/register/", row.Path)
	assert.Equal(t, "mongo down", row.Error)
	assert.JSONEq(t, `{"backend":"mongo"}`, string(row.Extra))
}

func TestPGHandler_StopIsIdempotent(t *testing.T) {
	h := NewPGHandler(newLogDB(t))
	h.Stop()
	h.Stop()
}

func TestPurgeBefore(t *testing.T) {
	db := newLogDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := PurgeBefore(db, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Message)
}
