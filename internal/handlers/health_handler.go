package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	pingDB      func(ctx context.Context) error
	blobs       store.BlobStore
	blobBackend string
}

func NewHealthHandler(pingDB func(ctx context.Context) error, blobs store.BlobStore, blobBackend string) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, blobs: blobs, blobBackend: blobBackend}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	dbStatus := "ok"
	if err := h.pingDB(ctx); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}
	blobStatus := "ok"
	if err := h.blobs.Ping(ctx); err != nil {
		blobStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		DB:          dbStatus,
		BlobStore:   blobStatus,
		BlobBackend: h.blobBackend,
	})
}
