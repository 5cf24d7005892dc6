package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/services"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyIdentityStore struct{}

func (emptyIdentityStore) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (emptyIdentityStore) FindByEmailOrPhone(context.Context, string, string) (*models.User, error) {
	return nil, store.ErrNotFound
}

func (emptyIdentityStore) Insert(context.Context, *models.User) error { return nil }

func (emptyIdentityStore) FindByID(context.Context, int64) (*models.User, error) {
	return nil, store.ErrNotFound
}

type emptyBlobStore struct{}

func (emptyBlobStore) Put(context.Context, int64, []byte) error { return nil }

func (emptyBlobStore) Get(context.Context, int64) ([]byte, error) { return nil, store.ErrNotFound }

func (emptyBlobStore) Ping(context.Context) error { return nil }

func newApp(t *testing.T, rateLimit int) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		UniquenessPolicy:   config.UniqueEmail,
		RegisterResponse:   config.RegisterResponseUser,
		MaxUploadBytes:     1 << 20,
		RateLimitPerMinute: rateLimit,
	}
	svc := services.NewRegistrationService(emptyIdentityStore{}, emptyBlobStore{}, services.RegistrationOptions{})
	app := fiber.New()
	Setup(app, cfg,
		handlers.NewRegistrationHandler(svc, cfg),
		handlers.NewUserHandler(svc),
		handlers.NewHealthHandler(func(context.Context) error { return nil }, emptyBlobStore{}, config.BlobBackendPostgres),
	)
	return app
}

func status(t *testing.T, app *fiber.App, method, path string) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestSetup_RoutesExist(t *testing.T) {
	app := newApp(t, 0)

	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/health"))
	assert.Equal(t, fiber.StatusNotFound, status(t, app, http.MethodGet, "/user/1"))
	assert.Equal(t, fiber.StatusNotFound, status(t, app, http.MethodGet, "/profile-picture/1"))
	// No multipart body: rejected by the handler, not the router.
	assert.Equal(t, fiber.StatusBadRequest, status(t, app, http.MethodPost, "/register/"))
	assert.Equal(t, fiber.StatusBadRequest, status(t, app, http.MethodPost, "/register"))
}

func TestSetup_RateLimit(t *testing.T) {
	app := newApp(t, 2)

	assert.Equal(t, fiber.StatusNotFound, status(t, app, http.MethodGet, "/user/1"))
	assert.Equal(t, fiber.StatusNotFound, status(t, app, http.MethodGet, "/user/1"))
	assert.Equal(t, fiber.StatusTooManyRequests, status(t, app, http.MethodGet, "/user/1"))
	assert.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/health"))
}
