// Package store defines the storage contracts the registration service is
// written against. Identity records and picture payloads are kept apart so
// the picture backend can be swapped without touching handlers.
package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)

// IdentityStore persists user identity records.
type IdentityStore interface {
	// FindByEmail returns ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailOrPhone returns the first user matching either value.
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	// Insert assigns u.ID and u.CreatedAt. It returns ErrConflict when a
	// unique index rejects the row.
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// BlobStore persists one profile picture per owner id. Put overwrites.
type BlobStore interface {
	Put(ctx context.Context, ownerID int64, data []byte) error
	// Get returns ErrNotFound when the owner has no picture.
	Get(ctx context.Context, ownerID int64) ([]byte, error)
	Ping(ctx context.Context) error
}
