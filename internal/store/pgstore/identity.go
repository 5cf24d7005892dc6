package pgstore

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
	"gorm.io/gorm"
)

// IdentityStore keeps users in the users table.
type IdentityStore struct {
	db          *gorm.DB
	uniquePhone bool
}

// NewIdentityStore returns a store over db. With uniquePhone set, Migrate
// also enforces phone uniqueness with a unique index.
func NewIdentityStore(db *gorm.DB, uniquePhone bool) *IdentityStore {
	return &IdentityStore{db: db, uniquePhone: uniquePhone}
}

func (s *IdentityStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return translate("migrate users", err)
	}
	if s.uniquePhone {
		if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_phone_unique ON users (phone)").Error; err != nil {
			return translate("create phone index", err)
		}
	}
	return nil
}

func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return rec.toModel(), nil
}

func (s *IdentityStore) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("email = ? OR phone = ?", email, phone).First(&rec).Error; err != nil {
		return nil, translate("find user by email or phone", err)
	}
	return rec.toModel(), nil
}

func (s *IdentityStore) Insert(ctx context.Context, u *models.User) error {
	rec := userFromModel(u)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return translate("insert user", err)
	}
	u.ID = rec.ID
	u.CreatedAt = rec.CreatedAt
	return nil
}

func (s *IdentityStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate("find user by id", err)
	}
	return rec.toModel(), nil
}
