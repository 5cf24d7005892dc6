package pgstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore keeps profile pictures in the profile_pictures table, next to
// the users they belong to.
type BlobStore struct {
	db *gorm.DB
}

func NewBlobStore(db *gorm.DB) *BlobStore {
	return &BlobStore{db: db}
}

func (s *BlobStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&userRecord{}, &profilePictureRecord{}); err != nil {
		return translate("migrate profile pictures", err)
	}
	return nil
}

func (s *BlobStore) Put(ctx context.Context, ownerID int64, data []byte) error {
	rec := profilePictureRecord{UserID: ownerID, Data: data}
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile_picture", "updated_at"}),
		}).
		Create(&rec).Error
	return translate("put profile picture", err)
}

func (s *BlobStore) Get(ctx context.Context, ownerID int64) ([]byte, error) {
	var rec profilePictureRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&rec).Error; err != nil {
		return nil, translate("get profile picture", err)
	}
	return rec.toModel().Data, nil
}

func (s *BlobStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
