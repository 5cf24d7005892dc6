package pgstore

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
)

type userRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	FullName  string    `gorm:"size:255;index"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Password  string    `gorm:"not null"`
	Phone     string    `gorm:"size:50;index"`
	CreatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

func userFromModel(u *models.User) userRecord {
	return userRecord{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Password:  u.Password,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		Password:  r.Password,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
	}
}

// profilePictureRecord is one picture row per user, bound to users.id.
type profilePictureRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    int64      `gorm:"not null;uniqueIndex"`
	Data      []byte     `gorm:"column:profile_picture;type:bytea;not null"`
	User      userRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (profilePictureRecord) TableName() string { return "profile_pictures" }

func (r *profilePictureRecord) toModel() *models.ProfilePicture {
	return &models.ProfilePicture{OwnerID: r.UserID, Data: r.Data}
}
