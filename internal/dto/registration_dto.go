package dto

import (
	"errors"
	"fmt"
	"strings"
)

// RegisterRequest is the multipart form accepted by POST /register/.
type RegisterRequest struct {
	FullName       string `form:"full_name"`
	Email          string `form:"email"`
	Password       string `form:"password"`
	Phone          string `form:"phone"`
	ProfilePicture []byte `form:"-"`
}

var ErrPictureTooLarge = errors.New("profile picture is too large")

// Validate checks presence of every field and the upload size limit.
func (r *RegisterRequest) Validate(maxPictureBytes int) error {
	var missing []string
	if strings.TrimSpace(r.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if r.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(r.ProfilePicture) == 0 {
		missing = append(missing, "profile_picture")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if maxPictureBytes > 0 && len(r.ProfilePicture) > maxPictureBytes {
		return ErrPictureTooLarge
	}
	return nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	DB          string `json:"db"`
	BlobStore   string `json:"blob_store"`
	BlobBackend string `json:"blob_backend"`
}
