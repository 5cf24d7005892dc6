package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateIdentity = errors.New("identity already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrPictureNotFound   = errors.New("profile picture not found")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
)

// duplicateError carries the caller-facing message while matching
// ErrDuplicateIdentity under errors.Is.
type duplicateError struct {
	msg string
}

func (e *duplicateError) Error() string { return e.msg }

func (e *duplicateError) Is(target error) bool { return target == ErrDuplicateIdentity }

var (
	ErrEmailTaken        error = &duplicateError{msg: "Email already registered"}
	ErrEmailOrPhoneTaken error = &duplicateError{msg: "Email or phone already registered"}
)

type RegistrationOptions struct {
	// UniquePhone rejects registrations whose phone is already in use, in
	// addition to the email check.
	UniquePhone bool
	BcryptCost  int
}

type RegistrationService struct {
	users    store.IdentityStore
	pictures store.BlobStore
	opts     RegistrationOptions
}

func NewRegistrationService(users store.IdentityStore, pictures store.BlobStore, opts RegistrationOptions) *RegistrationService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &RegistrationService{users: users, pictures: pictures, opts: opts}
}

// Register creates the user and then stores the picture under the new id.
// The two writes are not atomic: if the picture write fails the user row
// stays behind and the failure is logged with its id.
func (s *RegistrationService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := s.checkUnique(ctx, req.Email, req.Phone); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the unique index caught it.
		if errors.Is(err, store.ErrConflict) {
			return nil, s.taken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.pictures.Put(ctx, user.ID, req.ProfilePicture); err != nil {
		slog.ErrorContext(ctx, "profile picture write failed after user insert",
			"user_id", user.ID,
			"action", "profile_picture_put",
			"error", err,
		)
		return nil, fmt.Errorf("failed to store profile picture: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// taken is the duplicate error reported under the configured policy.
func (s *RegistrationService) taken() error {
	if s.opts.UniquePhone {
		return ErrEmailOrPhoneTaken
	}
	return ErrEmailTaken
}

func (s *RegistrationService) checkUnique(ctx context.Context, email, phone string) error {
	var err error
	if s.opts.UniquePhone {
		_, err = s.users.FindByEmailOrPhone(ctx, email, phone)
	} else {
		_, err = s.users.FindByEmail(ctx, email)
	}

	switch {
	case err == nil:
		return s.taken()
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check existing user: %w", err)
	}
}

func (s *RegistrationService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *RegistrationService) GetProfilePicture(ctx context.Context, ownerID int64) ([]byte, error) {
	data, err := s.pictures.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPictureNotFound
		}
		return nil, fmt.Errorf("failed to load profile picture: %w", err)
	}
	return data, nil
}
