package handlers

import (
	"errors"
	"io"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

const registeredMessage = "User registered successfully"

type RegistrationHandler struct {
	svc            *services.RegistrationService
	responseMode   string
	maxUploadBytes int
}

func NewRegistrationHandler(svc *services.RegistrationService, cfg *config.Config) *RegistrationHandler {
	return &RegistrationHandler{
		svc:            svc,
		responseMode:   cfg.RegisterResponse,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register handles POST /register/ - multipart form with full_name, email,
// password, phone and a profile_picture file.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if file, err := c.FormFile("profile_picture"); err == nil {
		if file.Size > int64(h.maxUploadBytes) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile picture is too large",
			})
		}
		f, err := file.Open()
		if err != nil {
			return internalError(c, "open profile picture", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return internalError(c, "read profile picture", err)
		}
		req.ProfilePicture = data
	}

	if err := req.Validate(h.maxUploadBytes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	user, err := h.svc.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateIdentity) || errors.Is(err, services.ErrPasswordTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "register user", err)
	}

	if h.responseMode == config.RegisterResponseMessage {
		return c.JSON(dto.MessageResponse{Message: registeredMessage})
	}
	return c.JSON(user)
}
