package handlers

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/profile-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Stored pictures are never inspected; every one is served as JPEG.
const pictureContentType = "image/jpeg"

type UserHandler struct {
	svc *services.RegistrationService
}

func NewUserHandler(svc *services.RegistrationService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetUser handles GET /user/:user_id.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := userIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	user, err := h.svc.GetUser(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return internalError(c, "get user", err)
	}
	return c.JSON(user)
}

// GetProfilePicture handles GET /profile-picture/:user_id.
func (h *UserHandler) GetProfilePicture(c *fiber.Ctx) error {
	id, ok := userIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	data, err := h.svc.GetProfilePicture(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrPictureNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Profile picture not found",
			})
		}
		return internalError(c, "get profile picture", err)
	}

	c.Set(fiber.HeaderContentType, pictureContentType)
	return c.SendStream(bytes.NewReader(data), len(data))
}

func userIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
