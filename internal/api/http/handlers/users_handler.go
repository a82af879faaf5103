package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// UsersHandler exposes profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Me GET /users/profile.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	profile, err := h.users.Me(c.UserContext(), claims)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile.User, profile.Blogs)})
}

// UpdateMe PUT /users/profile.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if _, err := h.users.UpdateProfile(c.UserContext(), claims, req.ToDomain()); err != nil {
		return err
	}
	return h.Me(c)
}

// UpdateImage PUT /users/profile/image.
func (h *UsersHandler) UpdateImage(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return err
	}
	defer closeImg()
	if img == nil {
		return apperrors.NewValidationError("image file is required", map[string]any{"image": "The field 'image' is required."})
	}

	user, err := h.users.UpdateProfileImage(c.UserContext(), claims, *img)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message":       "Profile image updated successfully",
		"profile_image": user.ProfileImage,
	}})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile.User, profile.Blogs)})
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), claims, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
