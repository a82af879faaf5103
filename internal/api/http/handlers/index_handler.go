package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/auth"
)

// Index handles GET /.
func Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to your blog application"})
}

// Protected handles GET /protected-route and echoes the verified claims.
func Protected(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "This is a protected route",
		"user": fiber.Map{
			"sub":      claims.SubjectID(),
			"username": claims.Username,
			"email":    claims.Email,
			"role":     claims.Role,
			"exp":      claims.ExpiresAt.Unix(),
		},
	})
}
