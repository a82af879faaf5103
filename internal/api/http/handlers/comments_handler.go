package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// CommentsHandler manages comment endpoints nested under a blog.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// List GET /blogs/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	blogID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	comments, err := h.service.List(c.UserContext(), blogID, page)
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.NewCommentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /blogs/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	blogID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Create(c.UserContext(), claims, blogID, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Update PUT /blogs/:id/comments/:commentID.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	blogID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	commentID, err := idParam(c, "commentID")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Update(c.UserContext(), claims, blogID, commentID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// Delete DELETE /blogs/:id/comments/:commentID.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	blogID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	commentID, err := idParam(c, "commentID")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), claims, blogID, commentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
