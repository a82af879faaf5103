package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// BlogsHandler manages blog post endpoints.
type BlogsHandler struct {
	service *service.BlogService
}

// NewBlogsHandler constructs handler.
func NewBlogsHandler(blogService *service.BlogService) *BlogsHandler {
	return &BlogsHandler{service: blogService}
}

// List GET /blogs.
func (h *BlogsHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	blogs, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.BlogResponse, 0, len(blogs))
	for i := range blogs {
		items = append(items, dto.NewBlogResponse(&blogs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.BlogListResponse{Total: len(items), Blogs: items}})
}

// Create POST /blogs.
func (h *BlogsHandler) Create(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}

	fields := formFields(c)
	form := dto.BlogCreateForm{}
	if v := optionalField(fields, "title"); v != nil {
		form.Title = *v
	}
	if v := optionalField(fields, "description"); v != nil {
		form.Description = *v
	}
	if err := dto.Validate(&form); err != nil {
		return err
	}

	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return err
	}
	defer closeImg()

	blog, err := h.service.Create(c.UserContext(), claims, service.BlogCreateInput{
		Title:       form.Title,
		Description: form.Description,
		Image:       img,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// Get GET /blogs/:id.
func (h *BlogsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	blog, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// Update PUT /blogs/:id.
func (h *BlogsHandler) Update(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	fields := formFields(c)
	form := dto.BlogUpdateForm{
		Title:       optionalField(fields, "title"),
		Description: optionalField(fields, "description"),
	}
	if err := dto.Validate(&form); err != nil {
		return err
	}

	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return err
	}
	defer closeImg()

	blog, err := h.service.Update(c.UserContext(), claims, id, service.BlogUpdateInput{
		Title:       form.Title,
		Description: form.Description,
		Image:       img,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// Delete DELETE /blogs/:id.
func (h *BlogsHandler) Delete(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), claims, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Like POST /blogs/:id/like.
func (h *BlogsHandler) Like(c *fiber.Ctx) error {
	claims, err := auth.MustClaims(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	liked, count, err := h.service.ToggleLike(c.UserContext(), claims, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LikeResponse{Liked: liked, LikeCount: count}})
}
