package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/storage"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// idParam returns the named path parameter after checking it is a UUID.
func idParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid "+name, map[string]any{name: raw})
	}
	return id.String(), nil
}

func pageQuery(c *fiber.Ctx) (service.Page, error) {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return service.Page{}, apperrors.NewValidationError("invalid pagination parameters", nil)
	}
	return service.Page{Skip: q.Skip, Limit: q.Limit}, nil
}

func parseJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(out)
}

// formFields reads the text fields of a multipart or urlencoded form.
func formFields(c *fiber.Ctx) map[string][]string {
	form, err := c.MultipartForm()
	if err != nil {
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = append(values[string(k)], string(v))
		})
		return values
	}
	return form.Value
}

func optionalField(fields map[string][]string, name string) *string {
	values, ok := fields[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// formImage opens the uploaded file under field, if any. The returned
// closer must be called once the image has been consumed.
func formImage(c *fiber.Ctx, field string) (*storage.Image, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, noop, nil
	}
	return openImage(fh)
}

func openImage(fh *multipart.FileHeader) (*storage.Image, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperrors.NewValidationError("unable to read uploaded file", nil)
	}
	img := &storage.Image{Filename: fh.Filename, Size: fh.Size, Body: f}
	return img, func() { _ = f.Close() }, nil
}
