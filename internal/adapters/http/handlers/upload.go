package handlers

import (
	"io"
	"strconv"
	"strings"

	"coursehub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// imageField is the multipart field carrying the course image
const imageField = "image"

// formImage returns the uploaded image, or nil when the request has none.
// The returned closer must be called once the image has been consumed.
func formImage(c *fiber.Ctx) (*domain.ImageFile, io.Closer, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		// no multipart body or no image field
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, domain.Wrap(domain.ErrInvalidInput, err)
	}

	return &domain.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// formPrice parses a price form value
func formPrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, domain.NewError(domain.KindBadRequest, "price must be a number")
	}
	return price, nil
}
