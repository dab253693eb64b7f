package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/placeshare/places/pkg/artifact"
)

var errNoUpload = errors.New("image file is required")

// saveUpload stores the request's "image" multipart file and returns its
// artifact ref. The ref is opaque; only the store knows what it means.
func saveUpload(c *fiber.Ctx, store artifact.Store) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", errNoUpload
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return store.Save(c.Context(), fh.Header.Get("Content-Type"), f)
}
