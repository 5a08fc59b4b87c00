package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/authbase/authbase/internal/storage"
)

// RegisterUploadRoutes wires the file upload endpoint onto a token-guarded
// router.
func RegisterUploadRoutes(r fiber.Router, blobs storage.BlobStore, maxSize int64) {
	r.Post("/upload", func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "no file uploaded")
		}
		if maxSize > 0 && header.Size > maxSize {
			return fiber.NewError(http.StatusBadRequest, "file is too large")
		}

		f, err := header.Open()
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		defer f.Close()

		obj, err := blobs.Save(c.UserContext(), header.Filename, f)
		if err != nil {
			return err
		}
		return c.Status(http.StatusCreated).JSON(obj)
	})
}
