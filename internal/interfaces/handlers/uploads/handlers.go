package uploads

import (
	uploadsvc "unimarket-backend/internal/application/uploads"
	"unimarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds the upload service.
type Handlers struct {
	Service *uploadsvc.Service
}

// Upload POST /upload — multipart image pass-through to the media host.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, "Missing image", fiber.StatusBadRequest)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Upload failed", fiber.StatusBadRequest)
	}
	defer file.Close()

	result, err := h.Service.UploadImage(c.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("image upload failed")
		return response.Error(c, "Upload failed", fiber.StatusInternalServerError)
	}
	return response.JSON(c, result)
}
