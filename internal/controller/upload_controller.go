package controller

import (
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadService service.IUploadService
}

func NewUploadController(uploadService service.IUploadService) IUploadController {
	return &uploadController{
		uploadService: uploadService,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", serverutils.RequireSession, c.Upload)
}

// Upload accepts a multipart file and returns immediately; extraction
// happens in a background job observed via /status.
func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "No file provided")
	}

	res, err := c.uploadService.Upload(serverutils.SessionId(ctx), file)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
