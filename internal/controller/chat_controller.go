package controller

import (
	"strconv"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	TimestampContext(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask", serverutils.RequireSession, c.Ask)
	r.Get("/status", serverutils.RequireSession, c.Status)
	r.Get("/messages", serverutils.RequireSession, c.Messages)
	r.Get("/timestamp", serverutils.RequireSession, c.TimestampContext)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewApiError(fiber.StatusBadRequest, "No question provided")
	}

	res, err := c.chatService.Ask(serverutils.SessionId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Status(ctx *fiber.Ctx) error {
	res, err := c.chatService.Status(serverutils.SessionId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatController) Messages(ctx *fiber.Ctx) error {
	res, err := c.chatService.Messages(serverutils.SessionId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// TimestampContext serves the transcript context around ?t=<seconds>,
// with an optional ?window=<seconds> override.
func (c *chatController) TimestampContext(ctx *fiber.Ctx) error {
	target, err := strconv.ParseFloat(ctx.Query("t", ""), 64)
	if err != nil || target < 0 {
		return serverutils.NewApiError(fiber.StatusBadRequest, "Invalid timestamp")
	}
	window, _ := strconv.ParseFloat(ctx.Query("window", "0"), 64)

	res, err := c.chatService.TimestampContext(serverutils.SessionId(ctx), target, window)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
