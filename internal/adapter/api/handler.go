package api

import (
	"errors"

	"estate-core/internal/domain/entity"
	"estate-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	orchestrator *usecase.Orchestrator
	ingestor     *usecase.Ingestor
	log          *zap.Logger
}

func NewChatHandler(orchestrator *usecase.Orchestrator, ingestor *usecase.Ingestor, log *zap.Logger) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator, ingestor: ingestor, log: log}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// The delivery layer maps business errors to HTTP status codes.
	resp, err := h.orchestrator.HandleMessage(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, entity.ErrRateLimitExceeded):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.Error("chat handling failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ChatHandler) HandleImportProperties(c *fiber.Ctx) error {
	var records []entity.PropertyRecord
	if err := c.BodyParser(&records); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	count, err := h.ingestor.ImportProperties(c.Context(), records)
	if err != nil {
		h.log.Error("property import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "import failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "imported": count})
}

func (h *ChatHandler) HandleDeleteProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing property id"})
	}
	if err := h.ingestor.DeleteProperty(c.Context(), id); err != nil {
		h.log.Error("property delete failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": true, "message": "Deleted"})
}
