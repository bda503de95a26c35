package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rizwanhussain01/EventHub/internal/service"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// PlannerHandler exposes the AI planner chat endpoint.
type PlannerHandler struct {
	planner *service.PlannerService
}

// NewPlannerHandler constructs handler.
func NewPlannerHandler(plannerService *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: plannerService}
}

type plannerChatRequest struct {
	Prompt string `json:"prompt"`
}

// Chat POST /api/ai-chat.
func (h *PlannerHandler) Chat(c *fiber.Ctx) error {
	var req plannerChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.planner.Chat(c.Context(), req.Prompt)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reply": reply}})
}
