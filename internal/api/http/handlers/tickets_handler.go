package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rizwanhussain01/EventHub/internal/api/dto"
	"github.com/rizwanhussain01/EventHub/internal/auth"
	"github.com/rizwanhussain01/EventHub/internal/service"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// TicketsHandler manages registration and ticket endpoints.
type TicketsHandler struct {
	registrations *service.RegistrationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(registrationService *service.RegistrationService) *TicketsHandler {
	return &TicketsHandler{registrations: registrationService}
}

// Register POST /api/events/:id/register.
func (h *TicketsHandler) Register(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RegisterForEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.registrations.RegisterForEvent(c.Context(), c.Params("id"), principal.User.ID, req.Details())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// MyTickets GET /api/tickets/my-tickets.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.registrations.ListMyTickets(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.NewTicketResponses(tickets),
		"count": len(tickets),
	})
}

// Cancel DELETE /api/tickets/:id.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.registrations.CancelTicket(c.Context(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cancelled": true}})
}

// Attendees GET /api/events/:id/attendees.
func (h *TicketsHandler) Attendees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	includeCancelled := c.QueryBool("include_cancelled", false)
	tickets, err := h.registrations.ListAttendees(c.Context(), principal.User, c.Params("id"), includeCancelled)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.NewTicketResponses(tickets),
		"count": len(tickets),
	})
}
