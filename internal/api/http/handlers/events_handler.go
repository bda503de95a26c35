package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rizwanhussain01/EventHub/internal/api/dto"
	"github.com/rizwanhussain01/EventHub/internal/auth"
	"github.com/rizwanhussain01/EventHub/internal/domain"
	"github.com/rizwanhussain01/EventHub/internal/service"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

// EventsHandler manages the event catalog endpoints.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// Browse GET /api/events.
func (h *EventsHandler) Browse(c *fiber.Ctx) error {
	filter := service.BrowseFilter{
		Category:     c.Query("category"),
		City:         c.Query("city"),
		Search:       c.Query("search"),
		UpcomingOnly: c.QueryBool("upcoming", true),
		Page:         parsePositiveInt(c.Query("page"), 1),
		PageSize:     parsePositiveInt(c.Query("page_size"), 20),
	}
	items, err := h.events.Browse(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(items)})
}

// Get GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	var actor *domain.User
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor = principal.User
	}
	event, err := h.events.GetEvent(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Create POST /api/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseEventInput(c)
	if err != nil {
		return err
	}
	event, err := h.events.CreateEvent(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Update PUT /api/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseEventInput(c)
	if err != nil {
		return err
	}
	event, err := h.events.UpdateEvent(c.Context(), principal.User, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event)})
}

// Delete DELETE /api/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.events.DeleteEvent(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// MyEvents GET /api/events/organizer/my-events.
func (h *EventsHandler) MyEvents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.events.ListOrganizerEvents(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(items)})
}

func parseEventInput(c *fiber.Ctx) (service.EventInput, error) {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return service.EventInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	startsAt, err := req.StartsAt()
	if err != nil {
		return service.EventInput{}, apperrors.NewValidationError("date must be YYYY-MM-DD and time HH:MM", nil)
	}
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		City:        req.City,
		Date:        startsAt,
		Capacity:    req.Capacity,
		IsPublished: req.IsPublished,
	}, nil
}

func parsePositiveInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
