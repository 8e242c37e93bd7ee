package event

import (
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EventController struct {
	EventService EventService
}

func NewEventController(eventService EventService) *EventController {
	return &EventController{EventService: eventService}
}

// Create godoc
// @Summary Create an event (starts pending approval)
// @Tags events
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/events [post]
func (c *EventController) Create(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input CreateEventInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	evt, err := c.EventService.CreateEvent(ctx.Context(), input, claims.UserID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created successfully",
		"event":   evt,
	})
}

// List godoc
// @Summary List events
// @Tags events
// @Produce json
// @Param status query string false "Status filter"
// @Param club_id query string false "Club filter"
// @Param upcoming query bool false "Only future events"
// @Success 200 {array} models.Event
// @Router /api/events [get]
func (c *EventController) List(ctx *fiber.Ctx) error {
	filter := ListFilter{
		Status:   ctx.Query("status"),
		ClubID:   ctx.Query("club_id"),
		Upcoming: ctx.Query("upcoming") == "true",
	}

	events, err := c.EventService.ListEvents(ctx.Context(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(events)
}

// Get godoc
// @Summary Get one event
// @Tags events
// @Router /api/events/{id} [get]
func (c *EventController) Get(ctx *fiber.Ctx) error {
	evt, err := c.EventService.GetEvent(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(evt)
}

// Register godoc
// @Summary Register for an event
// @Tags events
// @Router /api/events/{id}/register [post]
func (c *EventController) Register(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.EventService.RegisterForEvent(ctx.Context(), ctx.Params("id"), claims.UserID); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"message": "Successfully registered for event"})
}

// Approve godoc
// @Summary Approve an event
// @Tags events
// @Router /api/events/{id}/approve [put]
func (c *EventController) Approve(ctx *fiber.Ctx) error {
	return c.review(ctx, true)
}

// Reject godoc
// @Summary Reject an event
// @Tags events
// @Router /api/events/{id}/reject [put]
func (c *EventController) Reject(ctx *fiber.Ctx) error {
	return c.review(ctx, false)
}

func (c *EventController) review(ctx *fiber.Ctx, approve bool) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input ReviewEventInput
	if err := ctx.BodyParser(&input); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.EventService.ReviewEvent(ctx.Context(), ctx.Params("id"), claims.UserID, input, approve); err != nil {
		return err
	}

	msg := "Event approved successfully"
	if !approve {
		msg = "Event rejected"
	}
	return ctx.JSON(fiber.Map{"message": msg})
}
