package notification

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

func NewNotificationController() *NotificationController {
	return &NotificationController{}
}

// List godoc
// @Summary Notification feed
// @Description Placeholder feed; live delivery is not part of this service.
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	now := time.Now()
	return ctx.JSON(fiber.Map{
		"data": []fiber.Map{
			{
				"type":      "welcome",
				"message":   "Welcome to Club Hub",
				"read":      false,
				"timestamp": now.Add(-2 * time.Hour),
			},
			{
				"type":      "reminder",
				"message":   "Check the events page for upcoming activities",
				"read":      true,
				"timestamp": now.Add(-26 * time.Hour),
			},
		},
		"total": 2,
	})
}
