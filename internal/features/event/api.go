package event

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"
	"club-hub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EventApi struct {
	EventController *EventController
	Config          *config.Config
}

func NewEventApi(eventController *EventController, config *config.Config) *EventApi {
	return &EventApi{
		EventController: eventController,
		Config:          config,
	}
}

func (api *EventApi) Setup(app *fiber.App) {
	group := app.Group("/api/events", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.EventController.Create)
	group.Get("/", api.EventController.List)
	group.Get("/:id", api.EventController.Get)
	group.Post("/:id/register", api.EventController.Register)
	group.Put("/:id/approve", middleware.RequireRoles(api.Config.SkipAuth, models.RoleFaculty, models.RoleAdmin), api.EventController.Approve)
	group.Put("/:id/reject", middleware.RequireRoles(api.Config.SkipAuth, models.RoleFaculty, models.RoleAdmin), api.EventController.Reject)
}
