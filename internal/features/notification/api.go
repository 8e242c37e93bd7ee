package notification

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	NotificationController *NotificationController
	Config                 *config.Config
}

func NewNotificationApi(notificationController *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{
		NotificationController: notificationController,
		Config:                 config,
	}
}

func (api *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.NotificationController.List)
}
