package user

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"
	"club-hub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	UserController *UserController
	Config         *config.Config
}

func NewUserApi(userController *UserController, config *config.Config) *UserApi {
	return &UserApi{
		UserController: userController,
		Config:         config,
	}
}

func (api *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", middleware.RequireRoles(api.Config.SkipAuth, models.RoleAdmin), api.UserController.List)
}
