package auth

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	AuthController *AuthController
	Config         *config.Config
}

func NewAuthApi(authController *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		AuthController: authController,
		Config:         config,
	}
}

func (api *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/register", api.AuthController.Register)
	group.Post("/login", api.AuthController.Login)
	group.Get("/profile", middleware.AuthMiddleware(api.Config.SkipAuth), api.AuthController.Profile)
}
