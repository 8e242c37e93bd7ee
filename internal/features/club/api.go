package club

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ClubApi struct {
	ClubController *ClubController
	Config         *config.Config
}

func NewClubApi(clubController *ClubController, config *config.Config) *ClubApi {
	return &ClubApi{
		ClubController: clubController,
		Config:         config,
	}
}

func (api *ClubApi) Setup(app *fiber.App) {
	group := app.Group("/api/clubs", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.ClubController.Create)
	group.Get("/", api.ClubController.List)
	group.Get("/:id", api.ClubController.Get)
	group.Post("/:id/join", api.ClubController.Join)
	group.Put("/:id/members/:userId/approve", api.ClubController.ApproveMember)
	group.Put("/:id/members/:userId/reject", api.ClubController.RejectMember)
}
