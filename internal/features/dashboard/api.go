package dashboard

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"
	"club-hub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
	Config              *config.Config
}

func NewDashboardApi(dashboardController *DashboardController, config *config.Config) *DashboardApi {
	return &DashboardApi{
		DashboardController: dashboardController,
		Config:              config,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequireRoles(api.Config.SkipAuth, models.RoleFaculty, models.RoleAdmin),
	)

	group.Get("/stats", api.DashboardController.Stats)
	group.Get("/pending-approvals", api.DashboardController.PendingApprovals)
}
