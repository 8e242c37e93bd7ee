package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /api/dashboard/stats [get]
func (c *DashboardController) Stats(ctx *fiber.Ctx) error {
	stats, err := c.DashboardService.GetStats(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(stats)
}

// PendingApprovals godoc
// @Summary Pending events and membership requests
// @Tags dashboard
// @Produce json
// @Success 200 {object} PendingApprovals
// @Router /api/dashboard/pending-approvals [get]
func (c *DashboardController) PendingApprovals(ctx *fiber.Ctx) error {
	pending, err := c.DashboardService.GetPendingApprovals(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(pending)
}
