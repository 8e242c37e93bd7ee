package report

import (
	"club-hub/internal/config"
	"club-hub/internal/middleware"
	"club-hub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	// /api/club-reports is the historical path; older clients still use it.
	api.register(app.Group("/api/reports"))
	api.register(app.Group("/api/club-reports"))
}

func (api *ReportApi) register(group fiber.Router) {
	auth := middleware.AuthMiddleware(api.Config.SkipAuth)
	facultyOnly := middleware.RequireRoles(api.Config.SkipAuth, models.RoleFaculty, models.RoleAdmin)

	group.Get("/", auth, facultyOnly, api.ReportController.List)
	group.Post("/generate", auth, api.ReportController.Generate)
	group.Post("/upload", auth, api.ReportController.Upload)
	group.Get("/club/:clubId", auth, api.ReportController.ListByClub)
	group.Put("/:id/approve", auth, facultyOnly, api.ReportController.Approve)
	group.Put("/:id/reject", auth, facultyOnly, api.ReportController.Reject)
	group.Delete("/:id", auth, api.ReportController.Delete)

	// Download routes skip the auth middleware: the handler resolves the
	// token itself so query-string tokens (plain <a> downloads) work.
	group.Get("/:id/download", api.ReportController.Download)
	group.Get("/:id/attachment", api.ReportController.Download)
}
