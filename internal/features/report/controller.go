package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"club-hub/internal/config"
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportController struct {
	ReportService ReportService
	Config        *config.Config
}

func NewReportController(reportService ReportService, cfg *config.Config) *ReportController {
	return &ReportController{
		ReportService: reportService,
		Config:        cfg,
	}
}

// Generate godoc
// @Summary Generate a report file
// @Description Assembles domain data for the requested type and renders it as csv, excel or pdf.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation parameters"
// @Success 201 {object} map[string]interface{}
// @Router /api/reports/generate [post]
func (c *ReportController) Generate(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := c.ReportService.Generate(ctx.Context(), req, claims)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Report generated successfully",
		"report":       rec,
		"download_url": fmt.Sprintf("/api/reports/%s/download", rec.ID.Hex()),
	})
}

// Upload godoc
// @Summary Upload a report file for review
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/reports/upload [post]
func (c *ReportController) Upload(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A report file is required"})
	}

	if err := os.MkdirAll(c.Config.ReportsPath, 0o755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare storage"})
	}

	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(fileHeader.Filename))
	storedPath := filepath.Join(c.Config.ReportsPath, storedName)
	if err := ctx.SaveFile(fileHeader, storedPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store file"})
	}

	rec, err := c.ReportService.Upload(ctx.Context(), UploadRequest{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		ClubID:      ctx.FormValue("club_id"),
		Kind:        ctx.FormValue("kind"),
		Filename:    fileHeader.Filename,
		StoredPath:  storedPath,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, claims)
	if err != nil {
		_ = os.Remove(storedPath)
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report submitted for review",
		"report":  rec,
	})
}

// List godoc
// @Summary List reports
// @Tags reports
// @Produce json
// @Param club_id query string false "Club filter"
// @Param status query string false "Status filter"
// @Param kind query string false "Kind filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/reports [get]
func (c *ReportController) List(ctx *fiber.Ctx) error {
	filter := ListFilter{
		ClubID: ctx.Query("club_id"),
		Status: ctx.Query("status"),
		Kind:   ctx.Query("kind"),
	}
	if page, err := strconv.ParseInt(ctx.Query("page", "1"), 10, 64); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64); err == nil {
		filter.Limit = limit
	}
	if from := ctx.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := ctx.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.AddDate(0, 0, 1).Add(-time.Second)
		}
	}

	reports, total, err := c.ReportService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"data":  reports,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// ListByClub godoc
// @Summary List one club's reports
// @Tags reports
// @Produce json
// @Param clubId path string true "Club id"
// @Success 200 {array} Report
// @Router /api/reports/club/{clubId} [get]
func (c *ReportController) ListByClub(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reports, err := c.ReportService.ListByClub(ctx.Context(), ctx.Params("clubId"), claims)
	if err != nil {
		return err
	}
	return ctx.JSON(reports)
}

// Approve godoc
// @Summary Approve a pending report
// @Tags reports
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} map[string]interface{}
// @Router /api/reports/{id}/approve [put]
func (c *ReportController) Approve(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	rec, err := c.ReportService.Approve(ctx.Context(), ctx.Params("id"), claims)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Report approved", "report": rec})
}

// Reject godoc
// @Summary Reject a pending report
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} map[string]interface{}
// @Router /api/reports/{id}/reject [put]
func (c *ReportController) Reject(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rec, err := c.ReportService.Reject(ctx.Context(), ctx.Params("id"), body.Reason, claims)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Report rejected", "report": rec})
}

// Delete godoc
// @Summary Delete a report and its files
// @Tags reports
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} map[string]interface{}
// @Router /api/reports/{id} [delete]
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.ReportService.Delete(ctx.Context(), ctx.Params("id"), claims); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Report deleted"})
}

// Download godoc
// @Summary Download a report's attachment
// @Description Streams the file. The token comes from the Authorization header or a token query parameter so plain anchor-tag downloads work.
// @Tags reports
// @Produce octet-stream
// @Param id path string true "Report id"
// @Param token query string false "JWT when no Authorization header is set"
// @Success 200 {file} binary
// @Router /api/reports/{id}/download [get]
func (c *ReportController) Download(ctx *fiber.Ctx) error {
	token := downloadToken(ctx)

	_, att, err := c.ReportService.AuthorizeDownload(ctx.Context(), ctx.Params("id"), token)
	if err != nil {
		return err
	}

	info, err := os.Stat(att.Path)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report file not found on storage"})
	}

	file, err := os.Open(att.Path)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open report file"})
	}

	mimeType := att.MimeType
	if mimeType == "" {
		mimeType = MimeForFilename(att.Filename)
	}

	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, att.Filename))
	ctx.Set(fiber.HeaderContentType, mimeType)
	ctx.Set(fiber.HeaderContentLength, strconv.FormatInt(info.Size(), 10))

	return ctx.SendStream(file, int(info.Size()))
}

// downloadToken accepts the token from a bearer header or, for plain link
// downloads, a query parameter.
func downloadToken(ctx *fiber.Ctx) string {
	if token := ctx.Query("token"); token != "" {
		return token
	}
	auth := ctx.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return auth
}
