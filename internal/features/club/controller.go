package club

import (
	"club-hub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ClubController struct {
	ClubService ClubService
}

func NewClubController(clubService ClubService) *ClubController {
	return &ClubController{ClubService: clubService}
}

// Create godoc
// @Summary Create a club
// @Tags clubs
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/clubs [post]
func (c *ClubController) Create(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input CreateClubInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	club, err := c.ClubService.CreateClub(ctx.Context(), input, claims.UserID, claims.Role)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Club created successfully",
		"club":    club,
	})
}

// List godoc
// @Summary List active clubs
// @Tags clubs
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Search over name and description"
// @Success 200 {array} models.Club
// @Router /api/clubs [get]
func (c *ClubController) List(ctx *fiber.Ctx) error {
	clubs, err := c.ClubService.ListClubs(ctx.Context(), ctx.Query("category"), ctx.Query("search"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(clubs)
}

// Get godoc
// @Summary Get one club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} models.Club
// @Router /api/clubs/{id} [get]
func (c *ClubController) Get(ctx *fiber.Ctx) error {
	club, err := c.ClubService.GetClub(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(club)
}

// Join godoc
// @Summary Request membership
// @Tags clubs
// @Param id path string true "Club ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/clubs/{id}/join [post]
func (c *ClubController) Join(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.ClubService.JoinClub(ctx.Context(), ctx.Params("id"), claims.UserID); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{"message": "Membership request sent successfully"})
}

// ApproveMember godoc
// @Summary Approve a membership request
// @Tags clubs
// @Router /api/clubs/{id}/members/{userId}/approve [put]
func (c *ClubController) ApproveMember(ctx *fiber.Ctx) error {
	return c.reviewMember(ctx, true)
}

// RejectMember godoc
// @Summary Reject a membership request
// @Tags clubs
// @Router /api/clubs/{id}/members/{userId}/reject [put]
func (c *ClubController) RejectMember(ctx *fiber.Ctx) error {
	return c.reviewMember(ctx, false)
}

func (c *ClubController) reviewMember(ctx *fiber.Ctx, approve bool) error {
	claims, ok := middleware.ClaimsFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	err := c.ClubService.ReviewMembership(ctx.Context(), ctx.Params("id"), ctx.Params("userId"), claims.UserID, approve)
	if err != nil {
		return err
	}

	msg := "Membership approved successfully"
	if !approve {
		msg = "Membership rejected"
	}
	return ctx.JSON(fiber.Map{"message": msg})
}
