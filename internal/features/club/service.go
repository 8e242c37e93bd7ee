package club

import (
	"context"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/features/user"
	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateClubInput struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Mission         string    `json:"mission"`
	Vision          string    `json:"vision"`
	EstablishedDate time.Time `json:"established_date"`
}

type ClubService interface {
	CreateClub(ctx context.Context, input CreateClubInput, creatorID string, creatorRole string) (*models.Club, error)
	GetClub(ctx context.Context, id string) (*models.Club, error)
	ListClubs(ctx context.Context, category, search string) ([]models.Club, error)
	JoinClub(ctx context.Context, clubID, userID string) error
	ReviewMembership(ctx context.Context, clubID, memberID, reviewerID string, approve bool) error
}

type ClubServiceImpl struct {
	ClubRepo ClubRepository
	UserRepo user.UserRepository
}

func NewClubService(clubRepo ClubRepository, userRepo user.UserRepository) ClubService {
	return &ClubServiceImpl{
		ClubRepo: clubRepo,
		UserRepo: userRepo,
	}
}

func (s *ClubServiceImpl) CreateClub(ctx context.Context, input CreateClubInput, creatorID string, creatorRole string) (*models.Club, error) {
	if creatorRole != models.RoleFaculty && creatorRole != models.RoleAdmin {
		return nil, apperr.Forbiddenf("unauthorized to create clubs")
	}

	if input.Name == "" || input.Description == "" || input.Category == "" || input.Mission == "" || input.Vision == "" {
		return nil, apperr.Validationf("name, description, category, mission and vision are required")
	}

	if existing, _ := s.ClubRepo.FindByName(ctx, input.Name); existing != nil {
		return nil, apperr.Validationf("club name already exists")
	}

	coordinatorID, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, apperr.Validationf("invalid creator id")
	}

	established := input.EstablishedDate
	if established.IsZero() {
		established = time.Now()
	}

	club := &models.Club{
		ID:                 primitive.NewObjectID(),
		Name:               input.Name,
		Description:        input.Description,
		Category:           input.Category,
		Mission:            input.Mission,
		Vision:             input.Vision,
		FacultyCoordinator: coordinatorID,
		EstablishedDate:    established,
		IsActive:           true,
		Members:            []models.Membership{},
		CreatedAt:          time.Now(),
	}

	if err := s.ClubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	return club, nil
}

func (s *ClubServiceImpl) GetClub(ctx context.Context, id string) (*models.Club, error) {
	club, err := s.ClubRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundf("club not found")
	}
	return club, nil
}

func (s *ClubServiceImpl) ListClubs(ctx context.Context, category, search string) ([]models.Club, error) {
	return s.ClubRepo.List(ctx, category, search)
}

func (s *ClubServiceImpl) JoinClub(ctx context.Context, clubID, userID string) error {
	club, err := s.ClubRepo.FindByID(ctx, clubID)
	if err != nil || !club.IsActive {
		return apperr.NotFoundf("club not found")
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Validationf("invalid user id")
	}

	for _, m := range club.Members {
		if m.UserID == uid {
			return apperr.Validationf("already a member of this club")
		}
	}

	membership := models.Membership{
		UserID:   uid,
		Role:     models.MemberRoleMember,
		Status:   models.MembershipPending,
		JoinedAt: time.Now(),
	}

	if err := s.ClubRepo.AddMember(ctx, club.ID, membership); err != nil {
		return err
	}

	// Mirror the affiliation onto the user document
	return s.UserRepo.AddClub(ctx, uid, models.UserClub{
		ClubID: club.ID,
		Role:   models.MemberRoleMember,
	})
}

func (s *ClubServiceImpl) ReviewMembership(ctx context.Context, clubID, memberID, reviewerID string, approve bool) error {
	club, err := s.ClubRepo.FindByID(ctx, clubID)
	if err != nil {
		return apperr.NotFoundf("club not found")
	}

	allowed, err := s.canReviewMembership(ctx, club, reviewerID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Forbiddenf("insufficient permissions")
	}

	mid, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return apperr.Validationf("invalid member id")
	}

	found := false
	for _, m := range club.Members {
		if m.UserID == mid {
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFoundf("member not found")
	}

	status := models.MembershipActive
	if !approve {
		status = models.MembershipRejected
	}

	return s.ClubRepo.UpdateMemberStatus(ctx, club.ID, mid, status)
}

// canReviewMembership allows faculty/admin or an active club officer.
func (s *ClubServiceImpl) canReviewMembership(ctx context.Context, club *models.Club, reviewerID string) (bool, error) {
	reviewer, err := s.UserRepo.FindByID(ctx, reviewerID)
	if err != nil {
		return false, apperr.Authf("unknown reviewer")
	}

	if reviewer.Role == models.RoleFaculty || reviewer.Role == models.RoleAdmin {
		return true, nil
	}

	if m, ok := club.ActiveMember(reviewer.ID); ok && m.IsOfficer() {
		return true, nil
	}

	return false, nil
}
