package dashboard

import (
	"context"

	"club-hub/internal/features/club"
	"club-hub/internal/features/event"
	"club-hub/internal/features/user"
	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalClubs     int64 `json:"total_clubs"`
	TotalEvents    int64 `json:"total_events"`
	PendingEvents  int64 `json:"pending_events"`
	UpcomingEvents int64 `json:"upcoming_events"`
}

type StatsResponse struct {
	Stats           Stats                `json:"stats"`
	ClubsByCategory []club.CategoryCount `json:"clubs_by_category"`
	RecentEvents    []models.Event       `json:"recent_events"`
}

type PendingMembership struct {
	ClubID      string `json:"club_id"`
	ClubName    string `json:"club_name"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	Department  string `json:"department"`
	RequestDate string `json:"request_date"`
}

type PendingApprovals struct {
	PendingEvents      []models.Event      `json:"pending_events"`
	PendingMemberships []PendingMembership `json:"pending_memberships"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (*StatsResponse, error)
	GetPendingApprovals(ctx context.Context) (*PendingApprovals, error)
}

type DashboardServiceImpl struct {
	UserRepo  user.UserRepository
	ClubRepo  club.ClubRepository
	EventRepo event.EventRepository
}

func NewDashboardService(userRepo user.UserRepository, clubRepo club.ClubRepository, eventRepo event.EventRepository) DashboardService {
	return &DashboardServiceImpl{
		UserRepo:  userRepo,
		ClubRepo:  clubRepo,
		EventRepo: eventRepo,
	}
}

func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*StatsResponse, error) {
	totalUsers, err := s.UserRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalClubs, err := s.ClubRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalEvents, err := s.EventRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	pendingEvents, err := s.EventRepo.CountByStatus(ctx, models.EventPending)
	if err != nil {
		return nil, err
	}
	upcomingEvents, err := s.EventRepo.CountUpcomingApproved(ctx)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.ClubRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.EventRepo.FindRecent(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		Stats: Stats{
			TotalUsers:     totalUsers,
			TotalClubs:     totalClubs,
			TotalEvents:    totalEvents,
			PendingEvents:  pendingEvents,
			UpcomingEvents: upcomingEvents,
		},
		ClubsByCategory: byCategory,
		RecentEvents:    recent,
	}, nil
}

func (s *DashboardServiceImpl) GetPendingApprovals(ctx context.Context) (*PendingApprovals, error) {
	pendingEvents, err := s.EventRepo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	clubs, err := s.ClubRepo.FindWithPendingMembers(ctx)
	if err != nil {
		return nil, err
	}

	// One batched lookup for every pending requester across all clubs
	var ids []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool)
	for _, c := range clubs {
		for _, m := range c.Members {
			if m.Status == models.MembershipPending && !seen[m.UserID] {
				seen[m.UserID] = true
				ids = append(ids, m.UserID)
			}
		}
	}

	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	var memberships []PendingMembership
	for _, c := range clubs {
		for _, m := range c.Members {
			if m.Status != models.MembershipPending {
				continue
			}
			u, ok := byID[m.UserID]
			if !ok {
				continue
			}
			memberships = append(memberships, PendingMembership{
				ClubID:      c.ID.Hex(),
				ClubName:    c.Name,
				UserID:      u.ID.Hex(),
				UserName:    u.Name,
				UserEmail:   u.Email,
				Department:  u.Department,
				RequestDate: m.JoinedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}

	return &PendingApprovals{
		PendingEvents:      pendingEvents,
		PendingMemberships: memberships,
	}, nil
}
