package event

import (
	"context"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/features/club"
	"club-hub/internal/features/user"
	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateEventInput struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ClubID          string  `json:"club_id"`
	EventType       string  `json:"event_type"`
	Venue           string  `json:"venue"`
	Date            string  `json:"date"` // YYYY-MM-DD
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	MaxParticipants int     `json:"max_participants"`
	Budget          float64 `json:"budget"`
}

type ReviewEventInput struct {
	ApprovalNotes  string  `json:"approval_notes"`
	ApprovedBudget float64 `json:"approved_budget"`
}

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput, creatorID string) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error)
	RegisterForEvent(ctx context.Context, eventID, userID string) error
	ReviewEvent(ctx context.Context, eventID, approverID string, input ReviewEventInput, approve bool) error
}

type EventServiceImpl struct {
	EventRepo EventRepository
	ClubRepo  club.ClubRepository
	UserRepo  user.UserRepository
}

func NewEventService(eventRepo EventRepository, clubRepo club.ClubRepository, userRepo user.UserRepository) EventService {
	return &EventServiceImpl{
		EventRepo: eventRepo,
		ClubRepo:  clubRepo,
		UserRepo:  userRepo,
	}
}

func (s *EventServiceImpl) CreateEvent(ctx context.Context, input CreateEventInput, creatorID string) (*models.Event, error) {
	if input.Title == "" || input.Description == "" || input.ClubID == "" || input.EventType == "" ||
		input.Venue == "" || input.Date == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, apperr.Validationf("title, description, club_id, event_type, venue, date, start_time and end_time are required")
	}

	clubDoc, err := s.ClubRepo.FindByID(ctx, input.ClubID)
	if err != nil || !clubDoc.IsActive {
		return nil, apperr.NotFoundf("club not found")
	}

	creator, err := s.UserRepo.FindByID(ctx, creatorID)
	if err != nil {
		return nil, apperr.Authf("unknown creator")
	}

	if !s.canCreateEvent(clubDoc, creator) {
		return nil, apperr.Forbiddenf("not authorized to create events for this club")
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, apperr.Validationf("date must be YYYY-MM-DD")
	}

	evt := &models.Event{
		ID:                     primitive.NewObjectID(),
		Title:                  input.Title,
		Description:            input.Description,
		ClubID:                 clubDoc.ID,
		Organizer:              creator.ID,
		EventType:              input.EventType,
		Venue:                  input.Venue,
		Date:                   date,
		StartTime:              input.StartTime,
		EndTime:                input.EndTime,
		MaxParticipants:        input.MaxParticipants,
		Budget:                 models.Budget{Requested: input.Budget},
		Status:                 models.EventPending,
		RegisteredParticipants: models.RegistrationList{},
		CreatedAt:              time.Now(),
	}

	if err := s.EventRepo.Create(ctx, evt); err != nil {
		return nil, err
	}

	// Track the event on its club document as well
	if err := s.ClubRepo.AddEvent(ctx, clubDoc.ID, evt.ID); err != nil {
		return nil, err
	}

	return evt, nil
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	evt, err := s.EventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundf("event not found")
	}
	return evt, nil
}

func (s *EventServiceImpl) ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	return s.EventRepo.List(ctx, filter)
}

func (s *EventServiceImpl) RegisterForEvent(ctx context.Context, eventID, userID string) error {
	evt, err := s.EventRepo.FindByID(ctx, eventID)
	if err != nil {
		return apperr.NotFoundf("event not found")
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Validationf("invalid user id")
	}

	if evt.IsRegistered(uid) {
		return apperr.Validationf("already registered for this event")
	}
	if evt.IsFull() {
		return apperr.Validationf("event is full")
	}

	return s.EventRepo.AddRegistration(ctx, evt.ID, models.Registration{
		UserID:       uid,
		RegisteredAt: time.Now(),
	})
}

func (s *EventServiceImpl) ReviewEvent(ctx context.Context, eventID, approverID string, input ReviewEventInput, approve bool) error {
	approver, err := s.UserRepo.FindByID(ctx, approverID)
	if err != nil {
		return apperr.Authf("unknown approver")
	}
	if approver.Role != models.RoleFaculty && approver.Role != models.RoleAdmin {
		return apperr.Forbiddenf("unauthorized to review events")
	}

	evt, err := s.EventRepo.FindByID(ctx, eventID)
	if err != nil {
		return apperr.NotFoundf("event not found")
	}

	update := bson.M{
		"approved_by":    approver.ID,
		"approval_notes": input.ApprovalNotes,
	}
	if approve {
		update["status"] = models.EventApproved
		update["budget.approved"] = input.ApprovedBudget
	} else {
		update["status"] = models.EventRejected
	}

	return s.EventRepo.SetReview(ctx, evt.ID, update)
}

// canCreateEvent allows faculty/admin or an active member of the club.
func (s *EventServiceImpl) canCreateEvent(clubDoc *models.Club, creator *models.User) bool {
	if creator.Role == models.RoleFaculty || creator.Role == models.RoleAdmin {
		return true
	}
	_, ok := clubDoc.ActiveMember(creator.ID)
	return ok
}
