package report

import (
	"context"
	"fmt"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/models"
	"club-hub/internal/render"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request-time report types. Distinct from the persisted Kind category.
const (
	TypeUsers      = "users"
	TypeClubs      = "clubs"
	TypeEvents     = "events"
	TypeAttendance = "attendance"
	TypeActivity   = "activity"
	TypeFeedback   = "feedback"
	TypeMembership = "membership"
	TypeFinancial  = "financial"
)

func KnownType(reportType string) bool {
	switch reportType {
	case TypeUsers, TypeClubs, TypeEvents, TypeAttendance,
		TypeActivity, TypeFeedback, TypeMembership, TypeFinancial:
		return true
	}
	return false
}

// UserFinder is the slice of the user repository the assembler needs.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByCreatedRange(ctx context.Context, from, to time.Time, clubID string) ([]models.User, error)
	CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error)
}

// ClubFinder is the slice of the club repository the assembler needs.
type ClubFinder interface {
	FindByID(ctx context.Context, id string) (*models.Club, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Club, error)
	FindByCreatedRange(ctx context.Context, from, to time.Time) ([]models.Club, error)
	CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error)
}

// EventFinder is the slice of the event repository the assembler needs.
type EventFinder interface {
	FindByDateRange(ctx context.Context, from, to time.Time, clubID string) ([]models.Event, error)
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
}

// Assembler queries the domain store and shapes the result into the
// normalized form the renderers consume. One method per report type.
type Assembler struct {
	Users  UserFinder
	Clubs  ClubFinder
	Events EventFinder
}

func NewAssembler(users UserFinder, clubs ClubFinder, events EventFinder) *Assembler {
	return &Assembler{
		Users:  users,
		Clubs:  clubs,
		Events: events,
	}
}

// Assemble dispatches to the assembler for the given type. The clubs report
// is always global; the others honor the club filter when present.
func (a *Assembler) Assemble(ctx context.Context, reportType string, from, to time.Time, clubID string) (*render.Data, error) {
	switch reportType {
	case TypeUsers:
		return a.UsersReport(ctx, from, to, clubID)
	case TypeClubs:
		return a.ClubsReport(ctx, from, to)
	case TypeEvents:
		return a.EventsReport(ctx, from, to, clubID)
	case TypeAttendance:
		return a.AttendanceReport(ctx, from, to, clubID)
	case TypeActivity:
		return a.ActivityReport(ctx, from, to)
	case TypeFeedback:
		return a.FeedbackReport(ctx, from, to)
	case TypeMembership:
		return a.MembershipReport(ctx, clubID)
	case TypeFinancial:
		return a.FinancialReport(ctx, from, to, clubID)
	default:
		return nil, apperr.Validationf("unknown report type: %s", reportType)
	}
}

// UsersReport lists users created within the window, optionally scoped to
// one club. Club affiliation is resolved in one batched lookup.
func (a *Assembler) UsersReport(ctx context.Context, from, to time.Time, clubID string) (*render.Data, error) {
	users, err := a.Users.FindByCreatedRange(ctx, from, to, clubID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	clubNames, err := a.clubNamesFor(ctx, firstClubIDs(users))
	if err != nil {
		return nil, err
	}

	data := &render.Data{
		Columns: []string{"Name", "Username", "Email", "Role", "Club", "Join Date"},
	}
	for _, u := range users {
		clubName := "N/A"
		if len(u.Clubs) > 0 {
			if name, ok := clubNames[u.Clubs[0].ClubID]; ok {
				clubName = name
			}
		}
		data.Rows = append(data.Rows, map[string]any{
			"Name":      u.Name,
			"Username":  u.Username,
			"Email":     u.Email,
			"Role":      u.Role,
			"Club":      clubName,
			"Join Date": u.CreatedAt,
		})
	}
	return data, nil
}

// ClubsReport is always global: one row per club created in the window,
// with the coordinator resolved in a single batched user lookup.
func (a *Assembler) ClubsReport(ctx context.Context, from, to time.Time) (*render.Data, error) {
	clubs, err := a.Clubs.FindByCreatedRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query clubs: %w", err)
	}

	var coordinatorIDs []primitive.ObjectID
	for _, c := range clubs {
		if !c.FacultyCoordinator.IsZero() {
			coordinatorIDs = append(coordinatorIDs, c.FacultyCoordinator)
		}
	}
	coordinators, err := a.usersByID(ctx, coordinatorIDs)
	if err != nil {
		return nil, err
	}

	data := &render.Data{
		Columns: []string{"Name", "Category", "Coordinator", "Coordinator Email", "Established", "Created", "Active Members"},
	}
	for _, c := range clubs {
		coordName, coordEmail := "N/A", "N/A"
		if u, ok := coordinators[c.FacultyCoordinator]; ok {
			coordName, coordEmail = u.Name, u.Email
		}
		data.Rows = append(data.Rows, map[string]any{
			"Name":              c.Name,
			"Category":          c.Category,
			"Coordinator":       coordName,
			"Coordinator Email": coordEmail,
			"Established":       c.EstablishedDate,
			"Created":           c.CreatedAt,
			"Active Members":    c.MemberCount(models.MembershipActive),
		})
	}
	return data, nil
}

// EventsReport lists events dated within the window. Registrant counts rely
// on the lenient list decode, so a malformed participant field reads as zero.
func (a *Assembler) EventsReport(ctx context.Context, from, to time.Time, clubID string) (*render.Data, error) {
	events, err := a.Events.FindByDateRange(ctx, from, to, clubID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	clubNames, organizers, err := a.eventReferences(ctx, events)
	if err != nil {
		return nil, err
	}

	data := &render.Data{
		Columns: []string{"Title", "Description", "Club", "Organizer", "Venue", "Date", "Time", "Status", "Capacity", "Registered"},
	}
	for _, e := range events {
		clubName := "N/A"
		if name, ok := clubNames[e.ClubID]; ok {
			clubName = name
		}
		organizer := "N/A"
		if u, ok := organizers[e.Organizer]; ok {
			organizer = u.Name
		}
		capacity := "Unlimited"
		if e.MaxParticipants > 0 {
			capacity = fmt.Sprintf("%d", e.MaxParticipants)
		}
		data.Rows = append(data.Rows, map[string]any{
			"Title":       e.Title,
			"Description": e.Description,
			"Club":        clubName,
			"Organizer":   organizer,
			"Venue":       e.Venue,
			"Date":        e.Date,
			"Time":        fmt.Sprintf("%s - %s", e.StartTime, e.EndTime),
			"Status":      e.Status,
			"Capacity":    capacity,
			"Registered":  len(e.RegisteredParticipants),
		})
	}
	return data, nil
}

// AttendanceReport fans events out to one row per registrant. Registrant
// identities are resolved in one batched lookup across all matched events;
// a registrant whose user record is gone renders as "Unknown".
func (a *Assembler) AttendanceReport(ctx context.Context, from, to time.Time, clubID string) (*render.Data, error) {
	events, err := a.Events.FindByDateRange(ctx, from, to, clubID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	seen := make(map[primitive.ObjectID]struct{})
	var participantIDs []primitive.ObjectID
	for _, e := range events {
		for _, reg := range e.RegisteredParticipants {
			if _, dup := seen[reg.UserID]; dup {
				continue
			}
			seen[reg.UserID] = struct{}{}
			participantIDs = append(participantIDs, reg.UserID)
		}
	}
	participants, err := a.usersByID(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	clubNames, _, err := a.eventReferences(ctx, events)
	if err != nil {
		return nil, err
	}

	data := &render.Data{
		Columns: []string{"Event", "Club", "Date", "Participant", "Email", "Registered At"},
	}
	for _, e := range events {
		clubName := "N/A"
		if name, ok := clubNames[e.ClubID]; ok {
			clubName = name
		}
		for _, reg := range e.RegisteredParticipants {
			name, email := "Unknown", ""
			if u, ok := participants[reg.UserID]; ok {
				name, email = u.Name, u.Email
			}
			data.Rows = append(data.Rows, map[string]any{
				"Event":         e.Title,
				"Club":          clubName,
				"Date":          e.Date,
				"Participant":   name,
				"Email":         email,
				"Registered At": reg.RegisteredAt,
			})
		}
	}
	return data, nil
}

// ActivityReport is a single in-window count summary.
func (a *Assembler) ActivityReport(ctx context.Context, from, to time.Time) (*render.Data, error) {
	userCount, err := a.Users.CountCreatedInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	clubCount, err := a.Clubs.CountCreatedInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count clubs: %w", err)
	}
	eventCount, err := a.Events.CountInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	return &render.Data{
		Summary: map[string]any{
			"Period":         fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
			"New Users":      userCount,
			"New Clubs":      clubCount,
			"Events Held":    eventCount,
			"Total Activity": userCount + clubCount + eventCount,
		},
		SummaryOrder: []string{"Period", "New Users", "New Clubs", "Events Held", "Total Activity"},
	}, nil
}

// FeedbackReport has no backing subsystem; it returns a fixed summary so
// renderers handle it like any other metric object.
func (a *Assembler) FeedbackReport(_ context.Context, from, to time.Time) (*render.Data, error) {
	return &render.Data{
		Summary: map[string]any{
			"Period":           fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
			"Feedback Entries": 0,
			"Average Rating":   "N/A",
			"Note":             "Feedback collection is not enabled for this deployment",
		},
		SummaryOrder: []string{"Period", "Feedback Entries", "Average Rating", "Note"},
	}, nil
}

// MembershipReport breaks one club's roster down by status and role, with a
// six-month join trend. A missing club yields a zeroed summary, not an error.
func (a *Assembler) MembershipReport(ctx context.Context, clubID string) (*render.Data, error) {
	summary := map[string]any{
		"Club":            "N/A",
		"Total Members":   0,
		"Active Members":  0,
		"Pending Members": 0,
	}
	order := []string{"Club", "Total Members", "Active Members", "Pending Members"}

	club, err := a.Clubs.FindByID(ctx, clubID)
	if err != nil || club == nil {
		return &render.Data{Summary: summary, SummaryOrder: order}, nil
	}

	summary["Club"] = club.Name
	summary["Total Members"] = len(club.Members)
	summary["Active Members"] = club.MemberCount(models.MembershipActive)
	summary["Pending Members"] = club.MemberCount(models.MembershipPending)

	roleCounts := make(map[string]int)
	for _, m := range club.Members {
		if m.Status != models.MembershipActive {
			continue
		}
		roleCounts[m.Role]++
	}
	for _, role := range []string{models.MemberRoleMember, models.MemberRolePresident, models.MemberRoleVicePresident, models.MemberRoleSecretary} {
		key := fmt.Sprintf("Role: %s", role)
		summary[key] = roleCounts[role]
		order = append(order, key)
	}

	// Monthly join counts for the trailing six months.
	now := time.Now()
	for i := 5; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)
		joined := 0
		for _, m := range club.Members {
			if !m.JoinedAt.Before(monthStart) && m.JoinedAt.Before(monthEnd) {
				joined++
			}
		}
		key := fmt.Sprintf("Joined %s", monthStart.Format("2006-01"))
		summary[key] = joined
		order = append(order, key)
	}

	return &render.Data{Summary: summary, SummaryOrder: order}, nil
}

// FinancialReport documents that no real financial tracking exists upstream;
// only event budgets carry money, so those are totalled as an indication.
func (a *Assembler) FinancialReport(ctx context.Context, from, to time.Time, clubID string) (*render.Data, error) {
	events, err := a.Events.FindByDateRange(ctx, from, to, clubID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	var requested, approved float64
	for _, e := range events {
		requested += e.Budget.Requested
		approved += e.Budget.Approved
	}

	return &render.Data{
		Summary: map[string]any{
			"Period":                    fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
			"Total Income":              0,
			"Total Expenses":            0,
			"Membership Fees Collected": 0,
			"Event Budgets Requested":   requested,
			"Event Budgets Approved":    approved,
			"Note":                      "Income and expense tracking is not implemented; event budgets shown for reference",
		},
		SummaryOrder: []string{
			"Period", "Total Income", "Total Expenses", "Membership Fees Collected",
			"Event Budgets Requested", "Event Budgets Approved", "Note",
		},
	}, nil
}

func firstClubIDs(users []models.User) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, u := range users {
		if len(u.Clubs) == 0 {
			continue
		}
		id := u.Clubs[0].ClubID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (a *Assembler) clubNamesFor(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string)
	if len(ids) == 0 {
		return names, nil
	}
	clubs, err := a.Clubs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve clubs: %w", err)
	}
	for _, c := range clubs {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (a *Assembler) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	byID := make(map[primitive.ObjectID]models.User)
	if len(ids) == 0 {
		return byID, nil
	}
	users, err := a.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// eventReferences resolves club names and organizer users for a batch of
// events with one lookup per collection.
func (a *Assembler) eventReferences(ctx context.Context, events []models.Event) (map[primitive.ObjectID]string, map[primitive.ObjectID]models.User, error) {
	clubSeen := make(map[primitive.ObjectID]struct{})
	userSeen := make(map[primitive.ObjectID]struct{})
	var clubIDs, organizerIDs []primitive.ObjectID
	for _, e := range events {
		if !e.ClubID.IsZero() {
			if _, dup := clubSeen[e.ClubID]; !dup {
				clubSeen[e.ClubID] = struct{}{}
				clubIDs = append(clubIDs, e.ClubID)
			}
		}
		if !e.Organizer.IsZero() {
			if _, dup := userSeen[e.Organizer]; !dup {
				userSeen[e.Organizer] = struct{}{}
				organizerIDs = append(organizerIDs, e.Organizer)
			}
		}
	}

	clubNames, err := a.clubNamesFor(ctx, clubIDs)
	if err != nil {
		return nil, nil, err
	}
	organizers, err := a.usersByID(ctx, organizerIDs)
	if err != nil {
		return nil, nil, err
	}
	return clubNames, organizers, nil
}
