package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"club-hub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	users          []models.User
	findByIDsCalls int
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID.Hex() == id {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.findByIDsCalls++
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := want[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) FindByCreatedRange(_ context.Context, from, to time.Time, clubID string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.CreatedAt.Before(from) || u.CreatedAt.After(to) {
			continue
		}
		if clubID != "" {
			oid, err := primitive.ObjectIDFromHex(clubID)
			if err != nil || !u.InClub(oid) {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error) {
	users, _ := f.FindByCreatedRange(ctx, from, to, "")
	return int64(len(users)), nil
}

type fakeClubs struct {
	clubs []models.Club
}

func (f *fakeClubs) FindByID(_ context.Context, id string) (*models.Club, error) {
	for i := range f.clubs {
		if f.clubs[i].ID.Hex() == id {
			return &f.clubs[i], nil
		}
	}
	return nil, errors.New("club not found")
}

func (f *fakeClubs) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Club, error) {
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []models.Club
	for _, c := range f.clubs {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClubs) FindByCreatedRange(_ context.Context, from, to time.Time) ([]models.Club, error) {
	var out []models.Club
	for _, c := range f.clubs {
		if !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClubs) CountCreatedInRange(ctx context.Context, from, to time.Time) (int64, error) {
	clubs, _ := f.FindByCreatedRange(ctx, from, to)
	return int64(len(clubs)), nil
}

type fakeEvents struct {
	events []models.Event
}

func (f *fakeEvents) FindByDateRange(_ context.Context, from, to time.Time, clubID string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if clubID != "" && e.ClubID.Hex() != clubID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEvents) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	events, _ := f.FindByDateRange(ctx, from, to, "")
	return int64(len(events)), nil
}

var (
	window     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd  = time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	midWindow  = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lateWindow = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
)

func TestUsersReportColumnsAndClubResolution(t *testing.T) {
	clubID := primitive.NewObjectID()
	users := &fakeUsers{users: []models.User{
		{
			ID: primitive.NewObjectID(), Name: "Asha", Username: "asha", Email: "asha@example.com",
			Role: models.RoleStudent, CreatedAt: midWindow,
			Clubs: []models.UserClub{{ClubID: clubID, Role: models.MemberRoleMember}},
		},
		{
			ID: primitive.NewObjectID(), Name: "Ravi", Username: "ravi", Email: "ravi@example.com",
			Role: models.RoleStudent, CreatedAt: lateWindow,
		},
	}}
	clubs := &fakeClubs{clubs: []models.Club{{ID: clubID, Name: "Coding Club"}}}
	a := NewAssembler(users, clubs, &fakeEvents{})

	data, err := a.UsersReport(context.Background(), window, windowEnd, "")
	if err != nil {
		t.Fatalf("UsersReport() error = %v", err)
	}

	wantColumns := []string{"Name", "Username", "Email", "Role", "Club", "Join Date"}
	if len(data.Columns) != len(wantColumns) {
		t.Fatalf("columns = %v, want %v", data.Columns, wantColumns)
	}
	for i, col := range wantColumns {
		if data.Columns[i] != col {
			t.Errorf("columns[%d] = %q, want %q", i, data.Columns[i], col)
		}
	}
	if len(data.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(data.Rows))
	}
	if data.Rows[0]["Club"] != "Coding Club" {
		t.Errorf("row 0 club = %v, want resolved name", data.Rows[0]["Club"])
	}
	if data.Rows[1]["Club"] != "N/A" {
		t.Errorf("row 1 club = %v, want N/A for user without a club", data.Rows[1]["Club"])
	}
}

func TestAttendanceReportFansOutAndBatchesLookups(t *testing.T) {
	clubID := primitive.NewObjectID()
	known := models.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}
	ghost := primitive.NewObjectID() // registered but the user record is gone

	users := &fakeUsers{users: []models.User{known}}
	clubs := &fakeClubs{clubs: []models.Club{{ID: clubID, Name: "Coding Club"}}}
	events := &fakeEvents{events: []models.Event{
		{
			ID: primitive.NewObjectID(), Title: "Hackathon", ClubID: clubID, Date: midWindow,
			RegisteredParticipants: models.RegistrationList{
				{UserID: known.ID, RegisteredAt: midWindow},
				{UserID: ghost, RegisteredAt: midWindow},
			},
		},
		{
			ID: primitive.NewObjectID(), Title: "Workshop", ClubID: clubID, Date: lateWindow,
			RegisteredParticipants: models.RegistrationList{
				{UserID: known.ID, RegisteredAt: lateWindow},
			},
		},
	}}
	a := NewAssembler(users, clubs, events)

	data, err := a.AttendanceReport(context.Background(), window, windowEnd, "")
	if err != nil {
		t.Fatalf("AttendanceReport() error = %v", err)
	}

	// One row per registrant per event.
	if len(data.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(data.Rows))
	}

	// All registrant identities resolve through one batched lookup.
	if users.findByIDsCalls != 1 {
		t.Errorf("FindByIDs called %d times, want 1", users.findByIDsCalls)
	}

	foundUnknown := false
	for _, row := range data.Rows {
		if row["Participant"] == "Unknown" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Error("registrant with missing user record should resolve to Unknown")
	}
}

func TestEventsReportToleratesEmptyRegistrants(t *testing.T) {
	clubID := primitive.NewObjectID()
	events := &fakeEvents{events: []models.Event{
		{ID: primitive.NewObjectID(), Title: "Quiet Meetup", ClubID: clubID, Date: midWindow},
	}}
	a := NewAssembler(&fakeUsers{}, &fakeClubs{clubs: []models.Club{{ID: clubID, Name: "Coding Club"}}}, events)

	data, err := a.EventsReport(context.Background(), window, windowEnd, "")
	if err != nil {
		t.Fatalf("EventsReport() error = %v", err)
	}
	if len(data.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(data.Rows))
	}
	if data.Rows[0]["Registered"] != 0 {
		t.Errorf("registered = %v, want 0 for absent registrant list", data.Rows[0]["Registered"])
	}
	if data.Rows[0]["Organizer"] != "N/A" {
		t.Errorf("organizer = %v, want N/A for unresolved organizer", data.Rows[0]["Organizer"])
	}
}

func TestMembershipReportMissingClub(t *testing.T) {
	a := NewAssembler(&fakeUsers{}, &fakeClubs{}, &fakeEvents{})

	data, err := a.MembershipReport(context.Background(), primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("MembershipReport() error = %v, want zeroed structure instead", err)
	}
	if data.Summary["Club"] != "N/A" {
		t.Errorf("club = %v, want N/A", data.Summary["Club"])
	}
	if data.Summary["Total Members"] != 0 {
		t.Errorf("total members = %v, want 0", data.Summary["Total Members"])
	}
}

func TestMembershipReportCounts(t *testing.T) {
	clubID := primitive.NewObjectID()
	clubs := &fakeClubs{clubs: []models.Club{{
		ID:   clubID,
		Name: "Coding Club",
		Members: []models.Membership{
			{UserID: primitive.NewObjectID(), Role: models.MemberRolePresident, Status: models.MembershipActive, JoinedAt: midWindow},
			{UserID: primitive.NewObjectID(), Role: models.MemberRoleMember, Status: models.MembershipActive, JoinedAt: lateWindow},
			{UserID: primitive.NewObjectID(), Role: models.MemberRoleMember, Status: models.MembershipPending, JoinedAt: lateWindow},
		},
	}}}
	a := NewAssembler(&fakeUsers{}, clubs, &fakeEvents{})

	data, err := a.MembershipReport(context.Background(), clubID.Hex())
	if err != nil {
		t.Fatalf("MembershipReport() error = %v", err)
	}
	if data.Summary["Club"] != "Coding Club" {
		t.Errorf("club = %v", data.Summary["Club"])
	}
	if data.Summary["Total Members"] != 3 {
		t.Errorf("total = %v, want 3", data.Summary["Total Members"])
	}
	if data.Summary["Active Members"] != 2 {
		t.Errorf("active = %v, want 2", data.Summary["Active Members"])
	}
	if data.Summary["Pending Members"] != 1 {
		t.Errorf("pending = %v, want 1", data.Summary["Pending Members"])
	}
	// Pending memberships do not count toward role breakdowns.
	if data.Summary["Role: member"] != 1 {
		t.Errorf("member role count = %v, want 1", data.Summary["Role: member"])
	}
	if data.Summary["Role: president"] != 1 {
		t.Errorf("president role count = %v, want 1", data.Summary["Role: president"])
	}
}

func TestActivityReportSummary(t *testing.T) {
	users := &fakeUsers{users: []models.User{
		{ID: primitive.NewObjectID(), CreatedAt: midWindow},
		{ID: primitive.NewObjectID(), CreatedAt: lateWindow},
	}}
	clubs := &fakeClubs{clubs: []models.Club{{ID: primitive.NewObjectID(), CreatedAt: midWindow}}}
	events := &fakeEvents{events: []models.Event{{ID: primitive.NewObjectID(), Date: midWindow}}}
	a := NewAssembler(users, clubs, events)

	data, err := a.ActivityReport(context.Background(), window, windowEnd)
	if err != nil {
		t.Fatalf("ActivityReport() error = %v", err)
	}
	if data.Summary["New Users"] != int64(2) {
		t.Errorf("new users = %v, want 2", data.Summary["New Users"])
	}
	if data.Summary["New Clubs"] != int64(1) {
		t.Errorf("new clubs = %v, want 1", data.Summary["New Clubs"])
	}
	if data.Summary["Events Held"] != int64(1) {
		t.Errorf("events = %v, want 1", data.Summary["Events Held"])
	}
}

func TestAssembleUnknownType(t *testing.T) {
	a := NewAssembler(&fakeUsers{}, &fakeClubs{}, &fakeEvents{})

	if _, err := a.Assemble(context.Background(), "payroll", window, windowEnd, ""); err == nil {
		t.Fatal("Assemble() with unknown type should fail")
	}
}

func TestFeedbackAndFinancialAreSummaries(t *testing.T) {
	a := NewAssembler(&fakeUsers{}, &fakeClubs{}, &fakeEvents{})

	for _, typ := range []string{TypeFeedback, TypeFinancial} {
		data, err := a.Assemble(context.Background(), typ, window, windowEnd, "")
		if err != nil {
			t.Fatalf("Assemble(%s) error = %v", typ, err)
		}
		if len(data.Summary) == 0 {
			t.Errorf("Assemble(%s) returned no summary", typ)
		}
		if len(data.Rows) != 0 {
			t.Errorf("Assemble(%s) returned rows, want summary only", typ)
		}
	}
}
