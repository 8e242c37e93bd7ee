package report

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/models"
	"club-hub/internal/render"
	"club-hub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeReportRepo struct {
	created   []*Report
	createErr error
	deleted   []primitive.ObjectID
	byID      map[string]*Report
}

func (f *fakeReportRepo) Create(_ context.Context, r *Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	f.created = append(f.created, r)
	return nil
}

func (f *fakeReportRepo) FindByID(_ context.Context, id string) (*Report, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, errors.New("report not found")
}

func (f *fakeReportRepo) List(_ context.Context, _ ListFilter) ([]Report, int64, error) {
	return nil, 0, nil
}

func (f *fakeReportRepo) FindByClub(_ context.Context, _ primitive.ObjectID) ([]Report, error) {
	return nil, nil
}

func (f *fakeReportRepo) SetReview(_ context.Context, id primitive.ObjectID, update bson.M) error {
	return nil
}

func (f *fakeReportRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type stubRenderer struct {
	format    string
	available bool
}

func (s *stubRenderer) Format() string   { return s.format }
func (s *stubRenderer) Ext() string      { return "." + s.format }
func (s *stubRenderer) MimeType() string { return "application/octet-stream" }
func (s *stubRenderer) Available() bool  { return s.available }
func (s *stubRenderer) Render(path string, _ *render.Data, _ string) (int64, error) {
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		return 0, err
	}
	return 4, nil
}

type serviceFixture struct {
	svc     *ReportServiceImpl
	repo    *fakeReportRepo
	dir     string
	admin   models.User
	club    models.Club
	members []models.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	clubID := primitive.NewObjectID()
	admin := models.User{
		ID: primitive.NewObjectID(), Name: "Admin", Email: "admin@example.com",
		Role: models.RoleAdmin,
	}
	asha := models.User{
		ID: primitive.NewObjectID(), Name: "Asha", Username: "asha", Email: "asha@example.com",
		Role:      models.RoleStudent,
		CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Clubs:     []models.UserClub{{ClubID: clubID, Role: models.MemberRoleMember}},
	}
	ravi := models.User{
		ID: primitive.NewObjectID(), Name: "Ravi", Username: "ravi", Email: "ravi@example.com",
		Role:      models.RoleStudent,
		CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Clubs:     []models.UserClub{{ClubID: clubID, Role: models.MemberRoleMember}},
	}
	club := models.Club{ID: clubID, Name: "Coding Club", IsActive: true}

	users := &fakeUsers{users: []models.User{admin, asha, ravi}}
	clubs := &fakeClubs{clubs: []models.Club{club}}
	events := &fakeEvents{}
	repo := &fakeReportRepo{byID: map[string]*Report{}}
	dir := t.TempDir()

	svc := &ReportServiceImpl{
		ReportRepo: repo,
		Users:      users,
		Clubs:      clubs,
		Assembler:  NewAssembler(users, clubs, events),
		Renderers:  render.NewRegistry(render.NewCSVRenderer(), &stubRenderer{format: "pdf", available: false}),
		ReportsDir: dir,
		Logger:     zap.NewNop(),
	}

	return &serviceFixture{
		svc: svc, repo: repo, dir: dir,
		admin: admin, club: club, members: []models.User{asha, ravi},
	}
}

func adminClaims(f *serviceFixture) *utils.UserClaims {
	return &utils.UserClaims{UserID: f.admin.ID.Hex(), Role: models.RoleAdmin}
}

func validRequest(f *serviceFixture) GenerateRequest {
	return GenerateRequest{
		Type:     TypeUsers,
		Name:     "Member Report",
		DateFrom: "2024-01-01",
		DateTo:   "2024-12-31",
		Format:   "csv",
		ClubID:   f.club.ID.Hex(),
	}
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGenerateValidationFailsWithoutSideEffects(t *testing.T) {
	f := newServiceFixture(t)

	tests := []struct {
		name   string
		mutate func(*GenerateRequest)
	}{
		{"missing type", func(r *GenerateRequest) { r.Type = "" }},
		{"missing name", func(r *GenerateRequest) { r.Name = "" }},
		{"missing date_from", func(r *GenerateRequest) { r.DateFrom = "" }},
		{"missing date_to", func(r *GenerateRequest) { r.DateTo = "" }},
		{"missing format", func(r *GenerateRequest) { r.Format = "" }},
		{"missing club_id", func(r *GenerateRequest) { r.ClubID = "" }},
		{"unknown type", func(r *GenerateRequest) { r.Type = "payroll" }},
		{"unknown format", func(r *GenerateRequest) { r.Format = "docx" }},
		{"malformed date", func(r *GenerateRequest) { r.DateFrom = "01/01/2024" }},
		{"inverted window", func(r *GenerateRequest) { r.DateFrom, r.DateTo = r.DateTo, r.DateFrom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(f)
			tt.mutate(&req)

			_, err := f.svc.Generate(context.Background(), req, adminClaims(f))
			if err == nil {
				t.Fatal("Generate() should fail validation")
			}
			if kind := apperr.KindOf(err); kind != apperr.KindValidation {
				t.Errorf("error kind = %v, want validation", kind)
			}
			if len(f.repo.created) != 0 {
				t.Error("no record may be created on validation failure")
			}
			if files := filesIn(t, f.dir); len(files) != 0 {
				t.Errorf("no file may be written on validation failure, found %v", files)
			}
		})
	}
}

func TestGenerateUnavailableRenderer(t *testing.T) {
	f := newServiceFixture(t)
	req := validRequest(f)
	req.Format = "pdf" // registered but probed unavailable

	_, err := f.svc.Generate(context.Background(), req, adminClaims(f))
	if err == nil {
		t.Fatal("Generate() should fail for unavailable renderer")
	}
	if kind := apperr.KindOf(err); kind != apperr.KindUnavailable {
		t.Errorf("error kind = %v, want unavailable", kind)
	}
}

func TestGenerateUsersCSV(t *testing.T) {
	f := newServiceFixture(t)

	rec, err := f.svc.Generate(context.Background(), validRequest(f), adminClaims(f))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if rec.Status != StatusApproved {
		t.Errorf("status = %q, system-generated reports land approved", rec.Status)
	}
	if rec.Kind != KindMonthly {
		t.Errorf("kind = %q, want monthly for a users report", rec.Kind)
	}
	if len(rec.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(rec.Attachments))
	}
	att := rec.Attachments[0]
	if att.MimeType != "text/csv" {
		t.Errorf("mimetype = %q, want text/csv", att.MimeType)
	}
	if !strings.HasPrefix(att.Filename, "Member_Report_") || !strings.HasSuffix(att.Filename, ".csv") {
		t.Errorf("filename = %q, want sanitized name with timestamp", att.Filename)
	}

	file, err := os.Open(att.Path)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse artifact: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d csv records, want header + 2 members", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Name,Username,Email,Role,Club,Join Date" {
		t.Errorf("header = %q", got)
	}
	// Chronological order: Asha joined before Ravi.
	if records[1][0] != "Asha" || records[2][0] != "Ravi" {
		t.Errorf("rows out of order: %v / %v", records[1][0], records[2][0])
	}

	if len(f.repo.created) != 1 {
		t.Fatalf("got %d records, want 1", len(f.repo.created))
	}
	if f.repo.created[0].Content == nil {
		t.Error("record must snapshot the assembled content")
	}
}

func TestGeneratePersistFailureRemovesFile(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.createErr = errors.New("write conflict")

	_, err := f.svc.Generate(context.Background(), validRequest(f), adminClaims(f))
	if err == nil {
		t.Fatal("Generate() should surface persistence failure")
	}
	if kind := apperr.KindOf(err); kind != apperr.KindPersistence {
		t.Errorf("error kind = %v, want persistence", kind)
	}
	if files := filesIn(t, f.dir); len(files) != 0 {
		t.Errorf("orphaned file not cleaned up: %v", files)
	}
}

func TestGenerateForbiddenForPlainMember(t *testing.T) {
	f := newServiceFixture(t)
	member := f.members[0] // active club list on the user, but not an officer

	_, err := f.svc.Generate(context.Background(), validRequest(f),
		&utils.UserClaims{UserID: member.ID.Hex(), Role: models.RoleStudent})
	if err == nil {
		t.Fatal("Generate() should refuse non-officer students")
	}
	if kind := apperr.KindOf(err); kind != apperr.KindForbidden {
		t.Errorf("error kind = %v, want forbidden", kind)
	}
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	f := newServiceFixture(t)

	rec := &Report{
		ID:          primitive.NewObjectID(),
		SubmittedBy: f.admin.ID,
		Club:        f.club.ID,
		Attachments: []Attachment{{Filename: "gone.csv", Path: filepath.Join(f.dir, "gone.csv")}},
	}
	f.repo.byID[rec.ID.Hex()] = rec

	if err := f.svc.Delete(context.Background(), rec.ID.Hex(), adminClaims(f)); err != nil {
		t.Fatalf("Delete() error = %v, file absence must be tolerated", err)
	}
	if len(f.repo.deleted) != 1 {
		t.Errorf("record was not deleted")
	}
}

func TestDeleteForbiddenForStrangers(t *testing.T) {
	f := newServiceFixture(t)

	rec := &Report{ID: primitive.NewObjectID(), SubmittedBy: f.members[0].ID, Club: f.club.ID}
	f.repo.byID[rec.ID.Hex()] = rec

	err := f.svc.Delete(context.Background(), rec.ID.Hex(),
		&utils.UserClaims{UserID: f.members[1].ID.Hex(), Role: models.RoleStudent})
	if err == nil {
		t.Fatal("Delete() should refuse non-owners")
	}
	if kind := apperr.KindOf(err); kind != apperr.KindForbidden {
		t.Errorf("error kind = %v, want forbidden", kind)
	}
}

func TestAuthorizeDownload(t *testing.T) {
	f := newServiceFixture(t)

	outsider := models.User{ID: primitive.NewObjectID(), Name: "Outsider", Role: models.RoleStudent}
	users := f.svc.Users.(*fakeUsers)
	users.users = append(users.users, outsider)

	rec := &Report{
		ID:          primitive.NewObjectID(),
		SubmittedBy: f.members[0].ID,
		Club:        f.club.ID,
		Attachments: []Attachment{{Filename: "r.csv", Path: filepath.Join(f.dir, "r.csv"), MimeType: "text/csv"}},
	}
	f.repo.byID[rec.ID.Hex()] = rec

	bare := &Report{ID: primitive.NewObjectID(), SubmittedBy: f.members[0].ID, Club: f.club.ID}
	f.repo.byID[bare.ID.Hex()] = bare

	token := func(u models.User) string {
		tok, err := utils.GenerateToken(u.ID, u.Role, nil)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		return tok
	}
	deletedUser := models.User{ID: primitive.NewObjectID(), Role: models.RoleStudent}

	tests := []struct {
		name     string
		reportID string
		token    string
		wantKind apperr.Kind
	}{
		{"missing token", rec.ID.Hex(), "", apperr.KindAuth},
		{"garbage token", rec.ID.Hex(), "not-a-jwt", apperr.KindAuth},
		{"token for deleted user", rec.ID.Hex(), token(deletedUser), apperr.KindAuth},
		{"admin allowed", rec.ID.Hex(), token(f.admin), apperr.KindUnknown},
		{"submitter allowed", rec.ID.Hex(), token(f.members[0]), apperr.KindUnknown},
		{"club member allowed", rec.ID.Hex(), token(f.members[1]), apperr.KindUnknown},
		{"outsider forbidden", rec.ID.Hex(), token(outsider), apperr.KindForbidden},
		{"missing record", primitive.NewObjectID().Hex(), token(f.admin), apperr.KindNotFound},
		{"no attachment", bare.ID.Hex(), token(f.admin), apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, att, err := f.svc.AuthorizeDownload(context.Background(), tt.reportID, tt.token)
			if tt.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("AuthorizeDownload() error = %v, want allowed", err)
				}
				if att == nil || att.Filename != "r.csv" {
					t.Errorf("attachment = %+v, want first attachment", att)
				}
				return
			}
			if err == nil {
				t.Fatal("AuthorizeDownload() should fail")
			}
			if kind := apperr.KindOf(err); kind != tt.wantKind {
				t.Errorf("error kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}

func TestReviewTransitions(t *testing.T) {
	f := newServiceFixture(t)
	claims := adminClaims(f)

	pending := &Report{ID: primitive.NewObjectID(), Status: StatusPending, Club: f.club.ID}
	f.repo.byID[pending.ID.Hex()] = pending

	rec, err := f.svc.Approve(context.Background(), pending.ID.Hex(), claims)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if rec.Status != StatusApproved || rec.ApprovedAt == nil {
		t.Errorf("approve did not stamp review fields: %+v", rec)
	}

	// Second review of the same report must be rejected.
	if _, err := f.svc.Reject(context.Background(), pending.ID.Hex(), "late", claims); err == nil {
		t.Fatal("Reject() after approval should fail")
	}

	pending2 := &Report{ID: primitive.NewObjectID(), Status: StatusPending, Club: f.club.ID}
	f.repo.byID[pending2.ID.Hex()] = pending2

	if _, err := f.svc.Reject(context.Background(), pending2.ID.Hex(), "", claims); err == nil {
		t.Fatal("Reject() without a reason should fail")
	}
	rec, err = f.svc.Reject(context.Background(), pending2.ID.Hex(), "missing budget detail", claims)
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rec.Status != StatusRejected || rec.RejectionReason == "" {
		t.Errorf("reject did not stamp review fields: %+v", rec)
	}
}
