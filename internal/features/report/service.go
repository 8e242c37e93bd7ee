package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"club-hub/internal/common/apperr"
	"club-hub/internal/config"
	"club-hub/internal/models"
	"club-hub/internal/render"
	"club-hub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type GenerateRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Format      string `json:"format"`
	ClubID      string `json:"club_id"`
}

type UploadRequest struct {
	Title       string
	Description string
	ClubID      string
	Kind        string
	Filename    string
	StoredPath  string
	MimeType    string
	Size        int64
}

type ReportService interface {
	Generate(ctx context.Context, req GenerateRequest, claims *utils.UserClaims) (*Report, error)
	Upload(ctx context.Context, req UploadRequest, claims *utils.UserClaims) (*Report, error)
	List(ctx context.Context, filter ListFilter) ([]Report, int64, error)
	ListByClub(ctx context.Context, clubID string, claims *utils.UserClaims) ([]Report, error)
	Approve(ctx context.Context, id string, claims *utils.UserClaims) (*Report, error)
	Reject(ctx context.Context, id, reason string, claims *utils.UserClaims) (*Report, error)
	Delete(ctx context.Context, id string, claims *utils.UserClaims) error
	AuthorizeDownload(ctx context.Context, id, token string) (*Report, *Attachment, error)
}

type ReportServiceImpl struct {
	ReportRepo ReportRepository
	Users      UserFinder
	Clubs      ClubFinder
	Assembler  *Assembler
	Renderers  *render.Registry
	ReportsDir string
	Logger     *zap.Logger
}

func NewReportService(
	reportRepo ReportRepository,
	users UserFinder,
	clubs ClubFinder,
	assembler *Assembler,
	renderers *render.Registry,
	cfg *config.Config,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		ReportRepo: reportRepo,
		Users:      users,
		Clubs:      clubs,
		Assembler:  assembler,
		Renderers:  renderers,
		ReportsDir: cfg.ReportsPath,
		Logger:     logger,
	}
}

// Generate runs the full pipeline: validate, assemble, render, persist.
// System-generated reports bypass review and land approved.
func (s *ReportServiceImpl) Generate(ctx context.Context, req GenerateRequest, claims *utils.UserClaims) (*Report, error) {
	if req.Type == "" || req.Name == "" || req.DateFrom == "" || req.DateTo == "" || req.Format == "" || req.ClubID == "" {
		return nil, apperr.Validationf("type, name, date_from, date_to, format and club_id are required")
	}
	if !KnownType(req.Type) {
		return nil, apperr.Validationf("unknown report type: %s", req.Type)
	}
	renderer, ok := s.Renderers.Get(req.Format)
	if !ok {
		return nil, apperr.Validationf("unsupported format %q, supported: %s", req.Format, strings.Join(s.Renderers.Formats(), ", "))
	}
	if !renderer.Available() {
		return nil, apperr.Unavailablef("%s rendering is not available on this server", req.Format)
	}
	from, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return nil, apperr.Validationf("invalid date_from, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return nil, apperr.Validationf("invalid date_to, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apperr.Validationf("date_to must not precede date_from")
	}
	// The window is inclusive of the whole end day.
	to = to.AddDate(0, 0, 1).Add(-time.Second)

	club, err := s.Clubs.FindByID(ctx, req.ClubID)
	if err != nil || club == nil {
		return nil, apperr.NotFoundf("club not found")
	}

	submitter, err := s.callerForSubmission(ctx, claims, club)
	if err != nil {
		return nil, err
	}

	data, err := s.Assembler.Assemble(ctx, req.Type, from, to, req.ClubID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.ReportsDir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.KindIO, "failed to prepare reports directory", err)
	}

	filename := fmt.Sprintf("%s_%s%s", utils.SafeFilename(req.Name), time.Now().Format("20060102_150405"), renderer.Ext())
	path := filepath.Join(s.ReportsDir, filename)

	size, err := renderer.Render(path, data, req.Name)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIO, "failed to write report file", err)
	}

	now := time.Now()
	rec := &Report{
		Title:       req.Name,
		Description: req.Description,
		Club:        club.ID,
		Kind:        KindForType(req.Type),
		SubmittedBy: submitter.ID,
		SubmittedAt: now,
		Status:      StatusApproved,
		ApprovedBy:  submitter.ID,
		ApprovedAt:  &now,
		Content:     contentSnapshot(data),
		Attachments: []Attachment{{
			Filename: filename,
			Path:     path,
			MimeType: renderer.MimeType(),
			Size:     size,
		}},
	}

	if err := s.ReportRepo.Create(ctx, rec); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.Logger.Warn("failed to remove orphaned report file",
				zap.String("path", path), zap.Error(rmErr))
		}
		return nil, apperr.Wrap(apperr.KindPersistence, "failed to persist report record", err)
	}

	return rec, nil
}

// Upload records a member-submitted report file. Uploaded reports start
// pending and go through faculty review.
func (s *ReportServiceImpl) Upload(ctx context.Context, req UploadRequest, claims *utils.UserClaims) (*Report, error) {
	if req.Title == "" || req.ClubID == "" {
		return nil, apperr.Validationf("title and club_id are required")
	}

	club, err := s.Clubs.FindByID(ctx, req.ClubID)
	if err != nil || club == nil {
		return nil, apperr.NotFoundf("club not found")
	}

	submitter, err := s.callerForSubmission(ctx, claims, club)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	switch kind {
	case KindEvent, KindMonthly, KindAnnual, KindFinancial:
	case "":
		kind = KindEvent
	default:
		return nil, apperr.Validationf("unknown report kind: %s", kind)
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = MimeForFilename(req.Filename)
	}

	rec := &Report{
		Title:       req.Title,
		Description: req.Description,
		Club:        club.ID,
		Kind:        kind,
		SubmittedBy: submitter.ID,
		SubmittedAt: time.Now(),
		Status:      StatusPending,
		Attachments: []Attachment{{
			Filename: req.Filename,
			Path:     req.StoredPath,
			MimeType: mimeType,
			Size:     req.Size,
		}},
	}

	if err := s.ReportRepo.Create(ctx, rec); err != nil {
		if rmErr := os.Remove(req.StoredPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.Logger.Warn("failed to remove orphaned upload",
				zap.String("path", req.StoredPath), zap.Error(rmErr))
		}
		return nil, apperr.Wrap(apperr.KindPersistence, "failed to persist report record", err)
	}

	return rec, nil
}

func (s *ReportServiceImpl) List(ctx context.Context, filter ListFilter) ([]Report, int64, error) {
	return s.ReportRepo.List(ctx, filter)
}

// ListByClub returns a club's reports to faculty, admins and the club's own
// members.
func (s *ReportServiceImpl) ListByClub(ctx context.Context, clubID string, claims *utils.UserClaims) ([]Report, error) {
	club, err := s.Clubs.FindByID(ctx, clubID)
	if err != nil || club == nil {
		return nil, apperr.NotFoundf("club not found")
	}

	caller, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil || caller == nil {
		return nil, apperr.Authf("unknown user")
	}
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleFaculty && !caller.InClub(club.ID) {
		return nil, apperr.Forbiddenf("you are not a member of this club")
	}

	return s.ReportRepo.FindByClub(ctx, club.ID)
}

func (s *ReportServiceImpl) Approve(ctx context.Context, id string, claims *utils.UserClaims) (*Report, error) {
	return s.review(ctx, id, claims, StatusApproved, "")
}

func (s *ReportServiceImpl) Reject(ctx context.Context, id, reason string, claims *utils.UserClaims) (*Report, error) {
	if reason == "" {
		return nil, apperr.Validationf("rejection reason is required")
	}
	return s.review(ctx, id, claims, StatusRejected, reason)
}

func (s *ReportServiceImpl) review(ctx context.Context, id string, claims *utils.UserClaims, status, reason string) (*Report, error) {
	rec, err := s.ReportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundf("report not found")
	}
	if rec.Reviewed() {
		return nil, apperr.Validationf("report has already been reviewed")
	}

	reviewer, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Authf("invalid user id in token")
	}

	now := time.Now()
	update := bson.M{
		"status":      status,
		"approved_by": reviewer,
		"approved_at": now,
	}
	if reason != "" {
		update["rejection_reason"] = reason
	}
	if err := s.ReportRepo.SetReview(ctx, rec.ID, update); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistence, "failed to update report", err)
	}

	rec.Status = status
	rec.ApprovedBy = reviewer
	rec.ApprovedAt = &now
	rec.RejectionReason = reason
	return rec, nil
}

// Delete removes the record first, then the backing files. A file already
// gone from storage is tolerated; other removal failures are logged only.
func (s *ReportServiceImpl) Delete(ctx context.Context, id string, claims *utils.UserClaims) error {
	rec, err := s.ReportRepo.FindByID(ctx, id)
	if err != nil {
		return apperr.NotFoundf("report not found")
	}
	if claims.Role != models.RoleAdmin && rec.SubmittedBy.Hex() != claims.UserID {
		return apperr.Forbiddenf("only the submitter or an administrator can delete a report")
	}

	if err := s.ReportRepo.Delete(ctx, rec.ID); err != nil {
		return apperr.Wrap(apperr.KindPersistence, "failed to delete report", err)
	}

	for _, att := range rec.Attachments {
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to remove report file",
				zap.String("path", att.Path), zap.Error(err))
		}
	}
	return nil
}

// AuthorizeDownload resolves the token, the caller and the record, and
// decides access: administrators, the submitter, and members of the owning
// club may download. Record/attachment absence is not-found, never forbidden.
func (s *ReportServiceImpl) AuthorizeDownload(ctx context.Context, id, token string) (*Report, *Attachment, error) {
	if token == "" {
		return nil, nil, apperr.Authf("authentication token required")
	}
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, nil, apperr.Authf("invalid or expired token")
	}
	caller, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil || caller == nil {
		return nil, nil, apperr.Authf("unknown user")
	}

	rec, err := s.ReportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, apperr.NotFoundf("report not found")
	}
	if len(rec.Attachments) == 0 {
		return nil, nil, apperr.NotFoundf("report has no attachment")
	}
	att := &rec.Attachments[0]

	allowed := caller.Role == models.RoleAdmin ||
		rec.SubmittedBy == caller.ID ||
		caller.InClub(rec.Club)
	if !allowed {
		return nil, nil, apperr.Forbiddenf("you do not have access to this report")
	}

	return rec, att, nil
}

// callerForSubmission checks the caller may submit reports for the club:
// faculty and admins always can, students only as an officer of that club.
func (s *ReportServiceImpl) callerForSubmission(ctx context.Context, claims *utils.UserClaims, club *models.Club) (*models.User, error) {
	caller, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil || caller == nil {
		return nil, apperr.Authf("unknown user")
	}
	if caller.Role == models.RoleAdmin || caller.Role == models.RoleFaculty {
		return caller, nil
	}
	if m, ok := club.ActiveMember(caller.ID); ok && m.IsOfficer() {
		return caller, nil
	}
	return nil, apperr.Forbiddenf("only club officers, faculty or administrators can submit reports")
}

// contentSnapshot serializes the assembled data into the record so the
// report remains inspectable after the source data changes.
func contentSnapshot(data *render.Data) bson.M {
	if data == nil {
		return nil
	}
	if len(data.Rows) > 0 {
		rows := make(bson.A, 0, len(data.Rows))
		for _, r := range data.Rows {
			rows = append(rows, r)
		}
		return bson.M{"columns": data.Columns, "rows": rows}
	}
	if len(data.Summary) > 0 {
		return bson.M{"summary": data.Summary, "order": data.SummaryOrder}
	}
	return bson.M{}
}
