package report

import (
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coarse report categories, distinct from the request-time type.
const (
	KindEvent     = "event"
	KindMonthly   = "monthly"
	KindAnnual    = "annual"
	KindFinancial = "financial"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Attachment references one generated or uploaded file. By convention a
// generated report carries exactly one; the first entry is authoritative
// for download.
type Attachment struct {
	Filename string `json:"filename" bson:"filename"`
	Path     string `json:"path" bson:"path"`
	MimeType string `json:"mime_type" bson:"mime_type"`
	Size     int64  `json:"size" bson:"size"`
}

// Report is the persisted artifact metadata.
type Report struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	Club            primitive.ObjectID `json:"club" bson:"club"`
	Kind            string             `json:"kind" bson:"kind"`
	SubmittedBy     primitive.ObjectID `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt     time.Time          `json:"submitted_at" bson:"submitted_at"`
	Status          string             `json:"status" bson:"status"`
	ApprovedBy      primitive.ObjectID `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	Content         bson.M             `json:"content,omitempty" bson:"content,omitempty"`
	Attachments     []Attachment       `json:"attachments" bson:"attachments"`
}

// Reviewed reports whether the report already went through a review
// transition; approved_by/approved_at are immutable afterwards.
func (r *Report) Reviewed() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// KindForType maps a request-time report type onto the coarse category.
func KindForType(reportType string) string {
	switch reportType {
	case "financial":
		return KindFinancial
	case "events", "attendance":
		return KindEvent
	default:
		return KindMonthly
	}
}

// MimeForFilename resolves a content type from a filename when the stored
// mimetype is absent.
func MimeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
