package domain

import "context"

// SortOrder orders listings by last change time.
type SortOrder string

// Sort orders.
const (
	OrderAscending  SortOrder = "ASC"
	OrderDescending SortOrder = "DESC"
)

// DefaultPageLimit is used when ListOptions.PageLimit is not positive.
const DefaultPageLimit = 15

// ListOptions drives paginated listings.
type ListOptions struct {
	Order     SortOrder
	PageLimit int
	// States filters submissions by lifecycle state; empty means every
	// readable state. Ignored for templates.
	States []SubmissionStatus
	// Token resumes a listing from a page token returned earlier.
	Token string
}

// SubmissionRepository persists submissions keyed by (id, accountId).
//
// GetSubmission returns a NotFound error when the submission is absent or in
// a hidden lifecycle state.
type SubmissionRepository interface {
	GetSubmission(ctx context.Context, id, accountID string) (Submission, error)
	SaveSubmission(ctx context.Context, submission Submission, accountID string) error
	ListSubmissions(ctx context.Context, accountID string, opts ListOptions) (Page[SubmissionSummary], error)
}

// TemplateRepository persists templates keyed by (id, accountId). Save fails
// with a Conflict error when another template of the account has the same name.
type TemplateRepository interface {
	GetTemplate(ctx context.Context, id, accountID string) (Template, error)
	SaveTemplate(ctx context.Context, template Template, accountID string) error
	ListTemplates(ctx context.Context, accountID string, opts ListOptions) (Page[TemplateSummary], error)
	DeleteTemplate(ctx context.Context, id, accountID string) error
}

// Repository combines both aggregate repositories, as every backend provides.
type Repository interface {
	SubmissionRepository
	TemplateRepository
	Close() error
}
