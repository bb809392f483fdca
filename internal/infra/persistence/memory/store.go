// Package memory provides an in-memory repository of submissions and
// templates used for tests and ephemeral environments. The durable backends
// hydrate one on open and write through to their database on every save.
package memory

import (
	"context"
	"strings"
	"sync"

	"annexvii/pkg/domain"
)

// Compile-time contract assertion ensuring Store adheres to the repository interface.
var _ domain.Repository = (*Store)(nil)

type docKey struct {
	accountID string
	id        string
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Submissions []domain.Submission `json:"submissions"`
	Templates   []domain.Template   `json:"templates"`
}

// Store is a repository holding cloned aggregates behind a RWMutex. Values
// handed in or out are never shared with the stored copies.
type Store struct {
	mu          sync.RWMutex
	submissions map[docKey]domain.Submission
	templates   map[docKey]domain.Template
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		submissions: make(map[docKey]domain.Submission),
		templates:   make(map[docKey]domain.Template),
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{
		Submissions: make([]domain.Submission, 0, len(s.submissions)),
		Templates:   make([]domain.Template, 0, len(s.templates)),
	}
	for _, v := range s.submissions {
		out.Submissions = append(out.Submissions, v.Clone())
	}
	for _, v := range s.templates {
		out.Templates = append(out.Templates, v.Clone())
	}
	domain.SortSubmissions(out.Submissions, domain.OrderAscending)
	domain.SortTemplates(out.Templates, domain.OrderAscending)
	return out
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	subs := make(map[docKey]domain.Submission, len(snapshot.Submissions))
	for _, v := range snapshot.Submissions {
		subs[docKey{v.AccountID, v.ID}] = v.Clone()
	}
	tmpls := make(map[docKey]domain.Template, len(snapshot.Templates))
	for _, v := range snapshot.Templates {
		tmpls[docKey{v.AccountID, v.ID}] = v.Clone()
	}
	s.mu.Lock()
	s.submissions = subs
	s.templates = tmpls
	s.mu.Unlock()
}

// GetSubmission returns the submission unless it is missing or hidden.
func (s *Store) GetSubmission(ctx context.Context, id, accountID string) (domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return domain.Submission{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[docKey{accountID, id}]
	if !ok || sub.SubmissionState.Status.Hidden() {
		return domain.Submission{}, domain.NotFoundError("submission %s not found", id)
	}
	return sub.Clone(), nil
}

// SaveSubmission inserts or replaces the submission.
func (s *Store) SaveSubmission(ctx context.Context, submission domain.Submission, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := submission.Clone()
	cp.AccountID = accountID
	s.mu.Lock()
	s.submissions[docKey{accountID, cp.ID}] = cp
	s.mu.Unlock()
	return nil
}

// ListSubmissions pages through the visible submissions of accountID.
func (s *Store) ListSubmissions(ctx context.Context, accountID string, opts domain.ListOptions) (domain.Page[domain.SubmissionSummary], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.SubmissionSummary]{}, err
	}
	order, err := domain.ValidateOrder(opts.Order)
	if err != nil {
		return domain.Page[domain.SubmissionSummary]{}, err
	}
	s.mu.RLock()
	var list []domain.Submission
	for k, v := range s.submissions {
		if k.accountID == accountID && domain.MatchesStates(v, opts.States) {
			list = append(list, v)
		}
	}
	s.mu.RUnlock()

	domain.SortSubmissions(list, order)
	summaries := make([]domain.SubmissionSummary, len(list))
	for i, v := range list {
		summaries[i] = v.Summarize()
	}
	return domain.Paginate(summaries, opts)
}

// GetTemplate returns the template or a NotFound error.
func (s *Store) GetTemplate(ctx context.Context, id, accountID string) (domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return domain.Template{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[docKey{accountID, id}]
	if !ok {
		return domain.Template{}, domain.NotFoundError("template %s not found", id)
	}
	return t.Clone(), nil
}

// CheckTemplateName fails with a Conflict when another template of
// accountID already carries the name of t.
func (s *Store) CheckTemplateName(t domain.Template, accountID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkTemplateNameLocked(t, accountID)
}

func (s *Store) checkTemplateNameLocked(t domain.Template, accountID string) error {
	name := strings.TrimSpace(t.TemplateDetails.Name)
	for k, v := range s.templates {
		if k.accountID != accountID || k.id == t.ID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(v.TemplateDetails.Name), name) {
			return domain.ConflictError("template name %q already exists", name)
		}
	}
	return nil
}

// SaveTemplate inserts or replaces the template, enforcing unique names per account.
func (s *Store) SaveTemplate(ctx context.Context, template domain.Template, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := template.Clone()
	cp.AccountID = accountID
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTemplateNameLocked(cp, accountID); err != nil {
		return err
	}
	s.templates[docKey{accountID, cp.ID}] = cp
	return nil
}

// ListTemplates pages through the templates of accountID.
func (s *Store) ListTemplates(ctx context.Context, accountID string, opts domain.ListOptions) (domain.Page[domain.TemplateSummary], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.TemplateSummary]{}, err
	}
	order, err := domain.ValidateOrder(opts.Order)
	if err != nil {
		return domain.Page[domain.TemplateSummary]{}, err
	}
	s.mu.RLock()
	var list []domain.Template
	for k, v := range s.templates {
		if k.accountID == accountID {
			list = append(list, v)
		}
	}
	s.mu.RUnlock()

	domain.SortTemplates(list, order)
	summaries := make([]domain.TemplateSummary, len(list))
	for i, v := range list {
		summaries[i] = v.Summarize()
	}
	return domain.Paginate(summaries, opts)
}

// DeleteTemplate removes the template or returns NotFound.
func (s *Store) DeleteTemplate(ctx context.Context, id, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := docKey{accountID, id}
	if _, ok := s.templates[k]; !ok {
		return domain.NotFoundError("template %s not found", id)
	}
	delete(s.templates, k)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
