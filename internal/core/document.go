package core

import (
	"context"
	"fmt"

	"annexvii/pkg/domain"
)

// DocumentKind selects which aggregate a shared section operation targets.
type DocumentKind string

// Document kinds.
const (
	DocumentSubmission DocumentKind = "submission"
	DocumentTemplate   DocumentKind = "template"
)

// DocumentRef addresses a submission or template of an account.
type DocumentRef struct {
	Kind      DocumentKind
	AccountID string
	ID        string
}

// SubmissionRef addresses a submission.
func SubmissionRef(accountID, id string) DocumentRef {
	return DocumentRef{Kind: DocumentSubmission, AccountID: accountID, ID: id}
}

// TemplateRef addresses a template.
func TemplateRef(accountID, id string) DocumentRef {
	return DocumentRef{Kind: DocumentTemplate, AccountID: accountID, ID: id}
}

func (r DocumentRef) String() string { return fmt.Sprintf("%s %s", r.Kind, r.ID) }

// baseEdit is a mutation of the shared sections. submission, when set,
// replaces base for submissions that need submission-level cascades.
type baseEdit struct {
	base       func(SubmissionBase) (SubmissionBase, error)
	submission func(Submission) (Submission, error)
}

func pureEdit(fn func(SubmissionBase) SubmissionBase) baseEdit {
	return baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) { return fn(b), nil }}
}

// loadBase reads the shared sections of the referenced document.
func (s *Service) loadBase(ctx context.Context, ref DocumentRef) (SubmissionBase, error) {
	switch ref.Kind {
	case DocumentSubmission:
		sub, err := s.repo.GetSubmission(ctx, ref.ID, ref.AccountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		return sub.SubmissionBase, nil
	case DocumentTemplate:
		tpl, err := s.repo.GetTemplate(ctx, ref.ID, ref.AccountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		return tpl.SubmissionBase, nil
	}
	return SubmissionBase{}, domain.BadRequestError("unknown document kind %q", ref.Kind)
}

// editBase loads the referenced document, applies edit and saves it.
func (s *Service) editBase(ctx context.Context, ref DocumentRef, edit baseEdit) (SubmissionBase, error) {
	switch ref.Kind {
	case DocumentSubmission:
		sub, err := s.repo.GetSubmission(ctx, ref.ID, ref.AccountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		if err := requireEditable(sub); err != nil {
			return SubmissionBase{}, err
		}
		var next Submission
		if edit.submission != nil {
			next, err = edit.submission(sub)
		} else {
			var base SubmissionBase
			base, err = edit.base(sub.SubmissionBase)
			next = ApplyBase(sub, func(SubmissionBase) SubmissionBase { return base })
		}
		if err != nil {
			return SubmissionBase{}, err
		}
		if err := s.repo.SaveSubmission(ctx, next, ref.AccountID); err != nil {
			return SubmissionBase{}, err
		}
		return next.SubmissionBase, nil
	case DocumentTemplate:
		tpl, err := s.repo.GetTemplate(ctx, ref.ID, ref.AccountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		base, err := edit.base(tpl.SubmissionBase)
		if err != nil {
			return SubmissionBase{}, err
		}
		next := tpl.Clone()
		next.SubmissionBase = base
		next.TemplateDetails.LastModified = s.now()
		if err := s.repo.SaveTemplate(ctx, next, ref.AccountID); err != nil {
			return SubmissionBase{}, err
		}
		return next.SubmissionBase, nil
	}
	return SubmissionBase{}, domain.BadRequestError("unknown document kind %q", ref.Kind)
}

// readBase runs a traced read of one value of the shared sections.
func readBase[T any](ctx context.Context, s *Service, op string, ref DocumentRef, pick func(SubmissionBase) (T, error)) (T, error) {
	var out T
	err := s.run(ctx, op, ref.AccountID, func(ctx context.Context) (string, error) {
		base, err := s.loadBase(ctx, ref)
		if err != nil {
			return ref.ID, err
		}
		out, err = pick(base)
		return ref.ID, err
	})
	return out, err
}

// readSubmission runs a traced read of one value of a submission.
func readSubmission[T any](ctx context.Context, s *Service, op, accountID, id string, pick func(Submission) T) (T, error) {
	var out T
	err := s.run(ctx, op, accountID, func(ctx context.Context) (string, error) {
		sub, err := s.repo.GetSubmission(ctx, id, accountID)
		if err != nil {
			return id, err
		}
		out = pick(sub)
		return id, nil
	})
	return out, err
}

// editSubmission runs a traced read-modify-write of an in-progress submission.
func (s *Service) editSubmission(ctx context.Context, op, accountID, id string, fn func(Submission) (Submission, error)) (Submission, error) {
	var out Submission
	err := s.run(ctx, op, accountID, func(ctx context.Context) (string, error) {
		sub, err := s.repo.GetSubmission(ctx, id, accountID)
		if err != nil {
			return id, err
		}
		if err := requireEditable(sub); err != nil {
			return id, err
		}
		next, err := fn(sub)
		if err != nil {
			return id, err
		}
		if err := s.repo.SaveSubmission(ctx, next, accountID); err != nil {
			return id, err
		}
		out = next
		return id, nil
	})
	return out, err
}
