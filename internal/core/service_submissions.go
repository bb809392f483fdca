package core

import (
	"context"

	"annexvii/internal/validation"
	"annexvii/pkg/domain"
)

// CreateSubmission starts a new submission under the exporter's reference.
func (s *Service) CreateSubmission(ctx context.Context, accountID, reference string) (Submission, error) {
	var created Submission
	err := s.run(ctx, opCreateSubmission, accountID, func(ctx context.Context) (string, error) {
		ref, ferr := validation.CustomerReference(reference)
		if ferr != nil {
			return "", domain.BadRequestError("%s", ferr.Message)
		}
		sub := domain.NewSubmission(s.opts.newID(), accountID, ref, s.now())
		if err := s.repo.SaveSubmission(ctx, sub, accountID); err != nil {
			return sub.ID, err
		}
		created = sub
		return sub.ID, nil
	})
	return created, err
}

// CreateSubmissionFromTemplate starts a submission from a template's sections.
func (s *Service) CreateSubmissionFromTemplate(ctx context.Context, accountID, templateID, reference string) (Submission, error) {
	var created Submission
	err := s.run(ctx, opCreateSubmissionFromTemplate, accountID, func(ctx context.Context) (string, error) {
		ref, ferr := validation.CustomerReference(reference)
		if ferr != nil {
			return "", domain.BadRequestError("%s", ferr.Message)
		}
		tpl, err := s.repo.GetTemplate(ctx, templateID, accountID)
		if err != nil {
			return "", err
		}
		sub := SubmissionFromBase(tpl.SubmissionBase, s.opts.newID(), accountID, ref, s.now(), s.opts.newID)
		if err := s.repo.SaveSubmission(ctx, sub, accountID); err != nil {
			return sub.ID, err
		}
		created = sub
		return sub.ID, nil
	})
	return created, err
}

// GetSubmission returns a readable submission.
func (s *Service) GetSubmission(ctx context.Context, accountID, id string) (Submission, error) {
	return readSubmission(ctx, s, opGetSubmission, accountID, id, func(sub Submission) Submission { return sub })
}

// ListSubmissions returns a page of submission summaries.
func (s *Service) ListSubmissions(ctx context.Context, accountID string, opts ListOptions) (SubmissionPage, error) {
	var page SubmissionPage
	err := s.run(ctx, opListSubmissions, accountID, func(ctx context.Context) (string, error) {
		order, err := domain.ValidateOrder(opts.Order)
		if err != nil {
			return "", err
		}
		opts.Order = order
		page, err = s.repo.ListSubmissions(ctx, accountID, opts)
		return "", err
	})
	return page, err
}

// DeleteSubmission soft deletes an in-progress submission.
func (s *Service) DeleteSubmission(ctx context.Context, accountID, id string) error {
	_, err := s.editSubmission(ctx, opDeleteSubmission, accountID, id, func(sub Submission) (Submission, error) {
		return DeleteSubmission(sub, s.now())
	})
	return err
}

// CancelSubmission cancels a submission with the given reason.
func (s *Service) CancelSubmission(ctx context.Context, accountID, id string, reason domain.Cancellation) error {
	return s.run(ctx, opCancelSubmission, accountID, func(ctx context.Context) (string, error) {
		sub, err := s.repo.GetSubmission(ctx, id, accountID)
		if err != nil {
			return id, err
		}
		next, err := CancelSubmission(sub, reason, s.now())
		if err != nil {
			return id, err
		}
		return id, s.repo.SaveSubmission(ctx, next, accountID)
	})
}

// UpdateActuals records actual values for a submission declared with estimates.
func (s *Service) UpdateActuals(ctx context.Context, accountID, id string, quantity *WasteQuantity, date *CollectionDate) (Submission, error) {
	var updated Submission
	err := s.run(ctx, opUpdateActuals, accountID, func(ctx context.Context) (string, error) {
		sub, err := s.repo.GetSubmission(ctx, id, accountID)
		if err != nil {
			return id, err
		}
		next, err := UpdateActuals(sub, quantity, date, s.now())
		if err != nil {
			return id, err
		}
		if err := s.repo.SaveSubmission(ctx, next, accountID); err != nil {
			return id, err
		}
		updated = next
		return id, nil
	})
	if err != nil {
		return Submission{}, err
	}
	s.archiveSubmission(ctx, updated)
	return updated, nil
}

// ArchivedSubmission reads back the archived copy of a declared submission.
func (s *Service) ArchivedSubmission(ctx context.Context, accountID, id string) (Submission, error) {
	var out Submission
	err := s.run(ctx, opGetArchivedSubmission, accountID, func(ctx context.Context) (string, error) {
		if s.archive == nil {
			return id, domain.NotFoundError("no archive configured")
		}
		var err error
		out, err = s.archive.Get(ctx, accountID, id)
		return id, err
	})
	return out, err
}

func (s *Service) archiveSubmission(ctx context.Context, sub Submission) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(ctx, sub); err != nil {
		s.opts.logger.Error("archive submission failed", "submission", sub.ID, "account", sub.AccountID, "error", err)
		return
	}
	s.opts.logger.Info("submission archived", "submission", sub.ID, "state", sub.SubmissionState.Status)
}
