package core

import (
	"context"

	"annexvii/pkg/domain"
)

// CreateTemplate creates an empty template.
func (s *Service) CreateTemplate(ctx context.Context, accountID, name, description string) (Template, error) {
	var created Template
	err := s.run(ctx, opCreateTemplate, accountID, func(ctx context.Context) (string, error) {
		name, description, err := ValidateTemplateDetails(name, description)
		if err != nil {
			return "", err
		}
		tpl := domain.NewTemplate(s.opts.newID(), accountID, name, description, s.now())
		if err := s.repo.SaveTemplate(ctx, tpl, accountID); err != nil {
			return tpl.ID, err
		}
		created = tpl
		return tpl.ID, nil
	})
	return created, err
}

// CreateTemplateFromSubmission copies the shared sections of a submission
// into a new template.
func (s *Service) CreateTemplateFromSubmission(ctx context.Context, accountID, submissionID, name, description string) (Template, error) {
	return s.copyTemplate(ctx, opCreateTemplateFromSubmission, accountID, name, description, func(ctx context.Context) (SubmissionBase, error) {
		sub, err := s.repo.GetSubmission(ctx, submissionID, accountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		return sub.SubmissionBase, nil
	})
}

// CreateTemplateFromTemplate duplicates a template under a new name.
func (s *Service) CreateTemplateFromTemplate(ctx context.Context, accountID, templateID, name, description string) (Template, error) {
	return s.copyTemplate(ctx, opCreateTemplateFromTemplate, accountID, name, description, func(ctx context.Context) (SubmissionBase, error) {
		tpl, err := s.repo.GetTemplate(ctx, templateID, accountID)
		if err != nil {
			return SubmissionBase{}, err
		}
		return tpl.SubmissionBase, nil
	})
}

func (s *Service) copyTemplate(ctx context.Context, op, accountID, name, description string, source func(context.Context) (SubmissionBase, error)) (Template, error) {
	var created Template
	err := s.run(ctx, op, accountID, func(ctx context.Context) (string, error) {
		name, description, err := ValidateTemplateDetails(name, description)
		if err != nil {
			return "", err
		}
		base, err := source(ctx)
		if err != nil {
			return "", err
		}
		now := s.now()
		tpl := TemplateFromBase(base, s.opts.newID(), accountID, domain.TemplateDetails{
			Name:         name,
			Description:  description,
			Created:      now,
			LastModified: now,
		}, s.opts.newID)
		if err := s.repo.SaveTemplate(ctx, tpl, accountID); err != nil {
			return tpl.ID, err
		}
		created = tpl
		return tpl.ID, nil
	})
	return created, err
}

// GetTemplate returns a template.
func (s *Service) GetTemplate(ctx context.Context, accountID, id string) (Template, error) {
	var out Template
	err := s.run(ctx, opGetTemplate, accountID, func(ctx context.Context) (string, error) {
		var err error
		out, err = s.repo.GetTemplate(ctx, id, accountID)
		return id, err
	})
	return out, err
}

// ListTemplates returns a page of template summaries.
func (s *Service) ListTemplates(ctx context.Context, accountID string, opts ListOptions) (TemplatePage, error) {
	var page TemplatePage
	err := s.run(ctx, opListTemplates, accountID, func(ctx context.Context) (string, error) {
		order, err := domain.ValidateOrder(opts.Order)
		if err != nil {
			return "", err
		}
		opts.Order = order
		page, err = s.repo.ListTemplates(ctx, accountID, opts)
		return "", err
	})
	return page, err
}

// UpdateTemplateDetails renames or redescribes a template.
func (s *Service) UpdateTemplateDetails(ctx context.Context, accountID, id, name, description string) (Template, error) {
	var updated Template
	err := s.run(ctx, opUpdateTemplateDetails, accountID, func(ctx context.Context) (string, error) {
		name, description, err := ValidateTemplateDetails(name, description)
		if err != nil {
			return id, err
		}
		tpl, err := s.repo.GetTemplate(ctx, id, accountID)
		if err != nil {
			return id, err
		}
		next := tpl.Clone()
		next.TemplateDetails.Name = name
		next.TemplateDetails.Description = description
		next.TemplateDetails.LastModified = s.now()
		if err := s.repo.SaveTemplate(ctx, next, accountID); err != nil {
			return id, err
		}
		updated = next
		return id, nil
	})
	return updated, err
}

// DeleteTemplate removes a template outright.
func (s *Service) DeleteTemplate(ctx context.Context, accountID, id string) error {
	return s.run(ctx, opDeleteTemplate, accountID, func(ctx context.Context) (string, error) {
		return id, s.repo.DeleteTemplate(ctx, id, accountID)
	})
}
