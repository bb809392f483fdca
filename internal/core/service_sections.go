package core

import (
	"context"

	"annexvii/pkg/domain"
)

func (s *Service) setBase(ctx context.Context, ref DocumentRef, edit baseEdit) error {
	return s.run(ctx, opSetSection, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, edit)
		return ref.ID, err
	})
}

// GetWasteDescription returns the waste description of a submission or template.
func (s *Service) GetWasteDescription(ctx context.Context, ref DocumentRef) (WasteDescription, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (WasteDescription, error) {
		return b.WasteDescription, nil
	})
}

// SetWasteDescription assigns the waste description, cascading into the
// carriers, recovery facilities and, for submissions, the waste quantity.
func (s *Service) SetWasteDescription(ctx context.Context, ref DocumentRef, value WasteDescription) error {
	return s.setBase(ctx, ref, baseEdit{
		base: func(b SubmissionBase) (SubmissionBase, error) { return SetWasteDescription(b, value), nil },
		submission: func(sub Submission) (Submission, error) {
			return SetSubmissionWasteDescription(sub, value), nil
		},
	})
}

// GetExporterDetail returns the exporter section.
func (s *Service) GetExporterDetail(ctx context.Context, ref DocumentRef) (ExporterDetail, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (ExporterDetail, error) {
		return b.ExporterDetail, nil
	})
}

// SetExporterDetail replaces the exporter section.
func (s *Service) SetExporterDetail(ctx context.Context, ref DocumentRef, value ExporterDetail) error {
	return s.setBase(ctx, ref, pureEdit(func(b SubmissionBase) SubmissionBase { return SetExporterDetail(b, value) }))
}

// GetImporterDetail returns the importer section.
func (s *Service) GetImporterDetail(ctx context.Context, ref DocumentRef) (ImporterDetail, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (ImporterDetail, error) {
		return b.ImporterDetail, nil
	})
}

// SetImporterDetail replaces the importer section.
func (s *Service) SetImporterDetail(ctx context.Context, ref DocumentRef, value ImporterDetail) error {
	return s.setBase(ctx, ref, pureEdit(func(b SubmissionBase) SubmissionBase { return SetImporterDetail(b, value) }))
}

// GetCollectionDetail returns the collection address section.
func (s *Service) GetCollectionDetail(ctx context.Context, ref DocumentRef) (CollectionDetail, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (CollectionDetail, error) {
		return b.CollectionDetail, nil
	})
}

// SetCollectionDetail replaces the collection address section.
func (s *Service) SetCollectionDetail(ctx context.Context, ref DocumentRef, value CollectionDetail) error {
	return s.setBase(ctx, ref, pureEdit(func(b SubmissionBase) SubmissionBase { return SetCollectionDetail(b, value) }))
}

// GetExitLocation returns the UK exit location section.
func (s *Service) GetExitLocation(ctx context.Context, ref DocumentRef) (ExitLocation, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (ExitLocation, error) {
		return b.UkExitLocation, nil
	})
}

// SetExitLocation replaces the UK exit location section.
func (s *Service) SetExitLocation(ctx context.Context, ref DocumentRef, value ExitLocation) error {
	return s.setBase(ctx, ref, pureEdit(func(b SubmissionBase) SubmissionBase { return SetExitLocation(b, value) }))
}

// GetTransitCountries returns the transit countries section.
func (s *Service) GetTransitCountries(ctx context.Context, ref DocumentRef) (TransitCountries, error) {
	return readBase(ctx, s, opGetSection, ref, func(b SubmissionBase) (TransitCountries, error) {
		return b.TransitCountries, nil
	})
}

// SetTransitCountries replaces the transit countries section.
func (s *Service) SetTransitCountries(ctx context.Context, ref DocumentRef, value TransitCountries) error {
	return s.setBase(ctx, ref, pureEdit(func(b SubmissionBase) SubmissionBase { return SetTransitCountries(b, value) }))
}

// GetWasteQuantity returns the waste quantity of a submission.
func (s *Service) GetWasteQuantity(ctx context.Context, accountID, id string) (WasteQuantity, error) {
	return readSubmission(ctx, s, opGetSection, accountID, id, func(sub Submission) WasteQuantity { return sub.WasteQuantity })
}

// SetWasteQuantity replaces the waste quantity of a submission.
func (s *Service) SetWasteQuantity(ctx context.Context, accountID, id string, value WasteQuantity) error {
	_, err := s.editSubmission(ctx, opSetSection, accountID, id, func(sub Submission) (Submission, error) {
		return SetWasteQuantity(sub, value)
	})
	return err
}

// GetCollectionDate returns the collection date of a submission.
func (s *Service) GetCollectionDate(ctx context.Context, accountID, id string) (CollectionDate, error) {
	return readSubmission(ctx, s, opGetSection, accountID, id, func(sub Submission) CollectionDate { return sub.CollectionDate })
}

// SetCollectionDate replaces the collection date of a submission.
func (s *Service) SetCollectionDate(ctx context.Context, accountID, id string, value CollectionDate) error {
	_, err := s.editSubmission(ctx, opSetSection, accountID, id, func(sub Submission) (Submission, error) {
		return SetCollectionDate(sub, value), nil
	})
	return err
}

// GetCustomerReference returns the exporter's reference for a submission.
func (s *Service) GetCustomerReference(ctx context.Context, accountID, id string) (string, error) {
	return readSubmission(ctx, s, opGetSection, accountID, id, func(sub Submission) string { return sub.Reference })
}

// SetCustomerReference replaces the exporter's reference for a submission.
func (s *Service) SetCustomerReference(ctx context.Context, accountID, id, reference string) error {
	_, err := s.editSubmission(ctx, opSetSection, accountID, id, func(sub Submission) (Submission, error) {
		return SetCustomerReference(sub, reference)
	})
	return err
}

// GetSubmissionConfirmation returns the confirmation section of a submission.
func (s *Service) GetSubmissionConfirmation(ctx context.Context, accountID, id string) (SubmissionConfirmation, error) {
	return readSubmission(ctx, s, opGetSection, accountID, id, func(sub Submission) SubmissionConfirmation {
		return sub.SubmissionConfirmation
	})
}

// SetSubmissionConfirmation records the exporter's confirmation.
func (s *Service) SetSubmissionConfirmation(ctx context.Context, accountID, id string, value SubmissionConfirmation) error {
	_, err := s.editSubmission(ctx, opSetConfirmation, accountID, id, func(sub Submission) (Submission, error) {
		return SetSubmissionConfirmation(sub, value)
	})
	return err
}

// GetSubmissionDeclaration returns the declaration section of a submission.
func (s *Service) GetSubmissionDeclaration(ctx context.Context, accountID, id string) (SubmissionDeclaration, error) {
	return readSubmission(ctx, s, opGetSection, accountID, id, func(sub Submission) SubmissionDeclaration {
		clone := sub.Clone()
		return clone.SubmissionDeclaration
	})
}

// SetSubmissionDeclaration records the exporter's declaration. A Complete
// declaration submits the export and archives it when an archive is set.
// Archive failures are logged and do not undo the declaration.
func (s *Service) SetSubmissionDeclaration(ctx context.Context, accountID, id string, status SectionStatus) (Submission, error) {
	now := s.now()
	token := s.opts.newID()
	sub, err := s.editSubmission(ctx, opSetDeclaration, accountID, id, func(sub Submission) (Submission, error) {
		return SetSubmissionDeclaration(sub, status, now, token)
	})
	if err != nil {
		return Submission{}, err
	}
	if sub.SubmissionState.Status != domain.StateInProgress {
		s.archiveSubmission(ctx, sub)
	}
	return sub, nil
}
