package core

import (
	"fmt"
	"strings"
	"time"

	"annexvii/internal/validation"
	"annexvii/pkg/domain"
)

// requireEditable rejects edits to a submission that has left InProgress.
func requireEditable(s Submission) error {
	if s.SubmissionState.Status != domain.StateInProgress {
		return domain.BadRequestError("submission %s is %s and can no longer be edited", s.ID, s.SubmissionState.Status)
	}
	return nil
}

// sectionsComplete reports whether every section a declaration depends on is Complete.
func sectionsComplete(s Submission) bool {
	if strings.TrimSpace(s.Reference) == "" {
		return false
	}
	for _, status := range []SectionStatus{
		s.WasteDescription.Status(),
		s.WasteQuantity.Status(),
		s.ExporterDetail.Status(),
		s.ImporterDetail.Status(),
		s.CollectionDate.Status(),
		s.Carriers.Status,
		s.CollectionDetail.Status(),
		s.UkExitLocation.Status(),
		s.TransitCountries.Status(),
		s.RecoveryFacilityDetail.Status,
	} {
		if status != StatusComplete {
			return false
		}
	}
	return true
}

// refreshConfirmation recomputes the confirmation gate after a section edit.
// Any edit withdraws a previous confirmation and declaration.
func refreshConfirmation(s Submission) Submission {
	if s.SubmissionState.Status != domain.StateInProgress {
		return s
	}
	if sectionsComplete(s) {
		s.SubmissionConfirmation = SubmissionConfirmation{Status: StatusNotStarted}
	} else {
		s.SubmissionConfirmation = SubmissionConfirmation{Status: StatusCannotStart}
	}
	s.SubmissionDeclaration = SubmissionDeclaration{Status: StatusCannotStart}
	return s
}

// ApplyBase runs a base mutation against a submission and refreshes its
// confirmation gate.
func ApplyBase(s Submission, fn func(SubmissionBase) SubmissionBase) Submission {
	next := s.Clone()
	next.SubmissionBase = fn(s.SubmissionBase)
	return refreshConfirmation(next)
}

// SetWasteQuantity replaces the waste quantity. The section stays locked
// until a waste description has been started.
func SetWasteQuantity(s Submission, value WasteQuantity) (Submission, error) {
	if s.WasteQuantity.Status() == StatusCannotStart {
		return s, domain.BadRequestError("waste quantity cannot be set before the waste description")
	}
	if value.Status() == StatusCannotStart {
		return s, domain.BadRequestError("invalid waste quantity status %s", value.Status())
	}
	next := s.Clone()
	next.WasteQuantity = value.MapPayload(domain.WasteQuantityData.Clone)
	return refreshConfirmation(next), nil
}

// SetCollectionDate replaces the collection date.
func SetCollectionDate(s Submission, value CollectionDate) Submission {
	next := s.Clone()
	next.CollectionDate = value
	return refreshConfirmation(next)
}

// SetCustomerReference replaces the exporter's own reference for the export.
func SetCustomerReference(s Submission, reference string) (Submission, error) {
	ref, ferr := validation.CustomerReference(reference)
	if ferr != nil {
		return s, domain.BadRequestError("%s", ferr.Message)
	}
	next := s.Clone()
	next.Reference = ref
	return refreshConfirmation(next), nil
}

// SetSubmissionConfirmation records the check-your-answers confirmation.
func SetSubmissionConfirmation(s Submission, value SubmissionConfirmation) (Submission, error) {
	if !sectionsComplete(s) {
		return s, domain.BadRequestError("submission %s has incomplete sections", s.ID)
	}
	switch value.Status {
	case StatusComplete:
		if !value.Confirmation {
			return s, domain.BadRequestError("a complete confirmation must be confirmed")
		}
	case StatusNotStarted, StatusStarted:
	default:
		return s, domain.BadRequestError("invalid confirmation status %s", value.Status)
	}
	next := s.Clone()
	next.SubmissionConfirmation = value
	if value.Status == StatusComplete {
		next.SubmissionDeclaration = SubmissionDeclaration{Status: StatusNotStarted}
	} else {
		next.SubmissionDeclaration = SubmissionDeclaration{Status: StatusCannotStart}
	}
	return next, nil
}

// SetSubmissionDeclaration records the exporter's declaration. A Complete
// declaration submits the export: it is stamped with a transaction id and
// moves to SubmittedWithActuals or SubmittedWithEstimates.
func SetSubmissionDeclaration(s Submission, status SectionStatus, now time.Time, token string) (Submission, error) {
	if s.SubmissionConfirmation.Status != StatusComplete {
		return s, domain.BadRequestError("submission %s must be confirmed before it is declared", s.ID)
	}
	switch status {
	case StatusNotStarted, StatusStarted:
		next := s.Clone()
		next.SubmissionDeclaration = SubmissionDeclaration{Status: status}
		return next, nil
	case StatusComplete:
	default:
		return s, domain.BadRequestError("invalid declaration status %s", status)
	}
	to := domain.StateSubmittedWithEstimates
	if hasActuals(s) {
		to = domain.StateSubmittedWithActuals
	}
	next, err := transition(s, to, now)
	if err != nil {
		return s, err
	}
	next.SubmissionDeclaration = SubmissionDeclaration{
		Status: StatusComplete,
		Values: &domain.Declaration{
			DeclarationTimestamp: now,
			TransactionID:        TransactionID(now, token),
		},
	}
	return next, nil
}

// TransactionID formats the reference quoted to regulators for a declared
// export: WM, the two digit year and month, then the leading hex of token.
func TransactionID(now time.Time, token string) string {
	token = strings.ToUpper(strings.ReplaceAll(token, "-", ""))
	if len(token) > 8 {
		token = token[:8]
	}
	return fmt.Sprintf("WM%s_%s", now.UTC().Format("0601"), token)
}
