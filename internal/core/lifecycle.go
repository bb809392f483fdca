package core

import (
	"time"

	"annexvii/pkg/domain"
)

// submissionLifecycle lists the submission states reachable from each state.
// States without an entry are terminal.
var submissionLifecycle = map[SubmissionStatus]map[SubmissionStatus]struct{}{
	domain.StateInProgress: toSet(
		domain.StateSubmittedWithActuals,
		domain.StateSubmittedWithEstimates,
		domain.StateCancelled,
		domain.StateDeleted,
	),
	domain.StateSubmittedWithEstimates: toSet(
		domain.StateUpdatedWithActuals,
		domain.StateCancelled,
	),
}

var validSubmissionStates = toSet(
	domain.StateInProgress,
	domain.StateSubmittedWithActuals,
	domain.StateSubmittedWithEstimates,
	domain.StateUpdatedWithActuals,
	domain.StateCancelled,
	domain.StateDeleted,
)

// CanTransition reports whether a submission may move between the two states.
func CanTransition(from, to SubmissionStatus) bool {
	_, ok := submissionLifecycle[from][to]
	return ok
}

// IsTerminal reports whether no transition leaves the state.
func IsTerminal(state SubmissionStatus) bool {
	return len(submissionLifecycle[state]) == 0
}

// transition moves a submission to state, stamping the state timestamp.
func transition(s Submission, to SubmissionStatus, now time.Time) (Submission, error) {
	if _, ok := validSubmissionStates[to]; !ok {
		return s, domain.BadRequestError("submission %s is set to invalid state %s", s.ID, to)
	}
	from := s.SubmissionState.Status
	if !CanTransition(from, to) {
		return s, domain.BadRequestError("cannot move submission %s from state %s to %s", s.ID, from, to)
	}
	next := s.Clone()
	next.SubmissionState = domain.SubmissionState{Status: to, Timestamp: now}
	return next, nil
}

// DeleteSubmission soft deletes an in-progress submission.
func DeleteSubmission(s Submission, now time.Time) (Submission, error) {
	return transition(s, domain.StateDeleted, now)
}

// CancelSubmission cancels a submission, recording the reason given.
func CancelSubmission(s Submission, reason domain.Cancellation, now time.Time) (Submission, error) {
	switch reason.Type {
	case domain.CancelledByExporter, domain.CancelledIncorrectInformation, domain.CancelledChangeOfRecoveryFacilityLab:
	case domain.CancelledOther:
		if reason.Reason == "" {
			return s, domain.BadRequestError("a reason is required when cancelling for other reasons")
		}
	default:
		return s, domain.BadRequestError("unknown cancellation type %q", reason.Type)
	}
	next, err := transition(s, domain.StateCancelled, now)
	if err != nil {
		return s, err
	}
	next.Cancellation = &reason
	return next, nil
}

// UpdateActuals replaces estimated values of a submitted export with actual
// ones. The submission moves to UpdatedWithActuals once both the quantity
// and the collection date are actual.
func UpdateActuals(s Submission, quantity *WasteQuantity, date *CollectionDate, now time.Time) (Submission, error) {
	if s.SubmissionState.Status != domain.StateSubmittedWithEstimates {
		return s, domain.BadRequestError("submission %s has no estimates to update", s.ID)
	}
	if quantity == nil && date == nil {
		return s, domain.BadRequestError("no actual values supplied")
	}
	next := s.Clone()
	if quantity != nil {
		if d, ok := quantity.Payload(); !ok || !d.IsActual() {
			return s, domain.BadRequestError("waste quantity update must carry actual data")
		}
		next.WasteQuantity = quantity.MapPayload(domain.WasteQuantityData.Clone)
	}
	if date != nil {
		if d, ok := date.Payload(); !ok || d.Type != domain.CollectionDateActual {
			return s, domain.BadRequestError("collection date update must carry an actual date")
		}
		next.CollectionDate = *date
	}
	if !hasActuals(next) {
		return next, nil
	}
	return transition(next, domain.StateUpdatedWithActuals, now)
}

func hasActuals(s Submission) bool {
	q, ok := s.WasteQuantity.Payload()
	if !ok || !q.IsActual() {
		return false
	}
	d, ok := s.CollectionDate.Payload()
	return ok && d.Type == domain.CollectionDateActual
}

func toSet(values ...SubmissionStatus) map[SubmissionStatus]struct{} {
	set := make(map[SubmissionStatus]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
