package core

import (
	"time"

	"annexvii/pkg/domain"
)

// CopyCarriers duplicates a carriers section with fresh entry ids. Transport
// details are dropped so they are re-entered per shipment, and the copy
// always collects them.
func CopyCarriers(src Carriers, smallWaste bool, newID IDGenerator) Carriers {
	if !src.HasCollection() {
		return Carriers{Status: src.Status, Transport: true}
	}
	out := Carriers{Status: src.Status, Transport: true, Values: make([]Carrier, len(src.Values))}
	if smallWaste {
		out.Status = StatusStarted
	}
	for i, v := range src.Values {
		c := v.Clone()
		out.Values[i] = Carrier{ID: newID(), AddressDetails: c.AddressDetails, ContactDetails: c.ContactDetails}
	}
	return out
}

// CopyRecoveryFacilities duplicates a recovery facility section with fresh
// entry ids and identical payloads.
func CopyRecoveryFacilities(src RecoveryFacilityDetail, newID IDGenerator) RecoveryFacilityDetail {
	out := src.Clone()
	for i := range out.Values {
		out.Values[i].ID = newID()
	}
	return out
}

// CopyBase duplicates every shared section, minting new collection entry ids.
func CopyBase(src SubmissionBase, newID IDGenerator) SubmissionBase {
	out := src.Clone()
	out.Carriers = CopyCarriers(src.Carriers, src.IsSmallWaste(), newID)
	out.RecoveryFacilityDetail = CopyRecoveryFacilities(src.RecoveryFacilityDetail, newID)
	return out
}

// SubmissionFromBase builds a new submission around copied sections. The
// waste quantity unlocks when the waste description has started, and the
// collection date always starts fresh.
func SubmissionFromBase(base SubmissionBase, id, accountID, reference string, now time.Time, newID IDGenerator) Submission {
	s := domain.NewSubmission(id, accountID, reference, now)
	s.SubmissionBase = CopyBase(base, newID)
	if s.WasteDescription.Status() != StatusNotStarted {
		s.WasteQuantity = domain.NotStarted[domain.WasteQuantityData]()
	}
	return refreshConfirmation(s)
}

// TemplateFromBase builds a new template around copied sections.
func TemplateFromBase(base SubmissionBase, id, accountID string, details domain.TemplateDetails, newID IDGenerator) Template {
	return Template{
		ID:              id,
		AccountID:       accountID,
		TemplateDetails: details,
		SubmissionBase:  CopyBase(base, newID),
	}
}
