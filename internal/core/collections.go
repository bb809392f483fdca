package core

import (
	"slices"

	"annexvii/pkg/domain"
)

// IDGenerator mints identifiers for new aggregates and collection entries.
type IDGenerator func() string

// CreateCarrier appends an empty carrier entry with a fresh id. The status
// supplied must be Started, and the collection must have room.
func CreateCarrier(base SubmissionBase, status SectionStatus, newID IDGenerator) (SubmissionBase, string, error) {
	if status != StatusStarted {
		return base, "", domain.BadRequestError("carriers must be created with status %s, got %s", StatusStarted, status)
	}
	if base.Carriers.HasCollection() && len(base.Carriers.Values) >= domain.MaxCarriers {
		return base, "", domain.BadRequestError("cannot add more than %d carriers", domain.MaxCarriers)
	}
	next := base.Clone()
	id := newID()
	values := next.Carriers.Values
	if !next.Carriers.HasCollection() {
		values = nil
	}
	next.Carriers = Carriers{
		Status:    status,
		Transport: transportFor(base.WasteDescription),
		Values:    append(values, Carrier{ID: id}),
	}
	return next, id, nil
}

// GetCarrier returns the carrier entry with id.
func GetCarrier(base SubmissionBase, id string) (Carrier, error) {
	i := base.Carriers.Find(id)
	if i < 0 {
		return Carrier{}, domain.NotFoundError("carrier %s not found", id)
	}
	return base.Carriers.Values[i].Clone(), nil
}

// SetCarrier replaces the carrier entry with id in place. A NotStarted value
// resets the whole collection.
func SetCarrier(base SubmissionBase, id string, value Carriers) (SubmissionBase, error) {
	next := base.Clone()
	switch value.Status {
	case StatusNotStarted:
		next.Carriers = domain.NewCarriers(value.Transport)
		return next, nil
	case StatusStarted, StatusComplete:
	default:
		return base, domain.BadRequestError("invalid carriers status %q", value.Status)
	}
	j := slices.IndexFunc(value.Values, func(c Carrier) bool { return c.ID == id })
	if j < 0 {
		return base, domain.BadRequestError("carrier %s missing from request", id)
	}
	i := next.Carriers.Find(id)
	if i < 0 {
		return base, domain.NotFoundError("carrier %s not found", id)
	}
	next.Carriers.Values[i] = value.Values[j].Clone()
	next.Carriers.Status = value.Status
	return next, nil
}

// DeleteCarrier removes the carrier entry with id. Removing the last entry
// collapses the section to NotStarted.
func DeleteCarrier(base SubmissionBase, id string) (SubmissionBase, error) {
	i := base.Carriers.Find(id)
	if i < 0 {
		return base, domain.NotFoundError("carrier %s not found", id)
	}
	next := base.Clone()
	next.Carriers.Values = slices.Delete(next.Carriers.Values, i, i+1)
	if len(next.Carriers.Values) == 0 {
		next.Carriers = domain.NewCarriers(transportFor(base.WasteDescription))
	}
	return next, nil
}

// CreateRecoveryFacility appends an empty recovery facility entry with a
// fresh id. The section must have been unlocked by a waste code.
func CreateRecoveryFacility(base SubmissionBase, status SectionStatus, newID IDGenerator) (SubmissionBase, string, error) {
	if status != StatusStarted {
		return base, "", domain.BadRequestError("recovery facilities must be created with status %s, got %s", StatusStarted, status)
	}
	rfd := base.RecoveryFacilityDetail
	if rfd.Status == StatusCannotStart {
		return base, "", domain.BadRequestError("recovery facility detail cannot start before a waste code is chosen")
	}
	if rfd.HasCollection() && len(rfd.Values) >= domain.MaxRecoveryFacilities {
		return base, "", domain.BadRequestError("cannot add more than %d recovery facilities", domain.MaxRecoveryFacilities)
	}
	next := base.Clone()
	id := newID()
	values := next.RecoveryFacilityDetail.Values
	if !rfd.HasCollection() {
		values = nil
	}
	next.RecoveryFacilityDetail = RecoveryFacilityDetail{
		Status: status,
		Values: append(values, RecoveryFacility{ID: id}),
	}
	return next, id, nil
}

// GetRecoveryFacility returns the recovery facility entry with id.
func GetRecoveryFacility(base SubmissionBase, id string) (RecoveryFacility, error) {
	i := base.RecoveryFacilityDetail.Find(id)
	if i < 0 {
		return RecoveryFacility{}, domain.NotFoundError("recovery facility %s not found", id)
	}
	return base.RecoveryFacilityDetail.Values[i].Clone(), nil
}

// SetRecoveryFacility replaces the recovery facility entry with id in place.
// A NotStarted value resets the whole collection.
func SetRecoveryFacility(base SubmissionBase, id string, value RecoveryFacilityDetail) (SubmissionBase, error) {
	next := base.Clone()
	switch value.Status {
	case StatusNotStarted:
		next.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusNotStarted}
		return next, nil
	case StatusStarted, StatusComplete:
	default:
		return base, domain.BadRequestError("invalid recovery facility detail status %q", value.Status)
	}
	j := slices.IndexFunc(value.Values, func(r RecoveryFacility) bool { return r.ID == id })
	if j < 0 {
		return base, domain.BadRequestError("recovery facility %s missing from request", id)
	}
	i := next.RecoveryFacilityDetail.Find(id)
	if i < 0 {
		return base, domain.NotFoundError("recovery facility %s not found", id)
	}
	next.RecoveryFacilityDetail.Values[i] = value.Values[j].Clone()
	next.RecoveryFacilityDetail.Status = value.Status
	return next, nil
}

// DeleteRecoveryFacility removes the recovery facility entry with id.
// Removing the last entry collapses the section to NotStarted.
func DeleteRecoveryFacility(base SubmissionBase, id string) (SubmissionBase, error) {
	i := base.RecoveryFacilityDetail.Find(id)
	if i < 0 {
		return base, domain.NotFoundError("recovery facility %s not found", id)
	}
	next := base.Clone()
	next.RecoveryFacilityDetail.Values = slices.Delete(next.RecoveryFacilityDetail.Values, i, i+1)
	if len(next.RecoveryFacilityDetail.Values) == 0 {
		next.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusNotStarted}
	}
	return next, nil
}
