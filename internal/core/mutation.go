package core

import "annexvii/pkg/domain"

// SetWasteDescription assigns the waste description of a submission or
// template base and cascades the change into the carriers and recovery
// facility sections. The input base is never modified.
func SetWasteDescription(base SubmissionBase, value WasteDescription) SubmissionBase {
	next := base.Clone()
	value = value.MapPayload(domain.WasteDescriptionData.Clone)
	_, hasCode := wasteCodeOf(value)

	if next.RecoveryFacilityDetail.Status == StatusCannotStart && value.Status() != StatusNotStarted && hasCode {
		next.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusNotStarted}
	}
	if next.Carriers.Status == StatusNotStarted && !transportFor(value) {
		next.Carriers.Transport = false
	}

	switch classifyWasteCodeTransition(base.WasteDescription, value) {
	case transitionBulkToSmall:
		value = clearDependentFields(value)
		next.Carriers = carriersForSmallWaste(next.Carriers)
		next.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusNotStarted}
	case transitionSmallToBulk, transitionBulkToBulkType:
		value = clearDependentFields(value)
		next.Carriers = domain.NewCarriers(true)
		next.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusNotStarted}
	case transitionBulkToBulkCode:
		value = clearDependentFields(value)
		if next.Carriers.HasCollection() {
			next.Carriers.Status = StatusStarted
		}
		if next.RecoveryFacilityDetail.HasCollection() {
			next.RecoveryFacilityDetail.Status = StatusStarted
		}
	}

	next.WasteDescription = value
	return next
}

// clearDependentFields drops the EWC codes, national code and description of
// a Started section so they are re-entered under the new classification.
func clearDependentFields(value WasteDescription) WasteDescription {
	if value.Status() != StatusStarted {
		return value
	}
	return value.MapPayload(func(d domain.WasteDescriptionData) domain.WasteDescriptionData {
		d.EWCCodes = nil
		d.NationalCode = nil
		d.Description = ""
		return d
	})
}

// carriersForSmallWaste keeps the carrier entries when the waste becomes
// small but drops their transport details, which are no longer collected.
func carriersForSmallWaste(c Carriers) Carriers {
	if !c.HasCollection() {
		return domain.NewCarriers(false)
	}
	out := Carriers{Status: StatusStarted, Transport: false, Values: make([]Carrier, len(c.Values))}
	for i, v := range c.Values {
		v = v.Clone()
		v.TransportDetails = nil
		out.Values[i] = v
	}
	return out
}

// SetSubmissionWasteDescription applies SetWasteDescription to a submission
// and additionally unlocks or resets its waste quantity.
func SetSubmissionWasteDescription(s Submission, value WasteDescription) Submission {
	next := s.Clone()
	if next.WasteQuantity.Status() == StatusCannotStart && value.Status() != StatusNotStarted {
		next.WasteQuantity = domain.NotStarted[domain.WasteQuantityData]()
	}
	if isBulkSmallSwitch(s.WasteDescription, value) {
		next.WasteQuantity = domain.NotStarted[domain.WasteQuantityData]()
	}
	next.SubmissionBase = SetWasteDescription(s.SubmissionBase, value)
	return refreshConfirmation(next)
}

// SetExporterDetail replaces the exporter section.
func SetExporterDetail(base SubmissionBase, value ExporterDetail) SubmissionBase {
	next := base.Clone()
	next.ExporterDetail = value.MapPayload(domain.ExporterDetailData.Clone)
	return next
}

// SetImporterDetail replaces the importer section.
func SetImporterDetail(base SubmissionBase, value ImporterDetail) SubmissionBase {
	next := base.Clone()
	next.ImporterDetail = value.MapPayload(domain.ImporterDetailData.Clone)
	return next
}

// SetCollectionDetail replaces the collection address section.
func SetCollectionDetail(base SubmissionBase, value CollectionDetail) SubmissionBase {
	next := base.Clone()
	next.CollectionDetail = value.MapPayload(domain.CollectionDetailData.Clone)
	return next
}

// SetExitLocation replaces the UK exit location section.
func SetExitLocation(base SubmissionBase, value ExitLocation) SubmissionBase {
	next := base.Clone()
	next.UkExitLocation = value.MapPayload(func(d domain.ExitLocationData) domain.ExitLocationData { return d })
	return next
}

// SetTransitCountries replaces the transit countries section.
func SetTransitCountries(base SubmissionBase, value TransitCountries) SubmissionBase {
	next := base.Clone()
	next.TransitCountries = value.MapPayload(domain.TransitCountriesData.Clone)
	return next
}
