package core

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"annexvii/pkg/domain"

	"github.com/shopspring/decimal"
)

var epoch = time.Date(2024, time.April, 9, 11, 0, 0, 0, time.UTC)

func fixedClock() Clock { return ClockFunc(func() time.Time { return epoch }) }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func wasteDescription(status SectionStatus, t domain.WasteCodeType, code string) WasteDescription {
	d := domain.WasteDescriptionData{
		WasteCode:    &domain.WasteCode{Type: t, Code: code},
		EWCCodes:     []domain.EWCCode{{Code: "010101"}},
		NationalCode: &domain.OptionalValue{Provided: domain.Yes, Value: "NC1"},
		Description:  "scrap metal",
	}
	if status == StatusComplete {
		return domain.Complete(d)
	}
	return domain.Started(d)
}

func bulkWaste(status SectionStatus) WasteDescription {
	return wasteDescription(status, domain.WasteCodeBaselAnnexIX, "B1010")
}

func smallWaste(status SectionStatus) WasteDescription {
	return wasteDescription(status, domain.WasteCodeNotApplicable, "")
}

func estimateQuantity() WasteQuantity {
	return domain.Complete(domain.WasteQuantityData{
		Type:         domain.QuantityEstimate,
		EstimateData: &domain.Quantity{QuantityType: domain.QuantityWeight, Unit: domain.UnitTonne, Value: decimal.NewFromInt(20)},
	})
}

func actualQuantity() WasteQuantity {
	return domain.Complete(domain.WasteQuantityData{
		Type:       domain.QuantityActual,
		ActualData: &domain.Quantity{QuantityType: domain.QuantityWeight, Unit: domain.UnitTonne, Value: decimal.RequireFromString("19.5")},
	})
}

func collectionDate(kind domain.CollectionDateKind) CollectionDate {
	parts := domain.DateParts{Day: "01", Month: "05", Year: "2024"}
	d := domain.CollectionDateData{Type: kind}
	if kind == domain.CollectionDateActual {
		d.ActualDate = parts
	} else {
		d.EstimateDate = parts
	}
	return domain.Complete(d)
}

func carrierEntry(id string) Carrier {
	return Carrier{
		ID:               id,
		AddressDetails:   &domain.PartyAddress{OrganisationName: "Haulage Ltd", Address: "1 Road", Country: "France"},
		ContactDetails:   &domain.ContactDetails{FullName: "Sam", EmailAddress: "sam@example.com", PhoneNumber: "01234"},
		TransportDetails: &domain.TransportDetails{Type: domain.TransportRoad},
	}
}

func facilityEntry(id string) RecoveryFacility {
	return RecoveryFacility{
		ID:                   id,
		AddressDetails:       &domain.FacilityAddress{Name: "Recycler", Address: "2 Quay", Country: "Germany"},
		RecoveryFacilityType: &domain.RecoveryFacilityType{Type: domain.FacilityRecoveryFacility, RecoveryCode: "R1"},
	}
}

// completeBase returns a base with every shared section Complete for bulk waste.
func completeBase() SubmissionBase {
	b := domain.NewSubmissionBase()
	b.WasteDescription = bulkWaste(StatusComplete)
	b.ExporterDetail = domain.Complete(domain.ExporterDetailData{
		ExporterAddress:        &domain.ExporterAddress{AddressLine1: "1 High St", TownCity: "Leeds", Postcode: "LS1 1AA", Country: "England"},
		ExporterContactDetails: &domain.ContactDetails{OrganisationName: "Exporter", FullName: "Alex"},
	})
	b.ImporterDetail = domain.Complete(domain.ImporterDetailData{
		ImporterAddressDetails: &domain.PartyAddress{OrganisationName: "Importer", Address: "Rue 1", Country: "France"},
	})
	b.Carriers = Carriers{Status: StatusComplete, Transport: true, Values: []Carrier{carrierEntry("c-1")}}
	b.CollectionDetail = domain.Complete(domain.CollectionDetailData{
		Address: &domain.ExporterAddress{AddressLine1: "Yard 3", TownCity: "Hull", Country: "England"},
	})
	b.UkExitLocation = domain.Complete(domain.ExitLocationData{ExitLocation: domain.OptionalValue{Provided: domain.Yes, Value: "Dover"}})
	b.TransitCountries = domain.Complete(domain.TransitCountriesData{Values: []string{"Belgium"}})
	b.RecoveryFacilityDetail = RecoveryFacilityDetail{Status: StatusComplete, Values: []RecoveryFacility{facilityEntry("r-1")}}
	return b
}

// completeSubmission returns an in-progress submission ready for confirmation.
func completeSubmission() Submission {
	s := domain.NewSubmission("sub-1", "acc", "REF-1", epoch)
	s.SubmissionBase = completeBase()
	s.WasteQuantity = estimateQuantity()
	s.CollectionDate = collectionDate(domain.CollectionDateEstimate)
	return refreshConfirmation(s)
}

func expectKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := domain.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
