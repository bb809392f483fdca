package core

import (
	"reflect"
	"testing"

	"annexvii/pkg/domain"
)

func TestClassifyWasteCodeTransition(t *testing.T) {
	cases := []struct {
		name    string
		current WasteDescription
		next    WasteDescription
		want    wasteCodeTransition
	}{
		{"not started", domain.NotStarted[domain.WasteDescriptionData](), bulkWaste(StatusStarted), transitionNone},
		{"bulk to small", bulkWaste(StatusComplete), smallWaste(StatusStarted), transitionBulkToSmall},
		{"small to bulk", smallWaste(StatusComplete), bulkWaste(StatusStarted), transitionSmallToBulk},
		{"bulk type", bulkWaste(StatusComplete), wasteDescription(StatusStarted, domain.WasteCodeOECD, "GB040"), transitionBulkToBulkType},
		{"bulk code", bulkWaste(StatusComplete), wasteDescription(StatusStarted, domain.WasteCodeBaselAnnexIX, "B1020"), transitionBulkToBulkCode},
		{"same code", bulkWaste(StatusComplete), bulkWaste(StatusStarted), transitionNone},
		{"small to small", smallWaste(StatusComplete), smallWaste(StatusStarted), transitionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyWasteCodeTransition(tc.current, tc.next); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSetWasteDescriptionUnlocksRecoveryFacilities(t *testing.T) {
	base := domain.NewSubmissionBase()
	next := SetWasteDescription(base, bulkWaste(StatusStarted))
	if next.RecoveryFacilityDetail.Status != StatusNotStarted {
		t.Fatalf("expected recovery facilities unlocked, got %s", next.RecoveryFacilityDetail.Status)
	}
	if !next.Carriers.Transport {
		t.Fatalf("bulk waste must collect transport details")
	}
	if base.RecoveryFacilityDetail.Status != StatusCannotStart {
		t.Fatalf("input base was modified")
	}

	noCode := domain.Started(domain.WasteDescriptionData{Description: "unknown"})
	if got := SetWasteDescription(base, noCode); got.RecoveryFacilityDetail.Status != StatusCannotStart {
		t.Fatalf("a description without a waste code must not unlock facilities")
	}
}

func TestSetWasteDescriptionSmallWasteDisablesTransport(t *testing.T) {
	next := SetWasteDescription(domain.NewSubmissionBase(), smallWaste(StatusStarted))
	if next.Carriers.Transport {
		t.Fatalf("small waste must not collect transport details")
	}
}

func TestSetWasteDescriptionBulkToSmall(t *testing.T) {
	base := completeBase()
	next := SetWasteDescription(base, smallWaste(StatusStarted))

	d, ok := next.WasteDescription.Payload()
	if !ok {
		t.Fatalf("expected payload")
	}
	if d.EWCCodes != nil || d.NationalCode != nil || d.Description != "" {
		t.Fatalf("expected dependent fields cleared, got %+v", d)
	}
	if d.WasteCode == nil || d.WasteCode.Type != domain.WasteCodeNotApplicable {
		t.Fatalf("waste code must be kept, got %+v", d.WasteCode)
	}
	if next.Carriers.Status != StatusStarted || next.Carriers.Transport {
		t.Fatalf("unexpected carriers %+v", next.Carriers)
	}
	if len(next.Carriers.Values) != 1 || next.Carriers.Values[0].ID != "c-1" {
		t.Fatalf("expected carrier entries kept, got %+v", next.Carriers.Values)
	}
	if next.Carriers.Values[0].TransportDetails != nil {
		t.Fatalf("expected transport details dropped")
	}
	if next.RecoveryFacilityDetail.Status != StatusNotStarted || next.RecoveryFacilityDetail.Values != nil {
		t.Fatalf("expected facilities reset, got %+v", next.RecoveryFacilityDetail)
	}
	if base.Carriers.Values[0].TransportDetails == nil {
		t.Fatalf("input carriers were modified")
	}
}

func TestSetWasteDescriptionBulkToSmallWithoutCarriers(t *testing.T) {
	base := completeBase()
	base.Carriers = domain.NewCarriers(true)
	next := SetWasteDescription(base, smallWaste(StatusStarted))
	if next.Carriers.Status != StatusNotStarted || next.Carriers.Transport {
		t.Fatalf("expected empty small waste carriers, got %+v", next.Carriers)
	}
}

func TestSetWasteDescriptionResetsOnFamilyChange(t *testing.T) {
	for name, base := range map[string]SubmissionBase{
		"small to bulk": func() SubmissionBase {
			b := completeBase()
			b.WasteDescription = smallWaste(StatusComplete)
			b.Carriers.Transport = false
			return b
		}(),
		"bulk type": completeBase(),
	} {
		t.Run(name, func(t *testing.T) {
			value := wasteDescription(StatusStarted, domain.WasteCodeOECD, "GB040")
			next := SetWasteDescription(base, value)
			if !reflect.DeepEqual(next.Carriers, domain.NewCarriers(true)) {
				t.Fatalf("expected fresh carriers, got %+v", next.Carriers)
			}
			if next.RecoveryFacilityDetail.Status != StatusNotStarted || len(next.RecoveryFacilityDetail.Values) != 0 {
				t.Fatalf("expected fresh facilities, got %+v", next.RecoveryFacilityDetail)
			}
			d, _ := next.WasteDescription.Payload()
			if d.EWCCodes != nil || d.Description != "" {
				t.Fatalf("expected dependent fields cleared, got %+v", d)
			}
		})
	}
}

func TestSetWasteDescriptionBulkCodeChangeReopensCollections(t *testing.T) {
	base := completeBase()
	next := SetWasteDescription(base, wasteDescription(StatusStarted, domain.WasteCodeBaselAnnexIX, "B1020"))
	if next.Carriers.Status != StatusStarted || len(next.Carriers.Values) != 1 {
		t.Fatalf("expected carriers kept and reopened, got %+v", next.Carriers)
	}
	if next.Carriers.Values[0].TransportDetails == nil {
		t.Fatalf("bulk code change must keep transport details")
	}
	if next.RecoveryFacilityDetail.Status != StatusStarted || len(next.RecoveryFacilityDetail.Values) != 1 {
		t.Fatalf("expected facilities kept and reopened, got %+v", next.RecoveryFacilityDetail)
	}
}

func TestSetWasteDescriptionCompleteValueKeepsFields(t *testing.T) {
	next := SetWasteDescription(completeBase(), smallWaste(StatusComplete))
	d, _ := next.WasteDescription.Payload()
	if len(d.EWCCodes) != 1 || d.Description == "" {
		t.Fatalf("a complete description is stored as given, got %+v", d)
	}
}

func TestSetWasteDescriptionDoesNotAliasValue(t *testing.T) {
	value := bulkWaste(StatusComplete)
	next := SetWasteDescription(domain.NewSubmissionBase(), value)
	stored, _ := next.WasteDescription.Payload()
	stored.EWCCodes[0].Code = "999999"
	original, _ := value.Payload()
	if original.EWCCodes[0].Code != "010101" {
		t.Fatalf("stored description shares memory with the value")
	}
}

func TestSetSubmissionWasteDescriptionQuantity(t *testing.T) {
	s := domain.NewSubmission("s1", "acc", "REF", epoch)
	s = SetSubmissionWasteDescription(s, bulkWaste(StatusStarted))
	if s.WasteQuantity.Status() != StatusNotStarted {
		t.Fatalf("expected waste quantity unlocked, got %s", s.WasteQuantity.Status())
	}

	s.WasteDescription = bulkWaste(StatusComplete)
	s.WasteQuantity = estimateQuantity()
	bulk := SetSubmissionWasteDescription(s, wasteDescription(StatusStarted, domain.WasteCodeOECD, "GB040"))
	if bulk.WasteQuantity.Status() != StatusComplete {
		t.Fatalf("bulk to bulk edits keep the quantity, got %s", bulk.WasteQuantity.Status())
	}
	small := SetSubmissionWasteDescription(s, smallWaste(StatusStarted))
	if small.WasteQuantity.Status() != StatusNotStarted {
		t.Fatalf("bulk to small resets the quantity, got %s", small.WasteQuantity.Status())
	}
	if s.WasteQuantity.Status() != StatusComplete {
		t.Fatalf("input submission was modified")
	}

	s.WasteDescription = smallWaste(StatusComplete)
	toBulk := SetSubmissionWasteDescription(s, bulkWaste(StatusStarted))
	if toBulk.WasteQuantity.Status() != StatusNotStarted {
		t.Fatalf("small to bulk resets the quantity, got %s", toBulk.WasteQuantity.Status())
	}
}

func TestSectionSettersReplaceAndClone(t *testing.T) {
	base := domain.NewSubmissionBase()
	countries := domain.Started(domain.TransitCountriesData{Values: []string{"France"}})
	next := SetTransitCountries(base, countries)
	got, ok := next.TransitCountries.Payload()
	if !ok || len(got.Values) != 1 {
		t.Fatalf("unexpected transit countries %+v", next.TransitCountries)
	}
	got.Values[0] = "Spain"
	again, _ := next.TransitCountries.Payload()
	if again.Values[0] != "France" {
		t.Fatalf("payload shares memory with the caller")
	}
	if base.TransitCountries.Status() != StatusNotStarted {
		t.Fatalf("input base was modified")
	}

	exit := domain.Complete(domain.ExitLocationData{ExitLocation: domain.OptionalValue{Provided: domain.No}})
	if SetExitLocation(base, exit).UkExitLocation.Status() != StatusComplete {
		t.Fatalf("exit location not set")
	}
	exporter := completeBase().ExporterDetail
	if SetExporterDetail(base, exporter).ExporterDetail.Status() != StatusComplete {
		t.Fatalf("exporter not set")
	}
	importer := completeBase().ImporterDetail
	if SetImporterDetail(base, importer).ImporterDetail.Status() != StatusComplete {
		t.Fatalf("importer not set")
	}
	collection := completeBase().CollectionDetail
	if SetCollectionDetail(base, collection).CollectionDetail.Status() != StatusComplete {
		t.Fatalf("collection detail not set")
	}
}
