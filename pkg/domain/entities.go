// Package domain defines the submission and template aggregates, their
// status-tagged sections, and the persistence contracts used by annexvii.
package domain

import (
	"time"
)

// SubmissionBase holds the sections shared by submissions and templates.
type SubmissionBase struct {
	WasteDescription       Section[WasteDescriptionData] `json:"wasteDescription"`
	ExporterDetail         Section[ExporterDetailData]   `json:"exporterDetail"`
	ImporterDetail         Section[ImporterDetailData]   `json:"importerDetail"`
	Carriers               Carriers                      `json:"carriers"`
	CollectionDetail       Section[CollectionDetailData] `json:"collectionDetail"`
	UkExitLocation         Section[ExitLocationData]     `json:"ukExitLocation"`
	TransitCountries       Section[TransitCountriesData] `json:"transitCountries"`
	RecoveryFacilityDetail RecoveryFacilityDetail        `json:"recoveryFacilityDetail"`
}

// NewSubmissionBase returns the initial section set: everything NotStarted,
// carriers collecting transport details, recovery facilities gated.
func NewSubmissionBase() SubmissionBase {
	return SubmissionBase{
		WasteDescription:       NotStarted[WasteDescriptionData](),
		ExporterDetail:         NotStarted[ExporterDetailData](),
		ImporterDetail:         NotStarted[ImporterDetailData](),
		Carriers:               NewCarriers(true),
		CollectionDetail:       NotStarted[CollectionDetailData](),
		UkExitLocation:         NotStarted[ExitLocationData](),
		TransitCountries:       NotStarted[TransitCountriesData](),
		RecoveryFacilityDetail: RecoveryFacilityDetail{Status: StatusCannotStart},
	}
}

// Clone returns a deep copy sharing no slices or pointers with b.
func (b SubmissionBase) Clone() SubmissionBase {
	return SubmissionBase{
		WasteDescription:       b.WasteDescription.MapPayload(WasteDescriptionData.Clone),
		ExporterDetail:         b.ExporterDetail.MapPayload(ExporterDetailData.Clone),
		ImporterDetail:         b.ImporterDetail.MapPayload(ImporterDetailData.Clone),
		Carriers:               b.Carriers.Clone(),
		CollectionDetail:       b.CollectionDetail.MapPayload(CollectionDetailData.Clone),
		UkExitLocation:         b.UkExitLocation.MapPayload(func(d ExitLocationData) ExitLocationData { return d }),
		TransitCountries:       b.TransitCountries.MapPayload(TransitCountriesData.Clone),
		RecoveryFacilityDetail: b.RecoveryFacilityDetail.Clone(),
	}
}

// IsSmallWaste reports whether the current waste description classifies the
// waste as small. Sections without a waste code are not small.
func (b SubmissionBase) IsSmallWaste() bool {
	d, ok := b.WasteDescription.Payload()
	return ok && d.WasteCode != nil && d.WasteCode.Type.IsSmall()
}

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

// Submission lifecycle states.
const (
	StateInProgress             SubmissionStatus = "InProgress"
	StateSubmittedWithActuals   SubmissionStatus = "SubmittedWithActuals"
	StateSubmittedWithEstimates SubmissionStatus = "SubmittedWithEstimates"
	StateUpdatedWithActuals     SubmissionStatus = "UpdatedWithActuals"
	StateCancelled              SubmissionStatus = "Cancelled"
	StateDeleted                SubmissionStatus = "Deleted"
)

// Hidden reports whether submissions in this state are unreadable.
func (s SubmissionStatus) Hidden() bool {
	return s == StateCancelled || s == StateDeleted
}

// SubmissionState records the lifecycle state and when it was entered.
type SubmissionState struct {
	Status    SubmissionStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// CancellationReason explains why an exporter cancelled a submitted export.
type CancellationReason string

// Cancellation reasons.
const (
	CancelledByExporter                  CancellationReason = "CancelledByExporter"
	CancelledIncorrectInformation        CancellationReason = "IncorrectInformation"
	CancelledChangeOfRecoveryFacilityLab CancellationReason = "ChangeOfRecoveryFacilityOrLaboratory"
	CancelledOther                       CancellationReason = "Other"
)

// Cancellation carries the reason given for a cancelled submission.
type Cancellation struct {
	Type   CancellationReason `json:"type"`
	Reason string             `json:"reason,omitempty"`
}

// SubmissionConfirmation is the exporter's check-your-answers acknowledgement.
type SubmissionConfirmation struct {
	Status       SectionStatus `json:"status"`
	Confirmation bool          `json:"confirmation,omitempty"`
}

// Declaration is stamped when the exporter declares the submission.
type Declaration struct {
	DeclarationTimestamp time.Time `json:"declarationTimestamp"`
	TransactionID        string    `json:"transactionId"`
}

// SubmissionDeclaration is the final declaration section.
type SubmissionDeclaration struct {
	Status SectionStatus `json:"status"`
	Values *Declaration  `json:"values,omitempty"`
}

// Submission is a draft or submitted Annex VII export record.
type Submission struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Reference string `json:"reference"`
	SubmissionBase
	WasteQuantity          Section[WasteQuantityData]  `json:"wasteQuantity"`
	CollectionDate         Section[CollectionDateData] `json:"collectionDate"`
	SubmissionConfirmation SubmissionConfirmation      `json:"submissionConfirmation"`
	SubmissionDeclaration  SubmissionDeclaration       `json:"submissionDeclaration"`
	SubmissionState        SubmissionState             `json:"submissionState"`
	Cancellation           *Cancellation               `json:"cancellation,omitempty"`
}

// NewSubmission returns a submission in its initial state.
func NewSubmission(id, accountID, reference string, now time.Time) Submission {
	return Submission{
		ID:                     id,
		AccountID:              accountID,
		Reference:              reference,
		SubmissionBase:         NewSubmissionBase(),
		WasteQuantity:          CannotStart[WasteQuantityData](),
		CollectionDate:         NotStarted[CollectionDateData](),
		SubmissionConfirmation: SubmissionConfirmation{Status: StatusCannotStart},
		SubmissionDeclaration:  SubmissionDeclaration{Status: StatusCannotStart},
		SubmissionState:        SubmissionState{Status: StateInProgress, Timestamp: now},
	}
}

// Clone returns a deep copy of the submission.
func (s Submission) Clone() Submission {
	cp := s
	cp.SubmissionBase = s.SubmissionBase.Clone()
	cp.WasteQuantity = s.WasteQuantity.MapPayload(WasteQuantityData.Clone)
	cp.CollectionDate = s.CollectionDate.MapPayload(func(d CollectionDateData) CollectionDateData { return d })
	if s.SubmissionDeclaration.Values != nil {
		v := *s.SubmissionDeclaration.Values
		cp.SubmissionDeclaration.Values = &v
	}
	cp.Cancellation = clonePtr(s.Cancellation)
	return cp
}

// TemplateDetails names and dates a template.
type TemplateDetails struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
}

// Template is a reusable set of sections from which submissions are created.
type Template struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	TemplateDetails TemplateDetails `json:"templateDetails"`
	SubmissionBase
}

// NewTemplate returns a template in its initial state.
func NewTemplate(id, accountID, name, description string, now time.Time) Template {
	return Template{
		ID:        id,
		AccountID: accountID,
		TemplateDetails: TemplateDetails{
			Name:         name,
			Description:  description,
			Created:      now,
			LastModified: now,
		},
		SubmissionBase: NewSubmissionBase(),
	}
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	cp := t
	cp.SubmissionBase = t.SubmissionBase.Clone()
	return cp
}
