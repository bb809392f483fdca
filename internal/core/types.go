package core

import "annexvii/pkg/domain"

type (
	Submission             = domain.Submission
	Template               = domain.Template
	SubmissionBase         = domain.SubmissionBase
	SectionStatus          = domain.SectionStatus
	Carriers               = domain.Carriers
	Carrier                = domain.Carrier
	RecoveryFacilityDetail = domain.RecoveryFacilityDetail
	RecoveryFacility       = domain.RecoveryFacility
	SubmissionConfirmation = domain.SubmissionConfirmation
	SubmissionDeclaration  = domain.SubmissionDeclaration
	SubmissionStatus       = domain.SubmissionStatus
	ListOptions            = domain.ListOptions
	SubmissionPage         = domain.Page[domain.SubmissionSummary]
	TemplatePage           = domain.Page[domain.TemplateSummary]
)

type (
	WasteDescription = domain.Section[domain.WasteDescriptionData]
	WasteQuantity    = domain.Section[domain.WasteQuantityData]
	ExporterDetail   = domain.Section[domain.ExporterDetailData]
	ImporterDetail   = domain.Section[domain.ImporterDetailData]
	CollectionDate   = domain.Section[domain.CollectionDateData]
	CollectionDetail = domain.Section[domain.CollectionDetailData]
	ExitLocation     = domain.Section[domain.ExitLocationData]
	TransitCountries = domain.Section[domain.TransitCountriesData]
)

const (
	StatusNotStarted  = domain.StatusNotStarted
	StatusStarted     = domain.StatusStarted
	StatusComplete    = domain.StatusComplete
	StatusCannotStart = domain.StatusCannotStart
)
