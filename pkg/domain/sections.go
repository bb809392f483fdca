package domain

import (
	"github.com/shopspring/decimal"
)

// WasteCodeType identifies the classification family of a waste code.
type WasteCodeType string

// Waste code families. NotApplicable denotes small (laboratory) waste.
const (
	WasteCodeBaselAnnexIX  WasteCodeType = "BaselAnnexIX"
	WasteCodeOECD          WasteCodeType = "OECD"
	WasteCodeAnnexIIIA     WasteCodeType = "AnnexIIIA"
	WasteCodeAnnexIIIB     WasteCodeType = "AnnexIIIB"
	WasteCodeNotApplicable WasteCodeType = "NotApplicable"
)

// WasteCodeTypes lists the bulk waste code families in catalogue order.
var WasteCodeTypes = []WasteCodeType{
	WasteCodeBaselAnnexIX,
	WasteCodeOECD,
	WasteCodeAnnexIIIA,
	WasteCodeAnnexIIIB,
}

// IsSmall reports whether the waste code type denotes small waste.
func (t WasteCodeType) IsSmall() bool { return t == WasteCodeNotApplicable }

// WasteCode is the classification chosen for the waste. Code is empty for
// NotApplicable.
type WasteCode struct {
	Type WasteCodeType `json:"type"`
	Code string        `json:"code,omitempty"`
}

// EWCCode is a European Waste Catalogue code.
type EWCCode struct {
	Code string `json:"code"`
}

// YesNo captures an explicit Yes/No answer.
type YesNo string

// Answers used by optional provided-value fields.
const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// OptionalValue is a value the user may explicitly decline to provide.
type OptionalValue struct {
	Provided YesNo  `json:"provided"`
	Value    string `json:"value,omitempty"`
}

// WasteDescriptionData is the waste description section payload.
type WasteDescriptionData struct {
	WasteCode    *WasteCode     `json:"wasteCode,omitempty"`
	EWCCodes     []EWCCode      `json:"ewcCodes,omitempty"`
	NationalCode *OptionalValue `json:"nationalCode,omitempty"`
	Description  string         `json:"description,omitempty"`
}

// Clone returns a deep copy.
func (d WasteDescriptionData) Clone() WasteDescriptionData {
	cp := d
	if d.WasteCode != nil {
		wc := *d.WasteCode
		cp.WasteCode = &wc
	}
	if d.EWCCodes != nil {
		cp.EWCCodes = append([]EWCCode(nil), d.EWCCodes...)
	}
	if d.NationalCode != nil {
		nc := *d.NationalCode
		cp.NationalCode = &nc
	}
	return cp
}

// QuantityType distinguishes weight from volume measurements.
type QuantityType string

// Quantity types.
const (
	QuantityVolume QuantityType = "Volume"
	QuantityWeight QuantityType = "Weight"
)

// QuantityUnit is the unit of a waste quantity.
type QuantityUnit string

// Quantity units. Kilogram is reserved for small waste.
const (
	UnitTonne      QuantityUnit = "Tonne"
	UnitCubicMetre QuantityUnit = "Cubic Metre"
	UnitKilogram   QuantityUnit = "Kilogram"
)

// Quantity is a single measured or estimated amount.
type Quantity struct {
	QuantityType QuantityType    `json:"quantityType,omitempty"`
	Unit         QuantityUnit    `json:"unit,omitempty"`
	Value        decimal.Decimal `json:"value"`
}

// QuantityKind says whether the amount reported is actual or estimated.
type QuantityKind string

// Quantity kinds.
const (
	QuantityActual   QuantityKind = "ActualData"
	QuantityEstimate QuantityKind = "EstimateData"
)

// WasteQuantityData is the waste quantity section payload.
type WasteQuantityData struct {
	Type         QuantityKind `json:"type,omitempty"`
	EstimateData *Quantity    `json:"estimateData,omitempty"`
	ActualData   *Quantity    `json:"actualData,omitempty"`
}

// Clone returns a deep copy.
func (d WasteQuantityData) Clone() WasteQuantityData {
	cp := d
	if d.EstimateData != nil {
		q := *d.EstimateData
		cp.EstimateData = &q
	}
	if d.ActualData != nil {
		q := *d.ActualData
		cp.ActualData = &q
	}
	return cp
}

// IsActual reports whether the quantity recorded is the actual amount.
func (d WasteQuantityData) IsActual() bool {
	return d.Type == QuantityActual && d.ActualData != nil
}

// ExporterAddress locates the exporter.
type ExporterAddress struct {
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	TownCity     string `json:"townCity,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
}

// ContactDetails identifies a person reachable for a party on the export.
type ContactDetails struct {
	OrganisationName string `json:"organisationName,omitempty"`
	FullName         string `json:"fullName,omitempty"`
	EmailAddress     string `json:"emailAddress,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	FaxNumber        string `json:"faxNumber,omitempty"`
}

// ExporterDetailData is the exporter section payload.
type ExporterDetailData struct {
	ExporterAddress        *ExporterAddress `json:"exporterAddress,omitempty"`
	ExporterContactDetails *ContactDetails  `json:"exporterContactDetails,omitempty"`
}

// Clone returns a deep copy.
func (d ExporterDetailData) Clone() ExporterDetailData {
	return ExporterDetailData{
		ExporterAddress:        clonePtr(d.ExporterAddress),
		ExporterContactDetails: clonePtr(d.ExporterContactDetails),
	}
}

// PartyAddress is the organisation address shape shared by importers,
// carriers and facilities.
type PartyAddress struct {
	OrganisationName string `json:"organisationName,omitempty"`
	Address          string `json:"address,omitempty"`
	Country          string `json:"country,omitempty"`
}

// ImporterDetailData is the importer section payload.
type ImporterDetailData struct {
	ImporterAddressDetails *PartyAddress   `json:"importerAddressDetails,omitempty"`
	ImporterContactDetails *ContactDetails `json:"importerContactDetails,omitempty"`
}

// Clone returns a deep copy.
func (d ImporterDetailData) Clone() ImporterDetailData {
	return ImporterDetailData{
		ImporterAddressDetails: clonePtr(d.ImporterAddressDetails),
		ImporterContactDetails: clonePtr(d.ImporterContactDetails),
	}
}

// CollectionDateKind distinguishes actual from estimated collection dates.
type CollectionDateKind string

// Collection date kinds.
const (
	CollectionDateActual   CollectionDateKind = "ActualDate"
	CollectionDateEstimate CollectionDateKind = "EstimateDate"
)

// DateParts is a day/month/year triple as entered by the user.
type DateParts struct {
	Day   string `json:"day,omitempty"`
	Month string `json:"month,omitempty"`
	Year  string `json:"year,omitempty"`
}

// CollectionDateData is the collection date section payload.
type CollectionDateData struct {
	Type         CollectionDateKind `json:"type"`
	EstimateDate DateParts          `json:"estimateDate"`
	ActualDate   DateParts          `json:"actualDate"`
}

// CollectionDetailData is the waste collection address section payload.
type CollectionDetailData struct {
	Address        *ExporterAddress `json:"address,omitempty"`
	ContactDetails *ContactDetails  `json:"contactDetails,omitempty"`
}

// Clone returns a deep copy.
func (d CollectionDetailData) Clone() CollectionDetailData {
	return CollectionDetailData{
		Address:        clonePtr(d.Address),
		ContactDetails: clonePtr(d.ContactDetails),
	}
}

// ExitLocationData is the point-of-exit section payload.
type ExitLocationData struct {
	ExitLocation OptionalValue `json:"exitLocation"`
}

// TransitCountriesData is the transit countries section payload.
type TransitCountriesData struct {
	Values []string `json:"values"`
}

// Clone returns a deep copy.
func (d TransitCountriesData) Clone() TransitCountriesData {
	return TransitCountriesData{Values: append([]string(nil), d.Values...)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
