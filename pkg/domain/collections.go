package domain

// MaxCarriers bounds the carriers collection of a single submission.
const MaxCarriers = 5

// MaxRecoveryFacilities bounds the recovery facility collection.
const MaxRecoveryFacilities = 3

// TransportMethod enumerates the carrier transport modes.
type TransportMethod string

// Transport methods.
const (
	TransportRoad            TransportMethod = "Road"
	TransportRail            TransportMethod = "Rail"
	TransportSea             TransportMethod = "Sea"
	TransportAir             TransportMethod = "Air"
	TransportInlandWaterways TransportMethod = "InlandWaterways"
)

// TransportDetails captures how a carrier moves the waste.
type TransportDetails struct {
	Type        TransportMethod `json:"type"`
	Description string          `json:"description,omitempty"`
}

// Carrier is one identity-bearing entry of the carriers collection.
type Carrier struct {
	ID               string            `json:"id"`
	AddressDetails   *PartyAddress     `json:"addressDetails,omitempty"`
	ContactDetails   *ContactDetails   `json:"contactDetails,omitempty"`
	TransportDetails *TransportDetails `json:"transportDetails,omitempty"`
}

// Clone returns a deep copy.
func (c Carrier) Clone() Carrier {
	return Carrier{
		ID:               c.ID,
		AddressDetails:   clonePtr(c.AddressDetails),
		ContactDetails:   clonePtr(c.ContactDetails),
		TransportDetails: clonePtr(c.TransportDetails),
	}
}

// Carriers is the carriers section. Values is populated only while the
// section is Started or Complete. Transport records whether per-carrier
// transport details are collected, which is false for small waste.
type Carriers struct {
	Status    SectionStatus `json:"status"`
	Transport bool          `json:"transport"`
	Values    []Carrier     `json:"values,omitempty"`
}

// NewCarriers returns a NotStarted carriers section.
func NewCarriers(transport bool) Carriers {
	return Carriers{Status: StatusNotStarted, Transport: transport}
}

// Clone returns a deep copy.
func (c Carriers) Clone() Carriers {
	cp := Carriers{Status: c.Status, Transport: c.Transport}
	if c.Values != nil {
		cp.Values = make([]Carrier, len(c.Values))
		for i, v := range c.Values {
			cp.Values[i] = v.Clone()
		}
	}
	return cp
}

// HasCollection reports whether the section holds entries.
func (c Carriers) HasCollection() bool {
	return c.Status.Progressed()
}

// Find returns the position of the carrier with id, or -1.
func (c Carriers) Find(id string) int {
	if !c.HasCollection() {
		return -1
	}
	for i, v := range c.Values {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// RecoveryFacilityKind distinguishes the destination facility roles.
type RecoveryFacilityKind string

// Recovery facility kinds.
const (
	FacilityLaboratory       RecoveryFacilityKind = "Laboratory"
	FacilityInterimSite      RecoveryFacilityKind = "InterimSite"
	FacilityRecoveryFacility RecoveryFacilityKind = "RecoveryFacility"
)

// RecoveryFacilityType names the role of a facility and the operation code
// that applies to it: a disposal code for laboratories, a recovery code otherwise.
type RecoveryFacilityType struct {
	Type         RecoveryFacilityKind `json:"type"`
	DisposalCode string               `json:"disposalCode,omitempty"`
	RecoveryCode string               `json:"recoveryCode,omitempty"`
}

// FacilityAddress locates a laboratory, interim site or recovery facility.
type FacilityAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Country string `json:"country,omitempty"`
}

// RecoveryFacility is one identity-bearing entry of the recovery facility collection.
type RecoveryFacility struct {
	ID                   string                `json:"id"`
	AddressDetails       *FacilityAddress      `json:"addressDetails,omitempty"`
	ContactDetails       *ContactDetails       `json:"contactDetails,omitempty"`
	RecoveryFacilityType *RecoveryFacilityType `json:"recoveryFacilityType,omitempty"`
}

// Clone returns a deep copy.
func (r RecoveryFacility) Clone() RecoveryFacility {
	return RecoveryFacility{
		ID:                   r.ID,
		AddressDetails:       clonePtr(r.AddressDetails),
		ContactDetails:       clonePtr(r.ContactDetails),
		RecoveryFacilityType: clonePtr(r.RecoveryFacilityType),
	}
}

// RecoveryFacilityDetail is the recovery facility section. It starts out
// CannotStart until a waste code has been chosen.
type RecoveryFacilityDetail struct {
	Status SectionStatus      `json:"status"`
	Values []RecoveryFacility `json:"values,omitempty"`
}

// Clone returns a deep copy.
func (r RecoveryFacilityDetail) Clone() RecoveryFacilityDetail {
	cp := RecoveryFacilityDetail{Status: r.Status}
	if r.Values != nil {
		cp.Values = make([]RecoveryFacility, len(r.Values))
		for i, v := range r.Values {
			cp.Values[i] = v.Clone()
		}
	}
	return cp
}

// HasCollection reports whether the section holds entries.
func (r RecoveryFacilityDetail) HasCollection() bool {
	return r.Status.Progressed()
}

// Find returns the position of the facility with id, or -1.
func (r RecoveryFacilityDetail) Find(id string) int {
	if !r.HasCollection() {
		return -1
	}
	for i, v := range r.Values {
		if v.ID == id {
			return i
		}
	}
	return -1
}
