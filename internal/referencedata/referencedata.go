// Package referencedata serves the read-only code lists that bulk
// validation checks submitted values against.
package referencedata

import (
	"fmt"
	"os"

	"annexvii/pkg/domain"

	"gopkg.in/yaml.v3"
)

// Entry is one code in a reference list.
type Entry struct {
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// WasteCodeList holds the codes of one waste code family.
type WasteCodeList struct {
	Type   domain.WasteCodeType `yaml:"type" json:"type"`
	Values []Entry              `yaml:"values" json:"values"`
}

// Provider exposes the reference lists. Returned slices must not be
// modified by callers.
type Provider interface {
	WasteCodes() []WasteCodeList
	EWCCodes() []Entry
	Countries() []Entry
	RecoveryCodes() []Entry
	DisposalCodes() []Entry
}

// Data is the document shape of a reference data file and the in-memory
// Provider built from it.
type Data struct {
	Waste    []WasteCodeList `yaml:"wasteCodes"`
	EWC      []Entry         `yaml:"ewcCodes"`
	Country  []Entry         `yaml:"countries"`
	Recovery []Entry         `yaml:"recoveryCodes"`
	Disposal []Entry         `yaml:"disposalCodes"`
}

var _ Provider = (*Data)(nil)

func (d *Data) WasteCodes() []WasteCodeList { return d.Waste }
func (d *Data) EWCCodes() []Entry { return d.EWC }
func (d *Data) Countries() []Entry { return d.Country }
func (d *Data) RecoveryCodes() []Entry { return d.Recovery }
func (d *Data) DisposalCodes() []Entry { return d.Disposal }

// Empty returns a provider with no codes.
func Empty() Provider { return &Data{} }

// WasteCodesFor returns the codes of family t, or nil when p has none.
func WasteCodesFor(p Provider, t domain.WasteCodeType) []Entry {
	for _, list := range p.WasteCodes() {
		if list.Type == t {
			return list.Values
		}
	}
	return nil
}

// Parse decodes a YAML reference data document.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	for _, list := range d.Waste {
		switch list.Type {
		case domain.WasteCodeBaselAnnexIX, domain.WasteCodeOECD, domain.WasteCodeAnnexIIIA, domain.WasteCodeAnnexIIIB:
		default:
			return nil, fmt.Errorf("parse reference data: unknown waste code type %q", list.Type)
		}
	}
	return &d, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load reference data %q: %w", path, err)
	}
	return Parse(raw)
}
