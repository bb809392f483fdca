package validation

import (
	"regexp"
	"strings"

	"annexvii/pkg/domain"

	"github.com/shopspring/decimal"
)

var (
	quantityPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

	bulkMax  = decimal.New(1, 15) // exclusive
	smallMax = decimal.NewFromInt(25)
)

// WasteQuantityInput is the waste quantity part of an upload row. Exactly
// one of the unit fields is expected; QuantityType reads "actual" or
// "estimate".
type WasteQuantityInput struct {
	QuantityTonnes      string `json:"wasteQuantityTonnes,omitempty"`
	QuantityCubicMetres string `json:"wasteQuantityCubicMetres,omitempty"`
	QuantityKilograms   string `json:"wasteQuantityKilograms,omitempty"`
	QuantityType        string `json:"estimatedOrActualWasteQuantity,omitempty"`
}

type unitField struct {
	unit domain.QuantityUnit
	kind domain.QuantityType
	raw  string
}

// WasteQuantity validates in and builds the section payload.
func WasteQuantity(in WasteQuantityInput) (domain.WasteQuantityData, *FieldFormatError) {
	var set []unitField
	for _, u := range []unitField{
		{domain.UnitTonne, domain.QuantityWeight, in.QuantityTonnes},
		{domain.UnitCubicMetre, domain.QuantityVolume, in.QuantityCubicMetres},
		{domain.UnitKilogram, domain.QuantityWeight, in.QuantityKilograms},
	} {
		if u.raw = strings.TrimSpace(u.raw); u.raw != "" {
			set = append(set, u)
		}
	}
	switch {
	case len(set) == 0:
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityEmpty)
	case len(set) > 1:
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityTooMany)
	}
	chosen := set[0]

	var kind domain.QuantityKind
	switch strings.ToLower(strings.TrimSpace(in.QuantityType)) {
	case "actual":
		kind = domain.QuantityActual
	case "estimate":
		kind = domain.QuantityEstimate
	default:
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityMissingType)
	}

	if !quantityPattern.MatchString(chosen.raw) {
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityInvalid)
	}
	value, err := decimal.NewFromString(chosen.raw)
	if err != nil {
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityInvalid)
	}
	if chosen.unit == domain.UnitKilogram {
		if !value.IsPositive() || value.GreaterThan(smallMax) {
			return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantitySmallRange)
		}
	} else if !value.IsPositive() || !value.LessThan(bulkMax) {
		return domain.WasteQuantityData{}, fieldError(FieldWasteQuantity, msgQuantityBulkRange)
	}

	q := &domain.Quantity{QuantityType: chosen.kind, Unit: chosen.unit, Value: value}
	out := domain.WasteQuantityData{Type: kind}
	if kind == domain.QuantityActual {
		out.ActualData = q
	} else {
		out.EstimateData = q
	}
	return out, nil
}

// quantityUnit returns the unit recorded in d.
func quantityUnit(d domain.WasteQuantityData) domain.QuantityUnit {
	if d.ActualData != nil {
		return d.ActualData.Unit
	}
	if d.EstimateData != nil {
		return d.EstimateData.Unit
	}
	return ""
}
