package validation

import "annexvii/pkg/domain"

// CrossSection checks a validated description against a validated
// quantity. Bulk waste may not be measured in kilograms.
func CrossSection(wd domain.WasteDescriptionData, wq domain.WasteQuantityData) *InvalidAttributeCombinationError {
	if wd.WasteCode == nil || wd.WasteCode.Type.IsSmall() {
		return nil
	}
	if quantityUnit(wq) != domain.UnitKilogram {
		return nil
	}
	return &InvalidAttributeCombinationError{
		Fields:  []string{FieldWasteDescription, FieldWasteQuantity},
		Message: msgLaboratoryUnit,
	}
}
