package core

import "annexvii/pkg/domain"

// wasteCodeTransition classifies how a waste description edit moves the
// waste between the small and bulk families.
type wasteCodeTransition int

const (
	transitionNone wasteCodeTransition = iota
	transitionBulkToSmall
	transitionSmallToBulk
	transitionBulkToBulkType
	transitionBulkToBulkCode
)

func (t wasteCodeTransition) String() string {
	switch t {
	case transitionBulkToSmall:
		return "bulk_to_small"
	case transitionSmallToBulk:
		return "small_to_bulk"
	case transitionBulkToBulkType:
		return "bulk_to_bulk_type"
	case transitionBulkToBulkCode:
		return "bulk_to_bulk_code"
	default:
		return "none"
	}
}

// wasteCodeOf returns the waste code of a progressed section.
func wasteCodeOf(s WasteDescription) (domain.WasteCode, bool) {
	d, ok := s.Payload()
	if !ok || d.WasteCode == nil || d.WasteCode.Type == "" {
		return domain.WasteCode{}, false
	}
	return *d.WasteCode, true
}

// classifyWasteCodeTransition reports which of the four exclusive waste code
// transitions the edit represents. Both sides must have started and carry a
// waste code type.
func classifyWasteCodeTransition(current, next WasteDescription) wasteCodeTransition {
	oldCode, ok := wasteCodeOf(current)
	if !ok {
		return transitionNone
	}
	newCode, ok := wasteCodeOf(next)
	if !ok {
		return transitionNone
	}
	oldSmall, newSmall := oldCode.Type.IsSmall(), newCode.Type.IsSmall()
	switch {
	case !oldSmall && newSmall:
		return transitionBulkToSmall
	case oldSmall && !newSmall:
		return transitionSmallToBulk
	case !oldSmall && !newSmall && oldCode.Type != newCode.Type:
		return transitionBulkToBulkType
	case !oldSmall && oldCode.Type == newCode.Type && oldCode.Code != newCode.Code:
		return transitionBulkToBulkCode
	}
	return transitionNone
}

// isBulkSmallSwitch is the submission-only predicate used for the waste
// quantity reset. Bulk to bulk edits never reset the quantity.
func isBulkSmallSwitch(current, next WasteDescription) bool {
	oldCode, ok := wasteCodeOf(current)
	if !ok {
		return false
	}
	newCode, ok := wasteCodeOf(next)
	if !ok {
		return false
	}
	return oldCode.Type.IsSmall() != newCode.Type.IsSmall()
}

// transportFor derives the carriers transport flag from the waste description:
// transport details are collected unless the waste is small.
func transportFor(wd WasteDescription) bool {
	code, ok := wasteCodeOf(wd)
	return !ok || !code.Type.IsSmall()
}
