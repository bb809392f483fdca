// Package validation checks flattened bulk-upload rows and turns them into
// typed section values. Validators never fail with a Go error for bad input;
// they return a FieldFormatError or InvalidAttributeCombinationError instead.
package validation

import (
	"fmt"
	"strings"
)

// Field names used in validation errors.
const (
	FieldCustomerReference = "CustomerReference"
	FieldWasteDescription  = "WasteDescription"
	FieldWasteQuantity     = "WasteQuantity"
)

// FieldFormatError reports one invalid field.
type FieldFormatError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldFormatError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// InvalidAttributeCombinationError reports fields that are individually
// valid but inconsistent with each other.
type InvalidAttributeCombinationError struct {
	Fields  []string `json:"fields"`
	Message string   `json:"message"`
}

func (e *InvalidAttributeCombinationError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, "+"), e.Message)
}

func fieldError(field, message string) *FieldFormatError {
	return &FieldFormatError{Field: field, Message: message}
}

// Message catalogue.
const (
	msgReferenceEmpty   = "Enter a unique reference"
	msgReferenceTooLong = "The unique reference must be 20 characters or less"
	msgReferenceInvalid = "The unique reference must only include letters a to z, numbers, spaces, hyphens and back slashes"

	msgCodeEmpty      = "Enter a waste code, or state that the waste is being sent to a laboratory"
	msgCodeTooMany    = "Enter only one waste code type"
	msgCodeLaboratory = "Do not enter a waste code when the waste is being sent to a laboratory"

	msgEWCEmpty   = "Enter at least one EWC code"
	msgEWCTooMany = "Enter no more than 5 EWC codes"
	msgEWCInvalid = "Enter the EWC codes in the correct format, for example 010101"

	msgNationalCodeInvalid = "The national code must be 15 characters or less and only include letters, numbers, spaces and hyphens"

	msgDescriptionEmpty   = "Enter the waste description"
	msgDescriptionTooLong = "The waste description must be 100 characters or less"

	msgQuantityEmpty       = "Enter the waste quantity in tonnes, cubic metres or kilograms"
	msgQuantityTooMany     = "Enter the waste quantity in one unit only"
	msgQuantityMissingType = "Enter whether the waste quantity is actual or estimated"
	msgQuantityInvalid     = "Enter the waste quantity as a number with up to 2 decimal places"
	msgQuantityBulkRange   = "The waste quantity in tonnes or cubic metres must be more than 0 and less than 1,000,000,000,000,000"
	msgQuantitySmallRange  = "The waste quantity in kilograms must be more than 0 and no more than 25"

	msgLaboratoryUnit = "Bulk waste must be reported in tonnes or cubic metres, kilograms are only for waste sent to a laboratory"
)

// invalidCodeMessage names the code family that failed to match.
func invalidCodeMessage(family string) string {
	return fmt.Sprintf("Enter the %s code in the correct format", family)
}
