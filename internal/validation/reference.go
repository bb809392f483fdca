package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	referenceMinLength = 1
	referenceMaxLength = 20
)

var referencePattern = regexp.MustCompile(`^[a-zA-Z0-9\\/\-\s]*$`)

// CustomerReference trims raw and checks it against the reference rules.
func CustomerReference(raw string) (string, *FieldFormatError) {
	ref := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(ref)
	switch {
	case n < referenceMinLength:
		return "", fieldError(FieldCustomerReference, msgReferenceEmpty)
	case n > referenceMaxLength:
		return "", fieldError(FieldCustomerReference, msgReferenceTooLong)
	case !referencePattern.MatchString(ref):
		return "", fieldError(FieldCustomerReference, msgReferenceInvalid)
	}
	return ref, nil
}
