package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"annexvii/pkg/domain"
)

const (
	maxTemplateNameLength        = 50
	maxTemplateDescriptionLength = 100
)

var templateNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_'.,&()/]+$`)

// ValidateTemplateDetails trims and checks a template name and description.
func ValidateTemplateDetails(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case name == "":
		return "", "", domain.BadRequestError("template name is required")
	case utf8.RuneCountInString(name) > maxTemplateNameLength:
		return "", "", domain.BadRequestError("template name must be %d characters or less", maxTemplateNameLength)
	case !templateNamePattern.MatchString(name):
		return "", "", domain.BadRequestError("template name contains invalid characters")
	case utf8.RuneCountInString(description) > maxTemplateDescriptionLength:
		return "", "", domain.BadRequestError("template description must be %d characters or less", maxTemplateDescriptionLength)
	}
	return name, description, nil
}
