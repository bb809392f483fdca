package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"annexvii/internal/referencedata"
	"annexvii/pkg/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	maxEWCCodes          = 5
	descriptionMaxLength = 100
)

var (
	ewcPattern          = regexp.MustCompile(`^\d{6}$`)
	nationalCodePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-]{1,15}$`)
)

// WasteDescriptionInput is the waste description part of an upload row.
// Exactly one of the code fields or an affirmative Laboratory cell (yes, y or
// true, any case) is expected.
type WasteDescriptionInput struct {
	BaselAnnexIXCode string `json:"baselAnnexIXCode,omitempty"`
	OECDCode         string `json:"oecdCode,omitempty"`
	AnnexIIIACode    string `json:"annexIIIACode,omitempty"`
	AnnexIIIBCode    string `json:"annexIIIBCode,omitempty"`
	Laboratory       string `json:"laboratory,omitempty"`
	EWCCodes         string `json:"ewcCodes,omitempty"`
	NationalCode     string `json:"nationalCode,omitempty"`
	Description      string `json:"wasteDescription,omitempty"`
}

type codeField struct {
	family domain.WasteCodeType
	label  string
	raw    string
}

func (in WasteDescriptionInput) codes() []codeField {
	all := []codeField{
		{domain.WasteCodeBaselAnnexIX, "Basel Annex IX", in.BaselAnnexIXCode},
		{domain.WasteCodeOECD, "OECD", in.OECDCode},
		{domain.WasteCodeAnnexIIIA, "Annex IIIA", in.AnnexIIIACode},
		{domain.WasteCodeAnnexIIIB, "Annex IIIB", in.AnnexIIIBCode},
	}
	set := all[:0]
	for _, c := range all {
		if strings.TrimSpace(c.raw) != "" {
			set = append(set, c)
		}
	}
	return set
}

// affirmative reports whether a yes/no cell says yes. Blank, "No" and any
// other text read as no.
func affirmative(v string) bool {
	v = strings.TrimSpace(v)
	for _, yes := range []string{"yes", "y", "true"} {
		if strings.EqualFold(v, yes) {
			return true
		}
	}
	return false
}

// WasteDescription validates in against ref and builds the section payload.
func WasteDescription(in WasteDescriptionInput, ref referencedata.Provider) (domain.WasteDescriptionData, *FieldFormatError) {
	codes := in.codes()
	laboratory := affirmative(in.Laboratory)
	switch {
	case laboratory && len(codes) > 0:
		return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgCodeLaboratory)
	case !laboratory && len(codes) == 0:
		return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgCodeEmpty)
	case len(codes) > 1:
		return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgCodeTooMany)
	}

	var out domain.WasteDescriptionData
	if laboratory {
		out.WasteCode = &domain.WasteCode{Type: domain.WasteCodeNotApplicable}
	} else {
		wc, ferr := matchWasteCode(codes[0], ref)
		if ferr != nil {
			return domain.WasteDescriptionData{}, ferr
		}
		out.WasteCode = &wc
	}

	ewc, ferr := ewcCodes(in.EWCCodes, ref)
	if ferr != nil {
		return domain.WasteDescriptionData{}, ferr
	}
	out.EWCCodes = ewc

	national := strings.TrimSpace(in.NationalCode)
	if national == "" {
		out.NationalCode = &domain.OptionalValue{Provided: domain.No}
	} else {
		if !nationalCodePattern.MatchString(national) {
			return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgNationalCodeInvalid)
		}
		out.NationalCode = &domain.OptionalValue{Provided: domain.Yes, Value: national}
	}

	desc := strings.TrimSpace(in.Description)
	switch n := utf8.RuneCountInString(desc); {
	case n == 0:
		return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgDescriptionEmpty)
	case n > descriptionMaxLength:
		return domain.WasteDescriptionData{}, fieldError(FieldWasteDescription, msgDescriptionTooLong)
	}
	out.Description = desc
	return out, nil
}

// matchWasteCode requires exactly one reference entry of the family to
// match the normalized input.
func matchWasteCode(c codeField, ref referencedata.Provider) (domain.WasteCode, *FieldFormatError) {
	want := normalizeCode(c.raw)
	var matches []string
	for _, entry := range referencedata.WasteCodesFor(ref, c.family) {
		if normalizeCode(entry.Code) == want {
			matches = append(matches, entry.Code)
		}
	}
	if len(matches) != 1 {
		return domain.WasteCode{}, fieldError(FieldWasteDescription, invalidCodeMessage(c.label))
	}
	return domain.WasteCode{Type: c.family, Code: matches[0]}, nil
}

func ewcCodes(raw string, ref referencedata.Provider) ([]domain.EWCCode, *FieldFormatError) {
	var parts []string
	for _, p := range strings.Split(raw, ";") {
		if p = stripSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) == 0:
		return nil, fieldError(FieldWasteDescription, msgEWCEmpty)
	case len(parts) > maxEWCCodes:
		return nil, fieldError(FieldWasteDescription, msgEWCTooMany)
	}
	known := make(map[string]struct{}, len(ref.EWCCodes()))
	for _, e := range ref.EWCCodes() {
		known[stripSpace(e.Code)] = struct{}{}
	}
	out := make([]domain.EWCCode, 0, len(parts))
	for _, p := range parts {
		if !ewcPattern.MatchString(p) {
			return nil, fieldError(FieldWasteDescription, msgEWCInvalid)
		}
		if _, ok := known[p]; !ok {
			return nil, fieldError(FieldWasteDescription, msgEWCInvalid)
		}
		out = append(out, domain.EWCCode{Code: p})
	}
	return out, nil
}

// normalizeCode folds a waste code to a comparable key: NFKC, ";" read as
// the " and " joiner, whitespace removed, upper case. Casers are stateful,
// so each call builds its own.
func normalizeCode(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, ";", " and ")
	return cases.Upper(language.Und).String(stripSpace(s))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
