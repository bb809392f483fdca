package domain

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// StatusSummary is a section collapsed to its status.
type StatusSummary struct {
	Status SectionStatus `json:"status"`
}

// SubmissionSummary is the listing form of a submission. Only the waste
// description, collection date, reference and lifecycle state keep their payloads.
type SubmissionSummary struct {
	ID                     string                        `json:"id"`
	Reference              string                        `json:"reference"`
	WasteDescription       Section[WasteDescriptionData] `json:"wasteDescription"`
	WasteQuantity          StatusSummary                 `json:"wasteQuantity"`
	ExporterDetail         StatusSummary                 `json:"exporterDetail"`
	ImporterDetail         StatusSummary                 `json:"importerDetail"`
	CollectionDate         Section[CollectionDateData]   `json:"collectionDate"`
	Carriers               StatusSummary                 `json:"carriers"`
	CollectionDetail       StatusSummary                 `json:"collectionDetail"`
	UkExitLocation         StatusSummary                 `json:"ukExitLocation"`
	TransitCountries       StatusSummary                 `json:"transitCountries"`
	RecoveryFacilityDetail StatusSummary                 `json:"recoveryFacilityDetail"`
	SubmissionConfirmation StatusSummary                 `json:"submissionConfirmation"`
	SubmissionDeclaration  StatusSummary                 `json:"submissionDeclaration"`
	SubmissionState        SubmissionState               `json:"submissionState"`
}

// Summarize collapses a submission into its listing form.
func (s Submission) Summarize() SubmissionSummary {
	c := s.Clone()
	return SubmissionSummary{
		ID:                     c.ID,
		Reference:              c.Reference,
		WasteDescription:       c.WasteDescription,
		WasteQuantity:          StatusSummary{c.WasteQuantity.Status()},
		ExporterDetail:         StatusSummary{c.ExporterDetail.Status()},
		ImporterDetail:         StatusSummary{c.ImporterDetail.Status()},
		CollectionDate:         c.CollectionDate,
		Carriers:               StatusSummary{c.Carriers.Status},
		CollectionDetail:       StatusSummary{c.CollectionDetail.Status()},
		UkExitLocation:         StatusSummary{c.UkExitLocation.Status()},
		TransitCountries:       StatusSummary{c.TransitCountries.Status()},
		RecoveryFacilityDetail: StatusSummary{c.RecoveryFacilityDetail.Status},
		SubmissionConfirmation: StatusSummary{c.SubmissionConfirmation.Status},
		SubmissionDeclaration:  StatusSummary{c.SubmissionDeclaration.Status},
		SubmissionState:        c.SubmissionState,
	}
}

// TemplateSummary is the listing form of a template.
type TemplateSummary struct {
	ID                     string          `json:"id"`
	TemplateDetails        TemplateDetails `json:"templateDetails"`
	WasteDescription       StatusSummary   `json:"wasteDescription"`
	ExporterDetail         StatusSummary   `json:"exporterDetail"`
	ImporterDetail         StatusSummary   `json:"importerDetail"`
	Carriers               StatusSummary   `json:"carriers"`
	CollectionDetail       StatusSummary   `json:"collectionDetail"`
	UkExitLocation         StatusSummary   `json:"ukExitLocation"`
	TransitCountries       StatusSummary   `json:"transitCountries"`
	RecoveryFacilityDetail StatusSummary   `json:"recoveryFacilityDetail"`
}

// Summarize collapses a template into its listing form.
func (t Template) Summarize() TemplateSummary {
	return TemplateSummary{
		ID:                     t.ID,
		TemplateDetails:        t.TemplateDetails,
		WasteDescription:       StatusSummary{t.WasteDescription.Status()},
		ExporterDetail:         StatusSummary{t.ExporterDetail.Status()},
		ImporterDetail:         StatusSummary{t.ImporterDetail.Status()},
		Carriers:               StatusSummary{t.Carriers.Status},
		CollectionDetail:       StatusSummary{t.CollectionDetail.Status()},
		UkExitLocation:         StatusSummary{t.UkExitLocation.Status()},
		TransitCountries:       StatusSummary{t.TransitCountries.Status()},
		RecoveryFacilityDetail: StatusSummary{t.RecoveryFacilityDetail.Status},
	}
}

// PageToken addresses one page of a listing.
type PageToken struct {
	PageNumber int    `json:"pageNumber"`
	Token      string `json:"token"`
}

// Page is one page of a listing plus the tokens addressing every page.
type Page[T any] struct {
	Values       []T         `json:"values"`
	CurrentPage  int         `json:"currentPage"`
	TotalPages   int         `json:"totalPages"`
	TotalRecords int         `json:"totalRecords"`
	Pages        []PageToken `json:"pages"`
}

const tokenPrefix = "offset:"

func encodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.Itoa(offset)))
}

func decodeToken(token string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, BadRequestError("invalid page token")
	}
	text, ok := strings.CutPrefix(string(raw), tokenPrefix)
	if !ok {
		return 0, BadRequestError("invalid page token")
	}
	offset, err := strconv.Atoi(text)
	if err != nil || offset < 0 {
		return 0, BadRequestError("invalid page token")
	}
	return offset, nil
}

// Paginate slices already ordered items into the page addressed by opts.Token.
func Paginate[T any](items []T, opts ListOptions) (Page[T], error) {
	limit := opts.PageLimit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	offset := 0
	if opts.Token != "" {
		var err error
		if offset, err = decodeToken(opts.Token); err != nil {
			return Page[T]{}, err
		}
		if offset%limit != 0 {
			return Page[T]{}, BadRequestError("page token does not match page limit %d", limit)
		}
	}
	total := len(items)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	if offset > 0 && offset >= total {
		return Page[T]{}, BadRequestError("page token out of range")
	}
	end := min(offset+limit, total)
	tokens := make([]PageToken, 0, pages)
	for i := 0; i < pages; i++ {
		tokens = append(tokens, PageToken{PageNumber: i + 1, Token: encodeToken(i * limit)})
	}
	return Page[T]{
		Values:       slices.Clone(items[offset:end]),
		CurrentPage:  offset/limit + 1,
		TotalPages:   pages,
		TotalRecords: total,
		Pages:        tokens,
	}, nil
}

// SortSubmissions orders submissions by state timestamp, breaking ties by id.
func SortSubmissions(list []Submission, order SortOrder) {
	slices.SortStableFunc(list, func(a, b Submission) int {
		return compareStamped(a.SubmissionState.Timestamp, b.SubmissionState.Timestamp, a.ID, b.ID, order)
	})
}

// SortTemplates orders templates by last modification, breaking ties by id.
func SortTemplates(list []Template, order SortOrder) {
	slices.SortStableFunc(list, func(a, b Template) int {
		return compareStamped(a.TemplateDetails.LastModified, b.TemplateDetails.LastModified, a.ID, b.ID, order)
	})
}

func compareStamped(ta, tb time.Time, ida, idb string, order SortOrder) int {
	c := ta.Compare(tb)
	if c == 0 {
		c = strings.Compare(ida, idb)
	}
	if order == OrderDescending {
		return -c
	}
	return c
}

// MatchesStates reports whether the submission is listed under the filter.
// Hidden states are never listed.
func MatchesStates(s Submission, states []SubmissionStatus) bool {
	if s.SubmissionState.Status.Hidden() {
		return false
	}
	if len(states) == 0 {
		return true
	}
	return slices.Contains(states, s.SubmissionState.Status)
}

// ValidateOrder normalizes an order flag, defaulting to descending.
func ValidateOrder(order SortOrder) (SortOrder, error) {
	switch SortOrder(strings.ToUpper(string(order))) {
	case "":
		return OrderDescending, nil
	case OrderAscending:
		return OrderAscending, nil
	case OrderDescending:
		return OrderDescending, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", ErrBadRequest, order)
}
