package validation

import (
	"context"
	"encoding/json"

	"annexvii/internal/referencedata"
	"annexvii/pkg/domain"

	"golang.org/x/sync/errgroup"
)

// firstDataRow is the spreadsheet row of the first uploaded record: rows
// are 1-based and the first row is a header.
const firstDataRow = 2

// Row is one flattened upload record.
type Row struct {
	CustomerReference string `json:"reference"`
	WasteDescriptionInput
	WasteQuantityInput
}

// ValidatedRow holds the typed sections parsed from a valid Row.
type ValidatedRow struct {
	Reference        string                      `json:"reference"`
	WasteDescription domain.WasteDescriptionData `json:"wasteDescription"`
	WasteQuantity    domain.WasteQuantityData    `json:"wasteQuantity"`
}

// RowErrors lists everything wrong with one row.
type RowErrors struct {
	Index                  int                                `json:"index"`
	FieldFormatErrors      []FieldFormatError                 `json:"fieldFormatErrors"`
	InvalidStructureErrors []InvalidAttributeCombinationError `json:"invalidStructureErrors"`
}

func (e RowErrors) empty() bool {
	return len(e.FieldFormatErrors) == 0 && len(e.InvalidStructureErrors) == 0
}

// Result aggregates a batch. When Valid, Rows holds a parsed value per
// input row in order; otherwise Errors holds one entry per failing row.
type Result struct {
	Valid  bool
	Rows   []ValidatedRow
	Errors []RowErrors
}

// MarshalJSON renders {valid, values} where values carries either the
// parsed rows or the row errors.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Valid  bool `json:"valid"`
		Values any  `json:"values"`
	}
	if r.Valid {
		rows := r.Rows
		if rows == nil {
			rows = []ValidatedRow{}
		}
		return json.Marshal(wire{Valid: true, Values: rows})
	}
	return json.Marshal(wire{Valid: false, Values: r.Errors})
}

// Validator validates upload rows against reference data.
type Validator struct {
	ref     referencedata.Provider
	workers int
}

// New returns a Validator evaluating up to workers rows at once.
func New(ref referencedata.Provider, workers int) *Validator {
	if ref == nil {
		ref = referencedata.Empty()
	}
	if workers < 1 {
		workers = 1
	}
	return &Validator{ref: ref, workers: workers}
}

// ValidateRow checks a single row. index is reported in any errors.
func (v *Validator) ValidateRow(index int, row Row) (ValidatedRow, RowErrors) {
	errs := RowErrors{
		Index:                  index,
		FieldFormatErrors:      []FieldFormatError{},
		InvalidStructureErrors: []InvalidAttributeCombinationError{},
	}
	ref, ferr := CustomerReference(row.CustomerReference)
	if ferr != nil {
		errs.FieldFormatErrors = append(errs.FieldFormatErrors, *ferr)
	}
	wd, wdErr := WasteDescription(row.WasteDescriptionInput, v.ref)
	if wdErr != nil {
		errs.FieldFormatErrors = append(errs.FieldFormatErrors, *wdErr)
	}
	wq, wqErr := WasteQuantity(row.WasteQuantityInput)
	if wqErr != nil {
		errs.FieldFormatErrors = append(errs.FieldFormatErrors, *wqErr)
	}
	if wdErr == nil && wqErr == nil {
		if cerr := CrossSection(wd, wq); cerr != nil {
			errs.InvalidStructureErrors = append(errs.InvalidStructureErrors, *cerr)
		}
	}
	if !errs.empty() {
		return ValidatedRow{}, errs
	}
	return ValidatedRow{Reference: ref, WasteDescription: wd, WasteQuantity: wq}, errs
}

// ValidateSubmissions validates rows concurrently. Rows are independent, so
// the result is the same as a sequential pass; only ctx cancellation
// produces an error.
func (v *Validator) ValidateSubmissions(ctx context.Context, rows []Row) (Result, error) {
	parsed := make([]ValidatedRow, len(rows))
	failed := make([]RowErrors, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i], failed[i] = v.ValidateRow(i+firstDataRow, rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var errs []RowErrors
	for _, e := range failed {
		if !e.empty() {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}, nil
	}
	return Result{Valid: true, Rows: parsed}, nil
}
