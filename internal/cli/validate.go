package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"annexvii/internal/validation"

	"github.com/spf13/cobra"
)

// csvColumns maps normalized upload headers to the Row field they fill.
var csvColumns = map[string]func(*validation.Row, string){
	"reference":                      func(r *validation.Row, v string) { r.CustomerReference = v },
	"baselannexixcode":               func(r *validation.Row, v string) { r.BaselAnnexIXCode = v },
	"oecdcode":                       func(r *validation.Row, v string) { r.OECDCode = v },
	"annexiiiacode":                  func(r *validation.Row, v string) { r.AnnexIIIACode = v },
	"annexiiibcode":                  func(r *validation.Row, v string) { r.AnnexIIIBCode = v },
	"laboratory":                     func(r *validation.Row, v string) { r.Laboratory = v },
	"ewccodes":                       func(r *validation.Row, v string) { r.EWCCodes = v },
	"nationalcode":                   func(r *validation.Row, v string) { r.NationalCode = v },
	"wastedescription":               func(r *validation.Row, v string) { r.Description = v },
	"wastequantitytonnes":            func(r *validation.Row, v string) { r.QuantityTonnes = v },
	"wastequantitycubicmetres":       func(r *validation.Row, v string) { r.QuantityCubicMetres = v },
	"wastequantitykilograms":         func(r *validation.Row, v string) { r.QuantityKilograms = v },
	"estimatedoractualwastequantity": func(r *validation.Row, v string) { r.QuantityType = v },
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(h)))
}

// ReadRows parses an upload with a header row into validation rows.
// Blank lines are skipped.
func ReadRows(r io.Reader) ([]validation.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	setters := make([]func(*validation.Row, string), len(header))
	for i, h := range header {
		set, ok := csvColumns[normalizeHeader(h)]
		if !ok {
			return nil, fmt.Errorf("csv: unknown column %q", h)
		}
		setters[i] = set
	}

	var rows []validation.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		var row validation.Row
		for i, v := range record {
			if i < len(setters) {
				setters[i](&row, v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateCmd(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <csv>",
		Short: "Validate a bulk upload file",
		Long: `Validate every row of a bulk upload CSV against the configured
reference data. The first line must name the columns. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			rows, err := ReadRows(in)
			if err != nil {
				return err
			}
			return rt.with(cmd, func(app *App) error {
				res, err := app.Service.ValidateSubmissions(cmd.Context(), rt.account, rows)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					if err := printJSON(out, res); err != nil {
						return err
					}
				} else {
					printResult(out, res, len(rows))
				}
				if !res.Valid {
					return fmt.Errorf("%d of %d rows failed validation", len(res.Errors), len(rows))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func printResult(w io.Writer, res validation.Result, total int) {
	if res.Valid {
		printOK(w, "%d rows valid", total)
		return
	}
	for _, row := range res.Errors {
		for _, fe := range row.FieldFormatErrors {
			printFail(w, "row %d: %s: %s", row.Index, fe.Field, fe.Message)
		}
		for _, se := range row.InvalidStructureErrors {
			printFail(w, "row %d: %s: %s", row.Index, strings.Join(se.Fields, "+"), se.Message)
		}
	}
}
