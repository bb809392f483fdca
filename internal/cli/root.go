package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// DefaultAccount is used when neither --account nor ANNEXVII_ACCOUNT is set.
const DefaultAccount = "local"

type runtime struct {
	open    Opener
	account string
}

// NewRootCmd returns the annexvii command tree. Each command opens its App
// through open and closes it before returning.
func NewRootCmd(open Opener) *cobra.Command {
	rt := &runtime{open: open}
	root := &cobra.Command{
		Use:   "annexvii",
		Short: "Manage Annex VII waste export submissions and templates",
		Long: `annexvii drafts, validates and declares Annex VII waste export records.

Storage, archive and observability are configured through ANNEXVII_*
environment variables or the YAML profile named by ANNEXVII_CONFIG_FILE.`,
		SilenceUsage: true,
	}
	account := os.Getenv("ANNEXVII_ACCOUNT")
	if account == "" {
		account = DefaultAccount
	}
	root.PersistentFlags().StringVar(&rt.account, "account", account, "Account the documents belong to")

	root.AddCommand(validateCmd(rt))
	root.AddCommand(submissionCmd(rt))
	root.AddCommand(templateCmd(rt))
	root.AddCommand(sectionCmd(rt))
	return root
}

// with opens the App, runs fn and closes the App.
func (rt *runtime) with(cmd *cobra.Command, fn func(app *App) error) (err error) {
	app, err := rt.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app)
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark, fmt.Sprintf(format, args...))
}

func printFail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", failMark, fmt.Sprintf(format, args...))
}
