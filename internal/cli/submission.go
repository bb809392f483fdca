package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"annexvii/internal/core"
	"annexvii/pkg/domain"

	"github.com/spf13/cobra"
)

func submissionCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submission",
		Aliases: []string{"sub"},
		Short:   "Create, inspect and close out submissions",
	}
	cmd.AddCommand(
		submissionCreateCmd(rt),
		submissionShowCmd(rt),
		submissionListCmd(rt),
		submissionDeleteCmd(rt),
		submissionCancelCmd(rt),
		submissionConfirmCmd(rt),
		submissionDeclareCmd(rt),
	)
	return cmd
}

func submissionCreateCmd(rt *runtime) *cobra.Command {
	var templateID string
	cmd := &cobra.Command{
		Use:   "create <reference>",
		Short: "Start a submission, optionally from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				var (
					sub core.Submission
					err error
				)
				if templateID != "" {
					sub, err = app.Service.CreateSubmissionFromTemplate(cmd.Context(), rt.account, templateID, args[0])
				} else {
					sub, err = app.Service.CreateSubmission(cmd.Context(), rt.account, args[0])
				}
				if err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Created submission %s (%s)", sub.ID, sub.Reference)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&templateID, "template", "", "Copy sections from this template")
	return cmd
}

func submissionShowCmd(rt *runtime) *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a submission as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				var (
					sub core.Submission
					err error
				)
				if archived {
					sub, err = app.Service.ArchivedSubmission(cmd.Context(), rt.account, args[0])
				} else {
					sub, err = app.Service.GetSubmission(cmd.Context(), rt.account, args[0])
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sub)
			})
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "Read the archived copy of a declared submission")
	return cmd
}

func submissionListCmd(rt *runtime) *cobra.Command {
	var (
		order  string
		limit  int
		token  string
		states []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := domain.ListOptions{Order: domain.SortOrder(order), PageLimit: limit, Token: token}
			for _, s := range states {
				opts.States = append(opts.States, domain.SubmissionStatus(s))
			}
			return rt.with(cmd, func(app *App) error {
				page, err := app.Service.ListSubmissions(cmd.Context(), rt.account, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), page)
				}
				return printSubmissionPage(cmd.OutOrStdout(), page)
			})
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "ASC or DESC")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&token, "page", "", "Page token from an earlier listing")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Only list these lifecycle states")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	return cmd
}

func printSubmissionPage(w io.Writer, page core.SubmissionPage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREFERENCE\tSTATE\tUPDATED")
	for _, s := range page.Values {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Reference, s.SubmissionState.Status, s.SubmissionState.Timestamp.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d of %d, %d submissions\n", page.CurrentPage, page.TotalPages, page.TotalRecords)
	return nil
}

func submissionDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an in-progress submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				if err := app.Service.DeleteSubmission(cmd.Context(), rt.account, args[0]); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Deleted submission %s", args[0])
				return nil
			})
		},
	}
}

func submissionCancelCmd(rt *runtime) *cobra.Command {
	var reasonType, reason string
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a submission",
		Long: `Cancel a submission. --type is one of CancelledByExporter,
IncorrectInformation, ChangeOfRecoveryFacilityOrLaboratory or Other;
Other requires --reason.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				c := domain.Cancellation{Type: domain.CancellationReason(reasonType), Reason: reason}
				if err := app.Service.CancelSubmission(cmd.Context(), rt.account, args[0], c); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Cancelled submission %s", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reasonType, "type", string(domain.CancelledByExporter), "Cancellation type")
	cmd.Flags().StringVar(&reason, "reason", "", "Free text reason")
	return cmd
}

func submissionConfirmCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm the answers of a completed submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				value := domain.SubmissionConfirmation{Status: domain.StatusComplete, Confirmation: true}
				if err := app.Service.SetSubmissionConfirmation(cmd.Context(), rt.account, args[0], value); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Confirmed submission %s", args[0])
				return nil
			})
		},
	}
}

func submissionDeclareCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "declare <id>",
		Short: "Declare a confirmed submission and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				sub, err := app.Service.SetSubmissionDeclaration(cmd.Context(), rt.account, args[0], domain.StatusComplete)
				if err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Submitted %s as %s, transaction %s",
					sub.ID, sub.SubmissionState.Status, sub.SubmissionDeclaration.Values.TransactionID)
				return nil
			})
		},
	}
}
