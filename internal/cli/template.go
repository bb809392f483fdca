package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"annexvii/internal/core"
	"annexvii/pkg/domain"

	"github.com/spf13/cobra"
)

func templateCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Manage reusable submission templates",
	}
	cmd.AddCommand(
		templateCreateCmd(rt),
		templateShowCmd(rt),
		templateListCmd(rt),
		templateDeleteCmd(rt),
	)
	return cmd
}

func templateCreateCmd(rt *runtime) *cobra.Command {
	var description, fromSubmission, fromTemplate string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a template, empty or copied from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromSubmission != "" && fromTemplate != "" {
				return errors.New("--from-submission and --from-template are mutually exclusive")
			}
			return rt.with(cmd, func(app *App) error {
				var (
					tpl core.Template
					err error
				)
				ctx := cmd.Context()
				switch {
				case fromSubmission != "":
					tpl, err = app.Service.CreateTemplateFromSubmission(ctx, rt.account, fromSubmission, args[0], description)
				case fromTemplate != "":
					tpl, err = app.Service.CreateTemplateFromTemplate(ctx, rt.account, fromTemplate, args[0], description)
				default:
					tpl, err = app.Service.CreateTemplate(ctx, rt.account, args[0], description)
				}
				if err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Created template %s (%s)", tpl.ID, tpl.TemplateDetails.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Template description")
	cmd.Flags().StringVar(&fromSubmission, "from-submission", "", "Copy sections from this submission")
	cmd.Flags().StringVar(&fromTemplate, "from-template", "", "Copy sections from this template")
	return cmd
}

func templateShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a template as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				tpl, err := app.Service.GetTemplate(cmd.Context(), rt.account, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tpl)
			})
		},
	}
}

func templateListCmd(rt *runtime) *cobra.Command {
	var (
		order  string
		limit  int
		token  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := domain.ListOptions{Order: domain.SortOrder(order), PageLimit: limit, Token: token}
			return rt.with(cmd, func(app *App) error {
				page, err := app.Service.ListTemplates(cmd.Context(), rt.account, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), page)
				}
				return printTemplatePage(cmd.OutOrStdout(), page)
			})
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "ASC or DESC")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&token, "page", "", "Page token from an earlier listing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")
	return cmd
}

func printTemplatePage(w io.Writer, page core.TemplatePage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tMODIFIED")
	for _, t := range page.Values {
		d := t.TemplateDetails
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, d.Name, d.Description, d.LastModified.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d of %d, %d templates\n", page.CurrentPage, page.TotalPages, page.TotalRecords)
	return nil
}

func templateDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.with(cmd, func(app *App) error {
				if err := app.Service.DeleteTemplate(cmd.Context(), rt.account, args[0]); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Deleted template %s", args[0])
				return nil
			})
		},
	}
}
