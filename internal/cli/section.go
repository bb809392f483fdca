package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"annexvii/internal/core"
	"annexvii/internal/payload"
	"annexvii/pkg/domain"

	"github.com/spf13/cobra"
)

func sectionCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Read and write the sections of a submission or template",
	}
	cmd.AddCommand(sectionSetCmd(rt), sectionShowCmd(rt))
	return cmd
}

func docRef(account, id string, template bool) core.DocumentRef {
	if template {
		return core.TemplateRef(account, id)
	}
	return core.SubmissionRef(account, id)
}

func sectionSetCmd(rt *runtime) *cobra.Command {
	var template bool
	cmd := &cobra.Command{
		Use:   "set <document> <section> <json-file>",
		Short: "Replace a section from a JSON body",
		Long: `Replace one section of a submission, or of a template with --template.
The body is checked against the section schema first. Use "-" to read stdin.

Carrier and recovery facility entries are matched by id: entries with an id
the document already holds are replaced, others are appended. A NotStarted
body clears the collection.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBody(cmd.InOrStdin(), args[2])
			if err != nil {
				return err
			}
			ref := docRef(rt.account, args[0], template)
			section := payload.Section(args[1])
			return rt.with(cmd, func(app *App) error {
				if err := setSection(cmd.Context(), app, ref, section, raw); err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "Updated %s of %s", section, ref)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, "The document is a template")
	return cmd
}

func readBody(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func submissionOnly(ref core.DocumentRef, section payload.Section) error {
	if ref.Kind != core.DocumentSubmission {
		return domain.BadRequestError("%s is not part of a template", section)
	}
	return nil
}

func setSection(ctx context.Context, app *App, ref core.DocumentRef, section payload.Section, raw []byte) error {
	svc, d := app.Service, app.Decoder
	switch section {
	case payload.WasteDescription:
		v, err := payload.Decode[core.WasteDescription](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetWasteDescription(ctx, ref, v)
	case payload.ExporterDetail:
		v, err := payload.Decode[core.ExporterDetail](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetExporterDetail(ctx, ref, v)
	case payload.ImporterDetail:
		v, err := payload.Decode[core.ImporterDetail](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetImporterDetail(ctx, ref, v)
	case payload.CollectionDetail:
		v, err := payload.Decode[core.CollectionDetail](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetCollectionDetail(ctx, ref, v)
	case payload.UkExitLocation:
		v, err := payload.Decode[core.ExitLocation](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetExitLocation(ctx, ref, v)
	case payload.TransitCountries:
		v, err := payload.Decode[core.TransitCountries](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetTransitCountries(ctx, ref, v)
	case payload.Carriers:
		v, err := payload.Decode[core.Carriers](d, section, raw)
		if err != nil {
			return err
		}
		return upsertCarriers(ctx, svc, ref, v)
	case payload.RecoveryFacilityDetail:
		v, err := payload.Decode[core.RecoveryFacilityDetail](d, section, raw)
		if err != nil {
			return err
		}
		return upsertRecoveryFacilities(ctx, svc, ref, v)
	case payload.WasteQuantity:
		if err := submissionOnly(ref, section); err != nil {
			return err
		}
		v, err := payload.Decode[core.WasteQuantity](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetWasteQuantity(ctx, ref.AccountID, ref.ID, v)
	case payload.CollectionDate:
		if err := submissionOnly(ref, section); err != nil {
			return err
		}
		v, err := payload.Decode[core.CollectionDate](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetCollectionDate(ctx, ref.AccountID, ref.ID, v)
	case payload.SubmissionConfirmation:
		if err := submissionOnly(ref, section); err != nil {
			return err
		}
		v, err := payload.Decode[core.SubmissionConfirmation](d, section, raw)
		if err != nil {
			return err
		}
		return svc.SetSubmissionConfirmation(ctx, ref.AccountID, ref.ID, v)
	}
	return domain.BadRequestError("unknown section %q", section)
}

// upsertCarriers replays a whole carriers body through the per-entry
// operations. Entries without a stored id get a fresh one.
func upsertCarriers(ctx context.Context, svc *core.Service, ref core.DocumentRef, body core.Carriers) error {
	if body.Status == core.StatusNotStarted {
		return svc.SetCarrier(ctx, ref, "", body)
	}
	current, err := svc.ListCarriers(ctx, ref)
	if err != nil {
		return err
	}
	for _, c := range body.Values {
		id := c.ID
		if current.Find(id) < 0 {
			if id, err = svc.CreateCarrier(ctx, ref, core.StatusStarted); err != nil {
				return err
			}
			c.ID = id
		}
		one := core.Carriers{Status: body.Status, Transport: body.Transport, Values: []core.Carrier{c}}
		if err := svc.SetCarrier(ctx, ref, id, one); err != nil {
			return err
		}
	}
	return nil
}

func upsertRecoveryFacilities(ctx context.Context, svc *core.Service, ref core.DocumentRef, body core.RecoveryFacilityDetail) error {
	if body.Status == core.StatusNotStarted {
		return svc.SetRecoveryFacility(ctx, ref, "", body)
	}
	current, err := svc.ListRecoveryFacilities(ctx, ref)
	if err != nil {
		return err
	}
	for _, r := range body.Values {
		id := r.ID
		if current.Find(id) < 0 {
			if id, err = svc.CreateRecoveryFacility(ctx, ref, core.StatusStarted); err != nil {
				return err
			}
			r.ID = id
		}
		one := core.RecoveryFacilityDetail{Status: body.Status, Values: []core.RecoveryFacility{r}}
		if err := svc.SetRecoveryFacility(ctx, ref, id, one); err != nil {
			return err
		}
	}
	return nil
}

func sectionShowCmd(rt *runtime) *cobra.Command {
	var template bool
	cmd := &cobra.Command{
		Use:   "show <document> <section>",
		Short: "Print one section as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := docRef(rt.account, args[0], template)
			return rt.with(cmd, func(app *App) error {
				v, err := getSection(cmd.Context(), app.Service, ref, payload.Section(args[1]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), v)
			})
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, "The document is a template")
	return cmd
}

func getSection(ctx context.Context, svc *core.Service, ref core.DocumentRef, section payload.Section) (any, error) {
	switch section {
	case payload.WasteDescription:
		return svc.GetWasteDescription(ctx, ref)
	case payload.ExporterDetail:
		return svc.GetExporterDetail(ctx, ref)
	case payload.ImporterDetail:
		return svc.GetImporterDetail(ctx, ref)
	case payload.CollectionDetail:
		return svc.GetCollectionDetail(ctx, ref)
	case payload.UkExitLocation:
		return svc.GetExitLocation(ctx, ref)
	case payload.TransitCountries:
		return svc.GetTransitCountries(ctx, ref)
	case payload.Carriers:
		return svc.ListCarriers(ctx, ref)
	case payload.RecoveryFacilityDetail:
		return svc.ListRecoveryFacilities(ctx, ref)
	}
	if err := submissionOnly(ref, section); err != nil {
		return nil, err
	}
	switch section {
	case payload.WasteQuantity:
		return svc.GetWasteQuantity(ctx, ref.AccountID, ref.ID)
	case payload.CollectionDate:
		return svc.GetCollectionDate(ctx, ref.AccountID, ref.ID)
	case payload.SubmissionConfirmation:
		return svc.GetSubmissionConfirmation(ctx, ref.AccountID, ref.ID)
	case "submissionDeclaration":
		return svc.GetSubmissionDeclaration(ctx, ref.AccountID, ref.ID)
	}
	return nil, fmt.Errorf("unknown section %q", section)
}
