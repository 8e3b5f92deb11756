package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/oppboard/pkg/market"
)

// draftFlags are the listing form fields as command flags.
var draftFlags = []struct {
	name  string
	usage string
	field func(d *market.Draft) *string
}{
	{"title", "listing title", func(d *market.Draft) *string { return &d.Title }},
	{"org", "organization (defaults to your profile's)", func(d *market.Draft) *string { return &d.Organization }},
	{"type", "internship, competition, scholarship or program", func(d *market.Draft) *string { return &d.Type }},
	{"location", "location", func(d *market.Draft) *string { return &d.Location }},
	{"deadline", "deadline as 2006-01-02T15:04 (local time)", func(d *market.Draft) *string { return &d.Deadline }},
	{"stipend", "stipend or prize", func(d *market.Draft) *string { return &d.Stipend }},
	{"eligibility", "who may apply", func(d *market.Draft) *string { return &d.Eligibility }},
	{"description", "description", func(d *market.Draft) *string { return &d.Description }},
	{"apply-link", "application URL", func(d *market.Draft) *string { return &d.ApplyLink }},
}

func addDraftFlags(cmd *cobra.Command) {
	for _, f := range draftFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyDraftFlags copies the flags given on the command line onto d. Flags
// left out keep the draft's value, so edit only touches what was passed.
func applyDraftFlags(cmd *cobra.Command, d *market.Draft) {
	for _, f := range draftFlags {
		if cmd.Flags().Changed(f.name) {
			v, _ := cmd.Flags().GetString(f.name)
			*f.field(d) = v
		}
	}
}

func providerSession(cmd *cobra.Command) (*market.Session, func(), error) {
	s, c, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		s.Close()
		_ = c.Close()
	}
	if err := requireProvider(s); err != nil {
		done()
		return nil, nil, err
	}
	return s, done, nil
}

func ListingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "List your own listings, active or not",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := providerSession(cmd)
			if err != nil {
				return err
			}
			defer done()

			return renderCards(cmd.OutOrStdout(), s.Listings(), nil)
		},
	}
}

func PostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a new listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := providerSession(cmd)
			if err != nil {
				return err
			}
			defer done()

			d := s.OpenCreate()
			applyDraftFlags(cmd, &d)
			o, err := s.Submit(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s %s\n", typeBadge(o.Type), o.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", o.ID)
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func EditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := providerSession(cmd)
			if err != nil {
				return err
			}
			defer done()

			d, err := s.OpenEdit(args[0])
			if err != nil {
				return fmt.Errorf("listing %s: %w", args[0], err)
			}
			applyDraftFlags(cmd, &d)
			o, err := s.Submit(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", o.Title)
			return nil
		},
	}
	addDraftFlags(cmd)
	return cmd
}

func ToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := providerSession(cmd)
			if err != nil {
				return err
			}
			defer done()

			active, err := s.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("listing %s: %w", args[0], err)
			}
			state := color.New(color.FgHiBlack).Sprint("inactive")
			if active {
				state = color.New(color.FgGreen).Sprint("active")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", args[0], state)
			return nil
		},
	}
}

func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, done, err := providerSession(cmd)
			if err != nil {
				return err
			}
			defer done()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
			return nil
		},
	}
}
