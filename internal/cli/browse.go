package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func BrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List active opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			typeArgs, _ := cmd.Flags().GetStringSlice("type")

			types, err := parseTypes(typeArgs)
			if err != nil {
				return err
			}

			s, c, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			defer s.Close()

			s.Filters.Query = query
			s.Filters.Types = types
			visible := s.Visible()

			out := cmd.OutOrStdout()
			if s.Filters.Active() {
				fmt.Fprintf(out, "Showing %d of %d opportunities\n\n", len(visible), len(s.Listings()))
			}
			return renderCards(out, visible, s.IsSaved)
		},
	}
	cmd.Flags().StringP("query", "q", "", "match title, organization or description")
	cmd.Flags().StringSliceP("type", "t", nil, "only these types (internship, competition, scholarship, program)")
	return cmd
}

func SavedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List your saved opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, c, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			defer s.Close()

			return renderCards(cmd.OutOrStdout(), s.Saved(), s.IsSaved)
		},
	}
}

func SaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Bookmark an opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, c, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			defer s.Close()

			if err := s.Save(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", color.New(color.FgYellow).Sprint("★"), args[0])
			return nil
		},
	}
}

func UnsaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <id>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, c, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			defer s.Close()

			if err := s.Unsave(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from saved\n", args[0])
			return nil
		},
	}
}
