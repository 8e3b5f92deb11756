package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/oppboard/pkg/client"
	"github.com/garnizeh/oppboard/pkg/market"
	"github.com/garnizeh/oppboard/pkg/models"
)

const defaultAPI = "http://localhost:8080"

// RootCmd builds the oppctl command tree.
func RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oppctl",
		Short:         "oppctl - browse and manage opportunity listings",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `oppctl talks to an oppboard server. Students browse and bookmark
internships, competitions, scholarships and programs; providers post and
manage their own listings.`,
	}

	api := os.Getenv("OPPBOARD_API")
	if api == "" {
		api = defaultAPI
	}
	rootCmd.PersistentFlags().String("api", api, "oppboard server base URL")
	rootCmd.PersistentFlags().String("token-file", "", "token file (default ~/.oppboard/token)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(DBCmd())
	rootCmd.AddCommand(SignupCmd())
	rootCmd.AddCommand(SigninCmd())
	rootCmd.AddCommand(SignoutCmd())
	rootCmd.AddCommand(WhoamiCmd())
	rootCmd.AddCommand(ProfileCmd())

	rootCmd.AddCommand(BrowseCmd())
	rootCmd.AddCommand(SavedCmd())
	rootCmd.AddCommand(SaveCmd())
	rootCmd.AddCommand(UnsaveCmd())

	rootCmd.AddCommand(ListingsCmd())
	rootCmd.AddCommand(PostCmd())
	rootCmd.AddCommand(EditCmd())
	rootCmd.AddCommand(ToggleCmd())
	rootCmd.AddCommand(DeleteCmd())

	return rootCmd
}

// Execute runs the command tree and prints a failure the way the dashboards
// show it: the operation notice first, the cause after.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err))
		return 1
	}
	return 0
}

func describeError(err error) string {
	var oe *market.OpError
	if errors.As(err, &oe) {
		return color.New(color.FgRed).Sprint(oe.Notice()) + ": " + oe.Err.Error()
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return color.New(color.FgRed).Sprint("Not signed in") + ": run oppctl signin"
	}
	return color.New(color.FgRed).Sprint("Error") + ": " + err.Error()
}

// newClient builds an API client from the persistent flags. The stored token
// is attached when present.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	cfg := client.DefaultConfig()
	cfg.BaseURL, _ = cmd.Flags().GetString("api")
	c, err := client.NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}

	path, err := tokenPath(cmd)
	if err != nil {
		return nil, err
	}
	token, err := loadToken(path)
	if err != nil {
		return nil, err
	}
	c.SetToken(token)
	return c, nil
}

// openSession signs the stored token in and loads a session for it.
func openSession(ctx context.Context, cmd *cobra.Command) (*market.Session, *client.Client, error) {
	c, err := newClient(cmd)
	if err != nil {
		return nil, nil, err
	}
	if c.Token() == "" {
		_ = c.Close()
		return nil, nil, client.ErrUnauthorized
	}

	profile, err := c.Me(ctx)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	s := market.NewSession(profile, c)
	if err := s.Open(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return s, c, nil
}

func requireProvider(s *market.Session) error {
	p := s.Profile()
	if !p.IsProvider() {
		return fmt.Errorf("this command is for %s accounts", models.RoleProvider)
	}
	return nil
}
