package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/garnizeh/oppboard/pkg/models"
)

func SignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			org, _ := cmd.Flags().GetString("org")

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Signup(cmd.Context(), models.SignupRequest{
				Email:            email,
				Password:         password,
				FullName:         name,
				Role:             models.Role(role),
				OrganizationName: org,
			})
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			if err := storeToken(cmd, res.Token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Account created for %s\n", res.Profile.Email)
			printProfile(cmd, res.Profile)
			return nil
		},
	}
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "password (at least 6 characters)")
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("role", string(models.RoleUser), "account role: user or provider")
	cmd.Flags().String("org", "", "organization name (required for providers)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func SigninCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Signin(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("signin failed: %w", err)
			}
			if err := storeToken(cmd, res.Token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", res.Profile.Email)
			printProfile(cmd, res.Profile)
			return nil
		},
	}
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func SignoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if c.Token() != "" {
				// the token is dropped locally even if the server is unreachable
				_ = c.Signout(cmd.Context())
			}
			path, err := tokenPath(cmd)
			if err != nil {
				return err
			}
			if err := removeToken(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			return nil
		},
	}
}

func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			p, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd, p)
			return nil
		},
	}
}

func ProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change your display name or organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			cur, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			req := models.ProfileUpdateRequest{FullName: cur.FullName}
			if cmd.Flags().Changed("name") {
				req.FullName, _ = cmd.Flags().GetString("name")
			}
			req.OrganizationName, _ = cmd.Flags().GetString("org")

			p, err := c.UpdateProfile(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("profile update failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Profile updated")
			printProfile(cmd, p)
			return nil
		},
	}
	cmd.Flags().String("name", "", "new full name")
	cmd.Flags().String("org", "", "new organization name (providers only)")
	return cmd
}

func storeToken(cmd *cobra.Command, token string) error {
	path, err := tokenPath(cmd)
	if err != nil {
		return err
	}
	return saveToken(path, token)
}

func printProfile(cmd *cobra.Command, p models.Profile) {
	out := cmd.OutOrStdout()
	role := color.New(color.FgCyan).Sprint(p.Role)
	fmt.Fprintf(out, "  Name: %s\n  Role: %s\n", p.FullName, role)
	if p.OrganizationName != "" {
		fmt.Fprintf(out, "  Organization: %s\n", p.OrganizationName)
	}
}
