package commands

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/session"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client banner and target server",
		RunE: func(cmd *cobra.Command, args []string) error {
			figure.NewFigure(app.cfg.GetAppName(), "cybermedium", true).Print()
			fmt.Println()
			app.out.message("server: %s", app.client.BaseURL())
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and save the session cookies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.manager.Login(cmd.Context(), args[0], password)
			if err != nil {
				return validationError(err)
			}
			return app.out.print(s, sessionTable(s))
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.manager.Probe(cmd.Context())
			app.manager.Logout(cmd.Context())
			app.out.message("logged out")
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var password, confirm string
	cmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account and sign in with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = password
			}
			s, err := app.manager.Register(cmd.Context(), args[0], password, confirm)
			if err != nil {
				return validationError(err)
			}
			return app.out.print(s, sessionTable(s))
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := app.manager.Probe(cmd.Context())
			if !ok {
				app.out.message("anonymous")
				return app.out.print(map[string]any{"authenticated": false}, table{})
			}
			return app.out.print(s, sessionTable(s))
		},
	}
}

func passwordCmd() *cobra.Command {
	var password, confirm string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password of the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if confirm == "" {
				confirm = password
			}
			if err := app.social.ChangePassword(cmd.Context(), password, confirm); err != nil {
				return validationError(err)
			}
			app.out.message("password changed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func sessionTable(s session.Session) table {
	t := table{header: []string{"USER", "ID", "PROFILE", "EMAIL"}}
	t.add(s.Username, itoa(s.UserID), itoa(s.ProfileID), s.Email)
	return t
}

// validationError flattens field messages into the error text.
func validationError(err error) error {
	if fields, ok := api.ValidationErrors(err); ok {
		return fmt.Errorf("rejected: %s", fields)
	}
	return err
}
