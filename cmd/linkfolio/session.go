package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/linkfolio/internal/apiclient"
)

func newLoginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("LINKFOLIO_PASSWORD")
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.sessions.Login(cmd.Context(), args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (default $LINKFOLIO_PASSWORD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.sessions.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func newSignupCmd() *cobra.Command {
	var req apiclient.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account (does not log in)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = args[0]
			if req.Password == "" {
				req.Password = os.Getenv("LINKFOLIO_PASSWORD")
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.sessions.Signup(cmd.Context(), req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %s created; run `linkfolio login %s` to sign in\n", req.Username, req.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "short bio")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password (default $LINKFOLIO_PASSWORD)")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), a.sessions.Username())
				return nil
			})
		},
	}
}
