package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/linkfolio/internal/apiclient"
	"github.com/joestump/linkfolio/internal/profile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit profiles",
	}
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [username]",
		Short: "Show a profile (your own when no username is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				username := a.sessions.Username()
				if len(args) == 1 {
					username = args[0]
				} else if err := a.requireAuth(); err != nil {
					return err
				}
				v, err := a.profiles.FetchProfile(cmd.Context(), username)
				if err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var req apiclient.UpdateProfileRequest
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your full name or bio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.FullName == "" && req.Bio == "" {
				return fmt.Errorf("nothing to update: pass --full-name or --bio")
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				if err := a.profiles.UpdateProfile(cmd.Context(), req); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), a.profiles.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "new display name")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "new bio")
	return cmd
}

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	var confirm bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete your account and log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to delete without --yes")
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				username := a.sessions.Username()
				if err := a.profiles.DeleteAccount(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", username)
				return nil
			})
		},
	}
	del.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")
	cmd.AddCommand(del)
	return cmd
}

// printProfile renders a profile snapshot as plain text.
func printProfile(w io.Writer, v profile.View) {
	p := v.Profile
	if p == nil {
		fmt.Fprintln(w, "(no profile loaded)")
		return
	}
	fmt.Fprintf(w, "%s (@%s)\n", p.FullName, p.Username)
	if p.Bio != "" {
		fmt.Fprintln(w, p.Bio)
	}
	if len(p.Links) == 0 {
		fmt.Fprintln(w, "\nno links yet")
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tURL\tCLICKS\tLAST CLICKED")
	for _, l := range p.Links {
		last := "-"
		if t := l.Analytics.LastClicked(); t != nil {
			last = t.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Title, l.URL, l.Analytics.ClickCount, last)
	}
	_ = tw.Flush()
}
