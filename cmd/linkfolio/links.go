package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joestump/linkfolio/internal/links"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage your links",
	}
	cmd.AddCommand(newLinkAddCmd())
	cmd.AddCommand(newLinkEditCmd())
	cmd.AddCommand(newLinkRemoveCmd())
	cmd.AddCommand(newLinkClickCmd())
	return cmd
}

func parseLinkID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid link id %q", s)
	}
	return uint(id), nil
}

func newLinkAddCmd() *cobra.Command {
	var d links.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a link to your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				if err := a.links.CreateLink(cmd.Context(), d); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), a.profiles.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "link title")
	cmd.Flags().StringVar(&d.URL, "url", "", "link target (http or https)")
	return cmd
}

func newLinkEditCmd() *cobra.Command {
	var d links.Draft
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a link's title and URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLinkID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				if err := a.links.UpdateLink(cmd.Context(), id, d); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), a.profiles.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "link title")
	cmd.Flags().StringVar(&d.URL, "url", "", "link target (http or https)")
	return cmd
}

func newLinkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a link",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLinkID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.requireAuth(); err != nil {
					return err
				}
				if err := a.links.DeleteLink(cmd.Context(), id); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), a.profiles.Snapshot())
				return nil
			})
		},
	}
}

// newLinkClickCmd records a click the way a visitor following the link
// would. It always succeeds once the id parses.
func newLinkClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click <id>",
		Short: "Record a click on a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLinkID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				a.links.TrackClick(cmd.Context(), id)
				fmt.Fprintf(cmd.OutOrStdout(), "click recorded for link %d\n", id)
				return nil
			})
		},
	}
}
