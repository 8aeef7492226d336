package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/linkfolio/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "linkfolio",
		Short:         "Manage a link-sharing profile from the command line",
		Long:          "Log in, edit your profile, and manage your shareable links.",
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newLinkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
