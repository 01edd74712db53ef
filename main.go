package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "issuepilot",
		Short:        "Prioritize GitHub issues from the terminal",
		SilenceUsage: true,
		RunE:         runUI,
	}
	root.Flags().String("start", "home", "First screen: home, login, signup, dashboard, profile or ideas")

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		analyzeCmd(),
		reportCmd(),
		exportCmd(),
		callbackCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
