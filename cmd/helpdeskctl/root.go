package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "helpdeskctl",
	Short: "Run and administer the helpdesk server",
	Long: `helpdeskctl runs the helpdesk ticketing API and manages its database,
configuration and demo data.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
