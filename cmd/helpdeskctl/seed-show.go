package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/config"
	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/seed"
)

// seedShowCmd represents the seed show command
var seedShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective seed data as YAML",
	Long: `Print the effective seed data as YAML.

The output is the built-in demo data with every table from the seed file
(--file, or the configured seed_file) replacing the built-in rows. It can be
edited and used as a seed file itself.

Example:
  helpdeskctl seed show > seed.yml
  helpdeskctl seed show --file seed.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") {
			if cfg, err := config.Load(); err == nil {
				path = cfg.SeedFile
			}
		}

		if err := showSeed(cmd.OutOrStdout(), path, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show seed data: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedShowCmd)
	seedShowCmd.Flags().StringP("file", "f", "", "Seed file to overlay on the built-in data")
}

func showSeed(w io.Writer, path string, now time.Time) error {
	data, err := seed.Default(now)
	if err != nil {
		return err
	}
	if path != "" {
		fileData, err := seed.LoadFile(path)
		if err != nil {
			return err
		}
		data = seed.Merge(data, fileData)
	}
	return seed.Encode(w, data)
}
