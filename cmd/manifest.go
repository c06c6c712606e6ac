package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/manifest"
)

var manifestDryRun bool

var manifestCmd = &cobra.Command{
	Use:   "manifest [dir]",
	Short: "Generate manifest.json for every topic directory",
	Long: `Scans each topic directory under the content root (or dir) and writes a
manifest.json listing the files that follow the <rank>_<name>.<ext> naming
convention, in reading order. Include and exclude patterns come from the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root := cfg.ContentRoot
		if len(args) == 1 {
			root = args[0]
		} else if cfg.IsRemote() {
			return fmt.Errorf("content root %s is remote; pass a local directory", root)
		}

		results, err := manifest.Generate(manifest.Options{
			Root:    root,
			Include: cfg.Include,
			Exclude: cfg.Exclude,
			DryRun:  manifestDryRun,
		})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(os.Stderr, "No topic directories found under %s\n", root)
			return nil
		}

		for _, res := range results {
			verb := "Wrote"
			if manifestDryRun {
				verb = "Would write"
			}
			fmt.Fprintf(os.Stderr, "%s %s (%d file(s)", verb, res.Path, len(res.Files))
			if len(res.Skipped) > 0 {
				fmt.Fprintf(os.Stderr, ", %d skipped", len(res.Skipped))
			}
			fmt.Fprintln(os.Stderr, ")")

			if verbose {
				for _, f := range res.Files {
					fmt.Fprintf(os.Stderr, "  %s\n", f)
				}
				if len(res.Skipped) > 0 {
					fmt.Fprintf(os.Stderr, "  skipped: %s\n", strings.Join(res.Skipped, ", "))
				}
			}
		}
		return nil
	},
}

func init() {
	manifestCmd.Flags().BoolVar(&manifestDryRun, "dry-run", false, "Show what would be written without touching the filesystem")
	rootCmd.AddCommand(manifestCmd)
}
