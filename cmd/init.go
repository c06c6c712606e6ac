package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize learnroute configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure learnroute and writes the config file (default .learnroute.yml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (content root %s)\n", cfgFile, cfg.ContentRoot)
		fmt.Fprintln(os.Stderr, "Run `learnroute manifest` to generate topic manifests, then `learnroute server`.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
