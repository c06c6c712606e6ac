package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnroute/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "learnroute",
	Short: "Topic-based learning content reader",
	Long: `LearnRoute serves learning topics as ordered reading routes. Each topic is
a directory of rank-prefixed files listed in a manifest.json; the reader
walks them in order, remembers where each session left off, and exposes
the same content to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
