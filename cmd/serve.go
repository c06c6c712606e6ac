package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/learnroute/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the topic catalog and its content to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := newLoader(cfg)
		if err != nil {
			return err
		}
		renderer, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		cat := cfg.Catalog()
		fmt.Fprintf(os.Stderr, "learnroute MCP server started on stdio (content=%s, topics=%d)\n", cfg.ContentRoot, cat.Len())

		srv := mcpserver.NewServer(cat, l, renderer)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
