package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/navigator"
	"github.com/ziadkadry99/learnroute/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the learning catalog as tools.
type Server struct {
	catalog  *catalog.Catalog
	loader   navigator.Loader
	renderer render.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(cat *catalog.Catalog, loader navigator.Loader, renderer render.Renderer) *Server {
	if renderer == nil {
		renderer = &render.Basic{}
	}
	s := &Server{
		catalog:  cat,
		loader:   loader,
		renderer: renderer,
	}

	s.mcp = server.NewMCPServer(
		"learnroute",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listTopicsTool, s.handleListTopics)
	s.mcp.AddTool(listTopicFilesTool, s.handleListTopicFiles)
	s.mcp.AddTool(readContentTool, s.handleReadContent)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
