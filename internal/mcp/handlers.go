package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// handleListTopics returns the catalog.
func (s *Server) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics := s.catalog.Topics()
	if len(topics) == 0 {
		return mcp.NewToolResultText("No topics configured."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d topic(s):\n", len(topics)))
	for _, t := range topics {
		sb.WriteString(fmt.Sprintf("\n- %s (%s)", t.Name, t.ID))
		if t.Description != "" {
			sb.WriteString(": " + t.Description)
		}
	}
	sb.WriteString("\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListTopicFiles returns the ordered items of one topic.
func (s *Server) handleListTopicFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := request.RequireString("topic_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic_id"), nil
	}
	topic, ok := s.catalog.Find(topicID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown topic %q. Use list_topics to see available topics.", topicID)), nil
	}

	items := s.loader.LoadFiles(ctx, topicID)
	if len(items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Topic %s has no content yet.", topic.Name)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d item(s) in reading order\n\n", topic.Name, len(items)))
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", it.Rank, it.Name, it.Type, it.File))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleReadContent returns one item by rank, or the first item.
func (s *Server) handleReadContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := request.RequireString("topic_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic_id"), nil
	}
	if _, ok := s.catalog.Find(topicID); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown topic %q", topicID)), nil
	}

	items := s.loader.LoadFiles(ctx, topicID)
	if len(items) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("topic %q has no content", topicID)), nil
	}

	item := items[0]
	if rank := request.GetInt("rank", 0); rank > 0 {
		found := false
		for _, it := range items {
			if it.Rank == rank {
				item, found = it, true
				break
			}
		}
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("no item with rank %d in topic %q", rank, topicID)), nil
		}
	}

	return mcp.NewToolResultText(s.formatItem(item, request.GetString("format", "source"))), nil
}

// formatItem prints a header line followed by the item body.
func (s *Server) formatItem(item catalog.ContentItem, format string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %d. %s (%s)\n\n", item.Rank, item.Name, item.Type))

	if item.Type.IsReference() {
		sb.WriteString("URL: " + item.Content + "\n")
		return sb.String()
	}

	if format == "html" {
		html, err := s.renderer.Render(item)
		if err != nil {
			sb.WriteString(fmt.Sprintf("render failed: %v\n", err))
			return sb.String()
		}
		sb.WriteString(string(html))
		return sb.String()
	}

	sb.WriteString(item.Content)
	if !strings.HasSuffix(item.Content, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
