package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// mockLoader serves fixed items per topic.
type mockLoader struct {
	items map[string][]catalog.ContentItem
}

func (m *mockLoader) LoadFiles(_ context.Context, topicID string) []catalog.ContentItem {
	return m.items[topicID]
}

func newTestServer() *Server {
	cat := catalog.New([]catalog.Topic{
		{ID: "react", Name: "React", Description: "Components and hooks"},
		{ID: "ai", Name: "AI"},
	})
	loader := &mockLoader{items: map[string][]catalog.ContentItem{
		"react": {
			{Rank: 1, Name: "Introduction", Type: catalog.Markdown, File: "1_Introduction.md", Content: "# Intro\n**JSX** basics"},
			{Rank: 2, Name: "Hooks", Type: catalog.Text, File: "2_Hooks.txt", Content: "useState"},
			{Rank: 10, Name: "Cheatsheet", Type: catalog.PDF, File: "10_Cheatsheet.pdf", Content: "https://cdn.example.com/react/10_Cheatsheet.pdf"},
		},
	}}
	return NewServer(cat, loader, nil)
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestToolDefinitions(t *testing.T) {
	// Verify tool names and required properties.
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_topics", listTopicsTool, "list_topics"},
		{"list_topic_files", listTopicFilesTool, "list_topic_files"},
		{"read_content", readContentTool, "read_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer()
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.renderer == nil {
		t.Error("expected default renderer")
	}
}

func TestHandleListTopics(t *testing.T) {
	srv := newTestServer()
	text := extractText(call(t, srv.handleListTopics, map[string]any{}))

	if !strings.HasPrefix(text, "2 topic(s):") {
		t.Errorf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "- React (react): Components and hooks") {
		t.Errorf("missing react entry: %q", text)
	}
	if strings.Index(text, "React") > strings.Index(text, "AI (ai)") {
		t.Error("topics should be listed in catalog order")
	}
}

func TestHandleListTopicFiles(t *testing.T) {
	srv := newTestServer()

	t.Run("ordered items", func(t *testing.T) {
		result := call(t, srv.handleListTopicFiles, map[string]any{"topic_id": "react"})
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := extractText(result)
		if !strings.Contains(text, "3 item(s)") || !strings.Contains(text, "10. Cheatsheet [pdf]") {
			t.Errorf("unexpected listing: %q", text)
		}
	})

	t.Run("empty topic", func(t *testing.T) {
		result := call(t, srv.handleListTopicFiles, map[string]any{"topic_id": "ai"})
		if result.IsError {
			t.Error("empty topic should not be an error")
		}
		if !strings.Contains(extractText(result), "no content yet") {
			t.Errorf("unexpected text: %q", extractText(result))
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		result := call(t, srv.handleListTopicFiles, map[string]any{"topic_id": "cobol"})
		if !result.IsError {
			t.Error("expected error for unknown topic")
		}
	})

	t.Run("missing topic id", func(t *testing.T) {
		result := call(t, srv.handleListTopicFiles, map[string]any{})
		if !result.IsError {
			t.Error("expected error for missing topic_id")
		}
	})
}

func TestHandleReadContent(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		want    string
	}{
		{"first item by default", map[string]any{"topic_id": "react"}, false, "**JSX** basics"},
		{"by rank", map[string]any{"topic_id": "react", "rank": 2}, false, "# 2. Hooks (text)"},
		{"reference type", map[string]any{"topic_id": "react", "rank": 10}, false, "URL: https://cdn.example.com/react/10_Cheatsheet.pdf"},
		{"rendered html", map[string]any{"topic_id": "react", "format": "html"}, false, "<strong>JSX</strong>"},
		{"missing rank", map[string]any{"topic_id": "react", "rank": 7}, true, ""},
		{"empty topic", map[string]any{"topic_id": "ai"}, true, ""},
		{"unknown topic", map[string]any{"topic_id": "cobol"}, true, ""},
		{"missing topic id", map[string]any{}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, srv.handleReadContent, tt.args)
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v: %s", result.IsError, tt.wantErr, extractText(result))
			}
			if tt.want != "" && !strings.Contains(extractText(result), tt.want) {
				t.Errorf("expected %q in %q", tt.want, extractText(result))
			}
		})
	}
}
