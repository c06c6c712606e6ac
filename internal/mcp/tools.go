package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listTopicsTool defines the list_topics MCP tool.
var listTopicsTool = mcp.NewTool("list_topics",
	mcp.WithDescription("List the learning topics in catalog order with their descriptions."),
)

// listTopicFilesTool defines the list_topic_files MCP tool.
var listTopicFilesTool = mcp.NewTool("list_topic_files",
	mcp.WithDescription("List the content items of a topic in reading order (ascending rank)."),
	mcp.WithString("topic_id",
		mcp.Required(),
		mcp.Description("Topic identifier, e.g. \"react\""),
	),
)

// readContentTool defines the read_content MCP tool.
var readContentTool = mcp.NewTool("read_content",
	mcp.WithDescription("Read one content item of a topic. PDFs and images are returned as URLs."),
	mcp.WithString("topic_id",
		mcp.Required(),
		mcp.Description("Topic identifier"),
	),
	mcp.WithNumber("rank",
		mcp.Description("Rank of the item to read (default: the first item)"),
	),
	mcp.WithString("format",
		mcp.Description("Return the raw source or rendered HTML (default source)"),
		mcp.Enum("source", "html"),
	),
)
