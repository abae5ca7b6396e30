package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all cide MCP tools with the server
func RegisterTools(s *server.MCPServer) {
	h := NewHandlerSet()

	// Tool 1: find_duplicates - batch near-duplicate detection
	s.AddTool(mcp.NewTool("find_duplicates",
		mcp.WithDescription("Find near-duplicate source files using MinHash/LSH candidate filtering and exact AST comparison"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code (file or directory) to analyze")),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum estimated similarity for candidate pairs 0.0-1.0 (default: 0.5)")),
		mcp.WithBoolean("exact",
			mcp.Description("Compare every pair without the MinHash pre-filter (default: false)")),
		mcp.WithBoolean("clusters",
			mcp.Description("Group near-duplicate files into clusters (default: false)")),
		mcp.WithString("language",
			mcp.Description("Language hint for exact comparison: python, text (default: python)")),
	), h.HandleFindDuplicates)

	// Tool 2: quick_check - two-file similarity estimate
	s.AddTool(mcp.NewTool("quick_check",
		mcp.WithDescription("Estimate similarity between two files from MinHash signatures without building an index"),
		mcp.WithString("file1",
			mcp.Required(),
			mcp.Description("Path to the first file")),
		mcp.WithString("file2",
			mcp.Required(),
			mcp.Description("Path to the second file")),
	), h.HandleQuickCheck)

	// Tool 3: compare_files - exact comparison of two files
	s.AddTool(mcp.NewTool("compare_files",
		mcp.WithDescription("Compare two source files with the exact AST comparator"),
		mcp.WithString("file1",
			mcp.Required(),
			mcp.Description("Path to the first file")),
		mcp.WithString("file2",
			mcp.Required(),
			mcp.Description("Path to the second file")),
		mcp.WithString("language",
			mcp.Description("Language hint: python, text (default: python)")),
	), h.HandleCompareFiles)
}
