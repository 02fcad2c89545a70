// Package tools contains the MCP tool handlers that expose the bot's
// capabilities over the operator surface.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avkarev/search-bot/internal/bot"
	"github.com/avkarev/search-bot/internal/search"
)

// SearchHandler returns the MCP tool handler for the "search" tool.
func SearchHandler(searcher *search.Searcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results, prov, err := searcher.Search(ctx, int64(userID), q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}
		return mcp.NewToolResultText(bot.FormatResults(q, results, prov)), nil
	}
}
