package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avkarev/search-bot/internal/search"
	"github.com/avkarev/search-bot/internal/store"
)

// MultiSearchHandler returns the handler for the "search-all" tool: the
// fan-out variant querying web, YouTube and Drive at once. Results are
// uncached and unrecorded; sources that fail or are not configured come
// back empty instead of failing the call.
func MultiSearchHandler(m *search.MultiSearcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res := m.SearchAll(ctx, q)

		var sb strings.Builder
		writeSection(&sb, "Web", res.Web)
		writeSection(&sb, "YouTube", res.YouTube)
		writeSection(&sb, "Drive", res.Drive)
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No results from any source."), nil
		}
		return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
	}
}

func writeSection(sb *strings.Builder, name string, results []store.SearchResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n", name)
	for i, r := range results {
		fmt.Fprintf(sb, "%d. %s\n   %s\n", i+1, r.Title, r.Link)
	}
	sb.WriteString("\n")
}
