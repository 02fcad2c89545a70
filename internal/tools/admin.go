package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avkarev/search-bot/internal/bot"
	"github.com/avkarev/search-bot/internal/config"
	"github.com/avkarev/search-bot/internal/store"
)

// StatsHandler returns the handler for the admin-only "stats" tool.
func StatsHandler(st *store.Store, cfg *config.Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !cfg.IsAdmin(int64(userID)) {
			return mcp.NewToolResultError("access denied"), nil
		}
		sum, err := st.Summary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(bot.FormatSummary(sum)), nil
	}
}

// ClearCacheHandler returns the handler for the admin-only "clear-cache"
// tool. Clearing is unconditional and irreversible.
func ClearCacheHandler(st *store.Store, cfg *config.Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !cfg.IsAdmin(int64(userID)) {
			return mcp.NewToolResultError("access denied"), nil
		}
		if err := st.ClearAll(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Search cache cleared."), nil
	}
}

// PruneCacheHandler returns the handler for the admin-only "prune-cache"
// tool. days defaults to 30.
func PruneCacheHandler(st *store.Store, cfg *config.Config) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !cfg.IsAdmin(int64(userID)) {
			return mcp.NewToolResultError("access denied"), nil
		}
		days := req.GetInt("days", 30)
		if days <= 0 {
			return mcp.NewToolResultError("days must be positive"), nil
		}
		deleted, err := st.PruneOlderThan(ctx, days)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Removed %d cache entries older than %d days.", deleted, days)), nil
	}
}
