package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avkarev/search-bot/internal/bot"
)

// MessageHandler returns the handler for the "message" tool: a raw inbound
// message routed through the bot dispatcher exactly as a chat transport
// would deliver it. The reply never carries an error; failures come back as
// user-facing text.
func MessageHandler(b *bot.Bot) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		reply := b.Handle(ctx, int64(userID), text)
		out := reply.Text
		if reply.Video != nil {
			out += "\n\nFile: " + reply.Video.FilePath + "\nDelete the file after relaying it."
		}
		return mcp.NewToolResultText(out), nil
	}
}
