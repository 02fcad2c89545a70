package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avkarev/search-bot/internal/download"
)

// DownloadHandler returns the MCP tool handler for the "download-video"
// tool. On success the downloaded file stays on disk for the caller to
// relay; the caller is expected to remove it afterwards.
func DownloadHandler(d *download.Downloader) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		info, err := d.Download(ctx, url)
		switch {
		case errors.Is(err, download.ErrUnsupportedDomain):
			return mcp.NewToolResultError("unsupported domain: the link is not from a supported video platform"), nil
		case errors.Is(err, download.ErrTooLarge):
			return mcp.NewToolResultError("too large: the video exceeds the 50 MB relay limit and was discarded"), nil
		case err != nil:
			return mcp.NewToolResultError("fetch failed: the video could not be downloaded"), nil
		}

		text := fmt.Sprintf("Downloaded %q\nPlatform: %s\nUploader: %s\nDuration: %.0fs\nSize: %d bytes\nFile: %s\n\nDelete the file after relaying it.",
			info.Title, info.Platform, info.Uploader, info.Duration, info.FileSize, info.FilePath)
		return mcp.NewToolResultText(text), nil
	}
}
