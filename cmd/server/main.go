package main

import (
	"flag"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avkarev/search-bot/internal/bot"
	"github.com/avkarev/search-bot/internal/config"
	"github.com/avkarev/search-bot/internal/download"
	"github.com/avkarev/search-bot/internal/logger"
	"github.com/avkarev/search-bot/internal/search"
	"github.com/avkarev/search-bot/internal/store"
	"github.com/avkarev/search-bot/internal/tools"
)

func main() {
	configPath := flag.String("config", os.Getenv("SEARCH_BOT_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.LogPath); err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Infof("Starting search-bot server")
	if !cfg.SearchEnabled() {
		logger.Warnf("GOOGLE_API_KEY or GOOGLE_CX not set; search commands will be refused")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Errorf("open database %s: %v", cfg.DBPath, err)
		panic(err)
	}
	defer st.Close()
	logger.Infof("Database ready at %s", cfg.DBPath)

	engine := search.NewEngine(cfg.GoogleAPIKey, cfg.GoogleCX)
	searcher := search.NewSearcher(st, st, engine, cfg.CacheMaxAge(), cfg.SearchResultsLimit)
	multi := search.NewMultiSearcher(engine, cfg.YouTubeAPIKey, cfg.DriveCredentials)
	downloader := download.New(cfg.DownloadDir)
	dispatcher := bot.New(cfg, searcher, downloader, st)
	logger.Infof("Initialized searcher and downloader (cache expiry %s)", cfg.CacheMaxAge())

	s := server.NewMCPServer(
		"search-bot",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolSearch := mcp.NewTool("search",
		mcp.WithDescription(multiline(
			"Searches the web for a user and returns a numbered result list",
			"\nFunctionality:",
			"- Answers from the local cache when the same query was seen recently",
			"- Falls back to a live Google Custom Search call on a cache miss",
			"- Records usage statistics for answered searches",
			"- The reply states whether results came from cache or live",
		)),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric ID of the requesting user")),
	)
	s.AddTool(toolSearch, tools.SearchHandler(searcher))

	toolSearchAll := mcp.NewTool("search-all",
		mcp.WithDescription(multiline(
			"Searches web, YouTube and Google Drive concurrently",
			"\nUsage notes:",
			"- Sources that fail or are not configured return no results instead of an error",
			"- Results are not cached and not recorded in statistics",
		)),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
	)
	s.AddTool(toolSearchAll, tools.MultiSearchHandler(multi))

	toolDownload := mcp.NewTool("download-video",
		mcp.WithDescription(multiline(
			"Downloads a video from a supported social platform",
			"\nFunctionality:",
			"- Supported platforms: Instagram, TikTok, Twitter/X, Facebook, Reddit, Vimeo",
			"- Videos over 50 MB are rejected and deleted",
			"- On success the file path is returned; delete the file after relaying it",
		)),
		mcp.WithString("url", mcp.Required(), mcp.Description("The video URL")),
	)
	s.AddTool(toolDownload, tools.DownloadHandler(downloader))

	toolStats := mcp.NewTool("stats",
		mcp.WithDescription("Shows usage statistics: totals, unique users, cache size, top queries. Admins only."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric ID of the requesting user")),
	)
	s.AddTool(toolStats, tools.StatsHandler(st, cfg))

	toolClear := mcp.NewTool("clear-cache",
		mcp.WithDescription("Clears the whole search cache. Irreversible. Admins only."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric ID of the requesting user")),
	)
	s.AddTool(toolClear, tools.ClearCacheHandler(st, cfg))

	toolPrune := mcp.NewTool("prune-cache",
		mcp.WithDescription("Deletes cache entries older than the given number of days (default 30). Admins only."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric ID of the requesting user")),
		mcp.WithNumber("days", mcp.Description("Age threshold in days")),
	)
	s.AddTool(toolPrune, tools.PruneCacheHandler(st, cfg))

	toolMessage := mcp.NewTool("message",
		mcp.WithDescription(multiline(
			"Routes a raw chat message the way the bot would",
			"\nFunctionality:",
			"- /search <query>, /stats, /clear_cache, /prune_cache, /start, /help",
			"- A bare video link triggers a download",
			"- Anything else gets a usage hint",
		)),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Numeric ID of the sending user")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The raw message text")),
	)
	s.AddTool(toolMessage, tools.MessageHandler(dispatcher))

	logger.Infof("Serving MCP on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
