// Package bot classifies inbound messages, routes them to the search or
// download orchestrator and renders user-facing replies. It is transport
// agnostic: relaying the reply (and any video file) is the caller's job.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avkarev/search-bot/internal/config"
	"github.com/avkarev/search-bot/internal/download"
	"github.com/avkarev/search-bot/internal/logger"
	"github.com/avkarev/search-bot/internal/search"
	"github.com/avkarev/search-bot/internal/store"
)

// Kind is the message classification.
type Kind int

const (
	KindOther Kind = iota
	KindStart
	KindHelp
	KindSearch
	KindStats
	KindClearCache
	KindPruneCache
	KindVideoURL
)

// Command is a classified inbound message.
type Command struct {
	Kind Kind
	Arg  string
}

// Classify decides what an inbound message is: a command, a bare video URL,
// or something else.
func Classify(text string) Command {
	t := strings.TrimSpace(text)
	switch {
	case t == "/start":
		return Command{Kind: KindStart}
	case t == "/help":
		return Command{Kind: KindHelp}
	case t == "/search" || strings.HasPrefix(t, "/search "):
		return Command{Kind: KindSearch, Arg: strings.TrimSpace(strings.TrimPrefix(t, "/search"))}
	case t == "/stats":
		return Command{Kind: KindStats}
	case t == "/clear_cache":
		return Command{Kind: KindClearCache}
	case t == "/prune_cache" || strings.HasPrefix(t, "/prune_cache "):
		return Command{Kind: KindPruneCache, Arg: strings.TrimSpace(strings.TrimPrefix(t, "/prune_cache"))}
	case strings.Contains(t, "http://") || strings.Contains(t, "https://"):
		return Command{Kind: KindVideoURL, Arg: t}
	default:
		return Command{Kind: KindOther}
	}
}

// Reply is what goes back to the user. Video is non-nil when a downloaded
// file should be relayed alongside Text; the caller owns its cleanup.
type Reply struct {
	Text  string
	Video *download.VideoInfo
}

// Bot wires the orchestrators behind the command surface.
type Bot struct {
	cfg        *config.Config
	searcher   *search.Searcher
	downloader *download.Downloader
	store      *store.Store
}

// New builds the dispatcher.
func New(cfg *config.Config, searcher *search.Searcher, downloader *download.Downloader, st *store.Store) *Bot {
	return &Bot{cfg: cfg, searcher: searcher, downloader: downloader, store: st}
}

// Handle processes one inbound message. It never returns an error: every
// failure is mapped to a user-facing reply so a single bad request cannot
// take down the serving loop.
func (b *Bot) Handle(ctx context.Context, userID int64, text string) *Reply {
	cmd := Classify(text)
	switch cmd.Kind {
	case KindStart:
		return &Reply{Text: b.startText(userID)}
	case KindHelp:
		return &Reply{Text: helpText}
	case KindSearch:
		return b.handleSearch(ctx, userID, cmd.Arg)
	case KindStats:
		return b.handleStats(ctx, userID)
	case KindClearCache:
		return b.handleClearCache(ctx, userID)
	case KindPruneCache:
		return b.handlePruneCache(ctx, userID, cmd.Arg)
	case KindVideoURL:
		return b.handleVideo(ctx, cmd.Arg)
	default:
		return &Reply{Text: fallbackText}
	}
}

func (b *Bot) handleSearch(ctx context.Context, userID int64, query string) *Reply {
	if !b.cfg.SearchEnabled() {
		return &Reply{Text: "Search is not available: the operator has not configured GOOGLE_API_KEY and GOOGLE_CX."}
	}
	if strings.TrimSpace(query) == "" {
		return &Reply{Text: "Please provide a search query.\nExample: /search go generics"}
	}

	results, prov, err := b.searcher.Search(ctx, userID, query)
	if err != nil {
		logger.Errorf("search %q: %v", query, err)
		return &Reply{Text: "Something went wrong while searching. Please try again later."}
	}
	if len(results) == 0 {
		return &Reply{Text: fmt.Sprintf("Nothing found for %q. Try rephrasing the query.", query)}
	}
	return &Reply{Text: FormatResults(query, results, prov)}
}

func (b *Bot) handleStats(ctx context.Context, userID int64) *Reply {
	if !b.cfg.IsAdmin(userID) {
		return &Reply{Text: accessDeniedText}
	}
	sum, err := b.store.Summary(ctx)
	if err != nil {
		logger.Errorf("stats summary: %v", err)
		return &Reply{Text: "Could not fetch statistics. Please try again later."}
	}
	return &Reply{Text: FormatSummary(sum)}
}

func (b *Bot) handleClearCache(ctx context.Context, userID int64) *Reply {
	if !b.cfg.IsAdmin(userID) {
		return &Reply{Text: accessDeniedText}
	}
	if err := b.store.ClearAll(ctx); err != nil {
		logger.Errorf("clear cache: %v", err)
		return &Reply{Text: "Could not clear the cache. Please try again later."}
	}
	logger.Infof("cache cleared by admin %d", userID)
	return &Reply{Text: "Search cache cleared."}
}

func (b *Bot) handlePruneCache(ctx context.Context, userID int64, arg string) *Reply {
	if !b.cfg.IsAdmin(userID) {
		return &Reply{Text: accessDeniedText}
	}
	days := 30
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return &Reply{Text: "Usage: /prune_cache [days]"}
		}
		days = n
	}
	deleted, err := b.store.PruneOlderThan(ctx, days)
	if err != nil {
		logger.Errorf("prune cache: %v", err)
		return &Reply{Text: "Could not prune the cache. Please try again later."}
	}
	return &Reply{Text: fmt.Sprintf("Removed %d cache entries older than %d days.", deleted, days)}
}

func (b *Bot) handleVideo(ctx context.Context, url string) *Reply {
	info, err := b.downloader.Download(ctx, url)
	switch {
	case errors.Is(err, download.ErrUnsupportedDomain):
		return &Reply{Text: "This link is not from a supported platform.\nSupported: Instagram, TikTok, Twitter/X, Facebook, Reddit, Vimeo."}
	case errors.Is(err, download.ErrTooLarge):
		return &Reply{Text: "The video is larger than 50 MB and cannot be relayed."}
	case err != nil:
		return &Reply{Text: "Could not download the video. It may be private, deleted, or temporarily unavailable."}
	}
	caption := fmt.Sprintf("%s\nPlatform: %s\nUploader: %s\nSize: %.1f MB",
		info.Title, info.Platform, info.Uploader, float64(info.FileSize)/(1024*1024))
	return &Reply{Text: caption, Video: info}
}

const helpText = `Commands:
/search <query> — search the web (cached for repeated queries)
/stats — usage statistics (admins only)
/clear_cache — clear the search cache (admins only)
/prune_cache [days] — drop cache entries older than N days (admins only)
/help — this message

Send a bare video link (Instagram, TikTok, Twitter/X, Facebook, Reddit, Vimeo) to fetch the video.`

const fallbackText = "Use /search <query> to search, or send a video link to download it.\nSee /help for everything I can do."

const accessDeniedText = "You do not have access to this command."

func (b *Bot) startText(userID int64) string {
	status := "not configured"
	if b.cfg.SearchEnabled() {
		status = "connected"
	}
	return fmt.Sprintf("Hi! I search the web and fetch videos from social platforms.\nSearch API: %s\nYour ID: %d\n\n%s",
		status, userID, helpText)
}

// FormatResults renders a numbered result list with a provenance header.
func FormatResults(query string, results []store.SearchResult, prov search.Provenance) string {
	var sb strings.Builder
	if prov == search.FromCache {
		sb.WriteString("From cache\n\n")
	} else {
		sb.WriteString("From the web\n\n")
	}
	fmt.Fprintf(&sb, "Results for %q:\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, r.Title, r.Link)
		if s := clip(r.Snippet, 150); s != "" {
			fmt.Fprintf(&sb, "   %s\n", s)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSummary renders the admin statistics report.
func FormatSummary(sum *store.Summary) string {
	var sb strings.Builder
	sb.WriteString("Bot statistics\n\n")
	fmt.Fprintf(&sb, "Total searches: %d\n", sum.TotalSearches)
	fmt.Fprintf(&sb, "Unique users: %d\n", sum.UniqueUsers)
	fmt.Fprintf(&sb, "Cached entries: %d\n", sum.CachedEntries)
	if len(sum.TopQueries) > 0 {
		sb.WriteString("\nTop queries:\n")
		for i, qc := range sum.TopQueries {
			fmt.Fprintf(&sb, "%d. %s — %d\n", i+1, qc.Query, qc.Count)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// clip shortens s to at most n runes, appending an ellipsis when cut.
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
