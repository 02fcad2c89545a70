package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/avkarev/search-bot/internal/logger"
	"github.com/avkarev/search-bot/internal/store"
)

// MultiResults holds the per-source outcomes of a fan-out search. A source
// that failed or is not configured contributes an empty slice.
type MultiResults struct {
	Web     []store.SearchResult
	YouTube []store.SearchResult
	Drive   []store.SearchResult
}

// MultiSearcher queries the web backend, YouTube and Google Drive
// concurrently. Branches are independent: one failing never cancels the
// others.
type MultiSearcher struct {
	engine     Backend
	youtubeKey string
	driveCreds string
}

// NewMultiSearcher builds a fan-out searcher. youtubeKey and driveCreds may
// be empty; the corresponding branches then return no results.
func NewMultiSearcher(engine Backend, youtubeKey, driveCreds string) *MultiSearcher {
	return &MultiSearcher{engine: engine, youtubeKey: youtubeKey, driveCreds: driveCreds}
}

// SearchAll launches all three branches and joins them, mapping each
// failure to an empty slice for that source only.
func (m *MultiSearcher) SearchAll(ctx context.Context, query string) *MultiResults {
	var res MultiResults
	join(
		func() {
			out, err := m.engine.Search(ctx, query, maxPerCall)
			if err != nil {
				logger.Errorf("fan-out web branch: %v", err)
				return
			}
			res.Web = out
		},
		func() {
			out, err := m.searchYouTube(ctx, query)
			if err != nil {
				logger.Errorf("fan-out youtube branch: %v", err)
				return
			}
			res.YouTube = out
		},
		func() {
			out, err := m.searchDrive(ctx, query)
			if err != nil {
				logger.Errorf("fan-out drive branch: %v", err)
				return
			}
			res.Drive = out
		},
	)
	return &res
}

// join runs every fn in its own goroutine and waits for all of them.
func join(fns ...func()) {
	var wg sync.WaitGroup
	for _, fn := range fns {
		wg.Add(1)
		go func(f func()) {
			defer wg.Done()
			f()
		}(fn)
	}
	wg.Wait()
}

func (m *MultiSearcher) searchYouTube(ctx context.Context, query string) ([]store.SearchResult, error) {
	if m.youtubeKey == "" {
		return nil, nil
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(m.youtubeKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	resp, err := svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxPerCall).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	results := make([]store.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		r := store.SearchResult{
			Title:       item.Snippet.Title,
			Link:        "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			Snippet:     item.Snippet.Description,
			DisplayLink: "youtube.com",
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			r.ImageURL = item.Snippet.Thumbnails.Default.Url
		}
		results = append(results, r)
	}
	return results, nil
}

func (m *MultiSearcher) searchDrive(ctx context.Context, query string) ([]store.SearchResult, error) {
	if m.driveCreds == "" {
		return nil, nil
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(m.driveCreds),
		option.WithScopes(drive.DriveMetadataReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	escaped := strings.ReplaceAll(query, "'", `\'`)
	resp, err := svc.Files.List().
		Q(fmt.Sprintf("fullText contains '%s'", escaped)).
		PageSize(maxPerCall).
		Fields("files(id, name, mimeType, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive search: %w", err)
	}

	results := make([]store.SearchResult, 0, len(resp.Files))
	for _, f := range resp.Files {
		results = append(results, store.SearchResult{
			Title:       f.Name,
			Link:        f.WebViewLink,
			Snippet:     f.MimeType,
			DisplayLink: "drive.google.com",
		})
	}
	return results, nil
}
