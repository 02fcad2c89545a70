package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/avkarev/search-bot/internal/store"
)

const googleSearchURL = "https://www.googleapis.com/customsearch/v1"

// maxPerCall is the Custom Search API's own per-request ceiling.
const maxPerCall = 10

// Engine performs live queries against the Google Custom Search API.
type Engine struct {
	client   *http.Client
	apiKey   string
	cx       string
	endpoint string
}

// NewEngine builds an Engine with retrying transport.
func NewEngine(apiKey, cx string) *Engine {
	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.Logger = nil
	r.HTTPClient.Timeout = 15 * time.Second
	return &Engine{
		client:   r.StandardClient(),
		apiKey:   apiKey,
		cx:       cx,
		endpoint: googleSearchURL,
	}
}

// apiResponse mirrors the slice of the Custom Search JSON response we read.
// A response without "items" is a valid empty result, not an error.
type apiResponse struct {
	Items []apiItem `json:"items"`
}

type apiItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	Pagemap     struct {
		CSEImage []struct {
			Src string `json:"src"`
		} `json:"cse_image"`
	} `json:"pagemap"`
}

// Search runs one live API call requesting up to num results (capped at the
// API maximum of 10).
func (e *Engine) Search(ctx context.Context, query string, num int) ([]store.SearchResult, error) {
	if num <= 0 || num > maxPerCall {
		num = maxPerCall
	}
	values := url.Values{
		"key": {e.apiKey},
		"cx":  {e.cx},
		"q":   {query},
		"num": {strconv.Itoa(num)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		e.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api status %d", resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode google api response: %w", err)
	}
	return parseItems(data.Items), nil
}

// parseItems maps API items to results, degrading missing fields to
// placeholders rather than failing the call.
func parseItems(items []apiItem) []store.SearchResult {
	results := make([]store.SearchResult, 0, len(items))
	for _, item := range items {
		r := store.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: item.DisplayLink,
		}
		if r.Title == "" {
			r.Title = "Untitled"
		}
		if len(item.Pagemap.CSEImage) > 0 {
			r.ImageURL = item.Pagemap.CSEImage[0].Src
		}
		results = append(results, r)
	}
	return results
}
