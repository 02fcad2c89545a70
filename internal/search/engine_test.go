package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testEngine(t *testing.T, handler http.HandlerFunc) *Engine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	e := NewEngine("test-key", "test-cx")
	e.endpoint = srv.URL
	return e
}

func TestEngineParsesItems(t *testing.T) {
	var gotQuery, gotNum string
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"title": "Go",
					"link": "https://go.dev",
					"snippet": "The Go programming language",
					"displayLink": "go.dev",
					"pagemap": {"cse_image": [{"src": "https://go.dev/img.png"}]}
				},
				{"link": "https://example.com"}
			]
		}`))
	})

	results, err := e.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "golang" {
		t.Errorf("query param: got %q, want %q", gotQuery, "golang")
	}
	if gotNum != "5" {
		t.Errorf("num param: got %q, want %q", gotNum, "5")
	}
	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	if results[0].Title != "Go" || results[0].ImageURL != "https://go.dev/img.png" {
		t.Errorf("first result: %+v", results[0])
	}
	// Missing title degrades to a placeholder, not a failure.
	if results[1].Title != "Untitled" {
		t.Errorf("placeholder title: got %q", results[1].Title)
	}
	if results[1].Snippet != "" || results[1].DisplayLink != "" {
		t.Errorf("missing fields should stay empty: %+v", results[1])
	}
}

func TestEngineMissingItemsIsEmpty(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchInformation": {"totalResults": "0"}}`))
	})
	results, err := e.Search(context.Background(), "nothing", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results: got %d, want 0", len(results))
	}
}

func TestEngineCapsRequestedCount(t *testing.T) {
	var gotNum string
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotNum = r.URL.Query().Get("num")
		_, _ = w.Write([]byte(`{}`))
	})
	if _, err := e.Search(context.Background(), "q", 25); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotNum != "10" {
		t.Errorf("num param: got %q, want capped 10", gotNum)
	}
}

func TestEngineServerError(t *testing.T) {
	e := testEngine(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})
	if _, err := e.Search(context.Background(), "q", 10); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
