package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"elasti/internal/ai"
	"elasti/internal/search"
)

func testSite(t *testing.T) *httptest.Server {
	t.Helper()

	filler := strings.Repeat("This page describes the product in useful detail. ", 5)

	mux := http.NewServeMux()
	page := func(path, title, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, `<html><head><title>%s</title></head><body>
				<nav><a href="/">Home</a> <a href="/about">About</a> <a href="/pricing">Pricing</a></nav>
				<main>%s %s</main>
				<a href="https://elsewhere.invalid/offsite">Partner</a>
				</body></html>`, title, body, filler)
		})
	}
	page("/", "Home", "Welcome to the home page.")
	page("/about", "About", "We are a small team.")
	page("/pricing", "Pricing", "Plans start at ten dollars.")

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestCrawler(index search.Index) *Crawler {
	embedder := ai.NewHashingEmbedder(768)
	return New(embedder, index, Config{
		MaxChunkSize:     1000,
		MinContentLength: 100,
		BatchSize:        20,
		PageTimeout:      5 * time.Second,
		RenderJS:         false,
	})
}

func TestCrawlWholeSite(t *testing.T) {
	srv := testSite(t)
	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	result, err := c.Crawl(context.Background(), "proj-1", srv.URL, 50)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if result.PagesProcessed != 3 {
		t.Errorf("pages processed: got %d, want 3 (errors: %v)", result.PagesProcessed, result.Errors)
	}
	if result.ChunksCreated < 3 {
		t.Errorf("chunks created: got %d, want at least one per page", result.ChunksCreated)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	count, err := index.CountProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if int(count) != result.ChunksCreated {
		t.Errorf("indexed count %d != chunks created %d", count, result.ChunksCreated)
	}

	// The off-domain link must never be indexed
	chunks, err := index.ListProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, chunk := range chunks {
		if strings.Contains(chunk.URL, "elsewhere.invalid") {
			t.Errorf("off-domain URL indexed: %s", chunk.URL)
		}
	}
}

func TestCrawlRespectsPageBudget(t *testing.T) {
	srv := testSite(t)
	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	result, err := c.Crawl(context.Background(), "proj-2", srv.URL, 2)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}
	if result.PagesProcessed > 2 {
		t.Errorf("pages processed: got %d, budget was 2", result.PagesProcessed)
	}
}

func TestRecrawlReplacesIndex(t *testing.T) {
	srv := testSite(t)
	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	first, err := c.Crawl(context.Background(), "proj-3", srv.URL, 50)
	if err != nil {
		t.Fatalf("first crawl failed: %v", err)
	}
	second, err := c.Crawl(context.Background(), "proj-3", srv.URL, 50)
	if err != nil {
		t.Fatalf("second crawl failed: %v", err)
	}

	count, err := index.CountProject(context.Background(), "proj-3")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if int(count) != second.ChunksCreated {
		t.Errorf("after re-crawl count is %d, want %d (first crawl had %d)",
			count, second.ChunksCreated, first.ChunksCreated)
	}
}

func TestCrawlCancelled(t *testing.T) {
	srv := testSite(t)
	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Crawl(ctx, "proj-4", srv.URL, 50); err == nil {
		t.Fatal("expected error from cancelled crawl")
	}
}

func TestCrawlInvalidSeedURL(t *testing.T) {
	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	if _, err := c.Crawl(context.Background(), "proj-5", "://not a url", 50); err == nil {
		t.Fatal("expected error for invalid seed URL")
	}
}

func TestCrawlFetchFailureRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	index := search.NewMemoryIndex()
	c := newTestCrawler(index)

	result, err := c.Crawl(context.Background(), "proj-6", srv.URL, 50)
	if err != nil {
		t.Fatalf("crawl should survive page failures, got: %v", err)
	}
	if result.PagesProcessed != 0 {
		t.Errorf("pages processed: got %d, want 0", result.PagesProcessed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors recorded: got %v, want one entry", result.Errors)
	}
}
