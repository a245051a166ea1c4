// Package crawler performs bounded breadth-first crawls of a single domain,
// extracts and chunks page text, and feeds the chunks through the embedder
// into the search index.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"elasti/internal/ai"
	"elasti/internal/logger"
	"elasti/internal/search"
	"elasti/models"
)

// Config bounds one crawl run.
type Config struct {
	MaxChunkSize     int
	MinContentLength int
	BatchSize        int
	PageTimeout      time.Duration
	RenderJS         bool
}

// Crawler ties a fetcher, an embedder and the search index together. The
// fetcher is created fresh for every run and released on every exit path.
type Crawler struct {
	embedder   ai.Embedder
	index      search.Index
	cfg        Config
	newFetcher func() (Fetcher, error)
	limiter    *rate.Limiter
}

func New(embedder ai.Embedder, index search.Index, cfg Config) *Crawler {
	c := &Crawler{
		embedder: embedder,
		index:    index,
		cfg:      cfg,
		// Politeness: at most two page fetches per second
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}

	if cfg.RenderJS {
		c.newFetcher = func() (Fetcher, error) { return NewChromeFetcher(cfg.PageTimeout) }
	} else {
		c.newFetcher = func() (Fetcher, error) { return NewStaticFetcher(cfg.PageTimeout), nil }
	}

	return c
}

// WithFetcher overrides fetcher construction; used by tests.
func (c *Crawler) WithFetcher(newFetcher func() (Fetcher, error)) *Crawler {
	c.newFetcher = newFetcher
	return c
}

// Crawl walks the site breadth-first from seedURL, visiting at most maxPages
// distinct URLs, and replaces the project's index contents with the newly
// extracted chunks. Individual page failures are recorded and never abort the
// run; the context is checked between page fetches so a cancelled job stops
// cleanly.
func (c *Crawler) Crawl(ctx context.Context, projectID, seedURL string, maxPages int) (*models.CrawlResult, error) {
	tracer := otel.Tracer("crawler")
	ctx, span := tracer.Start(ctx, "crawler.crawl")
	defer span.End()
	span.SetAttributes(
		attribute.String("crawl.project_id", projectID),
		attribute.Int("crawl.max_pages", maxPages),
	)

	if maxPages <= 0 {
		maxPages = 50
	}

	parsed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
		seedURL = parsed.String()
	}

	startURL, err := normalizeURL(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	result := &models.CrawlResult{Errors: []string{}}

	// Full-refresh semantics: all prior chunks go before anything new is
	// indexed. If the crawl then fails, the project stays partially indexed
	// until the next successful run.
	if err := c.index.DeleteProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to clear project index: %w", err)
	}

	fetcher, err := c.newFetcher()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire page fetcher: %w", err)
	}
	defer fetcher.Close()

	visited := make(map[string]bool)
	queued := map[string]bool{startURL: true}
	frontier := []string{startURL}

	var pending []models.ChunkDocument

	for len(frontier) > 0 && len(visited) < maxPages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl cancelled: %w", err)
		}

		pageURL := frontier[0]
		frontier = frontier[1:]

		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("crawl cancelled: %w", err)
		}

		logger.Info("Crawling page", "url", pageURL, "project_id", projectID)

		html, err := fetcher.Fetch(ctx, pageURL)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to crawl %s: %v", pageURL, err))
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse %s: %v", pageURL, err))
			continue
		}

		title, content := extractContent(doc)

		// Loading shells, redirect stubs and the like are not errors
		if len(content) < c.cfg.MinContentLength {
			continue
		}

		for _, link := range discoverLinks(doc, pageURL) {
			normalized, err := normalizeURL(link)
			if err != nil {
				continue
			}
			if !visited[normalized] && !queued[normalized] {
				queued[normalized] = true
				frontier = append(frontier, normalized)
			}
		}

		now := time.Now()
		for _, chunk := range chunkText(content, c.cfg.MaxChunkSize) {
			pending = append(pending, models.ChunkDocument{
				ProjectID: projectID,
				URL:       pageURL,
				Title:     title,
				Content:   chunk,
				CrawledAt: now,
			})
		}

		result.PagesProcessed++
	}

	c.indexPending(ctx, pending, result)

	span.SetAttributes(
		attribute.Int("crawl.pages_processed", result.PagesProcessed),
		attribute.Int("crawl.chunks_created", result.ChunksCreated),
		attribute.Int("crawl.errors", len(result.Errors)),
	)

	return result, nil
}

// indexPending embeds and indexes accumulated chunks in fixed-size batches so
// memory stays bounded and a provider failure costs one batch, not the crawl.
func (c *Crawler) indexPending(ctx context.Context, pending []models.ChunkDocument, result *models.CrawlResult) {
	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Content
		}

		embeddings, err := c.embedder.Embed(ctx, texts)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to embed batch of %d chunks: %v", len(batch), err))
			continue
		}
		for i := range batch {
			batch[i].Embedding = embeddings[i]
		}

		if err := c.index.IndexChunks(ctx, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to index batch of %d chunks: %v", len(batch), err))
			continue
		}

		result.ChunksCreated += len(batch)
	}
}
