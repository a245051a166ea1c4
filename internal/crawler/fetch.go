package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html/charset"
)

// UserAgent identifies the crawler on every page fetch.
const UserAgent = "ElastiBot/1.0 (Website Q&A Bot)"

// Fetcher retrieves the HTML of a single page. A Fetcher is acquired once per
// crawl run and must be closed on every exit path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}

// ChromeFetcher renders pages in a headless browser so client-side scripts
// run before extraction; a static fetch is insufficient for modern sites.
// One browser process serves the whole crawl run; each page gets its own tab
// with a bounded timeout.
type ChromeFetcher struct {
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context
	pageTimeout   time.Duration
}

func NewChromeFetcher(pageTimeout time.Duration) (*ChromeFetcher, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(UserAgent),
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a broken Chrome install fails the crawl up
	// front instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start headless browser: %w", err)
	}

	return &ChromeFetcher{
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		browserCtx:    browserCtx,
		pageTimeout:   pageTimeout,
	}, nil
}

func (f *ChromeFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.pageTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (f *ChromeFetcher) Close() {
	f.browserCancel()
	f.allocCancel()
}

// StaticFetcher fetches pages over plain HTTP with charset and brotli
// handling. It cannot run client-side scripts and exists for environments
// without Chrome (CRAWLER_RENDER_JS=false) and for tests against fixture
// sites.
type StaticFetcher struct {
	client *http.Client
}

func NewStaticFetcher(pageTimeout time.Duration) *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{Timeout: pageTimeout},
	}
}

func (f *StaticFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, urlStr)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml+xml") {
		return "", fmt.Errorf("non-HTML content type %q at %s", contentType, urlStr)
	}

	var body io.Reader = resp.Body
	// gzip is transparently decoded by the transport; brotli is not
	if strings.Contains(resp.Header.Get("Content-Encoding"), "br") {
		body = brotli.NewReader(body)
	}

	// Decode whatever charset the page declares to UTF-8
	utf8Reader, err := charset.NewReader(body, contentType)
	if err != nil {
		return "", fmt.Errorf("charset detection failed for %s: %w", urlStr, err)
	}

	html, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", err
	}
	return string(html), nil
}

func (f *StaticFetcher) Close() {
	f.client.CloseIdleConnections()
}
