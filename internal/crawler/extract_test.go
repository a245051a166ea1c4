package crawler

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestExtractContentStripsBoilerplate(t *testing.T) {
	doc := parseHTML(t, `<html><head><title>Pricing</title>
		<script>var x = 1;</script><style>body{}</style></head>
		<body>
		<nav>Home About Contact</nav>
		<main>Our plans start at ten dollars per month.</main>
		<footer>Copyright 2026</footer>
		</body></html>`)

	title, content := extractContent(doc)
	if title != "Pricing" {
		t.Errorf("title: got %q, want %q", title, "Pricing")
	}
	if content != "Our plans start at ten dollars per month." {
		t.Errorf("content: got %q", content)
	}
	for _, leaked := range []string{"var x", "Home About", "Copyright"} {
		if strings.Contains(content, leaked) {
			t.Errorf("boilerplate %q leaked into content", leaked)
		}
	}
}

func TestExtractContentTitleFallbacks(t *testing.T) {
	doc := parseHTML(t, `<html><body><h1>Heading Title</h1><p>Body text here.</p></body></html>`)
	title, _ := extractContent(doc)
	if title != "Heading Title" {
		t.Errorf("got %q, want h1 fallback", title)
	}

	doc = parseHTML(t, `<html><body><p>No titles anywhere.</p></body></html>`)
	title, _ = extractContent(doc)
	if title != "Untitled" {
		t.Errorf("got %q, want %q", title, "Untitled")
	}
}

func TestExtractContentBodyFallback(t *testing.T) {
	doc := parseHTML(t, `<html><body><div>Plain page with   irregular
		whitespace.</div></body></html>`)
	_, content := extractContent(doc)
	if content != "Plain page with irregular whitespace." {
		t.Errorf("got %q", content)
	}
}

func TestDiscoverLinksSameDomainOnly(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<a href="/about">About</a>
		<a href="https://example.com/contact?ref=nav">Contact</a>
		<a href="https://other.com/page">External</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="/files/brochure.pdf">Brochure</a>
		<a href="/logo.PNG">Logo</a>
		<a href="/about#team">Team</a>
		</body></html>`)

	links := discoverLinks(doc, "https://example.com/")

	want := []string{"https://example.com/about", "https://example.com/contact"}
	if len(links) != len(want) {
		t.Fatalf("got %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d: got %q, want %q", i, links[i], want[i])
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com:443/page", "https://example.com/page"},
		{"http://example.com:80/", "http://example.com/"},
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com", "https://example.com/"},
	}

	for _, tc := range cases {
		got, err := normalizeURL(tc.in)
		if err != nil {
			t.Errorf("normalizeURL(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
