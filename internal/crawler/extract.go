package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors stripped before extraction: scripts, styles and common page
// chrome that would pollute every chunk with navigation text.
const boilerplateSelectors = "script, style, nav, footer, header, aside, .nav, .footer, .header, .sidebar, .menu, .advertisement, .ad"

// Preferred main-content containers, tried before falling back to body.
const mainContentSelectors = "main, article, .content, .main, #content, #main"

// Link extensions that never lead to document pages.
var nonDocumentExt = regexp.MustCompile(`(?i)\.(pdf|jpg|jpeg|png|gif|svg|css|js|ico)$`)

// extractContent pulls a title and the main text out of a rendered page.
// Title preference: <title>, then the first <h1>, then a fixed placeholder.
func extractContent(doc *goquery.Document) (title, content string) {
	doc = goquery.CloneDocument(doc)
	doc.Find(boilerplateSelectors).Remove()

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Untitled"
	}

	container := doc.Find(mainContentSelectors).First()
	if container.Length() == 0 {
		container = doc.Find("body")
	}

	// Collapse all whitespace runs to single spaces
	content = strings.Join(strings.Fields(container.Text()), " ")
	return title, content
}

// discoverLinks collects same-domain anchor targets, normalized to
// origin+path with query and fragment dropped, excluding non-document
// extensions. Invalid hrefs are ignored.
func discoverLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Hostname() != base.Hostname() {
			return
		}
		if nonDocumentExt.MatchString(resolved.Path) {
			return
		}

		link := resolved.Scheme + "://" + resolved.Host + resolved.Path
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})

	return links
}

// normalizeURL brings a URL to canonical form for duplicate detection:
// lowercase scheme and host, fragment dropped, default ports removed,
// trailing slash trimmed from non-root paths.
func normalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	parsed.Fragment = ""
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	if (parsed.Port() == "80" && parsed.Scheme == "http") ||
		(parsed.Port() == "443" && parsed.Scheme == "https") {
		host, _, _ := strings.Cut(parsed.Host, ":")
		parsed.Host = host
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	} else if path != "/" {
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			path = "/"
		}
	}
	parsed.Path = path

	return parsed.String(), nil
}
