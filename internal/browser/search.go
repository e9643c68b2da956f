package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SearchResult is one hit on a DuckDuckGo results page.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

const maxSnippet = 200

// IsSearchPage reports whether res is a DuckDuckGo HTML or lite results page.
func IsSearchPage(res *FetchResult) bool {
	u, err := url.Parse(res.FinalURL)
	if err != nil || !IsHTML(res.ContentType) {
		return false
	}
	switch u.Hostname() {
	case "html.duckduckgo.com", "lite.duckduckgo.com":
		return u.Query().Get("q") != ""
	}
	return false
}

// ParseSearch extracts the results of a DuckDuckGo results page. Both the
// html and lite layouts are understood.
func ParseSearch(res *FetchResult) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	var results []SearchResult
	add := func(title, href, snippet string) {
		title = strings.TrimSpace(title)
		target := unwrapRedirect(href)
		if title == "" || target == "" {
			return
		}
		results = append(results, SearchResult{Title: title, URL: target, Snippet: strings.TrimSpace(snippet)})
	}

	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		a := s.Find(".result__a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		add(a.Text(), href, s.Find(".result__snippet").Text())
	})
	if len(results) > 0 {
		return results, nil
	}

	// lite: each hit is a row with the link, followed by a snippet row.
	doc.Find("a.result-link").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		snippet := a.Closest("tr").NextFiltered("tr").Find("td.result-snippet").Text()
		add(a.Text(), href, snippet)
	})
	return results, nil
}

// unwrapRedirect returns the target of a DuckDuckGo /l/?uddg= redirect, or
// href itself when it is already absolute.
func unwrapRedirect(href string) string {
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	}
	return ""
}

// SearchQuery returns the q parameter of a search URL.
func SearchQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("q")
}

// RenderSearch renders results as a numbered list whose numbers can be
// followed like ordinary links.
func RenderSearch(rawURL string, results []SearchResult, width int) *Page {
	query := SearchQuery(rawURL)
	title := "Search: " + query

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if len(results) == 0 {
		sb.WriteString("No results found.\n")
	}

	links := make([]Link, 0, len(results))
	for i, r := range results {
		idx := i + 1
		fmt.Fprintf(&sb, "%d. **%s** [%d]\n   `%s`\n", idx, escapeMarkdown(r.Title), idx, r.URL)
		if r.Snippet != "" {
			snippet := r.Snippet
			if rs := []rune(snippet); len(rs) > maxSnippet {
				snippet = string(rs[:maxSnippet-3]) + "..."
			}
			fmt.Fprintf(&sb, "\n   %s\n", escapeMarkdown(snippet))
		}
		sb.WriteString("\n")
		links = append(links, Link{Index: idx, Text: r.Title, URL: r.URL})
	}

	page := RenderMarkdown(title, sb.String(), width)
	page.URL = rawURL
	page.Links = links
	return page
}

var markdownEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
