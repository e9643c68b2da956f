package browser

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Article is the readable part of a fetched page.
type Article struct {
	Title     string
	Byline    string
	Content   string // cleaned HTML
	Text      string // plain-text fallback
	SiteName  string
	URL       string // final URL after redirects
	FetchTime time.Duration
}

// Link is a numbered hyperlink in rendered content.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Extract pulls the article out of an HTML response. Other content types are
// shown preformatted.
func Extract(result *FetchResult) (*Article, error) {
	if !IsHTML(result.ContentType) {
		return &Article{
			Title:     result.FinalURL,
			Content:   "<pre>" + html.EscapeString(string(result.Body)) + "</pre>",
			Text:      string(result.Body),
			URL:       result.FinalURL,
			FetchTime: result.Duration,
		}, nil
	}

	base, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	a, err := readability.FromReader(bytes.NewReader(result.Body), base)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	title := a.Title
	if title == "" {
		title = result.FinalURL
	}

	return &Article{
		Title:     title,
		Byline:    a.Byline,
		Content:   a.Content,
		Text:      a.TextContent,
		SiteName:  a.SiteName,
		URL:       result.FinalURL,
		FetchTime: result.Duration,
	}, nil
}
