package browser

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	maxBodySize      = 10 * 1024 * 1024 // 10 MB
	maxRedirects     = 10
	defaultUserAgent = "treesurf/0.2 (terminal browser; +https://github.com/vidyasagar/treesurf)"

	// DefaultSearchURL is used when the address bar input is not a location.
	// %s is replaced by the query-escaped input.
	DefaultSearchURL = "https://html.duckduckgo.com/html/?q=%s"
)

// sharedTransport is reused by every Fetcher so connections are pooled
// across tabs.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 15 * time.Second,
	ForceAttemptHTTP2:     true,
}

// FetchResult is the raw outcome of a GET.
type FetchResult struct {
	URL         string
	FinalURL    string // after redirects
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// Fetcher performs page requests.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher returns a Fetcher using the shared transport.
func NewFetcher() *Fetcher {
	return NewFetcherWithClient(&http.Client{
		Transport: sharedTransport,
		Timeout:   defaultTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	})
}

// NewFetcherWithClient wraps an existing client. Tests use it with
// httptest servers.
func NewFetcherWithClient(c *http.Client) *Fetcher {
	return &Fetcher{client: c, userAgent: defaultUserAgent}
}

// Fetch retrieves rawURL. The URL must already be resolved; see Resolve.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Duration:    time.Since(start),
	}, nil
}

// StatusError reports an HTTP error status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

var (
	hasScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	hostLike  = regexp.MustCompile(`^(localhost|[^\s/]+\.[a-zA-Z]{2,}|\d{1,3}(\.\d{1,3}){3})(:\d+)?(/\S*)?$`)
)

// Resolve turns address bar input into a URL. Input with a scheme is used
// as-is, host-looking input gets https:// (http:// for localhost), and
// anything else becomes a search through searchURL.
func Resolve(input, searchURL string) string {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return ""
	case hasScheme.MatchString(input), strings.HasPrefix(input, "about:"):
		return input
	case hostLike.MatchString(input):
		if strings.HasPrefix(input, "localhost") {
			return "http://" + input
		}
		return "https://" + input
	}

	if searchURL == "" || !strings.Contains(searchURL, "%s") {
		searchURL = DefaultSearchURL
	}
	return strings.Replace(searchURL, "%s", url.QueryEscape(input), 1)
}

// ResolveLink resolves href against the page it appeared on.
func ResolveLink(base, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref.String()
	}
	return b.ResolveReference(ref).String()
}

// IsHTML checks if the content type indicates HTML.
func IsHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
