package browser

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRender(t *testing.T) {
	article := &Article{
		Title:  "Test Page",
		Byline: "By Author",
		URL:    "https://example.com/docs/",
		Content: `<h2>Intro</h2>
<p>Hello world. This is a <strong>bold</strong> and <em>italic</em> test.</p>
<p>See <a href="https://golang.org">Go website</a>, <a href="guide.html">the guide</a> and <a href="#top">top</a>.</p>
<ul>
<li>Item one</li>
<li>Item two<ul><li>Nested</li></ul></li>
</ul>
<pre><code class="language-go">func main() {}</code></pre>
<blockquote>This is a quote</blockquote>`,
		Text: "fallback text",
	}

	page := Render(article, 80)

	if page.Title != "Test Page" {
		t.Errorf("Title = %q, want %q", page.Title, "Test Page")
	}
	if page.Content == "" {
		t.Fatal("Content should not be empty")
	}
	if len(page.Links) != 2 {
		t.Fatalf("got %d links, want 2 (fragment links are skipped)", len(page.Links))
	}

	want := []Link{
		{Index: 1, Text: "Go website", URL: "https://golang.org"},
		{Index: 2, Text: "the guide", URL: "https://example.com/docs/guide.html"},
	}
	for i, l := range page.Links {
		if l != want[i] {
			t.Errorf("link %d = %+v, want %+v", i, l, want[i])
		}
	}

	if l, ok := page.Link(2); !ok || l.URL != want[1].URL {
		t.Errorf("Link(2) = %+v, %v", l, ok)
	}
	if _, ok := page.Link(3); ok {
		t.Error("Link(3) should not exist")
	}
}

func TestRender_EmptyArticle(t *testing.T) {
	page := Render(&Article{Text: "some text"}, 0)
	if page == nil {
		t.Fatal("Page should not be nil")
	}
	if len(page.Links) != 0 {
		t.Errorf("got %d links, want 0", len(page.Links))
	}
}

func TestMarkdownTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><th>Name</th><th>Value</th></tr><tr><td>a|b</td></tr></table>`))
	if err != nil {
		t.Fatal(err)
	}

	md := &markdown{}
	md.table(doc.Find("table"))

	want := "| Name | Value |\n| --- | --- |\n| a\\|b |  |\n\n"
	if md.String() != want {
		t.Errorf("table markdown = %q, want %q", md.String(), want)
	}
}

func TestErrorPage(t *testing.T) {
	page := ErrorPage("https://nope.invalid", errors.New("no such host"), 80)
	if page.Title != "Error" {
		t.Errorf("Title = %q, want Error", page.Title)
	}
	if strings.TrimSpace(page.Content) == "" {
		t.Error("error page should not be empty")
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 76},
		{-5, 76},
		{60, 56},
		{200, 100},
	}
	for _, tt := range tests {
		if got := contentWidth(tt.in); got != tt.want {
			t.Errorf("contentWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// convert runs the markdown builder over an HTML fragment.
func convert(t *testing.T, base, html string) *markdown {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	md := &markdown{base: base}
	md.container(doc.Find("body"), 0)
	return md
}

func TestMarkdown_BareAnchorInContainer(t *testing.T) {
	md := convert(t, "http://127.0.0.1:8080/a",
		`<article><p>para</p><a href="/next">next</a></article>`)

	want := []Link{{Index: 1, Text: "next", URL: "http://127.0.0.1:8080/next"}}
	if len(md.links) != 1 || md.links[0] != want[0] {
		t.Fatalf("links = %+v, want %+v", md.links, want)
	}
	if !strings.Contains(md.String(), "para\n\n") {
		t.Errorf("paragraph missing from %q", md.String())
	}
	if !strings.Contains(md.String(), "**[1]**") {
		t.Errorf("link marker missing from %q", md.String())
	}
}

func TestMarkdown_MixedTextInDiv(t *testing.T) {
	md := convert(t, "https://example.com/",
		`<div>Hello world <a href="/x">link x</a> trailing<p>after</p><span>tail <b>bold</b></span></div>`)

	got := md.String()
	for _, want := range []string{
		"Hello world [link x](https://example.com/x) **[1]** trailing\n\n",
		"after\n\n",
		"tail **bold**\n\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown %q does not contain %q", got, want)
		}
	}
	if len(md.links) != 1 || md.links[0].URL != "https://example.com/x" {
		t.Errorf("links = %+v", md.links)
	}
}

func TestMarkdown_LinkOrder(t *testing.T) {
	md := convert(t, "https://example.com/",
		`<section><a href="/1">one</a><div><p><a href="/2">two</a></p></div>text <a href="/3">three</a></section>`)

	if len(md.links) != 3 {
		t.Fatalf("got %d links, want 3: %+v", len(md.links), md.links)
	}
	for i, l := range md.links {
		if l.Index != i+1 {
			t.Errorf("link %d has index %d", i, l.Index)
		}
	}
	if md.links[2].URL != "https://example.com/3" {
		t.Errorf("third link = %+v", md.links[2])
	}
}
