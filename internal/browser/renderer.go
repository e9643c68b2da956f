package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"

	"github.com/vidyasagar/treesurf/internal/theme"
)

const (
	defaultWidth = 80
	maxWidth     = 100
)

// Page is a rendered page ready for the viewport.
type Page struct {
	URL     string
	Title   string
	Content string
	Links   []Link
}

// Link returns the link numbered n.
func (p *Page) Link(n int) (Link, bool) {
	for _, l := range p.Links {
		if l.Index == n {
			return l, true
		}
	}
	return Link{}, false
}

var (
	termMu       sync.Mutex
	termRenderer *glamour.TermRenderer
	termWidth    int
	termStyle    string
)

// Render converts an article into terminal text with numbered links.
func Render(a *Article, width int) *Page {
	width = contentWidth(width)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(a.Content))
	if err != nil {
		return &Page{URL: a.URL, Title: a.Title, Content: a.Text}
	}

	md := &markdown{base: a.URL}
	md.heading(1, a.Title)
	if a.Byline != "" {
		md.WriteString("*" + a.Byline + "*\n\n")
	}
	md.WriteString("---\n\n")
	md.container(doc.Find("body"), 0)

	out, err := glamourize(md.String(), width)
	if err != nil {
		out = md.String()
	}
	return &Page{URL: a.URL, Title: a.Title, Content: out, Links: md.links}
}

// RenderMarkdown renders a markdown document without link collection. It is
// used for internal pages such as the tree dump and the error page.
func RenderMarkdown(title, src string, width int) *Page {
	out, err := glamourize(src, contentWidth(width))
	if err != nil {
		out = src
	}
	return &Page{Title: title, Content: out}
}

// ErrorPage renders a load failure.
func ErrorPage(rawURL string, loadErr error, width int) *Page {
	src := fmt.Sprintf("# Website Load Failure\n\nSorry, something's wrong.\n\n- **URL:** `%s`\n- **Error:** %s\n\nMake sure you typed the URL correctly.\n",
		rawURL, loadErr)
	return RenderMarkdown("Error", src, width)
}

func contentWidth(width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	width -= 4
	if width > maxWidth {
		width = maxWidth
	}
	return width
}

func glamourize(src string, width int) (string, error) {
	termMu.Lock()
	defer termMu.Unlock()

	style := theme.Current.Glamour
	if style == "" {
		style = "dark"
	}
	if termRenderer == nil || termWidth != width || termStyle != style {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		termRenderer, termWidth, termStyle = r, width, style
	}
	return termRenderer.Render(src)
}

// markdown accumulates the converted document and the links found in it.
type markdown struct {
	strings.Builder
	base  string
	links []Link
}

func (m *markdown) heading(level int, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	m.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

// blockTags are rendered as paragraphs of their own. Everything else flows
// into the surrounding paragraph.
var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"hr": true, "table": true, "img": true, "figure": true, "figcaption": true,
	"div": true, "article": true, "section": true, "main": true,
	"header": true, "footer": true, "nav": true, "aside": true,
	"dl": true, "details": true, "script": true, "style": true, "noscript": true,
}

func (m *markdown) block(s *goquery.Selection, depth int) {
	switch tag := goquery.NodeName(s); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		m.heading(int(tag[1]-'0'), s.Text())
	case "p":
		m.paragraph(m.inline(s))
	case "ul", "ol":
		m.list(s, tag == "ol", depth)
		m.WriteString("\n")
	case "blockquote":
		for _, line := range strings.Split(strings.TrimSpace(m.inline(s)), "\n") {
			m.WriteString("> " + line + "\n")
		}
		m.WriteString("\n")
	case "pre":
		m.codeBlock(s)
	case "hr":
		m.WriteString("---\n\n")
	case "table":
		m.table(s)
	case "img":
		alt, _ := s.Attr("alt")
		if alt == "" {
			alt = "image"
		}
		m.WriteString("[IMG: " + alt + "]\n\n")
	case "script", "style", "noscript":
	default:
		if blockTags[tag] {
			m.container(s, depth)
			return
		}
		m.paragraph(m.inlineNode(s))
	}
}

// container renders the children of s in order. Consecutive text and inline
// elements are joined into one paragraph; block elements break it.
func (m *markdown) container(s *goquery.Selection, depth int) {
	var run strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if blockTags[goquery.NodeName(c)] {
			m.paragraph(run.String())
			run.Reset()
			m.block(c, depth)
			return
		}
		run.WriteString(m.inlineNode(c))
	})
	m.paragraph(run.String())
}

func (m *markdown) paragraph(text string) {
	if text = strings.TrimSpace(text); text != "" {
		m.WriteString(text + "\n\n")
	}
}

func (m *markdown) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		sb.WriteString(m.inlineNode(c))
	})
	return sb.String()
}

func (m *markdown) inlineNode(c *goquery.Selection) string {
	switch goquery.NodeName(c) {
	case "#text":
		return c.Text()
	case "#comment", "script", "style", "noscript":
		return ""
	case "a":
		return m.link(c)
	case "strong", "b":
		return "**" + strings.TrimSpace(m.inline(c)) + "**"
	case "em", "i":
		return "*" + strings.TrimSpace(m.inline(c)) + "*"
	case "code":
		return "`" + c.Text() + "`"
	case "br":
		return "  \n"
	default:
		return m.inline(c)
	}
}

func (m *markdown) link(s *goquery.Selection) string {
	href, _ := s.Attr("href")
	text := strings.TrimSpace(m.inline(s))
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return text
	}
	if text == "" {
		text = href
	}

	target := ResolveLink(m.base, href)
	n := len(m.links) + 1
	m.links = append(m.links, Link{Index: n, Text: text, URL: target})
	return fmt.Sprintf("[%s](%s) **[%d]**", text, target, n)
}

func (m *markdown) list(s *goquery.Selection, ordered bool, depth int) {
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		bullet := "- "
		if ordered {
			bullet = fmt.Sprintf("%d. ", i+1)
		}

		item := li.Clone()
		item.Find("ul, ol").Remove()
		m.WriteString(indent + bullet + strings.TrimSpace(m.inline(item)) + "\n")

		li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
			m.list(sub, goquery.NodeName(sub) == "ol", depth+1)
		})
	})
}

func (m *markdown) codeBlock(s *goquery.Selection) {
	code := s.Find("code").First()
	lang := ""
	if class, ok := code.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			if strings.HasPrefix(c, "language-") {
				lang = strings.TrimPrefix(c, "language-")
				break
			}
		}
	}

	text := s.Text()
	if code.Length() > 0 {
		text = code.Text()
	}
	m.WriteString("```" + lang + "\n" + strings.TrimRight(text, "\n") + "\n```\n\n")
}

func (m *markdown) table(s *goquery.Selection) {
	var rows [][]string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.ReplaceAll(strings.TrimSpace(cell.Text()), "|", `\|`))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	for i, r := range rows {
		for len(r) < cols {
			r = append(r, "")
		}
		m.WriteString("| " + strings.Join(r, " | ") + " |\n")
		if i == 0 {
			m.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
		}
	}
	m.WriteString("\n")
}
