package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidyasagar/treesurf/internal/browser"
	"github.com/vidyasagar/treesurf/internal/history"
	"github.com/vidyasagar/treesurf/internal/logging"
)

// pageLoadedMsg reports the end of a load started by startLoad.
type pageLoadedMsg struct {
	tabID    int
	load     browser.Load
	page     *browser.Page
	location string
	cached   bool
	err      error
}

// startLoad fetches l.URL for tab t and shows it as loading.
func (m *Model) startLoad(t *tab, l browser.Load) tea.Cmd {
	m.statusBar.ClearMessage()
	m.statusBar.SetLoading(true)
	m.urlBar.SetLocation(l.URL)
	return m.loadCmd(t, l)
}

// loadCmd builds the command for load l. It changes only t, so it can be
// called from value receivers. Silent loads are served from the page cache
// when possible.
func (m Model) loadCmd(t *tab, l browser.Load) tea.Cmd {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	m.log.Debug("load", "tab", t.id, "seq", l.Seq, "kind", l.Kind.String(), "url", l.URL)

	tabID := t.id
	if l.Silent() && m.pageCache != nil {
		if page, ok := m.pageCache.Get(l.URL); ok {
			return func() tea.Msg {
				return pageLoadedMsg{tabID: tabID, load: l, page: page, location: l.URL, cached: true}
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	fetcher := m.fetcher
	width := m.width

	return func() tea.Msg {
		res, err := fetcher.Fetch(ctx, l.URL)
		if err != nil {
			return pageLoadedMsg{tabID: tabID, load: l, err: err}
		}
		if browser.IsSearchPage(res) {
			results, err := browser.ParseSearch(res)
			if err != nil {
				return pageLoadedMsg{tabID: tabID, load: l, err: err}
			}
			return pageLoadedMsg{
				tabID:    tabID,
				load:     l,
				page:     browser.RenderSearch(res.FinalURL, results, width),
				location: res.FinalURL,
			}
		}
		article, err := browser.Extract(res)
		if err != nil {
			return pageLoadedMsg{tabID: tabID, load: l, err: err}
		}
		var page *browser.Page
		logging.Time("render "+res.FinalURL, func() {
			page = browser.Render(article, width)
		})
		return pageLoadedMsg{
			tabID:    tabID,
			load:     l,
			page:     page,
			location: res.FinalURL,
		}
	}
}

func (m *Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	t := m.tabByID(msg.tabID)
	if t == nil {
		return *m, nil
	}
	nav := t.nav

	if msg.err != nil {
		if err := nav.Failed(msg.load.Seq, msg.err); errors.Is(err, browser.ErrStaleLoad) {
			return *m, nil
		}
		t.cancel = nil
		if errors.Is(msg.err, context.Canceled) {
			m.syncStatus()
			return *m, nil
		}
		m.log.Warn("page load failed", "url", msg.load.URL, "kind", msg.load.Kind.String(), "error", msg.err)
		t.page = browser.ErrorPage(msg.load.URL, msg.err, t.viewport.Width())
		t.viewport.SetContent(t.page.Content)
		if t == m.activeTab() {
			m.statusBar.SetError(fmt.Sprintf("Error: %s", msg.err))
			m.syncTab()
		}
		return *m, nil
	}

	node, err := nav.Succeeded(msg.load.Seq, msg.location)
	if errors.Is(err, browser.ErrStaleLoad) {
		return *m, nil
	}
	t.cancel = nil

	if m.pageCache != nil && !msg.cached {
		m.pageCache.Add(node.URL, msg.page)
	}
	visit := m.recordVisit(msg.load, node)

	// The renderer reports the title separately from completion.
	if msg.page.Title != "" && nav.TitleChanged(msg.load.Seq, msg.page.Title) {
		m.setVisitTitle(visit, msg.page.Title)
	}

	t.page = msg.page
	t.viewport.SetContent(msg.page.Content)
	if t == m.activeTab() {
		m.syncTab()
	}
	return *m, nil
}

func (m *Model) recordVisit(l browser.Load, n history.Node) int64 {
	if m.visits == nil {
		return 0
	}
	id, err := m.visits.Record(context.Background(), n.URL, n.Title, l.Kind.String())
	if err != nil {
		m.log.Warn("recording visit", "url", n.URL, "error", err)
		return 0
	}
	return id
}

func (m *Model) setVisitTitle(id int64, title string) {
	if m.visits == nil || id == 0 {
		return
	}
	if err := m.visits.SetTitle(context.Background(), id, title); err != nil {
		m.log.Warn("updating visit title", "visit", id, "error", err)
	}
}

// showPage displays an internal page that is not part of the history.
func (m *Model) showPage(p *browser.Page) {
	t := m.activeTab()
	t.page = p
	t.viewport.SetContent(p.Content)
	m.syncStatus()
}

func (m *Model) navigate(input string) tea.Cmd {
	url := browser.Resolve(input, m.config.SearchURL)
	if url == "" {
		return nil
	}
	t := m.activeTab()
	return m.startLoad(t, t.nav.Navigate(url))
}

func (m *Model) back() tea.Cmd {
	t := m.activeTab()
	l, ok := t.nav.Back()
	if !ok {
		m.statusBar.SetMessage("Already at the root")
		return nil
	}
	return m.startLoad(t, l)
}

func (m *Model) forward() tea.Cmd {
	t := m.activeTab()
	l, ok := t.nav.Forward()
	if !ok {
		m.statusBar.SetMessage("No forward branch")
		return nil
	}
	return m.startLoad(t, l)
}

func (m *Model) jump(id history.NodeID) tea.Cmd {
	t := m.activeTab()
	l, err := t.nav.Jump(id)
	if err != nil {
		m.statusBar.SetError(err.Error())
		return nil
	}
	return m.startLoad(t, l)
}

func (m *Model) reload() tea.Cmd {
	t := m.activeTab()
	if m.pageCache != nil {
		m.pageCache.Remove(t.nav.Current().URL)
	}
	return m.startLoad(t, t.nav.Reload())
}
