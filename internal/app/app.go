// Package app is the bubbletea model of the browser. Each tab owns a
// browser.Controller and therefore its own history tree.
package app

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vidyasagar/treesurf/internal/browser"
	"github.com/vidyasagar/treesurf/internal/logging"
	"github.com/vidyasagar/treesurf/internal/storage"
	"github.com/vidyasagar/treesurf/internal/theme"
	"github.com/vidyasagar/treesurf/internal/ui"
)

// Options configures a Model. Bookmarks and Visits may be nil when the
// database is unavailable. Settings changed at runtime are written back to
// ConfigPath when it is set.
type Options struct {
	StartURL   string
	Config     *storage.Config
	ConfigPath string
	Bookmarks *storage.BookmarkStore
	Visits    *storage.VisitLog
	Fetcher   *browser.Fetcher
}

// tab is the state of one browser tab.
type tab struct {
	id       int
	nav      *browser.Controller
	viewport ui.PageViewport
	page     *browser.Page
	cancel   context.CancelFunc
}

// Model is the top-level bubbletea model.
type Model struct {
	tabBar     ui.TabBar
	urlBar     ui.URLBar
	statusBar  ui.StatusBar
	commandBar ui.CommandBar
	treePanel  ui.TreePanel

	tabs   []*tab
	active int
	nextID int

	fetcher   *browser.Fetcher
	pageCache *lru.Cache[string, *browser.Page]
	config     *storage.Config
	configPath string
	bookmarks  *storage.BookmarkStore
	visits    *storage.VisitLog
	log       *slog.Logger

	keys     KeyMap
	treeKeys TreeKeyMap
	mode     ui.Mode
	pendingG bool
	width    int
	height   int
	ready    bool
}

// New builds the model with a single tab rooted at opts.StartURL, or at the
// configured home page when no start URL is given.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = storage.DefaultConfig()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = browser.NewFetcher()
	}

	var cache *lru.Cache[string, *browser.Page]
	if cfg.PageCacheSize > 0 {
		cache, _ = lru.New[string, *browser.Page](cfg.PageCacheSize)
	}

	m := Model{
		tabBar:     ui.NewTabBar(),
		urlBar:     ui.NewURLBar(),
		statusBar:  ui.NewStatusBar(),
		commandBar: ui.NewCommandBar(),
		treePanel:  ui.NewTreePanel(),
		fetcher:    fetcher,
		pageCache:  cache,
		config:     cfg,
		configPath: opts.ConfigPath,
		bookmarks:  opts.Bookmarks,
		visits:     opts.Visits,
		log:        logging.With("component", "app"),
		keys:       DefaultKeyMap(),
		treeKeys:   DefaultTreeKeyMap(),
	}

	start := m.homepage()
	if opts.StartURL != "" {
		start = browser.Resolve(opts.StartURL, cfg.SearchURL)
	}
	m.addTab(start)
	m.urlBar.SetLocation(start)
	m.statusBar.SetLoading(true)
	return m
}

// Init starts the silent load of the first tab's root page. The widgets
// already show it as loading; see New.
func (m Model) Init() tea.Cmd {
	t := m.activeTab()
	return m.loadCmd(t, t.nav.Start())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if t := m.activeTab(); t != nil {
		cmd := t.viewport.Update(msg)
		m.syncStatus()
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading treesurf..."
	}

	labels := make([]ui.Tab, len(m.tabs))
	for i, t := range m.tabs {
		cur := t.nav.Current()
		labels[i] = ui.Tab{Title: cur.Title, URL: cur.URL}
	}

	body := m.activeTab().viewport.View()
	if m.treePanel.IsVisible() {
		divider := lipgloss.NewStyle().Foreground(theme.Current.Border).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.bodyHeight()), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.treePanel.View(), divider, body)
	}

	sections := []string{
		m.tabBar.View(labels, m.active),
		m.urlBar.View(),
		body,
		m.statusBar.View(),
	}
	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// bodyHeight is the number of rows left for page content.
func (m *Model) bodyHeight() int {
	// tab bar, bordered url bar, status bar
	h := m.height - 1 - 3 - 1
	if m.commandBar.IsActive() {
		h--
	}
	return max(h, 1)
}

func (m *Model) layout() {
	m.tabBar.SetWidth(m.width)
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)

	h := m.bodyHeight()
	w := m.width
	if m.treePanel.IsVisible() {
		pw := max(m.width*2/5, 36)
		m.treePanel.SetSize(pw, h)
		w = max(m.width-pw-1, 1)
	}
	for _, t := range m.tabs {
		t.viewport.SetSize(w, h)
	}
}

func (m *Model) homepage() string {
	if m.config.Homepage != "" {
		return m.config.Homepage
	}
	return storage.DefaultHomepage
}

func (m *Model) activeTab() *tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m *Model) tabByID(id int) *tab {
	for _, t := range m.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

// addTab opens a tab rooted at url after the active one and switches to it.
func (m *Model) addTab(url string) *tab {
	m.nextID++
	t := &tab{
		id:       m.nextID,
		nav:      browser.NewController(url, url),
		viewport: ui.NewPageViewport(),
	}

	at := min(m.active+1, len(m.tabs))
	m.tabs = append(m.tabs[:at], append([]*tab{t}, m.tabs[at:]...)...)
	m.active = at
	if m.ready {
		m.layout()
	}
	return t
}

// closeTab closes the active tab. It reports false for the last tab.
func (m *Model) closeTab() bool {
	if len(m.tabs) <= 1 {
		return false
	}
	t := m.tabs[m.active]
	if t.cancel != nil {
		t.cancel()
	}
	m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
	m.active = min(m.active, len(m.tabs)-1)
	return true
}

func (m *Model) switchTab(delta int) {
	if len(m.tabs) < 2 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	m.syncTab()
}

// syncTab refreshes every widget that shows active tab state.
func (m *Model) syncTab() {
	t := m.activeTab()
	m.urlBar.SetLocation(t.nav.Current().URL)
	if m.treePanel.IsVisible() {
		m.treePanel.SetTree(t.nav.Tree())
	}
	m.syncStatus()
}

func (m *Model) syncStatus() {
	t := m.activeTab()
	cur := t.nav.Current()
	m.statusBar.SetMode(m.mode)
	_, loading := t.nav.InFlight()
	m.statusBar.SetLoading(loading)
	m.statusBar.SetTitle(cur.Title)
	m.statusBar.SetBookmarked(m.isBookmarked(cur.URL))
	m.statusBar.SetNavigation(t.nav.CanGoBack(), t.nav.CanGoForward(), t.nav.Tree().Len())
	m.statusBar.SetScrollInfo(t.viewport.ScrollInfo())
	links := 0
	if t.page != nil {
		links = len(t.page.Links)
	}
	m.statusBar.SetLinkCount(links)
}

func (m *Model) isBookmarked(url string) bool {
	if m.bookmarks == nil {
		return false
	}
	return m.bookmarks.Has(context.Background(), url)
}

func (m *Model) setMode(mode ui.Mode) {
	m.mode = mode
	m.statusBar.SetMode(mode)
}
