package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyasagar/treesurf/internal/browser"
	"github.com/vidyasagar/treesurf/internal/history"
	"github.com/vidyasagar/treesurf/internal/storage"
	"github.com/vidyasagar/treesurf/internal/theme"
	"github.com/vidyasagar/treesurf/internal/ui"
)

const pageBody = `<p>This paragraph is long enough for the readability extractor to keep it,
with a few sentences of filler text. It talks about branches, trees and browsing.
Nothing here matters except that it renders.</p>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>Page %s</title></head><body><article><h1>Page %s</h1>%s<a href="/next">next</a></article></body></html>`,
			strings.ToUpper(name), strings.ToUpper(name), pageBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t   *testing.T
	m   Model
	srv *httptest.Server
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	srv := newServer(t)
	if opts.StartURL == "" {
		opts.StartURL = srv.URL + "/a"
	}
	opts.Fetcher = browser.NewFetcherWithClient(srv.Client())

	h := &harness{t: t, m: New(opts), srv: srv}
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.m.Init())
	return h
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// run executes a load command and feeds its result back into the model.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd, "expected a load command")
	msg := cmd()
	_, ok := msg.(pageLoadedMsg)
	require.True(h.t, ok, "expected pageLoadedMsg, got %T", msg)
	h.update(msg)
}

func (h *harness) key(s string) tea.Cmd {
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) url(name string) string {
	return h.srv.URL + "/" + name
}

func (h *harness) tree() *history.Tree {
	return h.m.activeTab().nav.Tree()
}

func (h *harness) childURLs(id history.NodeID) []string {
	n, ok := h.tree().Node(id)
	require.True(h.t, ok)
	var out []string
	for _, c := range n.Children {
		cn, _ := h.tree().Node(c)
		out = append(out, cn.URL)
	}
	return out
}

func TestModel_StartLoadIsSilent(t *testing.T) {
	h := newHarness(t, Options{})

	assert.Equal(t, 1, h.tree().Len())
	root := h.tree().Root()
	assert.Equal(t, h.url("a"), root.URL)
	assert.Equal(t, "Page A", root.Title)
	_, inFlight := h.m.activeTab().nav.InFlight()
	assert.False(t, inFlight)
}

func TestModel_InitShowsLoading(t *testing.T) {
	srv := newServer(t)
	m := New(Options{
		StartURL: srv.URL + "/a",
		Fetcher:  browser.NewFetcherWithClient(srv.Client()),
	})

	cmd := m.Init()
	require.NotNil(t, cmd)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	out := m.View()
	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, srv.URL+"/a")

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.NotContains(t, m.View(), "Loading...")
	assert.Equal(t, "Page A", m.activeTab().nav.Current().Title)
}

func TestModel_BranchingNavigation(t *testing.T) {
	h := newHarness(t, Options{})

	h.run(h.m.navigate(h.url("b")))
	assert.Equal(t, h.url("b"), h.tree().Current().URL)
	assert.Equal(t, "Page B", h.tree().Current().Title)

	h.run(h.key("H"))
	assert.Equal(t, h.url("a"), h.tree().Current().URL)
	assert.Equal(t, 2, h.tree().Len(), "going back records nothing")

	h.run(h.m.navigate(h.url("c")))
	root := h.tree().Root()
	assert.Equal(t, []string{h.url("c"), h.url("b")}, h.childURLs(root.ID))

	b := root.Children[1]
	h.run(h.m.jump(b))
	assert.Equal(t, []string{h.url("b"), h.url("c")}, h.childURLs(root.ID))
	assert.Equal(t, b, h.tree().Current().ID)

	h.run(h.key("H"))
	h.run(h.key("L"))
	assert.Equal(t, b, h.tree().Current().ID, "forward follows the promoted branch")
	assert.Equal(t, 3, h.tree().Len())
}

func TestModel_BackAtRoot(t *testing.T) {
	h := newHarness(t, Options{})

	assert.Nil(t, h.key("H"))
	assert.Equal(t, "Already at the root", h.m.statusBar.Message())
	assert.Nil(t, h.key("L"))
}

func TestModel_FailedNavigateShowsErrorPage(t *testing.T) {
	h := newHarness(t, Options{})

	h.run(h.m.navigate(h.url("missing")))
	assert.Equal(t, 1, h.tree().Len(), "failed loads are not recorded")
	assert.Equal(t, "Error", h.m.activeTab().page.Title)
	assert.Contains(t, h.m.statusBar.Message(), "404")
}

func TestModel_SupersededLoadIsIgnored(t *testing.T) {
	h := newHarness(t, Options{})

	slow := h.m.navigate(h.url("slow"))
	fast := h.m.navigate(h.url("fast"))

	h.run(fast)
	h.run(slow)

	assert.Equal(t, 2, h.tree().Len())
	assert.Equal(t, h.url("fast"), h.tree().Current().URL)
}

func TestModel_FollowLink(t *testing.T) {
	h := newHarness(t, Options{})

	page := h.m.activeTab().page
	require.NotNil(t, page)
	require.NotEmpty(t, page.Links)
	assert.Equal(t, h.url("next"), page.Links[0].URL)

	h.run(h.m.followLink("1"))
	assert.Equal(t, h.url("next"), h.tree().Current().URL)

	assert.Nil(t, h.m.followLink("x"))
	assert.Nil(t, h.m.followLink("99"))
}

func TestModel_TreePanelJump(t *testing.T) {
	h := newHarness(t, Options{})
	h.run(h.m.navigate(h.url("b")))

	h.update(tea.KeyMsg{Type: tea.KeyCtrlH})
	require.Equal(t, ui.ModeTree, h.m.mode)
	require.True(t, h.m.treePanel.IsVisible())

	h.key("k")
	id, ok := h.m.treePanel.Selected()
	require.True(t, ok)
	assert.Equal(t, h.tree().Root().ID, id)

	h.run(h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, h.tree().Root().ID, h.tree().Current().ID)

	h.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ui.ModeNormal, h.m.mode)
	assert.False(t, h.m.treePanel.IsVisible())
}

func TestModel_Commands(t *testing.T) {
	db, err := storage.OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	bookmarks := storage.NewBookmarkStore(db)

	h := newHarness(t, Options{Bookmarks: bookmarks})

	assert.Nil(t, h.m.execute(ui.ParseCommand("bookmark")))
	assert.True(t, bookmarks.Has(context.Background(), h.url("a")))

	h.m.execute(ui.ParseCommand("bookmarks"))
	require.Len(t, h.m.activeTab().page.Links, 1)
	assert.Equal(t, h.url("a"), h.m.activeTab().page.Links[0].URL)

	h.m.execute(ui.ParseCommand("tree"))
	assert.Equal(t, "History tree", h.m.activeTab().page.Title)

	h.run(h.m.execute(ui.ParseCommand("open " + h.url("b"))))
	assert.Equal(t, h.url("b"), h.tree().Current().URL)

	assert.Nil(t, h.m.execute(ui.ParseCommand("jump 42")))
	assert.Contains(t, h.m.statusBar.Message(), "node not in tree")

	h.run(h.m.execute(ui.ParseCommand("jump 0")))
	assert.Equal(t, h.url("a"), h.tree().Current().URL)

	h.m.execute(ui.ParseCommand("nope"))
	assert.Equal(t, "Unknown command: nope", h.m.statusBar.Message())
}

func TestModel_Tabs(t *testing.T) {
	h := newHarness(t, Options{})
	first := h.tree()

	h.run(h.m.execute(ui.ParseCommand("tab " + h.url("z"))))
	require.Len(t, h.m.tabs, 2)
	assert.NotSame(t, first, h.tree(), "each tab has its own tree")
	assert.Equal(t, h.url("z"), h.tree().Root().URL)

	h.update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Same(t, first, h.tree())

	h.update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Len(t, h.m.tabs, 1)
}

func TestModel_VisitLog(t *testing.T) {
	db, err := storage.OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	visits := storage.NewVisitLog(db)

	h := newHarness(t, Options{Visits: visits})
	h.run(h.m.navigate(h.url("b")))
	h.run(h.key("H"))

	got, err := visits.SessionVisits(context.Background(), visits.Session())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"start", "navigate", "back"}, []string{got[0].Kind, got[1].Kind, got[2].Kind})
	assert.Equal(t, "Page B", got[1].Title)

	h.m.execute(ui.ParseCommand("visits"))
	page := h.m.activeTab().page
	assert.Equal(t, "Visits", page.Title)
	require.Len(t, page.Links, 3)
	assert.Equal(t, h.url("b"), page.Links[1].URL)

	h.run(h.m.followLink("2"))
	assert.Equal(t, h.url("b"), h.tree().Current().URL)
}

func TestModel_VisitsUnavailable(t *testing.T) {
	h := newHarness(t, Options{})
	h.m.execute(ui.ParseCommand("visits"))
	assert.Equal(t, "Visit log unavailable", h.m.statusBar.Message())
}

func TestModel_PromoteBranch(t *testing.T) {
	h := newHarness(t, Options{})
	h.run(h.m.navigate(h.url("b")))
	h.run(h.key("H"))
	h.run(h.m.navigate(h.url("c")))

	root := h.tree().Root()
	require.Equal(t, []string{h.url("c"), h.url("b")}, h.childURLs(root.ID))
	b := root.Children[1]

	h.update(tea.KeyMsg{Type: tea.KeyCtrlH})
	require.True(t, h.m.treePanel.Select(b))
	assert.Nil(t, h.key("p"))
	assert.Equal(t, []string{h.url("b"), h.url("c")}, h.childURLs(root.ID))
	id, _ := h.m.treePanel.Selected()
	assert.Equal(t, b, id, "the cursor stays on the promoted node")
	assert.Equal(t, h.url("c"), h.tree().Current().URL, "promoting does not navigate")

	require.True(t, h.m.treePanel.Select(root.ID))
	h.key("p")
	assert.Equal(t, "The root has no parent branch", h.m.statusBar.Message())

	h.update(tea.KeyMsg{Type: tea.KeyEsc})
	h.run(h.key("H"))
	h.run(h.key("L"))
	assert.Equal(t, b, h.tree().Current().ID)
}

func TestModel_BookmarkedMarker(t *testing.T) {
	db, err := storage.OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := newHarness(t, Options{Bookmarks: storage.NewBookmarkStore(db)})
	assert.NotContains(t, h.m.View(), "★")

	h.key("B")
	assert.Contains(t, h.m.View(), "★")

	h.run(h.m.navigate(h.url("b")))
	assert.NotContains(t, h.m.View(), "★")

	h.run(h.key("H"))
	assert.Contains(t, h.m.View(), "★")
}

func TestModel_ThemeIsSaved(t *testing.T) {
	t.Cleanup(func() { theme.Set("default") })
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := storage.DefaultConfig()
	require.NoError(t, cfg.Save(path))

	cfg.LogLevel = "debug"
	h := newHarness(t, Options{Config: cfg, ConfigPath: path})

	h.m.execute(ui.ParseCommand("theme nord"))
	assert.Equal(t, "Theme: nord", h.m.statusBar.Message())
	assert.Equal(t, "nord", theme.Current.Name)

	saved, err := storage.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nord", saved.Theme)
	assert.NotEqual(t, "debug", saved.LogLevel, "runtime overrides stay out of the file")
}

func TestModel_ThemeSaveFailure(t *testing.T) {
	t.Cleanup(func() { theme.Set("default") })
	h := newHarness(t, Options{ConfigPath: t.TempDir()})

	h.m.execute(ui.ParseCommand("theme gruvbox"))
	assert.Contains(t, h.m.statusBar.Message(), "Saving theme failed")
	assert.Equal(t, "gruvbox", theme.Current.Name, "the theme still applies for this session")
}

func TestModel_View(t *testing.T) {
	h := newHarness(t, Options{})
	out := h.m.View()
	assert.Contains(t, out, "NORMAL")
	assert.Contains(t, out, "1 nodes")
}
