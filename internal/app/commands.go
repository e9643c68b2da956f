package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidyasagar/treesurf/internal/browser"
	"github.com/vidyasagar/treesurf/internal/history"
	"github.com/vidyasagar/treesurf/internal/storage"
	"github.com/vidyasagar/treesurf/internal/theme"
	"github.com/vidyasagar/treesurf/internal/ui"
)

// execute runs a ":" command.
func (m *Model) execute(c ui.Command) tea.Cmd {
	m.log.Debug("command", "name", c.Name, "args", c.Arg())

	switch c.Name {
	case "":
		return nil
	case "o", "open":
		return m.navigate(c.Arg())
	case "home":
		return m.navigate(m.homepage())
	case "back":
		return m.back()
	case "forward", "fwd":
		return m.forward()
	case "reload":
		return m.reload()
	case "jump":
		id, err := strconv.Atoi(c.Arg())
		if err != nil {
			m.statusBar.SetError("usage: :jump <node>")
			return nil
		}
		return m.jump(history.NodeID(id))
	case "tree":
		m.showTreeDump()
	case "bookmark", "bm":
		m.bookmarkCurrent()
	case "bookmarks", "bms":
		m.showBookmarks()
	case "visits":
		m.showVisits()
	case "tab", "tabnew":
		if c.Arg() == "" {
			return m.newTab("")
		}
		return m.newTab(browser.Resolve(c.Arg(), m.config.SearchURL))
	case "tabclose":
		if !m.closeTab() {
			return tea.Quit
		}
		m.syncTab()
	case "theme":
		if c.Arg() == "" || !theme.Set(c.Arg()) {
			m.statusBar.SetError("themes: " + strings.Join(theme.List(), ", "))
			return nil
		}
		m.config.Theme = c.Arg()
		if m.saveTheme(c.Arg()) {
			m.statusBar.SetMessage("Theme: " + c.Arg())
		}
	case "help":
		m.showHelp()
	case "q", "quit":
		return tea.Quit
	default:
		m.statusBar.SetError("Unknown command: " + c.Name)
	}
	return nil
}

// showTreeDump shows the active tab's tree in its nested text form.
func (m *Model) showTreeDump() {
	t := m.activeTab()
	src := fmt.Sprintf("# History tree\n\n%d nodes, current: `%s`\n\n```\n%s\n```\n",
		t.nav.Tree().Len(), t.nav.Current().URL, t.nav.Tree().String())
	m.showPage(browser.RenderMarkdown("History tree", src, t.viewport.Width()))
}

func (m *Model) bookmarkCurrent() {
	if m.bookmarks == nil {
		m.statusBar.SetError("Bookmarks unavailable")
		return
	}
	cur := m.activeTab().nav.Current()
	added, err := m.bookmarks.Add(context.Background(), cur.URL, cur.Title)
	switch {
	case err != nil:
		m.log.Warn("adding bookmark", "url", cur.URL, "error", err)
		m.statusBar.SetError("Bookmark failed: " + err.Error())
	case added:
		m.statusBar.SetBookmarked(true)
		m.statusBar.SetMessage("Bookmarked " + cur.Title)
	default:
		m.statusBar.SetBookmarked(true)
		m.statusBar.SetMessage("Already bookmarked")
	}
}

// showBookmarks lists bookmarks; their numbers can be followed with f.
func (m *Model) showBookmarks() {
	if m.bookmarks == nil {
		m.statusBar.SetError("Bookmarks unavailable")
		return
	}
	list, err := m.bookmarks.List(context.Background())
	if err != nil {
		m.log.Warn("listing bookmarks", "error", err)
		m.statusBar.SetError(err.Error())
		return
	}
	src, links := storage.BookmarksPage(list)
	page := browser.RenderMarkdown("Bookmarks", src, m.activeTab().viewport.Width())
	page.Links = links
	m.showPage(page)
}

// showVisits lists the pages loaded in this session across all tabs.
func (m *Model) showVisits() {
	if m.visits == nil {
		m.statusBar.SetError("Visit log unavailable")
		return
	}
	list, err := m.visits.SessionVisits(context.Background(), m.visits.Session())
	if err != nil {
		m.log.Warn("listing visits", "error", err)
		m.statusBar.SetError(err.Error())
		return
	}
	src, links := storage.VisitsPage(list)
	page := browser.RenderMarkdown("Visits", src, m.activeTab().viewport.Width())
	page.Links = links
	m.showPage(page)
}

// saveTheme records name in the config file. The file is re-read first so
// command-line overrides held in m.config are not written back. It reports
// false after showing the error.
func (m *Model) saveTheme(name string) bool {
	if m.configPath == "" {
		return true
	}
	cfg, err := storage.LoadConfig(m.configPath)
	if err == nil {
		cfg.Theme = name
		err = cfg.Save(m.configPath)
	}
	if err != nil {
		m.log.Warn("saving theme", "path", m.configPath, "error", err)
		m.statusBar.SetError("Saving theme failed: " + err.Error())
		return false
	}
	return true
}

func (m *Model) showHelp() {
	var sb strings.Builder
	sb.WriteString("# Keys\n\n| key | action |\n| --- | --- |\n")
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	sb.WriteString("| `gg` | top of page |\n| `gh` | home page |\n| `gt` / `gT` | next / previous tab |\n")
	sb.WriteString("\n# Commands\n\n")
	for _, line := range []string{
		"`:open <url or words>` navigate, recording a new branch",
		"`:home` go to the home page",
		"`:back`, `:forward`, `:reload`",
		"`:jump <node>` jump to a node of the history tree",
		"`:tree` show the history tree as text",
		"`:bookmark`, `:bookmarks`",
		"`:visits` pages loaded this session",
		"`:tab [url]`, `:tabclose`",
		"`:theme <name>` switch and save the colour theme",
		"`:quit`",
	} {
		sb.WriteString("- " + line + "\n")
	}
	m.showPage(browser.RenderMarkdown("Help", sb.String(), m.activeTab().viewport.Width()))
}
