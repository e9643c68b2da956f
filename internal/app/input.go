package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vidyasagar/treesurf/internal/ui"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return *m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.mode {
	case ui.ModeInsert:
		cmd = m.handleInsertKey(msg)
	case ui.ModeCommand, ui.ModeFollow:
		cmd = m.handleCommandKey(msg)
	case ui.ModeTree:
		cmd = m.handleTreeKey(msg)
	default:
		cmd = m.handleNormalKey(msg)
	}
	return *m, cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	t := m.activeTab()
	m.statusBar.ClearMessage()
	defer m.syncStatus()

	if m.pendingG {
		m.pendingG = false
		switch msg.String() {
		case "g":
			t.viewport.GotoTop()
			return nil
		case "h":
			return m.navigate(m.homepage())
		case "t":
			m.switchTab(1)
			return nil
		case "T":
			m.switchTab(-1)
			return nil
		}
	}

	switch {
	case msg.String() == "g":
		m.pendingG = true
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.ScrollDown):
		t.viewport.LineDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		t.viewport.LineUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		t.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		t.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.GotoBottom):
		t.viewport.GotoBottom()

	case key.Matches(msg, m.keys.OpenURL):
		m.setMode(ui.ModeInsert)
		return m.urlBar.Focus("")
	case key.Matches(msg, m.keys.EditURL):
		m.setMode(ui.ModeInsert)
		return m.urlBar.Focus(t.nav.Current().URL)
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Forward):
		return m.forward()
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.FollowLink):
		m.setMode(ui.ModeFollow)
		return m.openCommandBar(ui.CommandFollow)
	case key.Matches(msg, m.keys.Bookmark):
		m.bookmarkCurrent()
	case key.Matches(msg, m.keys.TreeToggle):
		m.openTree()
	case key.Matches(msg, m.keys.CommandMode):
		m.setMode(ui.ModeCommand)
		return m.openCommandBar(ui.CommandEx)

	case key.Matches(msg, m.keys.NewTab):
		return m.newTab("")
	case key.Matches(msg, m.keys.CloseTab):
		if !m.closeTab() {
			return tea.Quit
		}
		m.syncTab()
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
	case key.Matches(msg, m.keys.Help):
		m.showHelp()
	}
	return nil
}

func (m *Model) handleInsertKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.urlBar.Blur()
		m.setMode(ui.ModeNormal)
		return nil
	case tea.KeyEnter:
		input := m.urlBar.Submit()
		m.setMode(ui.ModeNormal)
		return m.navigate(input)
	}
	return m.urlBar.Update(msg)
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeCommandBar()
		return nil
	case tea.KeyEnter:
		res := m.commandBar.Submit()
		m.closeCommandBar()
		switch res.Type {
		case ui.CommandEx:
			return m.execute(ui.ParseCommand(res.Value))
		case ui.CommandFollow:
			return m.followLink(res.Value)
		}
		return nil
	}
	return m.commandBar.Update(msg)
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	k := m.treeKeys
	switch {
	case key.Matches(msg, k.Close):
		m.closeTree()
	case key.Matches(msg, k.Up):
		m.treePanel.CursorUp()
	case key.Matches(msg, k.Down):
		m.treePanel.CursorDown()
	case key.Matches(msg, k.Top):
		m.treePanel.GotoTop()
	case key.Matches(msg, k.Bottom):
		m.treePanel.GotoBottom()
	case key.Matches(msg, k.Current):
		m.treePanel.CursorToCurrent()
	case key.Matches(msg, k.Promote):
		m.promoteSelected()
	case key.Matches(msg, k.Jump):
		id, ok := m.treePanel.Selected()
		if !ok {
			return nil
		}
		cmd := m.jump(id)
		m.treePanel.SetTree(m.activeTab().nav.Tree())
		m.syncStatus()
		return cmd
	}
	return nil
}

// promoteSelected makes the node under the tree cursor the branch Forward
// follows from its parent.
func (m *Model) promoteSelected() {
	id, ok := m.treePanel.Selected()
	if !ok {
		return
	}
	tree := m.activeTab().nav.Tree()
	n, ok := tree.Node(id)
	if !ok || n.IsRoot() {
		m.statusBar.SetMessage("The root has no parent branch")
		return
	}
	tree.Promote(n.Parent, id)
	m.treePanel.SetTree(tree)
	m.treePanel.Select(id)
	m.syncStatus()
	m.statusBar.SetMessage("Primary branch: " + n.Title)
}

func (m *Model) openCommandBar(kind ui.CommandType) tea.Cmd {
	cmd := m.commandBar.Open(kind)
	m.layout()
	return cmd
}

func (m *Model) closeCommandBar() {
	m.commandBar.Close()
	m.setMode(ui.ModeNormal)
	m.layout()
}

func (m *Model) openTree() {
	m.treePanel.SetTree(m.activeTab().nav.Tree())
	m.treePanel.Show()
	m.setMode(ui.ModeTree)
	m.layout()
}

func (m *Model) closeTree() {
	m.treePanel.Hide()
	m.setMode(ui.ModeNormal)
	m.layout()
}

func (m *Model) followLink(value string) tea.Cmd {
	n, err := strconv.Atoi(value)
	if err != nil {
		m.statusBar.SetError("Not a link number: " + value)
		return nil
	}
	t := m.activeTab()
	if t.page == nil {
		return nil
	}
	link, ok := t.page.Link(n)
	if !ok {
		m.statusBar.SetError("No link " + value)
		return nil
	}
	return m.navigate(link.URL)
}

func (m *Model) newTab(input string) tea.Cmd {
	url := m.homepage()
	if input != "" {
		url = input
	}
	t := m.addTab(url)
	m.syncTab()
	return m.startLoad(t, t.nav.Start())
}
