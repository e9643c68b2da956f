package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the normal-mode bindings. Two-key sequences starting with g
// (gg, gh, gt, gT) are handled separately.
type KeyMap struct {
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	GotoBottom   key.Binding

	OpenURL     key.Binding
	EditURL     key.Binding
	Back        key.Binding
	Forward     key.Binding
	Reload      key.Binding
	FollowLink  key.Binding
	Bookmark    key.Binding
	TreeToggle  key.Binding
	CommandMode key.Binding

	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	Help key.Binding
	Quit key.Binding
}

// TreeKeyMap holds the bindings active while the tree panel has focus.
type TreeKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Jump    key.Binding
	Promote key.Binding
	Current key.Binding
	Close   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		ScrollDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "scroll down")),
		ScrollUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "scroll up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("Ctrl+d", "half page down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("Ctrl+u", "half page up")),
		GotoBottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom of page")),

		OpenURL:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open URL or search")),
		EditURL:     key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "edit current URL")),
		Back:        key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "back to parent")),
		Forward:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "forward along primary branch")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		FollowLink:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow link")),
		Bookmark:    key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "bookmark page")),
		TreeToggle:  key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("Ctrl+h", "history tree")),
		CommandMode: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),

		NewTab:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("Ctrl+t", "new tab")),
		CloseTab: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("Ctrl+w", "close tab")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("gt/Tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("gT/S-Tab", "previous tab")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func DefaultTreeKeyMap() TreeKeyMap {
	return TreeKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "root")),
		Bottom:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last node")),
		Jump:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "jump to node")),
		Promote: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "make primary branch")),
		Current: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "you are here")),
		Close:   key.NewBinding(key.WithKeys("esc", "ctrl+h", "q"), key.WithHelp("Esc", "close")),
	}
}

// helpBindings returns the bindings listed on the help page.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.OpenURL, k.EditURL, k.FollowLink, k.Back, k.Forward, k.Reload,
		k.TreeToggle, k.Bookmark, k.ScrollDown, k.ScrollUp, k.HalfPageDown,
		k.HalfPageUp, k.GotoBottom, k.NewTab, k.CloseTab, k.NextTab, k.PrevTab,
		k.CommandMode, k.Help, k.Quit,
	}
}
