package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/treesurf/internal/theme"
)

// Mode is the input mode shown at the left of the status bar.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
	ModeFollow
	ModeTree
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	case ModeFollow:
		return "FOLLOW"
	case ModeTree:
		return "TREE"
	default:
		return "NORMAL"
	}
}

// StatusBar shows the mode, page title, navigation affordances and scroll
// position.
type StatusBar struct {
	mode       Mode
	title      string
	bookmarked bool
	loading    bool
	message    string
	isError    bool
	canBack    bool
	canForward bool
	nodes      int
	linkCount  int
	scrollInfo string
	width      int
}

func NewStatusBar() StatusBar {
	return StatusBar{}
}

func (s *StatusBar) SetWidth(w int)            { s.width = w }
func (s *StatusBar) SetMode(m Mode)            { s.mode = m }
func (s *StatusBar) SetTitle(title string)     { s.title = title }
func (s *StatusBar) SetLoading(loading bool)   { s.loading = loading }
func (s *StatusBar) SetBookmarked(on bool)     { s.bookmarked = on }
func (s *StatusBar) SetLinkCount(n int)        { s.linkCount = n }
func (s *StatusBar) SetScrollInfo(info string) { s.scrollInfo = info }

// SetNavigation updates the back/forward indicators and the tree size.
func (s *StatusBar) SetNavigation(canBack, canForward bool, nodes int) {
	s.canBack, s.canForward, s.nodes = canBack, canForward, nodes
}

// SetMessage shows a transient message until the next key press.
func (s *StatusBar) SetMessage(msg string) {
	s.message, s.isError = msg, false
}

// SetError shows msg in the error colour.
func (s *StatusBar) SetError(msg string) {
	s.message, s.isError = msg, true
}

func (s *StatusBar) ClearMessage() {
	s.message, s.isError = "", false
}

// Message returns the message currently shown, if any.
func (s *StatusBar) Message() string {
	return s.message
}

func (s *StatusBar) View() string {
	t := theme.Current
	base := lipgloss.NewStyle().Background(t.Surface)

	modeBg := t.Primary
	switch s.mode {
	case ModeInsert:
		modeBg = t.Success
	case ModeCommand:
		modeBg = t.Accent
	case ModeFollow:
		modeBg = t.Link
	case ModeTree:
		modeBg = t.Here
	}
	mode := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(t.Surface).Background(modeBg).Render(s.mode.String())

	arrow := func(glyph string, on bool) string {
		c := t.TextDim
		if on {
			c = t.TextBright
		}
		return base.Foreground(c).Render(glyph)
	}
	nav := base.Padding(0, 1).Render(arrow("◀", s.canBack) + base.Render(" ") + arrow("▶", s.canForward))

	var left string
	pad := base.Padding(0, 1)
	switch {
	case s.loading:
		left = pad.Foreground(t.Warning).Bold(true).Render("Loading...")
	case s.message != "" && s.isError:
		left = pad.Foreground(t.Error).Render(s.message)
	case s.message != "":
		left = pad.Foreground(t.Link).Render(s.message)
	case s.title != "":
		left = pad.Foreground(t.Text).Render(s.title)
	}
	if s.bookmarked {
		left = base.Foreground(t.Accent).PaddingLeft(1).Render("★") + left
	}

	dim := base.Foreground(t.TextDim).Padding(0, 1)
	right := dim.Render(fmt.Sprintf("%d nodes", s.nodes))
	if s.linkCount > 0 {
		right += dim.Render(fmt.Sprintf("%d links", s.linkCount))
	}
	right += base.Bold(true).Foreground(t.Accent).Padding(0, 1).Render(s.scrollInfo)

	used := lipgloss.Width(mode) + lipgloss.Width(nav) + lipgloss.Width(left) + lipgloss.Width(right)
	spacer := base.Render(fmt.Sprintf("%*s", max(s.width-used, 0), ""))

	return mode + nav + left + spacer + right
}
