package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/treesurf/internal/theme"
)

// PageViewport shows rendered page content. It is created lazily on the
// first window size message.
type PageViewport struct {
	vp    viewport.Model
	ready bool
	empty bool
}

func NewPageViewport() PageViewport {
	return PageViewport{empty: true}
}

func (pv *PageViewport) SetSize(width, height int) {
	if !pv.ready {
		pv.vp = viewport.New(width, height)
		pv.vp.MouseWheelEnabled = true
		pv.vp.MouseWheelDelta = 3
		pv.ready = true
		return
	}
	pv.vp.Width = width
	pv.vp.Height = height
}

// SetContent replaces the content and scrolls to the top.
func (pv *PageViewport) SetContent(content string) {
	if !pv.ready {
		return
	}
	pv.vp.SetContent(content)
	pv.vp.GotoTop()
	pv.empty = false
}

func (pv *PageViewport) Update(msg tea.Msg) tea.Cmd {
	if !pv.ready {
		return nil
	}
	var cmd tea.Cmd
	pv.vp, cmd = pv.vp.Update(msg)
	return cmd
}

func (pv *PageViewport) View() string {
	switch {
	case !pv.ready:
		return "\n  Initializing..."
	case pv.empty:
		return welcome()
	default:
		return pv.vp.View()
	}
}

// ScrollInfo returns "TOP", "BOT" or a percentage.
func (pv *PageViewport) ScrollInfo() string {
	if !pv.ready {
		return "TOP"
	}
	switch pct := pv.vp.ScrollPercent(); {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

func (pv *PageViewport) LineDown(n int) {
	if pv.ready {
		pv.vp.ScrollDown(n)
	}
}

func (pv *PageViewport) LineUp(n int) {
	if pv.ready {
		pv.vp.ScrollUp(n)
	}
}

func (pv *PageViewport) HalfPageDown() {
	if pv.ready {
		pv.vp.HalfPageDown()
	}
}

func (pv *PageViewport) HalfPageUp() {
	if pv.ready {
		pv.vp.HalfPageUp()
	}
}

func (pv *PageViewport) GotoTop() {
	if pv.ready {
		pv.vp.GotoTop()
	}
}

func (pv *PageViewport) GotoBottom() {
	if pv.ready {
		pv.vp.GotoBottom()
	}
}

func (pv *PageViewport) Width() int {
	if !pv.ready {
		return 0
	}
	return pv.vp.Width
}

func welcome() string {
	t := theme.Current
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	key := lipgloss.NewStyle().Foreground(t.Accent)
	desc := lipgloss.NewStyle().Foreground(t.Text)

	var sb strings.Builder
	sb.WriteString(title.Render("\n  treesurf"))
	sb.WriteString("\n")
	sb.WriteString(dim.Render("  a terminal browser that never forgets a branch"))
	sb.WriteString("\n\n")

	for _, k := range [][2]string{
		{"o", "Open URL / search"},
		{"f", "Follow link by number"},
		{"H / L", "Back / forward along the primary branch"},
		{"Ctrl+h", "History tree, Enter jumps to a node"},
		{"gh", "Home page"},
		{"r", "Reload"},
		{"B", "Bookmark page"},
		{":", "Command mode"},
		{"q", "Quit"},
	} {
		sb.WriteString(key.Render(fmt.Sprintf("  %-10s", k[0])))
		sb.WriteString(desc.Render(k[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}
