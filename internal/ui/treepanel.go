package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/vidyasagar/treesurf/internal/history"
	"github.com/vidyasagar/treesurf/internal/theme"
)

// hereMarker labels the node being displayed.
const hereMarker = "You are here"

// Abbreviate cuts s to width cells, ending it with "..." when it was longer.
func Abbreviate(s string, width int) string {
	if width <= 0 || ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "...")
}

// TreeRow is one line of the tree panel.
type TreeRow struct {
	ID    history.NodeID
	Depth int
	Title string
	URL   string
	// Primary is set on the branch Forward would follow from the parent.
	Primary bool
	Here    bool
}

// TreePanel shows a tab's branching history and lets the user pick a node
// to jump to.
type TreePanel struct {
	rows    []TreeRow
	trail   string
	cursor  int
	offset  int
	width   int
	height  int
	visible bool
}

func NewTreePanel() TreePanel {
	return TreePanel{}
}

// SetTree rebuilds the rows from t and puts the cursor on the current node.
func (tp *TreePanel) SetTree(t *history.Tree) {
	current := t.Current().ID
	seen := make(map[history.NodeID]history.Node, t.Len())

	tp.rows = tp.rows[:0]
	t.Walk(func(n history.Node, depth int) bool {
		seen[n.ID] = n
		primary := false
		if p, ok := seen[n.Parent]; ok {
			primary = p.Primary() == n.ID
		}
		tp.rows = append(tp.rows, TreeRow{
			ID:      n.ID,
			Depth:   depth,
			Title:   n.Title,
			URL:     n.URL,
			Primary: primary,
			Here:    n.ID == current,
		})
		return true
	})
	tp.trail = breadcrumb(t.Path())
	tp.CursorToCurrent()
}

// breadcrumbTitle is the cap for each step of the breadcrumb.
const breadcrumbTitle = 12

// breadcrumb joins the titles from the root to the current node.
func breadcrumb(path []history.Node) string {
	steps := make([]string, len(path))
	for i, n := range path {
		steps[i] = Abbreviate(n.Title, breadcrumbTitle)
	}
	return strings.Join(steps, " › ")
}

func (tp *TreePanel) SetSize(w, h int) {
	tp.width = w
	tp.height = h
	tp.ensureVisible()
}

func (tp *TreePanel) Show()           { tp.visible = true }
func (tp *TreePanel) Hide()           { tp.visible = false }
func (tp *TreePanel) IsVisible() bool { return tp.visible }

func (tp *TreePanel) Toggle() {
	tp.visible = !tp.visible
}

func (tp *TreePanel) CursorUp() {
	if tp.cursor > 0 {
		tp.cursor--
		tp.ensureVisible()
	}
}

func (tp *TreePanel) CursorDown() {
	if tp.cursor < len(tp.rows)-1 {
		tp.cursor++
		tp.ensureVisible()
	}
}

func (tp *TreePanel) GotoTop() {
	tp.cursor = 0
	tp.ensureVisible()
}

func (tp *TreePanel) GotoBottom() {
	if len(tp.rows) > 0 {
		tp.cursor = len(tp.rows) - 1
		tp.ensureVisible()
	}
}

// CursorToCurrent moves the cursor onto the "You are here" row.
func (tp *TreePanel) CursorToCurrent() {
	tp.cursor = 0
	for i, r := range tp.rows {
		if r.Here {
			tp.cursor = i
			break
		}
	}
	tp.ensureVisible()
}

// Select moves the cursor onto id. It reports false if id has no row.
func (tp *TreePanel) Select(id history.NodeID) bool {
	for i, r := range tp.rows {
		if r.ID == id {
			tp.cursor = i
			tp.ensureVisible()
			return true
		}
	}
	return false
}

// Selected returns the node under the cursor.
func (tp *TreePanel) Selected() (history.NodeID, bool) {
	if tp.cursor < 0 || tp.cursor >= len(tp.rows) {
		return history.NoNode, false
	}
	return tp.rows[tp.cursor].ID, true
}

func (tp *TreePanel) visibleCount() int {
	// header, breadcrumb, separator and hint
	return max(tp.height-4, 1)
}

func (tp *TreePanel) ensureVisible() {
	n := tp.visibleCount()
	if tp.cursor < tp.offset {
		tp.offset = tp.cursor
	}
	if tp.cursor >= tp.offset+n {
		tp.offset = tp.cursor - n + 1
	}
	tp.offset = max(tp.offset, 0)
}

// View renders the panel.
func (tp *TreePanel) View() string {
	if !tp.visible {
		return ""
	}

	t := theme.Current
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Background(t.Surface).Width(tp.width).Padding(0, 1)
	branchStyle := lipgloss.NewStyle().Foreground(t.Branch)
	textStyle := lipgloss.NewStyle().Foreground(t.Text)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextBright).Background(t.TabActive).Bold(true)
	hereStyle := lipgloss.NewStyle().Foreground(t.Here).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("History tree"))
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render(Abbreviate(tp.trail, max(tp.width-2, 1))))
	sb.WriteString("\n")
	sb.WriteString(branchStyle.Render(strings.Repeat("─", max(tp.width-2, 1))))
	sb.WriteString("\n")

	end := min(tp.offset+tp.visibleCount(), len(tp.rows))
	for i := tp.offset; i < end; i++ {
		r := tp.rows[i]

		glyph := "○ "
		if r.Depth == 0 || r.Primary {
			glyph = "● "
		}
		line := branchStyle.Render(strings.Repeat("│ ", r.Depth)+glyph) +
			textStyle.Render(Abbreviate(r.Title, history.MaxTitleLength))
		if i == tp.cursor {
			line = selectedStyle.Render(strings.Repeat("│ ", r.Depth) + glyph + Abbreviate(r.Title, history.MaxTitleLength))
		}
		if r.Here {
			line += " " + hereStyle.Render("◀ "+hereMarker)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if pad := tp.height - 4 - (end - tp.offset); pad > 0 {
		sb.WriteString(strings.Repeat("\n", pad))
	}
	sb.WriteString(hintStyle.Render("j/k:move  Enter:jump  p:primary  .:here  Esc:close"))

	return lipgloss.NewStyle().Width(tp.width).Height(tp.height).Render(sb.String())
}
