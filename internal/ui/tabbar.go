package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/treesurf/internal/theme"
)

// Tab is the label of one browser tab.
type Tab struct {
	Title string
	URL   string
}

// TabBar renders the tab strip. The app owns the tab list and hands the
// labels in on every render.
type TabBar struct {
	width int
}

func NewTabBar() TabBar {
	return TabBar{}
}

func (tb *TabBar) SetWidth(w int) {
	tb.width = w
}

// maxVisible is how many tabs fit at the current width.
func (tb *TabBar) maxVisible() int {
	return min(max(tb.width/20, 2), 10)
}

// visibleRange returns the window of tabs to draw so that active is shown.
func (tb *TabBar) visibleRange(count, active int) (start, end int) {
	n := tb.maxVisible()
	if count <= n {
		return 0, count
	}
	start = max(active-n/2, 0)
	end = start + n
	if end > count {
		end = count
		start = max(end-n, 0)
	}
	return start, end
}

func (tb *TabBar) View(tabs []Tab, active int) string {
	t := theme.Current

	activeStyle := lipgloss.NewStyle().Foreground(t.TextBright).Background(t.TabActive).Bold(true).Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.TabInactive).Padding(0, 1)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	sep := lipgloss.NewStyle().Foreground(t.Border).Render("|")

	start, end := tb.visibleRange(len(tabs), active)
	labelWidth := max(tb.width/tb.maxVisible()-4, 8)

	var sb strings.Builder
	if start > 0 {
		sb.WriteString(dim.Render(fmt.Sprintf(" +%d ", start)))
	}
	for i := start; i < end; i++ {
		title := tabs[i].Title
		if title == "" {
			title = "New Tab"
		}
		label := fmt.Sprintf("%d:%s", i+1, Abbreviate(title, labelWidth))
		if i == active {
			sb.WriteString(activeStyle.Render(label))
		} else {
			sb.WriteString(inactiveStyle.Render(label))
		}
		if i < end-1 {
			sb.WriteString(sep)
		}
	}
	if end < len(tabs) {
		sb.WriteString(dim.Render(fmt.Sprintf(" +%d ", len(tabs)-end)))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(tb.width).Render(sb.String())
}
