package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/treesurf/internal/theme"
)

// URLBar is the address bar. Input is resolved by browser.Resolve when
// submitted, so it accepts URLs, bare hosts and search terms alike.
type URLBar struct {
	input  textinput.Model
	active bool
	width  int
	// shown while the bar is not being edited
	location string
}

func NewURLBar() URLBar {
	ti := textinput.New()
	ti.Placeholder = "Enter URL or search..."
	ti.CharLimit = 2048
	ti.Prompt = ""
	return URLBar{input: ti}
}

func (u *URLBar) SetWidth(w int) {
	u.width = w
	u.input.Width = max(w-8, 10)
}

// SetLocation updates the address shown for the current page.
func (u *URLBar) SetLocation(url string) {
	u.location = url
	if !u.active {
		u.input.SetValue(url)
	}
}

// Focus starts editing, pre-filled with prefill.
func (u *URLBar) Focus(prefill string) tea.Cmd {
	u.active = true
	u.input.SetValue(prefill)
	u.input.CursorEnd()
	return u.input.Focus()
}

// Blur stops editing and restores the page location.
func (u *URLBar) Blur() {
	u.active = false
	u.input.Blur()
	u.input.SetValue(u.location)
}

func (u *URLBar) IsActive() bool {
	return u.active
}

// Submit returns the typed text and stops editing.
func (u *URLBar) Submit() string {
	v := u.input.Value()
	u.Blur()
	return v
}

func (u *URLBar) Update(msg tea.Msg) tea.Cmd {
	if !u.active {
		return nil
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return cmd
}

func (u *URLBar) View() string {
	t := theme.Current

	border, fg := t.Border, t.TextDim
	if u.active {
		border, fg = t.BorderFocus, t.Text
	}

	bar := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(u.width-2, 1))

	prompt := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("▸")
	return bar.Render(prompt + " " + u.input.View())
}
