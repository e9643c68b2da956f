// Package theme holds the colour palettes of the TUI.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps UI roles to colours.
type Theme struct {
	Name string

	// Glamour is the standard glamour style used for page bodies.
	Glamour string

	Primary lipgloss.Color
	Accent  lipgloss.Color

	Text       lipgloss.Color
	TextDim    lipgloss.Color
	TextBright lipgloss.Color

	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Link      lipgloss.Color
	LinkIndex lipgloss.Color

	// Tree panel
	Branch lipgloss.Color
	Here   lipgloss.Color

	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color

	TabActive   lipgloss.Color
	TabInactive lipgloss.Color
}

// palette is the small set of base colours a Theme is derived from.
type palette struct {
	glamour string
	fg      string
	dim     string
	bright  string
	surface string
	border  string
	primary string
	accent  string
	link    string
	muted   string
	red     string
	green   string
	yellow  string
}

func (p palette) theme(name string) Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Theme{
		Name:        name,
		Glamour:     p.glamour,
		Primary:     c(p.primary),
		Accent:      c(p.accent),
		Text:        c(p.fg),
		TextDim:     c(p.dim),
		TextBright:  c(p.bright),
		Surface:     c(p.surface),
		Border:      c(p.border),
		BorderFocus: c(p.primary),
		Link:        c(p.link),
		LinkIndex:   c(p.accent),
		Branch:      c(p.muted),
		Here:        c(p.green),
		Error:       c(p.red),
		Success:     c(p.green),
		Warning:     c(p.yellow),
		TabActive:   c(p.primary),
		TabInactive: c(p.muted),
	}
}

var palettes = map[string]palette{
	"default": {
		glamour: "dark",
		fg:      "#E2E8F0", dim: "#64748B", bright: "#F8FAFC",
		surface: "#1E293B", border: "#334155", muted: "#475569",
		primary: "#7C3AED", accent: "#F59E0B", link: "#38BDF8",
		red: "#EF4444", green: "#22C55E", yellow: "#F59E0B",
	},
	"gruvbox": {
		glamour: "dark",
		fg:      "#EBDBB2", dim: "#928374", bright: "#FBF1C7",
		surface: "#3C3836", border: "#504945", muted: "#665C54",
		primary: "#D65D0E", accent: "#FABD2F", link: "#83A598",
		red: "#FB4934", green: "#B8BB26", yellow: "#FABD2F",
	},
	"nord": {
		glamour: "dark",
		fg:      "#D8DEE9", dim: "#4C566A", bright: "#ECEFF4",
		surface: "#3B4252", border: "#434C5E", muted: "#4C566A",
		primary: "#88C0D0", accent: "#EBCB8B", link: "#81A1C1",
		red: "#BF616A", green: "#A3BE8C", yellow: "#EBCB8B",
	},
	"dracula": {
		glamour: "dracula",
		fg:      "#F8F8F2", dim: "#6272A4", bright: "#FFFFFF",
		surface: "#44475A", border: "#44475A", muted: "#6272A4",
		primary: "#BD93F9", accent: "#FFB86C", link: "#8BE9FD",
		red: "#FF5555", green: "#50FA7B", yellow: "#F1FA8C",
	},
	"tokyonight": {
		glamour: "tokyo-night",
		fg:      "#C0CAF5", dim: "#565F89", bright: "#FFFFFF",
		surface: "#24283B", border: "#3B4261", muted: "#414868",
		primary: "#7AA2F7", accent: "#FF9E64", link: "#7DCFFF",
		red: "#F7768E", green: "#9ECE6A", yellow: "#E0AF68",
	},
	"light": {
		glamour: "light",
		fg:      "#1F2937", dim: "#6B7280", bright: "#000000",
		surface: "#F3F4F6", border: "#D1D5DB", muted: "#9CA3AF",
		primary: "#4F46E5", accent: "#B45309", link: "#0369A1",
		red: "#DC2626", green: "#15803D", yellow: "#B45309",
	},
}

// Current is the active theme. It is replaced by Set.
var Current = palettes["default"].theme("default")

// Set changes the active theme by name.
func Set(name string) bool {
	p, ok := palettes[name]
	if !ok {
		return false
	}
	Current = p.theme(name)
	return true
}

// Get returns the named theme without activating it.
func Get(name string) (Theme, bool) {
	p, ok := palettes[name]
	if !ok {
		return Theme{}, false
	}
	return p.theme(name), true
}

// List returns the theme names in sorted order.
func List() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
