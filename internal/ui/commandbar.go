package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/treesurf/internal/theme"
)

// CommandType identifies what the command bar is collecting.
type CommandType int

const (
	CommandNone   CommandType = iota
	CommandEx                 // :command
	CommandFollow             // link number
)

// CommandResult is returned when the command bar is submitted.
type CommandResult struct {
	Type  CommandType
	Value string
}

// Command is a parsed ":name args" line.
type Command struct {
	Name string
	Args []string
}

// Arg returns the arguments joined by spaces.
func (c Command) Arg() string {
	return strings.Join(c.Args, " ")
}

// ParseCommand splits an ex command line into its name and arguments.
func ParseCommand(line string) Command {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

// CommandBar is the bottom input line for ":" commands and link following.
// Ex commands keep a recall history browsed with the arrow keys.
type CommandBar struct {
	input   textinput.Model
	kind    CommandType
	width   int
	history []string
	recall  int
}

func NewCommandBar() CommandBar {
	ti := textinput.New()
	ti.CharLimit = 256
	return CommandBar{input: ti, recall: -1}
}

func (c *CommandBar) SetWidth(w int) {
	c.width = w
	c.input.Width = max(w-4, 10)
}

// Open starts collecting input of the given kind.
func (c *CommandBar) Open(kind CommandType) tea.Cmd {
	c.kind = kind
	c.recall = -1
	c.input.Reset()
	switch kind {
	case CommandEx:
		c.input.Prompt = ":"
		c.input.Placeholder = "open <url> | home | tree | bookmark | bookmarks | tab | theme <name> | quit"
	case CommandFollow:
		c.input.Prompt = "f"
		c.input.Placeholder = "link #"
	}
	return c.input.Focus()
}

func (c *CommandBar) Close() {
	c.kind = CommandNone
	c.input.Blur()
	c.input.Reset()
}

func (c *CommandBar) IsActive() bool {
	return c.kind != CommandNone
}

// Submit closes the bar and returns what was typed.
func (c *CommandBar) Submit() CommandResult {
	r := CommandResult{Type: c.kind, Value: strings.TrimSpace(c.input.Value())}
	if r.Type == CommandEx && r.Value != "" {
		c.history = append(c.history, r.Value)
	}
	c.Close()
	return r
}

func (c *CommandBar) Update(msg tea.Msg) tea.Cmd {
	if !c.IsActive() {
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && c.kind == CommandEx {
		switch key.Type {
		case tea.KeyUp:
			if c.recall < len(c.history)-1 {
				c.recall++
				c.input.SetValue(c.history[len(c.history)-1-c.recall])
				c.input.CursorEnd()
			}
			return nil
		case tea.KeyDown:
			if c.recall > 0 {
				c.recall--
				c.input.SetValue(c.history[len(c.history)-1-c.recall])
			} else {
				c.recall = -1
				c.input.Reset()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *CommandBar) View() string {
	if !c.IsActive() {
		return ""
	}
	t := theme.Current
	return lipgloss.NewStyle().Foreground(t.Text).Background(t.Surface).Width(c.width).Render(c.input.View())
}
