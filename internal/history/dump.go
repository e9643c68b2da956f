package history

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// String renders the tree as nested "title: { ... }" blocks, one node per
// line, indented one space per level. Titles are cut to MaxTitleLength.
func (t *Tree) String() string {
	var sb strings.Builder
	var closers []int

	t.Walk(func(n Node, depth int) bool {
		for len(closers) > 0 && closers[len(closers)-1] >= depth {
			closeBlock(&sb, closers[len(closers)-1])
			closers = closers[:len(closers)-1]
		}
		sb.WriteString(strings.Repeat(" ", depth))
		sb.WriteString(abbreviate(n.Title))
		sb.WriteString(": {\n")
		closers = append(closers, depth)
		return true
	})
	for len(closers) > 0 {
		closeBlock(&sb, closers[len(closers)-1])
		closers = closers[:len(closers)-1]
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func closeBlock(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(" ", depth))
	sb.WriteString("}\n")
}

func abbreviate(s string) string {
	if ansi.PrintableRuneWidth(s) <= MaxTitleLength {
		return s
	}
	return truncate.StringWithTail(s, MaxTitleLength, "...")
}
