package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/styles"
	"github.com/CarloDePieri/pass2keepass2/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return styles.HelpKey.Render(help.Key) + " " + styles.HelpDesc.Render(help.Desc)
}

// RenderHelpLine joins key bindings with bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status line, red for errors
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderLabelValue renders a "label: value" pair
func RenderLabelValue(label, value string) string {
	return styles.InputLabel.Render(label+":") + " " + value
}

// RenderTree draws the group tree below root with per-group entry counts.
// Entry titles are listed, secrets never are.
func RenderTree(root *domain.Group, showEntries bool) string {
	var b strings.Builder
	b.WriteString(styles.NodeGroup.Render(root.Path()))
	b.WriteString(styles.NodeCount.Render(countLabel(root)))
	b.WriteString("\n")
	renderChildren(&b, root, "", showEntries)
	return b.String()
}

func renderChildren(b *strings.Builder, g *domain.Group, prefix string, showEntries bool) {
	type line struct {
		group *domain.Group
		entry *domain.Entry
	}
	var lines []line
	for _, child := range g.Groups {
		lines = append(lines, line{group: child})
	}
	if showEntries {
		for _, e := range g.Entries {
			lines = append(lines, line{entry: e})
		}
	}

	for i, l := range lines {
		branch, indent := "├── ", "│   "
		if i == len(lines)-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(styles.TreeBranch.Render(prefix + branch))
		if l.group != nil {
			b.WriteString(styles.NodeGroup.Render(l.group.Name))
			b.WriteString(styles.NodeCount.Render(countLabel(l.group)))
			b.WriteString("\n")
			renderChildren(b, l.group, prefix+indent, showEntries)
			continue
		}
		b.WriteString(styles.NodeEntry.Render(l.entry.Title))
		b.WriteString("\n")
	}
}

func countLabel(g *domain.Group) string {
	return fmt.Sprintf(" (%d)", g.CountEntries())
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(styles.MutedText.Render(text))
}

// Message adds a message if non-empty
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
