package tui

import (
	"fmt"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/rules"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// Color scheme used throughout the mirror TUI.
var (
	// Core colors (5 colors)
	colorPrimary    = lipgloss.Color("#3a6b4a") // Dark green - main text, headers
	colorSecondary  = lipgloss.Color("#5a8c6a") // Medium green - status bars
	colorAccent     = lipgloss.Color("#8fc279") // Light green - borders, highlights
	colorBackground = lipgloss.Color("#f8f8f8") // Light background
	colorMuted      = lipgloss.Color("#9ba8c0") // Gray - link files, secondary text

	// State colors (2 colors)
	colorSuccess = lipgloss.Color("#5dc796") // Mapped dirs, successful commits
	colorError   = lipgloss.Color("#f04c56") // Unmapped dirs, error states
)

// ---- predicate helpers ----
// metaRule adapts a metadata predicate to a node predicate. If a node lacks
// metadata the predicate returns false.
func metaRule(cond func(*core.MirrorMeta) bool) func(*treeview.Node[treeview.FileInfo]) bool {
	return func(n *treeview.Node[treeview.FileInfo]) bool {
		if mm := core.GetMeta(n); mm != nil {
			return cond(mm)
		}
		return false
	}
}

// statusIs returns a predicate matching nodes whose commit status equals s
func statusIs(s core.CommitStatus) func(*treeview.Node[treeview.FileInfo]) bool {
	return metaRule(func(mm *core.MirrorMeta) bool { return mm.CommitStatus == s })
}

// isMapped matches directories with a persisted mapping that yields an output dir
func isMapped() func(*treeview.Node[treeview.FileInfo]) bool {
	return metaRule(func(mm *core.MirrorMeta) bool {
		d := mm.Mapped()
		return d != nil && d.HasValidDirRenamer()
	})
}

// isUnmappable matches persisted mappings whose directory rule is invalid
func isUnmappable() func(*treeview.Node[treeview.FileInfo]) bool {
	return metaRule(func(mm *core.MirrorMeta) bool {
		d := mm.Mapped()
		return d != nil && !d.HasValidDirRenamer()
	})
}

// isUnmapped matches directories the store knows nothing about
func isUnmapped() func(*treeview.Node[treeview.FileInfo]) bool {
	return metaRule(func(mm *core.MirrorMeta) bool {
		_, ok := mm.State.(core.Unmapped)
		return ok
	})
}

// isLinkFile matches the per-file children of a mapped directory
func isLinkFile(n *treeview.Node[treeview.FileInfo]) bool {
	return core.GetMeta(n) == nil && !n.Data().IsDir()
}

// CreateMirrorProvider constructs the [treeview.DefaultNodeProvider] used by
// the mirror browser. It wires together:
//   - icon rules (commit status precedes mapping state)
//   - style rules (normal & focused variants) with the same precedence
//   - the custom [MirrorFormatter] for inline output←input labeling.
func CreateMirrorProvider() *treeview.DefaultNodeProvider[treeview.FileInfo] {
	// Icon rules (order matters: status first)
	successIconRule := treeview.WithIconRule(statusIs(core.CommitStatusSuccess), "✅")
	errorIconRule := treeview.WithIconRule(statusIs(core.CommitStatusError), "❌")
	unmappableIconRule := treeview.WithIconRule(isUnmappable(), "⚠️")
	mappedIconRule := treeview.WithIconRule(isMapped(), "🔗")
	unmappedIconRule := treeview.WithIconRule(isUnmapped(), "📁")
	defaultIconRule := treeview.WithDefaultIcon[treeview.FileInfo]("📄")

	// Style rules (most specific first)
	successStyleRule := treeview.WithStyleRule(
		statusIs(core.CommitStatusSuccess),
		lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Background(colorBackground),
	)
	errorStyleRule := treeview.WithStyleRule(
		statusIs(core.CommitStatusError),
		lipgloss.NewStyle().Foreground(colorError),
		lipgloss.NewStyle().Foreground(colorError).Background(colorBackground),
	)
	unmappableStyleRule := treeview.WithStyleRule(
		isUnmappable(),
		lipgloss.NewStyle().Foreground(colorError).Italic(true),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorError).Italic(true),
	)
	mappedStyleRule := treeview.WithStyleRule(
		isMapped(),
		lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		lipgloss.NewStyle().Foreground(colorBackground).Bold(true).Background(colorSecondary).PaddingRight(1),
	)
	unmappedStyleRule := treeview.WithStyleRule(
		isUnmapped(),
		lipgloss.NewStyle().Foreground(colorError).Bold(true),
		lipgloss.NewStyle().Foreground(colorBackground).Bold(true).Background(colorError).PaddingRight(1),
	)
	linkFileStyleRule := treeview.WithStyleRule(
		isLinkFile,
		lipgloss.NewStyle().Foreground(colorMuted),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorPrimary),
	)
	defaultStyleRule := treeview.WithStyleRule(
		func(*treeview.Node[treeview.FileInfo]) bool { return true },
		lipgloss.NewStyle().Foreground(colorPrimary),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorPrimary),
	)

	formatterRule := treeview.WithFormatter(MirrorFormatter)

	return treeview.NewDefaultNodeProvider(
		// Icon rules (order matters - most specific first)
		successIconRule, errorIconRule, unmappableIconRule, mappedIconRule, unmappedIconRule, defaultIconRule,
		// Style rules (order matters - most specific first)
		errorStyleRule, successStyleRule, unmappableStyleRule, mappedStyleRule, unmappedStyleRule, linkFileStyleRule, defaultStyleRule,
		// Formatter
		formatterRule,
	)
}

// MirrorFormatter produces the display label for a node.
//
//   - Unmapped directories and nodes without metadata show their own name.
//   - A failed commit shows the directory name plus the error message.
//   - A mapping with an invalid directory rule shows "error ← <in>".
//   - A mapping whose output name differs shows "<out> ← <in>".
//   - Link file children are labelled the same way from their source file.
func MirrorFormatter(node *treeview.Node[treeview.FileInfo]) (string, bool) {
	mm := core.GetMeta(node)
	if mm == nil {
		if node.Data().IsDir() {
			return node.Name(), true
		}
		return arrow(node.Name(), rules.FileName(node.Data().Path)), true
	}

	if mm.CommitStatus == core.CommitStatusError {
		return fmt.Sprintf("%s: %s", node.Name(), mm.CommitError), true
	}

	d := mm.Mapped()
	if d == nil {
		return node.Name(), true
	}
	out, ok := d.OutDirName()
	if !ok {
		return arrow("error", node.Name()), true
	}
	return arrow(out, node.Name()), true
}

func arrow(out, in string) string {
	if out == in {
		return in
	}
	return fmt.Sprintf("%s ← %s", out, in)
}
