package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/mirror"
	"github.com/Digital-Shane/symmirror/internal/store"

	"github.com/Digital-Shane/treeview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// maxLogLines bounds the in-memory log panel.
const maxLogLines = 200

// Cached base styles (applied with dynamic Width each render) to avoid
// re-allocating identical style pipelines on every View() call.
var (
	headerStyleBase = lipgloss.NewStyle().
			Bold(true).
			Background(colorPrimary).
			Foreground(colorBackground).
			Align(lipgloss.Center)

	statusStyleBase = lipgloss.NewStyle().
			Background(colorSecondary).
			Foreground(colorBackground).
			Padding(0, 1)
)

// Env carries the collaborators a MirrorModel needs.
type Env struct {
	Fs        afero.Fs
	Store     store.Store
	Committer Committer
	InRoot    string
	OutRoot   string
	Log       logr.Logger
}

// MirrorModel wraps the treeview TUI model with the list of input directories,
// a log panel, and an embedded editor for the focused directory.
type MirrorModel struct {
	*treeview.TuiTreeModel[treeview.FileInfo]
	env Env

	editor           *ConfigureModel
	commitInProgress bool
	logs             []string

	width  int
	height int

	// Layout metrics
	treeWidth  int
	treeHeight int
	logsWidth  int
	logsHeight int
}

// NewMirrorModel returns a MirrorModel listing states with default dimensions
// (later adjusted on the first WindowSize message).
func NewMirrorModel(states []core.MappingState, env Env) *MirrorModel {
	m := &MirrorModel{
		env:    env,
		width:  80,
		height: 24,
	}
	m.CalculateLayout()
	m.TuiTreeModel = m.createSizedTuiModel(NewStateTree(states))
	return m
}

// NewStateTree builds the directory tree shown by the browser.
func NewStateTree(states []core.MappingState) *treeview.Tree[treeview.FileInfo] {
	return treeview.NewTree(stateNodes(states),
		treeview.WithExpandAll[treeview.FileInfo](),
		treeview.WithProvider(CreateMirrorProvider()),
	)
}

func stateNodes(states []core.MappingState) []*treeview.Node[treeview.FileInfo] {
	nodes := make([]*treeview.Node[treeview.FileInfo], 0, len(states))
	for _, s := range states {
		nodes = append(nodes, core.NewStateNode(s))
	}
	return nodes
}

// CalculateLayout recomputes panel dimensions from current window size.
func (m *MirrorModel) CalculateLayout() {
	// Set tree width to 60%
	tw := m.width * 6 / 10
	// Add virtual space for header, status, and white space
	th := m.height - 3
	if th < 5 {
		th = 5
	}
	m.treeWidth = tw
	m.treeHeight = th
	m.logsWidth = m.width - tw
	// Rounded border takes two more lines.
	m.logsHeight = th - 2
	if m.logsHeight < 1 {
		m.logsHeight = 1
	}
}

// createSizedTuiModel builds a tree model sized to current dimensions and
// disables treeview features (search/reset) not needed for this application.
func (m *MirrorModel) createSizedTuiModel(tree *treeview.Tree[treeview.FileInfo]) *treeview.TuiTreeModel[treeview.FileInfo] {
	keyMap := treeview.DefaultKeyMap()
	keyMap.SearchStart = []string{} // Disable search
	keyMap.Reset = []string{}       // Disable ctrl+r reset

	return treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[treeview.FileInfo](m.treeWidth),
		treeview.WithTuiHeight[treeview.FileInfo](m.treeHeight),
		treeview.WithTuiAllowResize[treeview.FileInfo](true),
		treeview.WithTuiDisableNavBar[treeview.FileInfo](true),
		treeview.WithTuiKeyMap[treeview.FileInfo](keyMap),
	)
}

// Init initializes the embedded tree model and requests an initial window size.
func (m *MirrorModel) Init() tea.Cmd {
	return tea.Batch(
		m.TuiTreeModel.Init(),
		tea.WindowSize(),
	)
}

// Editing reports whether the configure screen is open.
func (m *MirrorModel) Editing() bool { return m.editor != nil }

// Logs returns the log panel lines, oldest first.
func (m *MirrorModel) Logs() []string { return m.logs }

// Update handles Bubble Tea messages (resize, keys, editor and commit events).
func (m *MirrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.CalculateLayout()
		if m.editor != nil {
			m.editor.Update(msg)
		}
		internalMsg := tea.WindowSizeMsg{Width: m.treeWidth, Height: m.treeHeight}
		updated, cmd := m.TuiTreeModel.Update(internalMsg)
		if tm, ok := updated.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
			m.TuiTreeModel = tm
		}
		return m, cmd

	case SaveRequestedMsg:
		if m.editor == nil || m.commitInProgress {
			return m, nil
		}
		m.commitInProgress = true
		// The editor keeps taking keys while the commit runs, so commit a snapshot.
		return m, CommitCmd(m.env.Committer, m.editor.Persisted(), m.editor.Dir().Clone(), m.env.OutRoot)

	case EditAbortedMsg:
		m.editor = nil
		return m, nil

	case CommitCompleteMsg:
		m.commitInProgress = false
		m.handleCommitComplete(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editor != nil {
			_, cmd := m.editor.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			m.openEditor()
			return m, nil
		case "r":
			m.Refresh()
			return m, nil
		case "pgup":
			m.TuiTreeModel.Tree.Move(context.Background(), -m.pageSize())
			return m, nil
		case "pgdown":
			m.TuiTreeModel.Tree.Move(context.Background(), m.pageSize())
			return m, nil
		}

	case tea.MouseMsg:
		if m.editor != nil {
			return m, nil
		}
		switch msg.Type {
		case tea.MouseWheelUp:
			m.TuiTreeModel.Tree.Move(context.Background(), -1)
			return m, nil
		case tea.MouseWheelDown:
			m.TuiTreeModel.Tree.Move(context.Background(), 1)
			return m, nil
		}
	}

	if m.editor != nil {
		_, cmd := m.editor.Update(msg)
		return m, cmd
	}

	updatedModel, cmd := m.TuiTreeModel.Update(msg)
	if tm, ok := updatedModel.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
		m.TuiTreeModel = tm
	}
	return m, cmd
}

func (m *MirrorModel) pageSize() int {
	if m.treeHeight <= 0 {
		return 10
	}
	return m.treeHeight
}

// focusedDir returns the focused directory node, climbing from a link file
// child to its directory.
func (m *MirrorModel) focusedDir() *treeview.Node[treeview.FileInfo] {
	n := m.TuiTreeModel.Tree.GetFocusedNode()
	for n != nil && core.GetMeta(n) == nil {
		n = n.Parent()
	}
	return n
}

// openEditor starts a ConfigureModel on the focused directory.
func (m *MirrorModel) openEditor() {
	if n := m.focusedDir(); n != nil {
		m.EditDir(n.Data().Path)
	}
}

// EditDir opens the editor on the input directory at inPath. It reports
// false when no such directory is listed or it cannot be read.
func (m *MirrorModel) EditDir(inPath string) bool {
	n := m.findDir(inPath)
	if n == nil {
		return false
	}
	mm := core.GetMeta(n)
	dir, err := core.ToMappedDir(m.env.Fs, mm.State)
	if err != nil {
		m.appendLog(fmt.Sprintf("✗ %s: %v", mm.State.InDirName(), err))
		m.env.Log.Error(err, "Open editor failed", "in", mm.State.InDirPath())
		return false
	}
	m.editor = NewConfigureModel(mm.Mapped(), dir)
	m.editor.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return true
}

// handleCommitComplete records the outcome, updates the node's metadata and
// closes the editor on success.
func (m *MirrorModel) handleCommitComplete(msg CommitCompleteMsg) {
	name := msg.Dir.InDirName()
	n := m.findDir(msg.Dir.InDirPath())

	if msg.Err != nil {
		m.appendLog(fmt.Sprintf("✗ %s: %v", name, msg.Err))
		if n != nil {
			_ = core.GetMeta(n).Fail(msg.Err)
		}
		if m.editor != nil {
			m.editor.SetError(msg.Err)
		}
		return
	}

	switch msg.Result.Outcome {
	case mirror.OutcomeNoChange:
		m.appendLog(fmt.Sprintf("= %s: no change", name))
	case mirror.OutcomeUnmappable:
		m.appendLog(fmt.Sprintf("⚠ %s: unmappable, output removed", name))
	default:
		out, _ := msg.Dir.OutDirName()
		m.appendLog(fmt.Sprintf("✓ %s → %s (%d links)", name, out, msg.Result.Linked))
	}
	if n != nil {
		core.GetMeta(n).Success(msg.Dir)
	}
	m.editor = nil
	m.rebuildTree()
}

// findDir returns the top-level node for inPath.
func (m *MirrorModel) findDir(inPath string) *treeview.Node[treeview.FileInfo] {
	for _, n := range m.TuiTreeModel.Tree.Nodes() {
		if n.Data().Path == inPath {
			return n
		}
	}
	return nil
}

// rebuildTree regenerates every node from its metadata so link file
// children follow the committed mapping. Commit status is preserved.
func (m *MirrorModel) rebuildTree() {
	old := m.TuiTreeModel.Tree.Nodes()
	nodes := make([]*treeview.Node[treeview.FileInfo], 0, len(old))
	for _, n := range old {
		mm := core.GetMeta(n)
		if mm == nil {
			continue
		}
		fresh := core.NewStateNode(mm.State)
		nm := core.GetMeta(fresh)
		nm.CommitStatus = mm.CommitStatus
		nm.CommitError = mm.CommitError
		nodes = append(nodes, fresh)
	}
	m.TuiTreeModel.Tree.SetNodes(nodes)
}

// Refresh rediscovers the input root and replaces the tree. Commit history
// of this session is dropped.
func (m *MirrorModel) Refresh() {
	states, err := core.Discover(m.env.Fs, m.env.Store, m.env.InRoot)
	if err != nil {
		m.appendLog(fmt.Sprintf("✗ refresh: %v", err))
		m.env.Log.Error(err, "Refresh failed", "root", m.env.InRoot)
		return
	}
	m.TuiTreeModel.Tree.SetNodes(stateNodes(states))
	m.appendLog(fmt.Sprintf("↻ %d directories", len(states)))
}

func (m *MirrorModel) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

// View returns the full TUI string, or the editor when one is open.
func (m *MirrorModel) View() string {
	if m.editor != nil {
		return m.editor.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderTwoPanelLayout())
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader creates the single‑line header bar with both roots.
func (m *MirrorModel) renderHeader() string {
	style := headerStyleBase.Width(m.width)
	return style.Render(fmt.Sprintf("🔗 Symlink Mirror - %s → %s", m.env.InRoot, m.env.OutRoot))
}

// renderStatusBar renders a single line of key hints and actions.
func (m *MirrorModel) renderStatusBar() string {
	style := statusStyleBase.Width(m.width)
	statusText := "↑↓: Navigate  PgUp/PgDn: Page  ←→: Expand/Collapse  │  enter: Configure  r: Refresh  │  esc: Quit"
	if m.commitInProgress {
		statusText = "Committing..."
	}
	return style.Render(statusText)
}

// renderTwoPanelLayout joins the tree view and log panel horizontally.
func (m *MirrorModel) renderTwoPanelLayout() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.TuiTreeModel.View(), m.renderLogsPanel())
}

// renderLogsPanel shows summary counts followed by the newest log lines that fit.
func (m *MirrorModel) renderLogsPanel() string {
	style := lipgloss.NewStyle().
		Width(max(m.logsWidth-6, 1)).
		Height(m.logsHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1)

	stats := m.calculateStats()
	var b strings.Builder
	b.Grow(512)
	b.WriteString("📊 Directories\n")
	fmt.Fprintf(&b, "  Mapped:     %d\n", stats.mapped)
	fmt.Fprintf(&b, "  Unmapped:   %d\n", stats.unmapped)
	fmt.Fprintf(&b, "  Unmappable: %d\n", stats.unmappable)
	fmt.Fprintf(&b, "  Links:      %d\n", stats.links)

	b.WriteString("\n📜 Logs\n")
	room := max(m.logsHeight-10, 1)
	start := max(len(m.logs)-room, 0)
	for _, line := range m.logs[start:] {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return style.Render(b.String())
}

// Statistics aggregates counts derived from the current tree.
type Statistics struct {
	mapped     int
	unmapped   int
	unmappable int
	links      int
}

func (m *MirrorModel) calculateStats() Statistics {
	var stats Statistics
	for _, n := range m.TuiTreeModel.Tree.Nodes() {
		mm := core.GetMeta(n)
		if mm == nil {
			continue
		}
		d := mm.Mapped()
		switch {
		case d == nil:
			stats.unmapped++
		case !d.HasValidDirRenamer():
			stats.unmappable++
		default:
			stats.mapped++
			stats.links += d.LinkCount()
		}
	}
	return stats
}
