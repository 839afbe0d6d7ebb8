package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/rules"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fieldLabels names the configuration inputs in ConfigIndex order.
var fieldLabels = [core.NumConfigs]string{
	core.ConfigExtFilter:    "Extensions",
	core.ConfigDirMatcher:   "Dir matcher",
	core.ConfigDirReplacer:  "Dir replacer",
	core.ConfigFileMatcher:  "File matcher",
	core.ConfigFileReplacer: "File replacer",
}

var fieldPlaceholders = [core.NumConfigs]string{
	core.ConfigExtFilter:    "e.g., mkv,mp4,srt",
	core.ConfigDirMatcher:   "e.g., (.+) \\((\\d{4})\\)",
	core.ConfigDirReplacer:  "e.g., $1 [$2]",
	core.ConfigFileMatcher:  "e.g., (.+)",
	core.ConfigFileReplacer: "e.g., $1",
}

var (
	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	invalidFieldStyle = fieldStyle.BorderForeground(colorError)
)

// SaveRequestedMsg asks the parent model to commit the edited mapping.
type SaveRequestedMsg struct{}

// EditAbortedMsg asks the parent model to close the editor without saving.
type EditAbortedMsg struct{}

// EditStatus compares the edited configuration with the persisted one.
type EditStatus int

const (
	EditNew     EditStatus = iota // Never committed
	EditSaved                     // Identical to the persisted mapping
	EditChanged                   // Differs from the persisted mapping
)

func (s EditStatus) String() string {
	switch s {
	case EditSaved:
		return "Saved"
	case EditChanged:
		return "Changed"
	default:
		return "New"
	}
}

// ConfigureModel edits the five configuration strings of one input directory
// and previews the resulting mapping on every keystroke.
type ConfigureModel struct {
	persisted *core.MappedDir // nil when the directory is unmapped
	dir       *core.MappedDir // working copy, never shared with persisted
	inputs    [core.NumConfigs]textinput.Model
	focus     core.ConfigIndex
	err       string

	width  int
	height int
}

// NewConfigureModel opens an editor on dir. persisted is the committed
// mapping of the same directory, or nil.
func NewConfigureModel(persisted, dir *core.MappedDir) *ConfigureModel {
	m := &ConfigureModel{
		persisted: persisted,
		dir:       dir,
		width:     80,
		height:    24,
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[i]
		in.CharLimit = 256
		in.Width = 40
		in.SetValue(dir.Config(core.ConfigIndex(i)))
		m.inputs[i] = in
	}
	m.inputs[m.focus].Focus()
	return m
}

// Init satisfies tea.Model.
func (m *ConfigureModel) Init() tea.Cmd { return textinput.Blink }

// Dir returns the working copy being edited.
func (m *ConfigureModel) Dir() *core.MappedDir { return m.dir }

// Persisted returns the committed mapping, or nil for a new one.
func (m *ConfigureModel) Persisted() *core.MappedDir { return m.persisted }

// Focused returns the index of the focused field.
func (m *ConfigureModel) Focused() core.ConfigIndex { return m.focus }

// SetError shows err under the form; nil clears it.
func (m *ConfigureModel) SetError(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

// Status reports whether the working copy differs from the persisted mapping.
func (m *ConfigureModel) Status() EditStatus {
	switch {
	case m.persisted == nil:
		return EditNew
	case m.persisted.ConfigsEqual(m.dir):
		return EditSaved
	default:
		return EditChanged
	}
}

// FieldErr explains why field idx is invalid, or returns nil. An empty
// extension list is valid and disables filtering.
func (m *ConfigureModel) FieldErr(idx core.ConfigIndex) error {
	switch idx {
	case core.ConfigExtFilter:
		if err := m.dir.FileFilterErr(); err != nil && !errors.Is(err, rules.ErrEmptyFilter) {
			return err
		}
	case core.ConfigDirMatcher, core.ConfigDirReplacer:
		return m.dir.DirRenamerErr()
	case core.ConfigFileMatcher, core.ConfigFileReplacer:
		return m.dir.FileRenamerErr()
	}
	return nil
}

// Update handles focus movement, edits, save and abort.
func (m *ConfigureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return m, func() tea.Msg { return SaveRequestedMsg{} }
		case "esc":
			return m, func() tea.Msg { return EditAbortedMsg{} }
		case "tab", "down", "enter":
			return m, m.setFocus((m.focus + 1) % core.NumConfigs)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + core.NumConfigs - 1) % core.NumConfigs)
		}
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.dir.SetConfig(m.focus, after)
	}
	return m, cmd
}

func (m *ConfigureModel) setFocus(idx core.ConfigIndex) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = idx
	return m.inputs[m.focus].Focus()
}

// View renders the form, the output directory and the file preview.
func (m *ConfigureModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Configure %s  [%s]", m.dir.InDirName(), m.Status())
	b.WriteString(headerStyleBase.Width(m.width).Render(title))
	b.WriteByte('\n')

	for i := range m.inputs {
		idx := core.ConfigIndex(i)
		style := fieldStyle
		if m.FieldErr(idx) != nil {
			style = invalidFieldStyle
		}
		label := fieldLabels[i]
		if idx == m.focus {
			label = "> " + label
		} else {
			label = "  " + label
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			lipgloss.NewStyle().Width(16).Render(label),
			style.Render(m.inputs[i].View()),
		))
		b.WriteByte('\n')
	}

	if out, ok := m.dir.OutDirName(); ok {
		fmt.Fprintf(&b, "\nOutput: %s\n", out)
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render("\nOutput: error"))
		b.WriteByte('\n')
	}

	b.WriteString(m.renderPreview())

	if m.err != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render("Commit failed: " + m.err))
		b.WriteByte('\n')
	}

	b.WriteString(statusStyleBase.Width(m.width).Render("tab/↑↓: Field  │  ctrl+s: Commit  │  esc: Cancel"))
	return b.String()
}

// renderPreview lists every input file with its fate, trimmed to the space
// left below the form.
func (m *ConfigureModel) renderPreview() string {
	var b strings.Builder
	b.WriteString("\nFiles:\n")
	muted := lipgloss.NewStyle().Foreground(colorMuted)

	limit := max(m.height-int(core.NumConfigs)*3-10, 3)
	mappings := m.dir.FileMappings()
	for i, fm := range mappings {
		if i == limit {
			fmt.Fprintf(&b, "  … %d more\n", len(mappings)-limit)
			break
		}
		switch fm := fm.(type) {
		case core.MappedTo:
			fmt.Fprintf(&b, "  %s → %s\n", fm.From, fm.To)
		case core.Filtered:
			b.WriteString(muted.Render("  "+fm.Name+" (filtered)") + "\n")
		}
	}
	if len(mappings) == 0 {
		b.WriteString(muted.Render("  (no files)") + "\n")
	}
	return b.String()
}
