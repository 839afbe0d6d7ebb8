package tui

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/symmirror/internal/mirror"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Syncer rebuilds every stored mapping; *mirror.Committer implements it.
type Syncer interface {
	SyncAll(ctx context.Context, outRoot string, onProgress func(mirror.Progress)) (mirror.SyncSummary, error)
}

// SyncProgressModel is a full‑screen progress UI for a resync. It quits once
// the sync completes; the caller then reads Summary and Err.
type SyncProgressModel struct {
	// config
	syncer  Syncer
	outRoot string
	ctx     context.Context
	cancel  context.CancelFunc

	// sync progress
	done     int
	total    int
	current  string
	failures []string
	summary  mirror.SyncSummary
	finished bool
	err      error

	// layout
	width  int
	height int

	// progress components
	progress progress.Model
	msgCh    chan tea.Msg
}

// syncProgressMsg carries one per-record report.
type syncProgressMsg struct{ p mirror.Progress }

// syncCompleteMsg signals completion.
type syncCompleteMsg struct {
	summary mirror.SyncSummary
	err     error
}

// NewSyncProgressModel creates a model that resyncs into outRoot.
func NewSyncProgressModel(s Syncer, outRoot string) *SyncProgressModel {
	p := progress.New(progress.WithGradient(string(colorPrimary), string(colorAccent)))
	p.Width = 50
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncProgressModel{
		syncer:   s,
		outRoot:  outRoot,
		ctx:      ctx,
		cancel:   cancel,
		width:    80,
		height:   12,
		progress: p,
		msgCh:    make(chan tea.Msg, 64),
	}
}

// Init kicks off the asynchronous sync.
func (m *SyncProgressModel) Init() tea.Cmd {
	go m.syncAsync()
	return m.waitForMsg()
}

func (m *SyncProgressModel) waitForMsg() tea.Cmd { return func() tea.Msg { return <-m.msgCh } }

func (m *SyncProgressModel) send(msg tea.Msg) {
	select {
	case m.msgCh <- msg:
	case <-m.ctx.Done():
	}
}

func (m *SyncProgressModel) syncAsync() {
	sum, err := m.syncer.SyncAll(m.ctx, m.outRoot, func(p mirror.Progress) {
		m.send(syncProgressMsg{p: p})
	})
	m.send(syncCompleteMsg{summary: sum, err: err})
}

// Update processes Bubble Tea messages.
func (m *SyncProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" || msg.String() == "esc" {
			m.cancel()
			return m, tea.Quit
		}
	case syncProgressMsg:
		m.done, m.total, m.current = msg.p.Done, msg.p.Total, msg.p.InPath
		if msg.p.Err != nil {
			m.failures = append(m.failures, fmt.Sprintf("%s: %v", msg.p.InPath, msg.p.Err))
		}
		ratio := 0.0
		if m.total > 0 {
			ratio = min(float64(m.done)/float64(m.total), 1)
		}
		cmd := m.progress.SetPercent(ratio)
		// Always continue waiting so we can receive syncCompleteMsg.
		return m, tea.Batch(cmd, m.waitForMsg())
	case syncCompleteMsg:
		m.summary, m.err, m.finished = msg.summary, msg.err, true
		m.cancel()
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress UI.
func (m *SyncProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}
	percent := 0
	if m.total > 0 {
		percent = 100 * m.done / m.total
	}
	header := lipgloss.NewStyle().Bold(true).Background(colorPrimary).Foreground(colorBackground).Width(m.width).Render("Rebuilding Mirror")
	info := fmt.Sprintf("Mappings processed: %d/%d  %s", m.done, m.total, m.current)
	statsStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1).Width(max(m.width-4, 1))
	stats := fmt.Sprintf("Mappings: %d\nProcessed: %d\nFailures: %d\nProgress: %d%%", m.total, m.done, len(m.failures), percent)
	statusText := "Syncing... please wait"
	if m.finished {
		statusText = "Sync complete"
	}
	status := lipgloss.NewStyle().Background(colorSecondary).Foreground(colorBackground).Width(m.width).Render(statusText)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.progress.View(),
		info,
		statsStyle.Render(stats),
		status,
	)
}

// Summary returns the totals of a finished sync.
func (m *SyncProgressModel) Summary() mirror.SyncSummary { return m.summary }

// Failures lists per-record failures in the order they were reported.
func (m *SyncProgressModel) Failures() []string { return m.failures }

// Finished reports whether the sync ran to completion.
func (m *SyncProgressModel) Finished() bool { return m.finished }

// Err returns any error that stopped the sync.
func (m *SyncProgressModel) Err() error { return m.err }
