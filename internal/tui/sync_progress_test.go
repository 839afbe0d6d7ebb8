package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Digital-Shane/symmirror/internal/mirror"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeSyncer replays a fixed list of progress reports.
type fakeSyncer struct {
	reports []mirror.Progress
	summary mirror.SyncSummary
	err     error
}

func (f *fakeSyncer) SyncAll(_ context.Context, _ string, onProgress func(mirror.Progress)) (mirror.SyncSummary, error) {
	for _, p := range f.reports {
		onProgress(p)
	}
	return f.summary, f.err
}

func TestSyncProgressModel_Update(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		msg       tea.Msg
		wantQuit  bool
		wantWidth int
	}{
		{name: "window resize", msg: tea.WindowSizeMsg{Width: 120, Height: 24}, wantWidth: 120},
		{name: "quit on ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, wantQuit: true},
		{name: "quit on q", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, wantQuit: true},
		{name: "quit on esc", msg: tea.KeyMsg{Type: tea.KeyEsc}, wantQuit: true},
		{name: "sync progress", msg: syncProgressMsg{p: mirror.Progress{Done: 1, Total: 2}}},
		{name: "sync complete", msg: syncCompleteMsg{}, wantQuit: true},
		{name: "progress frame", msg: progress.FrameMsg{}},
		{name: "unhandled message", msg: "unknown message"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewSyncProgressModel(&fakeSyncer{}, "/out")
			updated, cmd := m.Update(tt.msg)
			if tt.wantQuit && cmd == nil {
				t.Errorf("Update(%T) returned nil cmd, want quit cmd", tt.msg)
			}
			if tt.wantWidth > 0 {
				if sm := updated.(*SyncProgressModel); sm.width != tt.wantWidth {
					t.Errorf("Update(WindowSizeMsg) width = %d, want %d", sm.width, tt.wantWidth)
				}
			}
		})
	}
}

func TestSyncProgressModel_RunsToCompletion(t *testing.T) {
	t.Parallel()
	fs := &fakeSyncer{
		reports: []mirror.Progress{
			{Done: 1, Total: 2, InPath: "/in/A"},
			{Done: 2, Total: 2, InPath: "/in/B", Err: errTest},
		},
		summary: mirror.SyncSummary{Total: 2, Committed: 1, Failed: 1},
	}
	m := NewSyncProgressModel(fs, "/out")
	cmd := m.Init()
	for i := 0; i < 10 && !m.Finished(); i++ {
		m.Update(cmd())
		cmd = m.waitForMsg()
	}

	if !m.Finished() {
		t.Fatalf("sync did not finish")
	}
	if m.Summary() != fs.summary {
		t.Errorf("Summary() = %+v, want %+v", m.Summary(), fs.summary)
	}
	if len(m.Failures()) != 1 || !strings.Contains(m.Failures()[0], "/in/B: test failure") {
		t.Errorf("Failures() = %q", m.Failures())
	}
	if m.done != 2 || m.total != 2 {
		t.Errorf("counters = %d/%d, want 2/2", m.done, m.total)
	}
}

func TestSyncProgressModel_View(t *testing.T) {
	t.Parallel()

	t.Run("normal view", func(t *testing.T) {
		m := NewSyncProgressModel(&fakeSyncer{}, "/out")
		m.done, m.total, m.current = 5, 10, "/in/Show"
		m.failures = []string{"x"}
		view := m.View()
		for _, want := range []string{
			"Rebuilding Mirror",
			"Mappings processed: 5/10  /in/Show",
			"Mappings: 10",
			"Failures: 1",
			"Progress: 50%",
			"Syncing... please wait",
		} {
			if !strings.Contains(view, want) {
				t.Errorf("View() missing expected content: %q", want)
			}
		}
	})

	t.Run("error view", func(t *testing.T) {
		m := NewSyncProgressModel(&fakeSyncer{}, "/out")
		m.err = errors.New("store unreadable")
		if view := m.View(); !strings.Contains(view, "Error: store unreadable") {
			t.Errorf("View() with error = %q", view)
		}
	})
}
