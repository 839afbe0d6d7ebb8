package tui

import (
	"context"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/mirror"

	tea "github.com/charmbracelet/bubbletea"
)

// Committer is the subset of mirror.Committer the UI drives.
type Committer interface {
	Commit(ctx context.Context, old, next *core.MappedDir, outRoot string) (mirror.Result, error)
}

// CommitCompleteMsg is emitted once a commit started by CommitCmd finishes.
type CommitCompleteMsg struct {
	Dir    *core.MappedDir // the configuration that was committed
	Result mirror.Result
	Err    error
}

// CommitCmd runs a single commit off the UI loop.
func CommitCmd(c Committer, old, next *core.MappedDir, outRoot string) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Commit(context.Background(), old, next, outRoot)
		return CommitCompleteMsg{Dir: next, Result: res, Err: err}
	}
}
