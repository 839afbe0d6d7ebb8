package cmd

import (
	"context"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// UICommand browses the input root and edits mappings interactively.
var UICommand = CommandConfig{
	needsInRoot:  true,
	needsOutRoot: true,
	interactive:  true,
	run:          runUI,
}

func runUI(_ context.Context, rt *Runtime) error {
	states, err := core.Discover(rt.Fs, rt.Store, rt.Opts.InRoot)
	if err != nil {
		return err
	}
	model := tui.NewMirrorModel(states, tui.Env{
		Fs:        rt.Fs,
		Store:     rt.Store,
		Committer: rt.Committer,
		InRoot:    rt.Opts.InRoot,
		OutRoot:   rt.Opts.OutRoot,
		Log:       rt.Log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
