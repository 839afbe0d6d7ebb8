package cmd

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/symmirror/internal/mirror"
	"github.com/Digital-Shane/symmirror/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

// SyncCommand rebuilds every stored mapping under the output root.
var SyncCommand = CommandConfig{
	needsOutRoot: true,
	interactive:  true,
	run:          runSync,
}

func runSync(ctx context.Context, rt *Runtime) error {
	if rt.Opts.InstantMode {
		return syncInstant(ctx, rt)
	}

	model := tui.NewSyncProgressModel(rt.Committer, rt.Opts.OutRoot)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return err
	}
	if err := model.Err(); err != nil {
		return err
	}
	if !model.Finished() {
		return fmt.Errorf("sync interrupted")
	}
	for _, f := range model.Failures() {
		fmt.Fprintf(rt.Out, "✗ %s\n", f)
	}
	return summarize(rt, model.Summary())
}

func syncInstant(ctx context.Context, rt *Runtime) error {
	sum, err := rt.Committer.SyncAll(ctx, rt.Opts.OutRoot, func(p mirror.Progress) {
		switch {
		case p.Skipped:
			fmt.Fprintf(rt.Out, "- %s: input missing\n", p.InPath)
		case p.Err != nil:
			fmt.Fprintf(rt.Out, "✗ %s: %v\n", p.InPath, p.Err)
		case p.Result.Outcome == mirror.OutcomeUnmappable:
			fmt.Fprintf(rt.Out, "⚠ %s: unmappable\n", p.InPath)
		default:
			fmt.Fprintf(rt.Out, "✓ %s → %s (%d links)\n", p.InPath, p.Result.OutDir, p.Result.Linked)
		}
	})
	if err != nil {
		return err
	}
	return summarize(rt, sum)
}

func summarize(rt *Runtime, sum mirror.SyncSummary) error {
	fmt.Fprintf(rt.Out, "%d mappings: %d committed, %d unmappable, %d skipped, %d failed\n",
		sum.Total, sum.Committed, sum.Unmappable, sum.Skipped, sum.Failed)
	if sum.Failed > 0 {
		return fmt.Errorf("%d errors occurred during sync", sum.Failed)
	}
	return nil
}
