package mirror

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/spf13/afero"
)

// Progress is reported once per stored record during SyncAll.
type Progress struct {
	Done    int
	Total   int
	InPath  string
	Result  Result
	Skipped bool  // input directory no longer exists
	Err     error // rebuild failed; the sync continues with the next record
}

// SyncSummary totals a SyncAll run.
type SyncSummary struct {
	Total      int
	Committed  int
	Unmappable int
	Skipped    int
	Failed     int
}

// SyncAll rebuilds the output of every stored mapping whose input directory
// still exists, one at a time and in store order. Per-record failures are
// reported through onProgress and counted; only a store read failure or a
// cancelled ctx stops the run early.
func (c *Committer) SyncAll(ctx context.Context, outRoot string, onProgress func(Progress)) (SyncSummary, error) {
	var sum SyncSummary
	recs, err := c.store.All()
	if err != nil {
		return sum, fmt.Errorf("read store: %w", err)
	}
	sum.Total = len(recs)
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		p := Progress{Done: i + 1, Total: sum.Total, InPath: rec.InPath}

		ok, err := afero.DirExists(c.fs, rec.InPath)
		if err != nil || !ok {
			sum.Skipped++
			p.Skipped = true
			c.log.Info("Skipping missing input", "in", rec.InPath)
			onProgress(p)
			continue
		}

		d, err := core.LoadMappedDir(c.fs, rec.InPath, core.Configs(rec.Configs))
		if err == nil {
			p.Result, err = c.Rebuild(ctx, d, outRoot)
		}
		switch {
		case err != nil:
			sum.Failed++
			p.Err = err
		case p.Result.Outcome == OutcomeUnmappable:
			sum.Unmappable++
		default:
			sum.Committed++
		}
		onProgress(p)
	}

	c.log.Info("Sync finished", "total", sum.Total, "committed", sum.Committed,
		"unmappable", sum.Unmappable, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}
