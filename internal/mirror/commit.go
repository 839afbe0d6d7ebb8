// Package mirror materializes mapped input directories as trees of relative
// symlinks under an output root and keeps the store in step with them.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/metrics"
	"github.com/Digital-Shane/symmirror/internal/rules"
	"github.com/Digital-Shane/symmirror/internal/store"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	// ErrOutputExists is returned when the new output directory is already
	// present and does not belong to the mapping being replaced.
	ErrOutputExists = errors.New("output directory already exists")

	// ErrSymlinkUnsupported is returned when the filesystem cannot create symlinks.
	ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

	// ErrBadOutputName is returned when a rule produces a name that is not a
	// single path component.
	ErrBadOutputName = errors.New("output name is not a single path component")
)

// Stage names the commit step that failed.
type Stage string

const (
	StageCheck  Stage = "check"
	StageLink   Stage = "link"
	StageRemove Stage = "remove"
	StageRename Stage = "rename"
	StageStore  Stage = "store"
)

// CommitError reports a failed commit. Touched is true once the live output
// tree has been modified; rerunning the commit repairs it.
type CommitError struct {
	Stage   Stage
	Touched bool
	Err     error
}

func (e *CommitError) Error() string {
	if e.Touched {
		return fmt.Sprintf("commit %s: %v (output modified, rerun the commit)", e.Stage, e.Err)
	}
	return fmt.Sprintf("commit %s: %v", e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Outcome classifies a successful commit.
type Outcome int

const (
	OutcomeNoChange   Outcome = iota // configs identical, nothing written
	OutcomeCommitted                 // output rebuilt and store updated
	OutcomeUnmappable                // directory rule invalid, old output removed, store updated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoChange:
		return "no_change"
	case OutcomeCommitted:
		return "committed"
	case OutcomeUnmappable:
		return "unmappable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished commit.
type Result struct {
	ID       uuid.UUID
	Outcome  Outcome
	OutDir   string // final output directory, empty when none was created
	Removed  string // previous output directory that was deleted, if any
	Linked   int
	Filtered int
}

// Committer applies mapping changes to the output tree and the store.
type Committer struct {
	fs      afero.Fs
	linker  afero.Linker
	store   store.Store
	log     logr.Logger
	metrics *metrics.Recorder
}

// NewCommitter wires a Committer. fsys must support symlinks; rec may be nil.
func NewCommitter(fsys afero.Fs, st store.Store, log logr.Logger, rec *metrics.Recorder) (*Committer, error) {
	linker, ok := fsys.(afero.Linker)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrSymlinkUnsupported, fsys)
	}
	return &Committer{
		fs:      fsys,
		linker:  linker,
		store:   st,
		log:     log,
		metrics: rec,
	}, nil
}

// Commit replaces old's output with next's and persists next's configs.
// old is the persisted mapping of the same input directory, or nil when the
// directory was never committed. Identical configs are a no-op.
func (c *Committer) Commit(ctx context.Context, old, next *core.MappedDir, outRoot string) (Result, error) {
	return c.commit(ctx, old, next, outRoot, false)
}

// Rebuild recreates d's output from scratch over its current output and
// rewrites its store record.
func (c *Committer) Rebuild(ctx context.Context, d *core.MappedDir, outRoot string) (Result, error) {
	return c.commit(ctx, d, d, outRoot, true)
}

func (c *Committer) commit(ctx context.Context, old, next *core.MappedDir, outRoot string, force bool) (Result, error) {
	start := time.Now()
	res := Result{ID: uuid.New()}
	log := c.log.WithValues("id", res.ID.String(), "in", next.InDirPath())

	fail := func(stage Stage, touched bool, err error) (Result, error) {
		c.metrics.RecordFailure(string(stage), time.Since(start).Seconds())
		cerr := &CommitError{Stage: stage, Touched: touched, Err: err}
		log.Error(cerr, "Commit failed", "stage", stage, "touched", touched)
		return res, cerr
	}

	if err := ctx.Err(); err != nil {
		return fail(StageCheck, false, err)
	}
	if old != nil && old.InDirPath() != next.InDirPath() {
		return fail(StageCheck, false, fmt.Errorf("input mismatch: %s vs %s", old.InDirPath(), next.InDirPath()))
	}

	if !force && old != nil && old.ConfigsEqual(next) {
		res.Outcome = OutcomeNoChange
		c.metrics.RecordCommit(res.Outcome.String(), 0, 0, time.Since(start).Seconds())
		log.Info("No change")
		return res, nil
	}

	newName, hasNew := next.OutDirName()
	var oldName string
	hasOld := false
	if old != nil {
		oldName, hasOld = old.OutDirName()
		hasOld = hasOld && validComponent(oldName)
	}

	var target string
	if hasNew {
		if err := checkNames(newName, next.FileMappings()); err != nil {
			return fail(StageCheck, false, err)
		}
		target = rules.JoinPath(outRoot, newName)
		if !(hasOld && oldName == newName) {
			exists, err := c.exists(target)
			if err != nil {
				return fail(StageCheck, false, err)
			}
			if exists {
				return fail(StageCheck, false, fmt.Errorf("%w: %s", ErrOutputExists, target))
			}
		}
	}

	var staging string
	if hasNew {
		staging = rules.JoinPath(outRoot, "."+newName+".staging-"+res.ID.String())
		linked, filtered, err := c.stage(ctx, log, next, staging, target)
		if err != nil {
			_ = c.fs.RemoveAll(staging)
			return fail(StageLink, false, err)
		}
		res.Linked, res.Filtered = linked, filtered
	}

	if hasOld {
		removed := rules.JoinPath(outRoot, oldName)
		if err := c.fs.RemoveAll(removed); err != nil {
			if staging != "" {
				_ = c.fs.RemoveAll(staging)
			}
			return fail(StageRemove, true, fmt.Errorf("remove %s: %w", removed, err))
		}
		res.Removed = removed
		log.V(1).Info("Removed previous output", "dir", removed)
	}

	if hasNew {
		if err := c.fs.Rename(staging, target); err != nil {
			_ = c.fs.RemoveAll(staging)
			return fail(StageRename, true, fmt.Errorf("rename %s: %w", staging, err))
		}
		res.OutDir = target
		res.Outcome = OutcomeCommitted
	} else {
		res.Outcome = OutcomeUnmappable
	}

	if err := c.store.Upsert(next.Record()); err != nil {
		return fail(StageStore, true, fmt.Errorf("store %s: %w", next.InDirPath(), err))
	}

	c.metrics.RecordCommit(res.Outcome.String(), res.Linked, res.Filtered, time.Since(start).Seconds())
	if res.Outcome == OutcomeUnmappable {
		log.Info("Committed unmappable directory", "removed", res.Removed, "err", next.DirRenamerErr())
	} else {
		log.Info("Committed mapping", "out", res.OutDir, "links", res.Linked, "filtered", res.Filtered)
	}
	return res, nil
}

// stage creates one symlink per mapped file inside staging. Link targets are
// relative to final, the directory staging will be renamed to.
func (c *Committer) stage(ctx context.Context, log logr.Logger, d *core.MappedDir, staging, final string) (linked, filtered int, err error) {
	if err := c.fs.MkdirAll(staging, 0755); err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", staging, err)
	}
	for _, fm := range d.FileMappings() {
		if err := ctx.Err(); err != nil {
			return linked, filtered, err
		}
		switch fm := fm.(type) {
		case core.MappedTo:
			input := rules.JoinPath(d.InDirPath(), fm.From)
			output := rules.JoinPath(final, fm.To)
			link := rules.LinkDirPrefix(rules.DirName(input), rules.DirName(output)) + fm.From
			at := rules.JoinPath(staging, fm.To)
			if err := c.linker.SymlinkIfPossible(link, at); err != nil {
				return linked, filtered, fmt.Errorf("link %s: %w", at, err)
			}
			log.V(1).Info("Linked file", "from", fm.From, "to", fm.To, "target", link)
			linked++
		case core.Filtered:
			filtered++
		}
	}
	return linked, filtered, nil
}

func (c *Committer) exists(path string) (bool, error) {
	var err error
	if l, ok := c.fs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = c.fs.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, afero.ErrFileNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func checkNames(dir string, mappings []core.FileMapping) error {
	if !validComponent(dir) {
		return fmt.Errorf("%w: directory %q", ErrBadOutputName, dir)
	}
	for _, fm := range mappings {
		if m, ok := fm.(core.MappedTo); ok && !validComponent(m.To) {
			return fmt.Errorf("%w: file %q", ErrBadOutputName, m.To)
		}
	}
	return nil
}

func validComponent(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}
