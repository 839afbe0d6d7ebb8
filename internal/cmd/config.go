package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/symmirror/internal/log"
	"github.com/Digital-Shane/symmirror/internal/metrics"
	"github.com/Digital-Shane/symmirror/internal/mirror"
	"github.com/Digital-Shane/symmirror/internal/store"

	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// StoreEnv names the environment variable overriding the default store path.
const StoreEnv = "SYMMIRROR_STORE"

var (
	ErrNoStore   = errors.New("no store path given (-store or $" + StoreEnv + ")")
	ErrNoInRoot  = errors.New("no input root given (-in)")
	ErrNoOutRoot = errors.New("no output root given (-out)")
	ErrOutInIn   = errors.New("output root must not be inside the input root")
)

// Options holds the flag values shared by every subcommand. Fields:
//   - StorePath: YAML file holding the per-directory mappings.
//   - InRoot / OutRoot: the scanned directory and the mirror directory.
//   - LogFile: log destination; empty logs to stderr for non-interactive runs
//     and nowhere for the TUI.
//   - MetricsFile: Prometheus textfile written when the command exits.
//   - Verbose: enable debug logging.
//   - InstantMode: run without the interactive UI.
type Options struct {
	StorePath   string
	InRoot      string
	OutRoot     string
	LogFile     string
	MetricsFile string
	Verbose     bool
	InstantMode bool
}

// DefaultStorePath returns $SYMMIRROR_STORE, or symmirror.yaml in the working
// directory.
func DefaultStorePath() string {
	if p := os.Getenv(StoreEnv); p != "" {
		return p
	}
	return "symmirror.yaml"
}

// Normalize makes every path absolute and clean so relative link targets are
// computed between paths in one coordinate system.
func (o *Options) Normalize() error {
	for _, p := range []*string{&o.StorePath, &o.InRoot, &o.OutRoot, &o.LogFile, &o.MetricsFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// Validate checks the options a command depends on.
func (o Options) Validate(needIn, needOut bool) error {
	if o.StorePath == "" {
		return ErrNoStore
	}
	if needIn && o.InRoot == "" {
		return ErrNoInRoot
	}
	if needOut && o.OutRoot == "" {
		return ErrNoOutRoot
	}
	if o.InRoot != "" && o.OutRoot != "" {
		if o.OutRoot == o.InRoot || strings.HasPrefix(o.OutRoot, strings.TrimSuffix(o.InRoot, "/")+"/") {
			return fmt.Errorf("%w: %s", ErrOutInIn, o.OutRoot)
		}
	}
	return nil
}

// CommandConfig describes one subcommand. Fields:
//   - needsInRoot / needsOutRoot: roots Validate must enforce.
//   - interactive: runs a Bubble Tea program unless InstantMode is set.
//   - run: the command body.
//   - Options: flag values, filled in by main.
type CommandConfig struct {
	needsInRoot  bool
	needsOutRoot bool
	interactive  bool
	run          func(ctx context.Context, rt *Runtime) error
	Options
}

// Runtime is the wiring shared by command bodies.
type Runtime struct {
	Opts      Options
	Fs        afero.Fs
	Store     *store.FileStore
	Committer *mirror.Committer
	Metrics   *metrics.Recorder
	Log       logr.Logger
	Out       io.Writer
}

// RunCommand runs cfg against the real filesystem and stdout.
func RunCommand(cfg CommandConfig) error {
	return Run(context.Background(), cfg, afero.NewOsFs(), os.Stdout)
}

// Run wires a Runtime on fsys and executes cfg. Metrics are written even
// when the command fails.
func Run(ctx context.Context, cfg CommandConfig, fsys afero.Fs, out io.Writer) (err error) {
	opts := cfg.Options
	if err := opts.Normalize(); err != nil {
		return err
	}
	if err := opts.Validate(cfg.needsInRoot, cfg.needsOutRoot); err != nil {
		return err
	}

	dest := opts.LogFile
	if dest == "" && !(cfg.interactive && !opts.InstantMode) {
		dest = log.Stderr
	}
	logger, closeLog, err := log.New(dest, opts.Verbose)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); err == nil && cerr != nil && dest != log.Stderr {
			err = cerr
		}
	}()

	st, err := store.Open(fsys, opts.StorePath)
	if err != nil {
		return err
	}
	rec := metrics.New()
	defer func() {
		if werr := rec.WriteTextfile(opts.MetricsFile); err == nil {
			err = werr
		}
	}()

	committer, err := mirror.NewCommitter(fsys, st, logger, rec)
	if err != nil {
		return err
	}

	logger.V(1).Info("Starting", "store", opts.StorePath, "in", opts.InRoot, "out", opts.OutRoot)
	return cfg.run(ctx, &Runtime{
		Opts:      opts,
		Fs:        fsys,
		Store:     st,
		Committer: committer,
		Metrics:   rec,
		Log:       logger,
		Out:       out,
	})
}
