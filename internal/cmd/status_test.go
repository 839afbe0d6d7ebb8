package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestStatus(t *testing.T) {
	t.Parallel()
	f := newMirrorFixture(t)
	cfg := StatusCommand
	cfg.Options = Options{StorePath: f.storePath, LogFile: filepath.Join(f.root, "log")}

	var out strings.Builder
	if err := Run(context.Background(), cfg, afero.NewOsFs(), &out); err != nil {
		t.Fatalf("Run(status) error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("status printed %d lines, want 4\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "INPUT") {
		t.Errorf("header = %q", lines[0])
	}
	checks := map[string][]string{
		filepath.Join(f.in, "Broken"): {"error", "unmappable"},
		filepath.Join(f.in, "Gone"):   {"missing"},
		filepath.Join(f.in, "Show"):   {"Show (2024)", "ok"},
	}
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		wants, ok := checks[fields[0]]
		if !ok {
			t.Errorf("unexpected status line %q", line)
			continue
		}
		for _, w := range wants {
			if !strings.Contains(line, w) {
				t.Errorf("status line %q missing %q", line, w)
			}
		}
	}
}

// statErrFs fails Stat for one path and otherwise behaves like OsFs.
type statErrFs struct {
	*afero.OsFs
	path string
}

func (s statErrFs) Stat(name string) (os.FileInfo, error) {
	if name == s.path {
		return nil, &os.PathError{Op: "stat", Path: name, Err: errors.New("permission denied")}
	}
	return s.OsFs.Stat(name)
}

func TestStatusReportsStatError(t *testing.T) {
	t.Parallel()
	f := newMirrorFixture(t)
	cfg := StatusCommand
	cfg.Options = Options{StorePath: f.storePath, LogFile: filepath.Join(f.root, "log")}
	show := filepath.Join(f.in, "Show")

	var out strings.Builder
	if err := Run(context.Background(), cfg, statErrFs{OsFs: &afero.OsFs{}, path: show}, &out); err != nil {
		t.Fatalf("Run(status) error = %v", err)
	}

	var line string
	for _, l := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(l, show+" ") {
			line = l
		}
	}
	if line == "" {
		t.Fatalf("no status line for %s\n%s", show, out.String())
	}
	if !strings.Contains(line, "permission denied") || strings.Contains(line, "missing") {
		t.Errorf("status line = %q, want stat error in STATE", line)
	}
}
