package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCommit(t *testing.T) {
	t.Parallel()
	r := New()
	r.RecordCommit("committed", 3, 2, 0.01)
	r.RecordCommit("no_change", 0, 0, 0.001)
	r.RecordCommit("committed", 1, 0, 0.02)

	if got := testutil.ToFloat64(r.CommitsTotal.WithLabelValues("committed")); got != 2 {
		t.Errorf("commits_total{committed} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CommitsTotal.WithLabelValues("no_change")); got != 1 {
		t.Errorf("commits_total{no_change} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.LinksCreated); got != 4 {
		t.Errorf("links_created_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(r.FilesFiltered); got != 2 {
		t.Errorf("files_filtered_total = %v, want 2", got)
	}
}

func TestRecordFailure(t *testing.T) {
	t.Parallel()
	r := New()
	r.RecordFailure("link", 0.5)

	if got := testutil.ToFloat64(r.CommitFailures.WithLabelValues("link")); got != 1 {
		t.Errorf("commit_failures_total{link} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CommitsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("commits_total{failed} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.CommitDuration); got != 1 {
		t.Errorf("commit_duration_seconds series = %d, want 1", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	t.Parallel()
	var r *Recorder
	r.RecordCommit("committed", 1, 1, 1)
	r.RecordFailure("link", 1)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "m.prom")); err != nil {
		t.Errorf("WriteTextfile on nil recorder error = %v", err)
	}
	if r.Registry() != nil {
		t.Errorf("Registry() on nil recorder = non-nil")
	}
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()
	r := New()
	r.RecordCommit("committed", 2, 0, 0.01)

	path := filepath.Join(t.TempDir(), "symmirror.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, want := range []string{
		`symmirror_commits_total{outcome="committed"} 1`,
		"symmirror_links_created_total 2",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q\n%s", want, data)
		}
	}

	if err := r.WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") error = %v", err)
	}
}
