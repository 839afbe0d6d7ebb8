package tui

import (
	"errors"
	"testing"

	"github.com/Digital-Shane/symmirror/internal/core"

	"github.com/Digital-Shane/treeview"
	"github.com/google/go-cmp/cmp"
)

// helper to build a node (dir or file) with path == name for simplicity
func testNode(name string, isDir bool) *treeview.Node[treeview.FileInfo] {
	fi := core.NewSimpleFileInfo(name, isDir)
	return treeview.NewNode(name, name, treeview.FileInfo{FileInfo: fi, Path: name})
}

func mappedState(path string, c core.Configs, files ...string) core.MappingState {
	return core.HasMapping{Dir: core.NewMappedDir(path, c, files)}
}

func TestMetaRule_Basic(t *testing.T) {
	t.Parallel()
	calls := 0
	cond := func(mm *core.MirrorMeta) bool { calls++; return mm.CommitStatus == core.CommitStatusSuccess }
	pred := metaRule(cond)
	n1 := testNode("no-meta", true)
	if pred(n1) {
		t.Errorf("metaRule(noMeta) = true, want false")
	}
	if calls != 0 {
		t.Errorf("metaRule(noMeta) calls = %d, want 0", calls)
	}
	mm := core.EnsureMeta(n1)
	if pred(n1) {
		t.Errorf("metaRule(nonMatch) = true, want false")
	}
	mm.CommitStatus = core.CommitStatusSuccess
	if !pred(n1) {
		t.Errorf("metaRule(match) = false, want true")
	}
	if calls != 2 {
		t.Errorf("metaRule(match) cond calls = %d, want 2", calls)
	}
}

func TestStatePredicates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name           string
		state          core.MappingState
		wantMapped     bool
		wantUnmappable bool
		wantUnmapped   bool
	}{
		{"Unmapped", core.Unmapped{InPath: "/in/A"}, false, false, true},
		{"Mapped", mappedState("/in/B", core.DefaultConfigs), true, false, false},
		{"Unmappable", mappedState("/in/C", core.Configs{"", "(", "$1", "(.+)", "$1"}), false, true, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n := core.NewStateNode(tc.state)
			got := []bool{isMapped()(n), isUnmappable()(n), isUnmapped()(n)}
			want := []bool{tc.wantMapped, tc.wantUnmappable, tc.wantUnmapped}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("predicates mismatch (-want +got)\n%s", diff)
			}
		})
	}
}

func TestStatusPredicate(t *testing.T) {
	t.Parallel()
	n := core.NewStateNode(core.Unmapped{InPath: "/in/A"})
	if !statusIs(core.CommitStatusNone)(n) {
		t.Errorf("statusIs(None-before) = false, want true")
	}
	_ = core.GetMeta(n).Fail(errors.New("boom"))
	if !statusIs(core.CommitStatusError)(n) || statusIs(core.CommitStatusNone)(n) {
		t.Errorf("statusIs after Fail mismatched")
	}
}

func TestIsLinkFile(t *testing.T) {
	t.Parallel()
	dir := core.NewStateNode(mappedState("/in/B", core.DefaultConfigs, "a.mkv"))
	if isLinkFile(dir) {
		t.Errorf("isLinkFile(dir) = true, want false")
	}
	if !isLinkFile(dir.Children()[0]) {
		t.Errorf("isLinkFile(child) = false, want true")
	}
}

func TestMirrorFormatter(t *testing.T) {
	t.Parallel()
	renamed := core.Configs{"mkv", "(.+)", "$1 (2020)", "(.+)", "$1-x"}
	cases := []struct {
		name string
		node func() *treeview.Node[treeview.FileInfo]
		want string
	}{
		{"NoMeta", func() *treeview.Node[treeview.FileInfo] { return testNode("orig", true) }, "orig"},
		{"Unmapped", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(core.Unmapped{InPath: "/in/Show"})
		}, "Show"},
		{"SameName", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(mappedState("/in/Show", core.DefaultConfigs))
		}, "Show"},
		{"Renamed", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(mappedState("/in/Show", renamed))
		}, "Show (2020) ← Show"},
		{"InvalidDirRule", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(mappedState("/in/Show", core.Configs{"", "(", "$1", "(.+)", "$1"}))
		}, "error ← Show"},
		{"Error", func() *treeview.Node[treeview.FileInfo] {
			n := core.NewStateNode(mappedState("/in/Show", renamed))
			_ = core.GetMeta(n).Fail(errors.New("boom"))
			return n
		}, "Show: boom"},
		{"LinkFile", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(mappedState("/in/Show", renamed, "ep.mkv")).Children()[0]
		}, "ep-x.mkv ← ep.mkv"},
		{"LinkFileUnchanged", func() *treeview.Node[treeview.FileInfo] {
			return core.NewStateNode(mappedState("/in/Show", core.DefaultConfigs, "ep.mkv")).Children()[0]
		}, "ep.mkv"},
	}
	for _, tc := range cases {
		got, _ := MirrorFormatter(tc.node())
		if got != tc.want {
			t.Errorf("MirrorFormatter(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCreateMirrorProvider_Constructs(t *testing.T) {
	p := CreateMirrorProvider()
	if p == nil {
		t.Fatalf("CreateMirrorProvider() = nil, want non-nil")
	}
	n := core.NewStateNode(mappedState("/in/Show", core.Configs{"", "(.+)", "$1!", "(.+)", "$1"}))
	gotDirect, _ := MirrorFormatter(n)
	if pf, ok := interface{}(p).(interface {
		Format(*treeview.Node[treeview.FileInfo], bool) string
	}); ok {
		gotProvider := pf.Format(n, false)
		if diff := cmp.Diff(gotDirect, gotProvider); diff != "" {
			t.Errorf("CreateMirrorProvider.Format mismatch (-want +got)\n%s", diff)
		}
	}
}
