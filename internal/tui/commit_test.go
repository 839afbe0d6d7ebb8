package tui

import (
	"testing"

	"github.com/Digital-Shane/symmirror/internal/core"
	"github.com/Digital-Shane/symmirror/internal/mirror"
)

func TestCommitCmd(t *testing.T) {
	t.Parallel()
	fc := &fakeCommitter{outcome: mirror.OutcomeCommitted}
	d := core.NewMappedDir("/in/Show", core.DefaultConfigs, []string{"a.mkv", "b.mkv"})

	msg := CommitCmd(fc, nil, d, "/out")()
	done, ok := msg.(CommitCompleteMsg)
	if !ok {
		t.Fatalf("CommitCmd() msg = %T, want CommitCompleteMsg", msg)
	}
	if done.Dir != d || done.Err != nil || done.Result.Linked != 2 {
		t.Errorf("CommitCompleteMsg = %+v", done)
	}

	fc.err = errTest
	done = CommitCmd(fc, d, d, "/out")().(CommitCompleteMsg)
	if done.Err != errTest {
		t.Errorf("CommitCompleteMsg.Err = %v, want %v", done.Err, errTest)
	}
	if fc.calls != 2 {
		t.Errorf("committer calls = %d, want 2", fc.calls)
	}
}
