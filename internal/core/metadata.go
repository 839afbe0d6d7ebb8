package core

import "github.com/Digital-Shane/treeview"

// CommitStatus represents the lifecycle stage of the last commit attempted for
// a directory during this session.
type CommitStatus int

const (
	CommitStatusNone    CommitStatus = iota // Nothing committed yet this session
	CommitStatusSuccess                     // Last commit succeeded
	CommitStatusError                       // Last commit failed; see CommitError
)

// MirrorMeta holds the per-node state shown in the directory tree.
//
// Fields:
//   - State: the directory's mapping state; replaced after each commit.
//   - CommitStatus / CommitError: outcome of the last commit. The message is
//     only populated when status == CommitStatusError.
//
// The zero value is an unclassified node with no commit history.
type MirrorMeta struct {
	State        MappingState
	CommitStatus CommitStatus
	CommitError  string
}

// Mapped returns the persisted mapping, or nil when the directory is unmapped.
func (m *MirrorMeta) Mapped() *MappedDir {
	if h, ok := m.State.(HasMapping); ok {
		return h.Dir
	}
	return nil
}

// GetMeta retrieves the *MirrorMeta attached to n or nil when absent.
// It is safe to call with a nil node.
func GetMeta(n *treeview.Node[treeview.FileInfo]) *MirrorMeta {
	if n == nil || n.Data().Extra == nil {
		return nil
	}
	if m, ok := n.Data().Extra["meta"].(*MirrorMeta); ok {
		return m
	}
	return nil
}

// EnsureMeta returns the existing *MirrorMeta for n, creating and attaching a
// new instance if needed. The returned pointer is always non-nil.
func EnsureMeta(n *treeview.Node[treeview.FileInfo]) *MirrorMeta {
	if n.Data().Extra == nil {
		n.Data().Extra = map[string]any{}
	}
	if m, ok := n.Data().Extra["meta"].(*MirrorMeta); ok {
		return m
	}
	m := &MirrorMeta{}
	n.Data().Extra["meta"] = m
	return m
}

// Fail marks the last commit as failed and returns err unchanged so callers
// can record and propagate in one step.
func (m *MirrorMeta) Fail(err error) error {
	m.CommitStatus = CommitStatusError
	m.CommitError = err.Error()
	return err
}

// Success records a successful commit and adopts the committed directory as
// the node's new state.
func (m *MirrorMeta) Success(committed *MappedDir) {
	m.CommitStatus = CommitStatusSuccess
	m.CommitError = ""
	m.State = HasMapping{Dir: committed}
}
