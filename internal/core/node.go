package core

import (
	"os"
	"time"

	"github.com/Digital-Shane/treeview"
)

// SimpleFileInfo implements os.FileInfo for nodes built from discovery
// results and mapping previews rather than from a filesystem walk.
type SimpleFileInfo struct {
	name  string
	isDir bool
}

func NewSimpleFileInfo(name string, isDir bool) *SimpleFileInfo {
	return &SimpleFileInfo{
		name:  name,
		isDir: isDir,
	}
}

func (m *SimpleFileInfo) Name() string { return m.name }
func (m *SimpleFileInfo) Size() int64  { return 0 }
func (m *SimpleFileInfo) Mode() os.FileMode {
	if m.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (m *SimpleFileInfo) ModTime() time.Time { return time.Time{} }
func (m *SimpleFileInfo) IsDir() bool        { return m.isDir }
func (m *SimpleFileInfo) Sys() any           { return nil }

// NewStateNode builds a tree node for one discovered input directory and
// attaches its MirrorMeta. Mapped directories get one child per linked file,
// labelled with the output name.
func NewStateNode(s MappingState) *treeview.Node[treeview.FileInfo] {
	path := s.InDirPath()
	n := treeview.NewNode(path, s.InDirName(), treeview.FileInfo{FileInfo: NewSimpleFileInfo(s.InDirName(), true), Path: path})
	m := EnsureMeta(n)
	m.State = s
	attachFileNodes(n, path, m.Mapped())
	return n
}

func attachFileNodes(n *treeview.Node[treeview.FileInfo], path string, d *MappedDir) {
	if d == nil {
		return
	}
	for _, fm := range d.FileMappings() {
		switch fm := fm.(type) {
		case MappedTo:
			id := path + "/" + fm.From
			child := treeview.NewNode(id, fm.To, treeview.FileInfo{FileInfo: NewSimpleFileInfo(fm.To, false), Path: id})
			n.AddChild(child)
		case Filtered:
		}
	}
}
