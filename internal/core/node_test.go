package core

import (
	"os"
	"testing"
)

func TestSimpleFileInfo(t *testing.T) {
	t.Parallel()
	fileInfo := NewSimpleFileInfo("movie.mkv", false)
	dirInfo := NewSimpleFileInfo("Show", true)

	if fileInfo.Name() != "movie.mkv" || dirInfo.Name() != "Show" {
		t.Errorf("Name() = (%q, %q)", fileInfo.Name(), dirInfo.Name())
	}
	if fileInfo.Size() != 0 || fileInfo.Sys() != nil || !fileInfo.ModTime().IsZero() {
		t.Errorf("file info constants unexpected: size=%d sys=%v mod=%v", fileInfo.Size(), fileInfo.Sys(), fileInfo.ModTime())
	}
	if got := fileInfo.Mode(); got != 0644 {
		t.Errorf("Mode() for file = %v, want %v", got, os.FileMode(0644))
	}
	if got := dirInfo.Mode(); got != (os.ModeDir | 0755) {
		t.Errorf("Mode() for dir = %v, want %v", got, os.ModeDir|0755)
	}
	if fileInfo.IsDir() || !dirInfo.IsDir() {
		t.Errorf("IsDir() = (%v, %v), want (false, true)", fileInfo.IsDir(), dirInfo.IsDir())
	}
}

func TestNewStateNode(t *testing.T) {
	t.Parallel()
	unmapped := NewStateNode(Unmapped{InPath: "/in/Alpha"})
	if unmapped.Name() != "Alpha" || unmapped.Data().Path != "/in/Alpha" {
		t.Errorf("unmapped node = (%q, %q)", unmapped.Name(), unmapped.Data().Path)
	}
	if len(unmapped.Children()) != 0 {
		t.Errorf("unmapped node has %d children, want 0", len(unmapped.Children()))
	}
	if _, ok := GetMeta(unmapped).State.(Unmapped); !ok {
		t.Errorf("unmapped node meta state = %T", GetMeta(unmapped).State)
	}

	d := NewMappedDir("/in/Beta", Configs{"mkv", "(.+)", "$1", "(.+)", "$1_x"}, []string{"a.mkv", "b.txt", "c.mkv"})
	mapped := NewStateNode(HasMapping{Dir: d})
	children := mapped.Children()
	if len(children) != 2 {
		t.Fatalf("mapped node has %d children, want 2", len(children))
	}
	if children[0].Name() != "a_x.mkv" || children[1].Name() != "c_x.mkv" {
		t.Errorf("child names = (%q, %q), want (a_x.mkv, c_x.mkv)", children[0].Name(), children[1].Name())
	}
	if children[0].Data().IsDir() {
		t.Errorf("file child reports IsDir() = true")
	}
}
