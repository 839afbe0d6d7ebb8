package core

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Digital-Shane/symmirror/internal/store"
	"github.com/spf13/afero"
)

// ListFiles returns the sorted names of regular files directly inside dir.
// Subdirectories and symlinks are skipped.
func ListFiles(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Mode().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadMappedDir lists dir and builds its MappedDir from configs.
func LoadMappedDir(fsys afero.Fs, dir string, configs Configs) (*MappedDir, error) {
	files, err := ListFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	return NewMappedDir(dir, configs, files), nil
}

// Discover classifies every direct subdirectory of inRoot, sorted by name.
// Each one is HasMapping when st holds a record for its path, else Unmapped.
func Discover(fsys afero.Fs, st store.Store, inRoot string) ([]MappingState, error) {
	entries, err := afero.ReadDir(fsys, inRoot)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", inRoot, err)
	}

	var states []MappingState
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(inRoot, e.Name())
		rec, ok, err := st.Get(path)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", path, err)
		}
		if !ok {
			states = append(states, Unmapped{InPath: path})
			continue
		}
		d, err := LoadMappedDir(fsys, path, Configs(rec.Configs))
		if err != nil {
			return nil, err
		}
		states = append(states, HasMapping{Dir: d})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].InDirName() < states[j].InDirName() })
	return states, nil
}
