package core

import (
	"fmt"

	"github.com/Digital-Shane/symmirror/internal/rules"
	"github.com/spf13/afero"
)

// MappingState classifies a discovered input directory against the store.
// The only implementations are HasMapping and Unmapped.
type MappingState interface {
	InDirPath() string
	InDirName() string
	mappingState()
}

// HasMapping is a directory with a persisted configuration.
type HasMapping struct {
	Dir *MappedDir
}

// Unmapped is a directory the store knows nothing about.
type Unmapped struct {
	InPath string
}

func (h HasMapping) InDirPath() string { return h.Dir.InDirPath() }
func (h HasMapping) InDirName() string { return h.Dir.InDirName() }
func (u Unmapped) InDirPath() string   { return u.InPath }
func (u Unmapped) InDirName() string   { return rules.FileName(u.InPath) }

func (HasMapping) mappingState() {}
func (Unmapped) mappingState()   {}

// ToMappedDir returns a MappedDir ready for editing. A persisted mapping is
// cloned so edits never leak into the committed copy; an unmapped directory
// is listed and seeded with DefaultConfigs.
func ToMappedDir(fsys afero.Fs, s MappingState) (*MappedDir, error) {
	switch s := s.(type) {
	case HasMapping:
		return s.Dir.Clone(), nil
	case Unmapped:
		files, err := ListFiles(fsys, s.InPath)
		if err != nil {
			return nil, err
		}
		return NewMappedDir(s.InPath, DefaultConfigs, files), nil
	default:
		return nil, fmt.Errorf("unknown mapping state %T", s)
	}
}
