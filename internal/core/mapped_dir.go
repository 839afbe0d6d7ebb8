package core

import (
	"regexp"
	"slices"

	"github.com/Digital-Shane/symmirror/internal/rules"
	"github.com/Digital-Shane/symmirror/internal/store"
)

// ConfigIndex addresses one of the positional configuration strings.
type ConfigIndex int

const (
	ConfigExtFilter    ConfigIndex = iota // comma-separated extension list
	ConfigDirMatcher                      // regex applied to the directory name
	ConfigDirReplacer                     // template producing the output directory name
	ConfigFileMatcher                     // regex applied to file base names
	ConfigFileReplacer                    // template producing output file base names
	NumConfigs
)

// Configs is the full user-editable configuration of one input directory.
type Configs [NumConfigs]string

// DefaultConfigs is an identity mapping restricted to common video containers.
var DefaultConfigs = Configs{"avi,mkv,mp4", "(.+)", "$1", "(.+)", "$1"}

// MappedDir is the complete mapping state of one input directory: its
// configuration, a one-time snapshot of its files, and everything derived
// from the two. Derived fields are rebuilt as a whole after any config edit,
// so FileMappings always reflects the current Configs.
type MappedDir struct {
	inDirPath string
	configs   Configs

	// captured once at construction
	inFiles []string

	// rebuilt by configsChanged
	fileFilter     *regexp.Regexp
	fileFilterErr  error
	fileRenamer    *rules.Renamer
	fileRenamerErr error
	dirRenamer     *rules.Renamer
	dirRenamerErr  error
	fileMappings   []FileMapping
}

// NewMappedDir builds a MappedDir from an already captured file listing. The
// listing is copied and sorted.
func NewMappedDir(inDirPath string, configs Configs, files []string) *MappedDir {
	d := &MappedDir{
		inDirPath: inDirPath,
		configs:   configs,
		inFiles:   slices.Clone(files),
	}
	slices.Sort(d.inFiles)
	d.configsChanged()
	return d
}

// FromRecord rebuilds a MappedDir from its persisted form.
func FromRecord(rec store.Record, files []string) *MappedDir {
	return NewMappedDir(rec.InPath, Configs(rec.Configs), files)
}

// Record returns the persisted form of d.
func (d *MappedDir) Record() store.Record {
	return store.Record{InPath: d.inDirPath, Configs: [store.NumConfigs]string(d.configs)}
}

// Clone returns an independent copy suitable for an edit session.
func (d *MappedDir) Clone() *MappedDir {
	c := *d
	c.inFiles = slices.Clone(d.inFiles)
	c.fileMappings = slices.Clone(d.fileMappings)
	return &c
}

func (d *MappedDir) configsChanged() {
	d.fileFilter, d.fileFilterErr = rules.BuildFileFilter(d.configs[ConfigExtFilter])
	d.fileRenamer, d.fileRenamerErr = rules.NewRenamer(d.configs[ConfigFileMatcher], d.configs[ConfigFileReplacer])
	d.dirRenamer, d.dirRenamerErr = rules.NewRenamer(d.configs[ConfigDirMatcher], d.configs[ConfigDirReplacer])
	d.fileMappings = ComputeFileMappings(d.inFiles, d.fileFilter, d.fileRenamer)
}

// ComputeFileMappings decides the fate of every file, in order.
//
// A nil filter filters nothing, and files without an extension are never
// filtered. A nil renamer maps every surviving file to its own name. The
// extension is split off before renaming and reattached afterwards.
func ComputeFileMappings(files []string, filter *regexp.Regexp, renamer *rules.Renamer) []FileMapping {
	out := make([]FileMapping, 0, len(files))
	for _, name := range files {
		base, ext, hasExt := rules.SplitExt(name)

		if filter != nil && hasExt && !filter.MatchString(ext) {
			out = append(out, Filtered{Name: name})
			continue
		}

		if renamer == nil {
			out = append(out, MappedTo{From: name, To: name})
			continue
		}

		to := renamer.Process(base)
		if hasExt {
			to += "." + ext
		}
		out = append(out, MappedTo{From: name, To: to})
	}
	return out
}

// Config returns the configuration string at idx.
func (d *MappedDir) Config(idx ConfigIndex) string { return d.configs[idx] }

// Configs returns a copy of all configuration strings.
func (d *MappedDir) Configs() Configs { return d.configs }

// SetConfig replaces one configuration string and recomputes derived state.
func (d *MappedDir) SetConfig(idx ConfigIndex, value string) {
	d.configs[idx] = value
	d.configsChanged()
}

// SetConfigs replaces every configuration string at once.
func (d *MappedDir) SetConfigs(c Configs) {
	d.configs = c
	d.configsChanged()
}

// ConfigsEqual compares only configuration strings. Directories with
// different input paths are never equal.
func (d *MappedDir) ConfigsEqual(other *MappedDir) bool {
	if other == nil || d.inDirPath != other.inDirPath {
		return false
	}
	return d.configs == other.configs
}

// InDirPath returns the input directory path as given at construction.
func (d *MappedDir) InDirPath() string { return d.inDirPath }

// InDirName returns the last component of the input directory path.
func (d *MappedDir) InDirName() string { return rules.FileName(d.inDirPath) }

// OutDirName returns the output directory name. ok is false when the
// directory rule is invalid; such a directory produces no output at all.
func (d *MappedDir) OutDirName() (name string, ok bool) {
	if d.dirRenamer == nil {
		return "", false
	}
	return d.dirRenamer.Process(d.InDirName()), true
}

// InFiles returns the sorted file snapshot.
func (d *MappedDir) InFiles() []string { return d.inFiles }

// FileMappings returns one decision per entry of InFiles, in the same order.
func (d *MappedDir) FileMappings() []FileMapping { return d.fileMappings }

func (d *MappedDir) HasValidFileFilter() bool  { return d.fileFilter != nil }
func (d *MappedDir) HasValidDirRenamer() bool  { return d.dirRenamer != nil }
func (d *MappedDir) HasValidFileRenamer() bool { return d.fileRenamer != nil }

// FileFilterErr explains why HasValidFileFilter is false.
func (d *MappedDir) FileFilterErr() error { return d.fileFilterErr }

// DirRenamerErr explains why HasValidDirRenamer is false.
func (d *MappedDir) DirRenamerErr() error { return d.dirRenamerErr }

// FileRenamerErr explains why HasValidFileRenamer is false.
func (d *MappedDir) FileRenamerErr() error { return d.fileRenamerErr }

// LinkCount returns how many files will be linked.
func (d *MappedDir) LinkCount() int {
	n := 0
	for _, m := range d.fileMappings {
		switch m.(type) {
		case MappedTo:
			n++
		case Filtered:
		}
	}
	return n
}
