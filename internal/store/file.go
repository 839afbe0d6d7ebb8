package store

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// fileVersion is written into every document so the layout can evolve.
const fileVersion = "1"

// document is the on-disk YAML layout.
type document struct {
	Version  string      `yaml:"version"`
	Mappings []yamlEntry `yaml:"mappings"`
}

type yamlEntry struct {
	InPath       string `yaml:"in_path"`
	ExtFilter    string `yaml:"ext_filter"`
	DirMatcher   string `yaml:"dir_matcher"`
	DirReplacer  string `yaml:"dir_replacer"`
	FileMatcher  string `yaml:"file_matcher"`
	FileReplacer string `yaml:"file_replacer"`
}

func (e yamlEntry) record() Record {
	return Record{
		InPath:  e.InPath,
		Configs: [NumConfigs]string{e.ExtFilter, e.DirMatcher, e.DirReplacer, e.FileMatcher, e.FileReplacer},
	}
}

func entryFromRecord(r Record) yamlEntry {
	return yamlEntry{
		InPath:       r.InPath,
		ExtFilter:    r.Configs[0],
		DirMatcher:   r.Configs[1],
		DirReplacer:  r.Configs[2],
		FileMatcher:  r.Configs[3],
		FileReplacer: r.Configs[4],
	}
}

// FileStore keeps every record in a single YAML file. The whole file is read
// on open and rewritten through a temporary file plus rename on each Upsert,
// so a crash never leaves a truncated document behind.
//
// FileStore is not safe for concurrent use.
type FileStore struct {
	fs      afero.Fs
	path    string
	records map[string]Record
}

// Open loads the store at path, starting empty when the file does not exist.
func Open(fsys afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{fs: fsys, path: path, records: map[string]Record{}}

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	recs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load store %s: %w", path, err)
	}
	for _, r := range recs {
		s.records[r.InPath] = r
	}
	return s, nil
}

// Parse decodes a YAML store document. Later duplicates of the same input
// path win, matching Upsert semantics.
func Parse(data []byte) ([]Record, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store YAML: %w", err)
	}
	out := make([]Record, 0, len(doc.Mappings))
	for _, e := range doc.Mappings {
		if e.InPath == "" {
			return nil, fmt.Errorf("mapping without in_path: %w", ErrEmptyPath)
		}
		out = append(out, e.record())
	}
	return out, nil
}

// Marshal encodes records as a YAML store document sorted by input path.
func Marshal(recs []Record) ([]byte, error) {
	sorted := slices.Clone(recs)
	slices.SortFunc(sorted, func(a, b Record) int { return strings.Compare(a.InPath, b.InPath) })

	doc := document{Version: fileVersion, Mappings: make([]yamlEntry, 0, len(sorted))}
	for _, r := range sorted {
		doc.Mappings = append(doc.Mappings, entryFromRecord(r))
	}
	return yaml.Marshal(&doc)
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Get returns the record stored for inPath.
func (s *FileStore) Get(inPath string) (Record, bool, error) {
	r, ok := s.records[inPath]
	return r, ok, nil
}

// All returns every record sorted by input path.
func (s *FileStore) All() ([]Record, error) {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.InPath, b.InPath) })
	return out, nil
}

// Upsert replaces the record for rec.InPath and flushes the file. The in-memory
// view is only updated once the write succeeded.
func (s *FileStore) Upsert(rec Record) error {
	if rec.InPath == "" {
		return ErrEmptyPath
	}
	next := make([]Record, 0, len(s.records)+1)
	for k, r := range s.records {
		if k != rec.InPath {
			next = append(next, r)
		}
	}
	next = append(next, rec)

	if err := s.write(next); err != nil {
		return err
	}
	s.records[rec.InPath] = rec
	return nil
}

func (s *FileStore) write(recs []Record) error {
	data, err := Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}
	return nil
}
