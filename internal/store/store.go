// Package store persists per-directory mapping configurations keyed by the
// input directory path.
package store

import "errors"

// NumConfigs is the number of positional configuration strings per record.
const NumConfigs = 5

// ErrEmptyPath is returned when a record is written without an input path.
var ErrEmptyPath = errors.New("record has no input path")

// Record is the persisted form of one input directory's mapping.
//
// Configs is positional: extension filter, directory matcher, directory
// replacer, file matcher, file replacer.
type Record struct {
	InPath  string
	Configs [NumConfigs]string
}

// Store is a keyed lookup of records by exact input path. Upsert is
// last-write-wins.
type Store interface {
	Get(inPath string) (Record, bool, error)
	Upsert(rec Record) error
	All() ([]Record, error)
}
