package store

import "errors"

// EntriesKey is the key under which the whole entry collection is persisted.
const EntriesKey = "journal-entries"

// ErrNotFound is returned by a Backend when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a small key/value persistence contract, the local stand-in for
// browser local storage.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open returns the backend named by kind ("diskv" or "sqlite") rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case "", "diskv":
		return NewDiskv(dir)
	case "sqlite":
		return NewSQLite(dir)
	default:
		return nil, errors.New("unknown backend: " + kind)
	}
}
