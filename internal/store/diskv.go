package store

import (
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv stores each key as a flat file under a base directory.
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv creates a diskv backend rooted at dir.
func NewDiskv(dir string) (*Diskv, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (b *Diskv) Get(key string) ([]byte, error) {
	if !b.d.Has(key) {
		return nil, ErrNotFound
	}
	val, err := b.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return val, nil
}

func (b *Diskv) Set(key string, value []byte) error {
	if err := b.d.Write(key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (b *Diskv) Close() error { return nil }
