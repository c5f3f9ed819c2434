package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/depparse/storage"
	"github.com/revelaction/depparse/storage/filesystem"
	"github.com/revelaction/depparse/storage/sqlite/zombiezen"
)

// NewDocRepository opens the doc repository at path. A directory is served
// by the filesystem store, a file by the SQLite store. With create set, a
// missing path is initialized: a ".db" extension selects SQLite, anything
// else a docs directory.
func NewDocRepository(p *Pool, path string, create bool) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return filesystem.NewDocStore(path)
		}

		pool, err := p.Open(path)
		if err != nil {
			return nil, err
		}
		return zombiezen.NewDocStore(pool), nil
	}

	if !create {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if filepath.Ext(path) == ".db" {
		pool, err := p.Open(path)
		if err != nil {
			return nil, err
		}
		if err := zombiezen.CreateSchemas(pool, "docs.sql"); err != nil {
			return nil, err
		}
		return zombiezen.NewDocStore(pool), nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}
	return filesystem.NewDocStore(path)
}
