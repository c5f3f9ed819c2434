// Package zombiezen implements the SQLite doc repository: documents, their
// parsed sentences and a lemma index live in one database file.
package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

// NewPool opens a connection pool on the database file at dbPath, creating
// the file if needed. The default sqlitex flags include OpenWAL, so reads
// (doc listing, lemma search) do not block a running parse -save write.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open doc database %s: %w", dbPath, err)
	}
	return pool, nil
}
