// Package storage defines repositories for parsed documents.
package storage

import (
	sent "github.com/revelaction/depparse/sentence"
)

// Cursor for paginated lemma-based queries
type Cursor int64

// SentenceResult is one sentence hit of an indexed lemma search.
type SentenceResult struct {
	RowID    int64
	DocID    int
	DocTitle string
	SentID   int
	Tokens   []sent.Token
}

// DocReader defines read operations for parsed document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// Content (Sentences) is not loaded.
	List() ([]sent.Doc, error)

	// Read returns a full document by ID
	Read(id int) (sent.Doc, error)

	// FindCandidates streams sentences that contain ALL given lemmas,
	// resuming after the given cursor, at most limit results. It calls
	// onCandidate for each result and returns the new cursor.
	FindCandidates(lemmas []string, after Cursor, limit int, onCandidate func(SentenceResult) error) (Cursor, error)
}

// DocWriter defines write operations for parsed document storage
type DocWriter interface {
	// Write persists a document and its lemma index. A document with the
	// same title is replaced.
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}
