package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sent "github.com/revelaction/depparse/sentence"
	"github.com/revelaction/depparse/storage"
)

type DocStore struct {
	docDir string

	// In-memory metadata, one entry per JSON file
	docs []sent.Doc
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store over a directory of JSON
// document files.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(files))

	idx := 0
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}

		labels, err := readLabels(filepath.Join(docDir, file.Name()))
		if err != nil {
			return nil, err
		}

		docs = append(docs, sent.Doc{
			Id:     idx,
			Title:  strings.TrimSuffix(file.Name(), ".json"),
			Labels: labels,
		})
		idx++
	}

	return &DocStore{
		docDir: docDir,
		docs:   docs,
	}, nil
}

func (h *DocStore) List() ([]sent.Doc, error) {
	return h.docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc id out of range: %d", id)
	}

	doc, err := ReadDoc(h.path(h.docs[id].Title))
	if err != nil {
		return sent.Doc{}, err
	}

	doc.Id = id
	doc.Title = h.docs[id].Title
	return doc, nil
}

// FindCandidates scans all documents in memory; the cursor is a running
// sentence count over the whole store.
func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if len(lemmas) == 0 {
		return after, nil
	}

	var rowID int64
	emitted := 0
	cursor := after

	for id := range h.docs {
		doc, err := h.Read(id)
		if err != nil {
			return cursor, err
		}

		for sentID, tokens := range doc.Sentences {
			rowID++
			if rowID <= int64(after) {
				continue
			}
			if emitted >= limit {
				return cursor, nil
			}

			if !hasAllLemmas(tokens, lemmas) {
				cursor = storage.Cursor(rowID)
				continue
			}

			res := storage.SentenceResult{
				RowID:    rowID,
				DocID:    doc.Id,
				DocTitle: doc.Title,
				SentID:   sentID,
				Tokens:   tokens,
			}
			if err := onCandidate(res); err != nil {
				return cursor, err
			}
			emitted++
			cursor = storage.Cursor(rowID)
		}
	}

	return cursor, nil
}

func (h *DocStore) Write(doc sent.Doc) error {
	if doc.Title == "" {
		return fmt.Errorf("doc has no title")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(h.path(doc.Title), data, 0644); err != nil {
		return err
	}

	// register new titles in the metadata cache
	for _, d := range h.docs {
		if d.Title == doc.Title {
			return nil
		}
	}
	h.docs = append(h.docs, sent.Doc{Id: len(h.docs), Title: doc.Title, Labels: doc.Labels})

	return nil
}

func (h *DocStore) path(title string) string {
	return filepath.Join(h.docDir, title+".json")
}

func hasAllLemmas(tokens []sent.Token, lemmas []string) bool {
	for _, lemma := range lemmas {
		found := false
		for _, token := range tokens {
			if token.Lemma == lemma {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// readLabels decodes only the labels field of a doc file, for the metadata
// cache.
func readLabels(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var meta struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}

	return meta.Labels, nil
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
