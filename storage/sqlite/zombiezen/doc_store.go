package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sent "github.com/revelaction/depparse/sentence"
	"github.com/revelaction/depparse/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List() ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels FROM docs ORDER BY title", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc := sent.Doc{
				Id:    stmt.ColumnInt(0),
				Title: stmt.ColumnText(1),
			}
			labelsStr := stmt.ColumnText(2)
			if labelsStr != "" {
				doc.Labels = strings.Split(labelsStr, ",")
			}
			docs = append(docs, doc)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels, doc_text FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			labelsStr := stmt.ColumnText(1)
			if labelsStr != "" {
				doc.Labels = strings.Split(labelsStr, ",")
			}
			doc.DocText = stmt.ColumnText(2)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc not found: %d", id)
	}

	err = sqlitex.Execute(conn, "SELECT data FROM sentences WHERE doc_id = ? ORDER BY sent_id", &sqlitex.ExecOptions{
		Args: []interface{}{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var tokens []sent.Token
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &tokens); err != nil {
				return err
			}
			doc.Sentences = append(doc.Sentences, tokens)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

// Write replaces any stored document of the same title and rebuilds its
// sentence rows and lemma index.
func (h *DocStore) Write(doc sent.Doc) error {
	if doc.Title == "" {
		return fmt.Errorf("doc has no title")
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return err
	}
	defer endFn(&err)

	// drop a previous version of the doc and its index rows
	var oldID int64 = -1
	err = sqlitex.Execute(conn, "SELECT id FROM docs WHERE title = ?", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			oldID = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return err
	}
	if oldID >= 0 {
		err = sqlitex.Execute(conn,
			"DELETE FROM sentence_lemmas WHERE sentence_rowid IN (SELECT rowid FROM sentences WHERE doc_id = ?)",
			&sqlitex.ExecOptions{Args: []interface{}{oldID}})
		if err != nil {
			return err
		}
		err = sqlitex.Execute(conn, "DELETE FROM sentences WHERE doc_id = ?",
			&sqlitex.ExecOptions{Args: []interface{}{oldID}})
		if err != nil {
			return err
		}
		err = sqlitex.Execute(conn, "DELETE FROM docs WHERE id = ?",
			&sqlitex.ExecOptions{Args: []interface{}{oldID}})
		if err != nil {
			return err
		}
	}

	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels, doc_text) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{doc.Title, strings.Join(doc.Labels, ","), doc.DocText},
	})
	if err != nil {
		return err
	}
	docID := conn.LastInsertRowID()

	for sentID, tokens := range doc.Sentences {
		var data []byte
		data, err = json.Marshal(tokens)
		if err != nil {
			return err
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, sent_id, data) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{docID, sentID, string(data)},
		})
		if err != nil {
			return err
		}
		sentenceRowID := conn.LastInsertRowID()

		for _, lemma := range uniqueLemmas(tokens) {
			err = sqlitex.Execute(conn, "INSERT INTO sentence_lemmas (sentence_rowid, lemma) VALUES (?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{sentenceRowID, lemma},
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// FindCandidates uses the lemma index: INTERSECT guarantees sentences that
// contain ALL lemmas, with unique rowids.
func (h *DocStore) FindCandidates(lemmas []string, after storage.Cursor, limit int, onCandidate func(storage.SentenceResult) error) (storage.Cursor, error) {
	if len(lemmas) == 0 {
		return after, nil
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return after, err
	}
	defer h.pool.Put(conn)

	var queryBuilder strings.Builder
	var args []interface{}

	for i, lemma := range lemmas {
		if i > 0 {
			queryBuilder.WriteString(" INTERSECT ")
		}
		queryBuilder.WriteString("SELECT sentence_rowid FROM sentence_lemmas WHERE lemma = ? AND sentence_rowid > ?")
		args = append(args, lemma, int64(after))
	}
	queryBuilder.WriteString(" LIMIT ?")
	args = append(args, limit)

	var rowIDs []int64
	err = sqlitex.Execute(conn, queryBuilder.String(), &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rowIDs = append(rowIDs, stmt.ColumnInt64(0))
			return nil
		},
	})
	if err != nil {
		return after, err
	}

	cursor := after
	for _, rowID := range rowIDs {
		res := storage.SentenceResult{RowID: rowID}

		err = sqlitex.Execute(conn,
			"SELECT s.doc_id, s.sent_id, s.data, d.title FROM sentences s JOIN docs d ON d.id = s.doc_id WHERE s.rowid = ?",
			&sqlitex.ExecOptions{
				Args: []interface{}{rowID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					res.DocID = stmt.ColumnInt(0)
					res.SentID = stmt.ColumnInt(1)
					res.DocTitle = stmt.ColumnText(3)
					return json.Unmarshal([]byte(stmt.ColumnText(2)), &res.Tokens)
				},
			})
		if err != nil {
			return cursor, err
		}

		if err := onCandidate(res); err != nil {
			return cursor, err
		}
		if rowID > int64(cursor) {
			cursor = storage.Cursor(rowID)
		}
	}

	return cursor, nil
}

func uniqueLemmas(tokens []sent.Token) []string {
	seen := map[string]bool{}
	var lemmas []string
	for _, token := range tokens {
		if token.Lemma == "" || seen[token.Lemma] {
			continue
		}
		seen[token.Lemma] = true
		lemmas = append(lemmas, token.Lemma)
	}
	return lemmas
}
