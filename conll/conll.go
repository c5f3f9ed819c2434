// Package conll holds the tabular per-token sentence representation used as
// input and output of the parsing model.
// For a description of the format see http://ilk.uvt.nl/conll/#dataformat
package conll

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	FieldSeparator = "\t"
	NumFields      = 10

	// Sentinel fields of the synthetic root entry.
	RootForm = "*root*"
	RootPos  = "ROOT-POS"
	RootCPos = "ROOT-CPOS"
	RootRel  = "rroot"
)

// Entry is a single row of a sentence in CoNLL form.
type Entry struct {
	// ID is the 1-based position of the token in the sentence, 0 for the
	// synthetic root.
	ID int

	// Form is the surface text of the token.
	Form string

	Lemma string

	// CPos and Pos both carry the normalized PTB tag.
	CPos string
	Pos  string

	// Feats carries the entity type of the token, empty if none.
	Feats string

	// Head is the ID of the governor entry, -1 until predicted.
	Head int

	// DepRel is the dependency relation to the governor, empty until
	// predicted.
	DepRel string

	// Misc is the start character offset of the token in the document.
	Misc int
}

// A Sentence is the ordered entries of one sentence, root sentinel first.
type Sentence []Entry

// NewRoot returns the synthetic root entry every sentence starts with. The
// root is never a dependent of another entry.
func NewRoot() Entry {
	return Entry{
		ID:     0,
		Form:   RootForm,
		Lemma:  RootForm,
		CPos:   RootCPos,
		Pos:    RootPos,
		Head:   -1,
		DepRel: RootRel,
	}
}

func (e Entry) String() string {
	fields := []string{
		strconv.Itoa(e.ID),
		blank(e.Form),
		blank(e.Lemma),
		blank(e.CPos),
		blank(e.Pos),
		blank(e.Feats),
		strconv.Itoa(e.Head),
		blank(e.DepRel),
		"_",
		strconv.Itoa(e.Misc),
	}
	return strings.Join(fields, FieldSeparator)
}

func blank(value string) string {
	if value == "" {
		return "_"
	}
	return value
}

func unblank(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

// Write renders sentences as tab-separated rows, one blank line after each
// sentence.
func Write(w io.Writer, sents []Sentence) error {
	for _, sent := range sents {
		for _, entry := range sent {
			if _, err := fmt.Fprintln(w, entry.String()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads sentences in the row format produced by Write. Sentences are
// separated by blank lines.
func Parse(r io.Reader) ([]Sentence, error) {
	var sents []Sentence
	var cur Sentence

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			if len(cur) > 0 {
				sents = append(sents, cur)
				cur = nil
			}
			continue
		}

		entry, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cur = append(cur, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(cur) > 0 {
		sents = append(sents, cur)
	}

	return sents, nil
}

func parseRow(text string) (Entry, error) {
	fields := strings.Split(text, FieldSeparator)
	if len(fields) != NumFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", NumFields, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid id field %q: %w", fields[0], err)
	}

	head, err := strconv.Atoi(fields[6])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid head field %q: %w", fields[6], err)
	}

	misc, err := strconv.Atoi(fields[9])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid misc field %q: %w", fields[9], err)
	}

	return Entry{
		ID:     id,
		Form:   unblank(fields[1]),
		Lemma:  unblank(fields[2]),
		CPos:   unblank(fields[3]),
		Pos:    unblank(fields[4]),
		Feats:  unblank(fields[5]),
		Head:   head,
		DepRel: unblank(fields[7]),
		Misc:   misc,
	}, nil
}
