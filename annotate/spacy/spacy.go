// Package spacy annotates text by driving a spaCy interpreter process. The
// client execs a python helper, writes the raw text to its stdin and decodes
// a JSON sentence/token stream from its stdout.
package spacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/revelaction/depparse/annotate"
)

const (
	DefaultPython = "python3"
	DefaultModel  = "en_core_web_sm"
)

const script = `
import json
import sys

import spacy

nlp = spacy.load(sys.argv[1])
doc = nlp(sys.stdin.read())

sents = []
for sent in doc.sents:
    sents.append([{
        "text": tok.text,
        "lemma": tok.lemma_,
        "pos": tok.pos_,
        "tag": tok.tag_,
        "ent_type": tok.ent_type_,
        "idx": tok.idx,
        "is_space": tok.is_space,
    } for tok in sent])

json.dump(sents, sys.stdout)
`

type Client struct {
	// Python is the interpreter binary, DefaultPython if empty.
	Python string

	// Model is the spaCy model name or path, DefaultModel if empty.
	Model string
}

var _ annotate.Annotator = (*Client)(nil)

// New creates a spaCy annotator client for the given model name or path.
func New(model string) *Client {
	return &Client{Model: model}
}

func (c *Client) Annotate(text string) ([]annotate.Sentence, error) {
	python := c.Python
	if python == "" {
		python = DefaultPython
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	cmd := exec.Command(python, "-c", script, model)
	cmd.Stdin = strings.NewReader(text)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("spacy annotator failed: %w: %s", err, strings.TrimSpace(errBuf.String()))
	}

	return Decode(out.Bytes())
}

func (c *Client) Close() error {
	return nil
}

// Decode unmarshals the JSON sentence stream emitted by the helper script.
func Decode(data []byte) ([]annotate.Sentence, error) {
	var sents []annotate.Sentence
	if err := json.Unmarshal(data, &sents); err != nil {
		return nil, fmt.Errorf("invalid annotator output: %w", err)
	}
	return sents, nil
}
