// Package bist drives a pretrained BIST dependency parsing model through a
// python helper process and manages the pretrained model artifact.
package bist

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/revelaction/depparse/conll"
	"github.com/revelaction/depparse/model"
)

const DefaultPython = "python3"

// The helper reads CoNLL rows from stdin, runs the BIST model prediction
// and writes the rows back with head and relation columns filled.
const script = `
import sys

from nlp_architect.data.conll import ConllEntry
from nlp_architect.models.bist_parser import BISTModel

def read_sentences(lines):
    sent = []
    for line in lines:
        line = line.rstrip("\n")
        if not line.strip():
            if sent:
                yield sent
                sent = []
            continue
        f = line.split("\t")
        e = ConllEntry(int(f[0]), f[1], f[2], f[4], f[3], f[5],
                       int(f[6]), f[7], f[8], f[9])
        sent.append(e)
    if sent:
        yield sent

model = BISTModel()
model.load(sys.argv[1])

for sent in model.predict_conll(read_sentences(sys.stdin)):
    for e in sent:
        fields = [str(e.id), e.form, e.lemma, e.cpos, e.pos, e.feats,
                  str(int(e.pred_parent_id)), e.pred_relation, "_", str(e.misc)]
        print("\t".join(fields))
    print()
`

// Client runs predictions against a BIST .model file.
type Client struct {
	// Python is the interpreter binary, DefaultPython if empty.
	Python string

	// ModelPath is the path of the .model file.
	ModelPath string
}

var _ model.Predictor = (*Client)(nil)

// New creates a predictor for the model file at path. The file must exist.
func New(path string) (*Client, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("bist model not found at %s: %w", path, err)
	}
	return &Client{ModelPath: path}, nil
}

func (c *Client) Predict(sents []conll.Sentence) ([]conll.Sentence, error) {
	if len(sents) == 0 {
		return nil, nil
	}

	python := c.Python
	if python == "" {
		python = DefaultPython
	}

	var in bytes.Buffer
	if err := conll.Write(&in, sents); err != nil {
		return nil, err
	}

	cmd := exec.Command(python, "-c", script, c.ModelPath)
	cmd.Stdin = &in

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("bist prediction failed: %w: %s", err, strings.TrimSpace(errBuf.String()))
	}

	predicted, err := conll.Parse(&out)
	if err != nil {
		return nil, fmt.Errorf("invalid bist output: %w", err)
	}
	if len(predicted) != len(sents) {
		return nil, fmt.Errorf("bist returned %d sentences for %d inputs", len(predicted), len(sents))
	}

	return predicted, nil
}
