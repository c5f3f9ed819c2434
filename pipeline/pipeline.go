// Package pipeline wires the sentence annotator and the parsing model into a
// dependency parse of raw text: annotate -> CoNLL conversion with PTB tag
// normalization -> model prediction -> conjunction relation resolution ->
// parsed document.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/revelaction/depparse/annotate"
	"github.com/revelaction/depparse/conll"
	"github.com/revelaction/depparse/model"
	"github.com/revelaction/depparse/ptb"
	"github.com/revelaction/depparse/sentence"
)

type Config struct {
	// Verbose prints per-token annotator output and the assembled CoNLL
	// rows to UI.
	Verbose bool

	// UI is the stream for verbose output, os.Stderr if nil.
	UI io.Writer

	Annotator annotate.Annotator

	Predictor model.Predictor
}

// Parser runs the parse pipeline. The annotator and predictor handles are
// read-only after construction.
type Parser struct {
	verbose   bool
	ui        io.Writer
	annotator annotate.Annotator
	predictor model.Predictor
}

func New(cfg Config) (*Parser, error) {
	if cfg.Annotator == nil {
		return nil, errors.New("pipeline: no annotator configured")
	}
	if cfg.Predictor == nil {
		return nil, errors.New("pipeline: no predictor configured")
	}

	ui := cfg.UI
	if ui == nil {
		ui = os.Stderr
	}

	return &Parser{
		verbose:   cfg.Verbose,
		ui:        ui,
		annotator: cfg.Annotator,
		predictor: cfg.Predictor,
	}, nil
}

// ToConll annotates text and converts every detected sentence to CoNLL form
// with normalized PTB tags. Whitespace-only tokens are dropped, as is a bare
// "-" tagged HYPH. The annotator is re-invoked on every call.
func (p *Parser) ToConll(text string) ([]conll.Sentence, error) {
	annotated, err := p.annotator.Annotate(text)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	sents := make([]conll.Sentence, 0, len(annotated))
	for _, sent := range annotated {
		sc := conll.Sentence{conll.NewRoot()}

		id := 0
		for _, tok := range sent {
			if p.verbose {
				fmt.Fprintf(p.ui, "%s\t%s\n", tok.Text, tok.Tag)
			}

			if tok.IsSpace {
				continue
			}
			if tok.Text == "-" && tok.Tag == "HYPH" {
				continue
			}

			pos := ptb.Normalize(tok.Tag, tok.Text)
			id++
			sc = append(sc, conll.Entry{
				ID:    id,
				Form:  tok.Text,
				Lemma: tok.Lemma,
				CPos:  pos,
				Pos:   pos,
				Feats: tok.EntType,
				Head:  -1,
				Misc:  tok.Idx,
			})
		}

		if p.verbose {
			fmt.Fprintln(p.ui, "-----------------------\ninput conll form:")
			for _, entry := range sc {
				fmt.Fprintf(p.ui, "%d\t%s\t%s\t\n", entry.ID, entry.Form, entry.Pos)
			}
		}

		sents = append(sents, sc)
	}

	return sents, nil
}

// Parse runs the full pipeline on text. showTok controls whether token text
// is included in the output tokens, showDoc whether the raw document text is
// included in the document. Sentences with no tokens left after filtering
// are omitted.
func (p *Parser) Parse(text string, showTok, showDoc bool) (sentence.Doc, error) {
	sents, err := p.ToConll(text)
	if err != nil {
		return sentence.Doc{}, err
	}

	var doc sentence.Doc
	if showDoc {
		doc.DocText = text
	}

	predicted, err := p.predictor.Predict(sents)
	if err != nil {
		return sentence.Doc{}, fmt.Errorf("predict: %w", err)
	}

	for _, sc := range predicted {
		parsed := resolveConj(sc, showTok)
		if len(parsed) > 0 {
			doc.Sentences = append(doc.Sentences, parsed)
		}
	}

	return doc, nil
}
