package pipeline

import (
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/revelaction/depparse/annotate"
	"github.com/revelaction/depparse/conll"
)

type fakeAnnotator struct {
	sents []annotate.Sentence
	calls int
}

func (f *fakeAnnotator) Annotate(text string) ([]annotate.Sentence, error) {
	f.calls++
	return f.sents, nil
}

func (f *fakeAnnotator) Close() error { return nil }

// fakePredictor assigns heads and relations from fixed per-form tables.
type fakePredictor struct {
	heads map[string]int
	rels  map[string]string
}

func (f fakePredictor) Predict(sents []conll.Sentence) ([]conll.Sentence, error) {
	for si := range sents {
		for i := range sents[si] {
			entry := &sents[si][i]
			if entry.ID == 0 {
				continue
			}
			entry.Head = f.heads[entry.Form]
			entry.DepRel = f.rels[entry.Form]
		}
	}
	return sents, nil
}

func tok(text, lemma, tag string, idx int) annotate.Token {
	return annotate.Token{Text: text, Lemma: lemma, Tag: tag, Idx: idx}
}

func space(idx int) annotate.Token {
	return annotate.Token{Text: " ", Lemma: " ", Tag: "_SP", Idx: idx, IsSpace: true}
}

func newParser(t *testing.T, ann *fakeAnnotator, pred fakePredictor) *Parser {
	t.Helper()
	p, err := New(Config{Annotator: ann, Predictor: pred, UI: io.Discard})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNewRequiresCapabilities(t *testing.T) {
	if _, err := New(Config{Predictor: fakePredictor{}}); err == nil {
		t.Error("expected error without annotator")
	}
	if _, err := New(Config{Annotator: &fakeAnnotator{}}); err == nil {
		t.Error("expected error without predictor")
	}
}

func TestToConllFiltering(t *testing.T) {
	ann := &fakeAnnotator{sents: []annotate.Sentence{{
		tok("Dogs", "dog", "NNS", 0),
		space(4),
		tok("-", "-", "HYPH", 5),
		tok("run", "run", "VBP", 6),
		tok("...", "...", "NFP", 9),
	}}}

	p := newParser(t, ann, fakePredictor{})

	sents, err := p.ToConll("Dogs - run...")
	if err != nil {
		t.Fatalf("ToConll failed: %v", err)
	}

	if len(sents) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sents))
	}

	sc := sents[0]
	if sc[0].Form != conll.RootForm {
		t.Fatalf("first entry is %q, want root sentinel", sc[0].Form)
	}

	// whitespace and the bare hyphen are dropped, IDs stay contiguous
	forms := []string{}
	for _, entry := range sc[1:] {
		forms = append(forms, entry.Form)
	}
	if !reflect.DeepEqual(forms, []string{"Dogs", "run", "..."}) {
		t.Errorf("unexpected forms: %v", forms)
	}
	for i, entry := range sc[1:] {
		if entry.ID != i+1 {
			t.Errorf("entry %d has ID %d", i, entry.ID)
		}
		if entry.Head != -1 {
			t.Errorf("entry %q has Head %d before prediction", entry.Form, entry.Head)
		}
	}

	// "..." normalizes to ":"
	if sc[3].Pos != ":" || sc[3].CPos != ":" {
		t.Errorf("ellipsis normalized to %q/%q, want :", sc[3].Pos, sc[3].CPos)
	}

	// offsets survive conversion
	if sc[2].Misc != 6 {
		t.Errorf("run offset = %d, want 6", sc[2].Misc)
	}
}

func TestToConllReinvokesAnnotator(t *testing.T) {
	ann := &fakeAnnotator{sents: []annotate.Sentence{{tok("Hi", "hi", "UH", 0)}}}
	p := newParser(t, ann, fakePredictor{})

	if _, err := p.ToConll("Hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ToConll("Hi"); err != nil {
		t.Fatal(err)
	}
	if ann.calls != 2 {
		t.Errorf("annotator invoked %d times, want 2", ann.calls)
	}
}

// tomAndJerry is "Tom and Jerry ran ." with "ran" as the sentence head,
// "and" and "Jerry" both attached to "ran".
func tomAndJerry() (*fakeAnnotator, fakePredictor) {
	ann := &fakeAnnotator{sents: []annotate.Sentence{{
		tok("Tom", "tom", "NNP", 0),
		tok("and", "and", "CC", 4),
		tok("Jerry", "jerry", "NNP", 8),
		tok("ran", "run", "VBD", 14),
		tok(".", ".", ".", 17),
	}}}

	pred := fakePredictor{
		heads: map[string]int{"Tom": 4, "and": 4, "Jerry": 4, "ran": 0, ".": 4},
		rels:  map[string]string{"Tom": "nsubj", "and": "cc", "Jerry": "conj", "ran": "root", ".": "punct"},
	}
	return ann, pred
}

func TestParseConjAnd(t *testing.T) {
	ann, pred := tomAndJerry()
	p := newParser(t, ann, pred)

	doc, err := p.Parse("Tom and Jerry ran.", true, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(doc.Sentences))
	}

	s := doc.Sentences[0]
	if len(s) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(s))
	}

	jerry := s[2]
	if jerry.Rel != "conj_and" {
		t.Errorf("Jerry rel = %q, want conj_and", jerry.Rel)
	}

	// governor emitted 0-based, root becomes -1
	if jerry.Gov != 3 {
		t.Errorf("Jerry gov = %d, want 3", jerry.Gov)
	}
	if s[3].Gov != -1 {
		t.Errorf("ran gov = %d, want -1", s[3].Gov)
	}

	if doc.DocText != "Tom and Jerry ran." {
		t.Errorf("DocText = %q", doc.DocText)
	}
	if s[0].Text != "Tom" {
		t.Errorf("token text missing: %+v", s[0])
	}
	if s[2].Len != 5 || s[2].Start != 8 {
		t.Errorf("Jerry len/start = %d/%d, want 5/8", s[2].Len, s[2].Start)
	}
}

func TestParseShowFlags(t *testing.T) {
	ann, pred := tomAndJerry()
	p := newParser(t, ann, pred)

	doc, err := p.Parse("Tom and Jerry ran.", false, false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.DocText != "" {
		t.Errorf("DocText included: %q", doc.DocText)
	}
	for _, s := range doc.Sentences {
		for _, token := range s {
			if token.Text != "" {
				t.Errorf("token text included: %+v", token)
			}
		}
	}
}

func TestParseConjForwardReference(t *testing.T) {
	// The conj dependent precedes its conjunction: the single forward pass
	// leaves the bare label.
	ann := &fakeAnnotator{sents: []annotate.Sentence{{
		tok("Jerry", "jerry", "NNP", 0),
		tok("and", "and", "CC", 6),
	}}}
	pred := fakePredictor{
		heads: map[string]int{"Jerry": 2, "and": 2},
		rels:  map[string]string{"Jerry": "conj", "and": "cc"},
	}

	p := newParser(t, ann, pred)
	doc, err := p.Parse("Jerry and", true, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := doc.Sentences[0][0].Rel; got != "conj" {
		t.Errorf("rel = %q, want bare conj", got)
	}
}

func TestParseConjBothSuffixes(t *testing.T) {
	// "and" and "or" attached to the same governor before the conj
	// dependent: both suffixes stack, "_and" first.
	ann := &fakeAnnotator{sents: []annotate.Sentence{{
		tok("and", "and", "CC", 0),
		tok("or", "or", "CC", 4),
		tok("cats", "cat", "NNS", 7),
	}}}
	pred := fakePredictor{
		heads: map[string]int{"and": 4, "or": 4, "cats": 4},
		rels:  map[string]string{"and": "cc", "or": "cc", "cats": "conj"},
	}

	p := newParser(t, ann, pred)
	doc, err := p.Parse("and or cats", true, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := doc.Sentences[0][2].Rel; got != "conj_and_or" {
		t.Errorf("rel = %q, want conj_and_or", got)
	}
}

func TestParseOmitsEmptySentences(t *testing.T) {
	ann := &fakeAnnotator{sents: []annotate.Sentence{
		{space(0), space(1)},
		{tok("Hi", "hi", "UH", 3)},
	}}
	pred := fakePredictor{
		heads: map[string]int{"Hi": 0},
		rels:  map[string]string{"Hi": "root"},
	}

	p := newParser(t, ann, pred)
	doc, err := p.Parse("  \nHi", true, true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(doc.Sentences))
	}
	if doc.Sentences[0][0].Text != "Hi" {
		t.Errorf("unexpected sentence: %+v", doc.Sentences[0])
	}
}

func TestParseDeterminism(t *testing.T) {
	ann, pred := tomAndJerry()
	p := newParser(t, ann, pred)

	first, err := p.Parse("Tom and Jerry ran.", true, true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse("Tom and Jerry ran.", true, true)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Parse is not deterministic for identical input")
	}
}

func TestVerboseOutput(t *testing.T) {
	ann, pred := tomAndJerry()
	var out strings.Builder

	p, err := New(Config{Verbose: true, UI: &out, Annotator: ann, Predictor: pred})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Parse("Tom and Jerry ran.", true, true); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "Tom\tNNP") {
		t.Errorf("verbose output missing token line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "input conll form:") {
		t.Errorf("verbose output missing conll block:\n%s", out.String())
	}
}
