package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	sent "github.com/revelaction/depparse/sentence"
)

func TestJSONRendererRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(sent.Doc{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var doc sent.Doc
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(doc.Sentences) != 0 {
		t.Fatalf("expected 0 sentences, got %d", len(doc.Sentences))
	}

	// empty doc text must not appear in output
	if strings.Contains(buf.String(), "docText") {
		t.Errorf("unexpected docText key: %s", buf.String())
	}
}

func TestJSONRendererRenderDoc(t *testing.T) {
	doc := sent.Doc{
		DocText: "Tom ran.",
		Sentences: [][]sent.Token{
			{
				{Start: 0, Len: 3, Pos: "NNP", Ner: "PERSON", Lemma: "tom", Gov: 1, Rel: "nsubj", Text: "Tom"},
				{Start: 4, Len: 3, Pos: "VBD", Lemma: "run", Gov: -1, Rel: "root", Text: "ran"},
				{Start: 7, Len: 1, Pos: ".", Lemma: ".", Gov: 1, Rel: "punct", Text: "."},
			},
		},
	}

	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)
	if err := r.Render(doc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var got sent.Doc
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if got.DocText != "Tom ran." {
		t.Errorf("docText = %q", got.DocText)
	}
	if len(got.Sentences) != 1 || len(got.Sentences[0]) != 3 {
		t.Fatalf("unexpected sentence shape: %+v", got.Sentences)
	}
	if got.Sentences[0][0].Rel != "nsubj" || got.Sentences[0][1].Gov != -1 {
		t.Errorf("unexpected tokens: %+v", got.Sentences[0])
	}

	for _, key := range []string{`"start"`, `"len"`, `"pos"`, `"ner"`, `"lemma"`, `"gov"`, `"rel"`, `"text"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("output missing key %s: %s", key, buf.String())
		}
	}
}

func TestRendererTextFormat(t *testing.T) {
	var buf bytes.Buffer
	r := &Renderer{W: &buf, Format: "text"}

	doc := sent.Doc{Sentences: [][]sent.Token{
		{
			{Start: 0, Len: 3, Text: "Tom", Lemma: "tom"},
			{Start: 4, Len: 3, Text: "ran", Lemma: "run"},
			{Start: 7, Len: 1, Text: ".", Lemma: "."},
		},
	}}

	if err := r.Render(doc); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Tom ran.") {
		t.Errorf("reconstructed text missing: %q", buf.String())
	}
}

func TestNextFormat(t *testing.T) {
	r := NewRenderer()
	seen := map[string]bool{r.Format: true}
	for i := 0; i < len(SupportedFormats())-1; i++ {
		r.NextFormat()
		seen[r.Format] = true
	}
	if len(seen) != len(SupportedFormats()) {
		t.Errorf("NextFormat did not cycle all formats: %v", seen)
	}

	r.NextFormat()
	if !seen[r.Format] {
		t.Errorf("NextFormat left supported set: %q", r.Format)
	}
}
