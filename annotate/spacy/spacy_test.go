package spacy

import "testing"

func TestDecode(t *testing.T) {
	data := []byte(`[
		[
			{"text": "Dogs", "lemma": "dog", "pos": "NOUN", "tag": "NNS", "ent_type": "", "idx": 0, "is_space": false},
			{"text": " ", "lemma": " ", "pos": "SPACE", "tag": "_SP", "ent_type": "", "idx": 4, "is_space": true},
			{"text": "run", "lemma": "run", "pos": "VERB", "tag": "VBP", "ent_type": "", "idx": 5, "is_space": false}
		],
		[
			{"text": "Yes", "lemma": "yes", "pos": "INTJ", "tag": "UH", "ent_type": "", "idx": 9, "is_space": false}
		]
	]`)

	sents, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(sents) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sents))
	}
	if len(sents[0]) != 3 {
		t.Fatalf("expected 3 tokens in first sentence, got %d", len(sents[0]))
	}

	tok := sents[0][0]
	if tok.Text != "Dogs" || tok.Lemma != "dog" || tok.Tag != "NNS" || tok.Idx != 0 {
		t.Errorf("unexpected first token: %+v", tok)
	}
	if !sents[0][1].IsSpace {
		t.Error("expected second token to be whitespace")
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid output")
	}
}
