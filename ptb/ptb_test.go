package ptb

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		tag  string
		text string
		want string
	}{
		{"NFP", "...", ":"},
		{"SYM", "*", "SYM"},
		{"NFP", "*", "SYM"},
		{"AFX", "x", "JJ"},
		{"AFX", "cross-", "JJ"},
		{"ADD", "http://example.com", "NN"},
		{"PUNCT", ",", ","},
		{"PUNCT", ".", "."},
		{"PUNCT", ":", ":"},
		{"PUNCT", "``", "``"},
		{"PUNCT", "-RRB-", "-RRB-"},
		{"PUNCT", "-LRB-", "-LRB-"},
		// tag equal to text: the punctuation identity rule must not fire
		{",", ",", ","},
		{"NFP", "~", "SYM"},
		{"HYPH", "-", "SYM"},
		{"XX", "asdf", "SYM"},
		// identity cases
		{"NNP", "dog", "NNP"},
		{"VBZ", "runs", "VBZ"},
		{"", "", ""},
	}

	for _, c := range cases {
		got := Normalize(c.tag, c.text)
		if got != c.want {
			t.Errorf("Normalize(%q, %q) = %q, want %q", c.tag, c.text, got, c.want)
		}
	}
}

func TestNormalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Normalize("NFP", "~"); got != "SYM" {
			t.Fatalf("Normalize not stable: got %q on call %d", got, i)
		}
	}
}
