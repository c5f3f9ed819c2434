package sentence

// Doc is a dependency-parsed document: one token list per sentence.
// Id, Title and Labels are storage metadata and are not part of the
// parse output itself.
type Doc struct {
	Id int `json:"id,omitempty"`

	Title string `json:"title,omitempty"`

	Labels []string `json:"labels,omitempty"`

	// The raw input text, empty if the parse was run without it.
	DocText string `json:"docText,omitempty"`

	Sentences [][]Token `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Token represents a parsed word of a sentence, with POS, dependency
// relation and metadata.
type Token struct {
	// The index of the start character of the token in the original doc
	// (set by the annotator, rune based)
	Start int `json:"start"`

	// Length of the word in runes
	Len int `json:"len"`

	// Normalized PTB part-of-speech tag
	Pos string `json:"pos"`

	// Entity type of the word, empty if none
	Ner string `json:"ner"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the governor of the word in the sentence, starting at
	// 0. The root of the sentence has governor -1.
	Gov int `json:"gov"`

	// The dependency relation to the governor, with coordination
	// relations disambiguated ("conj_and", "conj_or")
	Rel string `json:"rel"`

	// The unmodified word, empty when token text is excluded
	Text string `json:"text,omitempty"`
}
