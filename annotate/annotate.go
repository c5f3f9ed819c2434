// Package annotate defines the sentence/token annotator capability consumed
// by the parse pipeline. An annotator segments raw text into sentences and
// tokens carrying lemma, tags, entity type and character offset.
package annotate

// Token is a single annotator token.
type Token struct {
	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// Pos is the coarse universal tag, Tag the fine-grained treebank tag.
	Pos string `json:"pos"`
	Tag string `json:"tag"`

	// Entity type of the word, empty if none
	EntType string `json:"ent_type"`

	// The index of the start character of the token in the input text
	Idx int `json:"idx"`

	// IsSpace marks tokens that consist only of whitespace
	IsSpace bool `json:"is_space"`
}

// A Sentence is the ordered tokens of one detected sentence.
type Sentence []Token

// Annotator segments raw text into annotated sentences.
type Annotator interface {
	Annotate(text string) ([]Sentence, error)

	Close() error
}
