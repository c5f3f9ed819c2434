package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	sent "github.com/revelaction/depparse/sentence"
)

const Defaultformat = "table"

var (
	Yellow    = "\033[0;33m"
	Teal      = "\033[1;36m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

func SupportedFormats() []string {
	return []string{"table", "text", "json"}
}

// DocRenderer renders a full parsed document.
type DocRenderer interface {
	Render(doc sent.Doc) error
}

// Renderer writes parsed sentences for the terminal.
type Renderer struct {
	W io.Writer

	HasColor bool

	// Format determines the rendering of a sentence
	//
	// table: one aligned row per token with tag, governor and relation
	// text:  the sentence text reconstructed from token offsets
	// json:  the raw document JSON
	Format string
}

func NewRenderer() *Renderer {
	return &Renderer{W: os.Stdout, Format: Defaultformat}
}

var _ DocRenderer = (*Renderer)(nil)

// Render prints every sentence of the doc in the current format.
func (r *Renderer) Render(doc sent.Doc) error {
	if r.Format == "json" {
		return NewJSONRenderer(r.W).Render(doc)
	}

	for i, s := range doc.Sentences {
		prefix := fmt.Sprintf("✍  %d ", i)
		r.Sentence(s, prefix)
		if r.Format == "table" {
			r.Table(s)
			fmt.Fprintln(r.W)
		}
	}

	return nil
}

// Sentence prints the sentence text reconstructed from the token offsets,
// prefixed by prefix.
func (r *Renderer) Sentence(s []sent.Token, prefix string) {
	fmt.Fprintf(r.W, "%s%s\n", prefix, strings.ReplaceAll(r.text(s), "\n", " "))
}

// Table prints one aligned row per token: text, lemma, tag, governor,
// relation, entity type.
func (r *Renderer) Table(s []sent.Token) {
	for i, token := range s {
		rel := token.Rel
		if r.HasColor {
			rel = r.colorRel(rel)
		}
		fmt.Fprintf(r.W, "%3d %20q %15q %8s %6d %-12s %-18s %s\n",
			i, token.Text, token.Lemma, token.Pos, token.Gov, rel, r.governor(s, token), token.Ner)
	}
}

// governor returns the text of the governor token, "*root*" for the
// sentence head.
func (r *Renderer) governor(s []sent.Token, token sent.Token) string {
	if token.Gov < 0 || token.Gov >= len(s) {
		return "*root*"
	}
	gov := s[token.Gov].Text
	if gov == "" {
		return fmt.Sprintf("#%d", token.Gov)
	}
	if r.HasColor {
		return Grey256 + "→ " + gov + Off
	}
	return "→ " + gov
}

// colorRel highlights disambiguated coordination relations.
func (r *Renderer) colorRel(rel string) string {
	if strings.HasPrefix(rel, "conj_") {
		return Green256 + rel + Off
	}
	if rel == "root" {
		return Yellow256 + rel + Off
	}
	return rel
}

// text reconstructs the sentence from the token offsets. Tokens without
// text (parses run without token text) fall back to space-joined lemmas.
func (r *Renderer) text(s []sent.Token) string {
	if len(s) > 0 && s[0].Text == "" {
		lemmas := make([]string, 0, len(s))
		for _, token := range s {
			lemmas = append(lemmas, token.Lemma)
		}
		return strings.Join(lemmas, " ")
	}

	var str strings.Builder
	lastEnd := -1
	for _, token := range s {
		if lastEnd >= 0 && token.Start > lastEnd {
			str.WriteString(strings.Repeat(" ", token.Start-lastEnd))
		}
		str.WriteString(token.Text)
		lastEnd = token.Start + token.Len
	}

	return str.String()
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {
	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}
