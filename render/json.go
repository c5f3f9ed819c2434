package render

import (
	"encoding/json"
	"io"

	sent "github.com/revelaction/depparse/sentence"
)

// JSONRenderer writes a parsed document as JSON to a writer.
type JSONRenderer struct {
	W io.Writer

	// Indent pretty-prints the output when set.
	Indent bool
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the document as a JSON object.
func (r *JSONRenderer) Render(doc sent.Doc) error {
	enc := json.NewEncoder(r.W)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}

// compile-time interface check
var _ DocRenderer = (*JSONRenderer)(nil)
