// Package ptb normalizes fine-grained annotator part-of-speech tags into the
// Penn Treebank tagset expected by the parsing model.
package ptb

// punct are the surface forms that are their own PTB tag.
var punct = map[string]bool{
	",":     true,
	".":     true,
	":":     true,
	"``":    true,
	"-RRB-": true,
	"-LRB-": true,
}

// Normalize maps a fine-grained tag and the surface text of its token to a
// PTB tag. The rules are ordered, first match wins. Unknown tags pass
// through unchanged.
func Normalize(tag, text string) string {
	switch {
	case text == "...":
		return ":"
	case text == "*":
		return "SYM"
	case tag == "AFX":
		return "JJ"
	case tag == "ADD":
		return "NN"
	case tag != text && punct[text]:
		return text
	case tag == "NFP" || tag == "HYPH" || tag == "XX":
		return "SYM"
	}

	return tag
}
