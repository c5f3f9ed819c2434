package pipeline

import (
	"strings"

	"github.com/revelaction/depparse/conll"
	"github.com/revelaction/depparse/sentence"
)

// resolveConj rewrites predicted "conj" relations into "conj_and"/"conj_or",
// depending on which coordinating conjunction is attached to the same
// governor elsewhere in the sentence, and emits the output tokens with
// 0-based governor indices (the root becomes -1). Both suffixes stack when
// "and" and "or" share a governor, "_and" first.
//
// The scan is a single left-to-right pass: a "conj" dependent that precedes
// its coordinating conjunction keeps the bare label. Downstream consumers
// rely on this behavior, so no second pass corrects it.
func resolveConj(sc conll.Sentence, showTok bool) []sentence.Token {
	govAnd := map[int]bool{}
	govOr := map[int]bool{}

	var parsed []sentence.Token
	for _, entry := range sc {
		if entry.Form == conll.RootForm {
			continue
		}

		gov := entry.Head
		rel := entry.DepRel

		switch strings.ToLower(entry.Form) {
		case "and":
			govAnd[gov] = true
		case "or":
			govOr[gov] = true
		}

		if rel == "conj" {
			if govAnd[gov] {
				rel += "_and"
			}
			if govOr[gov] {
				rel += "_or"
			}
		}

		tok := sentence.Token{
			Start: entry.Misc,
			Len:   len([]rune(entry.Form)),
			Pos:   entry.Pos,
			Ner:   entry.Feats,
			Lemma: entry.Lemma,
			Gov:   gov - 1,
			Rel:   rel,
		}
		if showTok {
			tok.Text = entry.Form
		}

		parsed = append(parsed, tok)
	}

	return parsed
}
