// Package model defines the dependency parsing model capability consumed by
// the parse pipeline.
package model

import "github.com/revelaction/depparse/conll"

// Predictor augments CoNLL sentences with predicted dependency edges. It
// fills the Head and DepRel fields of every non-root entry and returns the
// sentences in input order.
type Predictor interface {
	Predict(sents []conll.Sentence) ([]conll.Sentence, error)
}
