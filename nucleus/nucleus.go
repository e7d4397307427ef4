// Package nucleus computes the context of a pair of words in a sentence.
//
// The internal context are the lemmas strictly between the two words, the
// external context the lemmas immediately before the leftmost word and
// immediately after the rightmost one. Both are independent of the order in
// which the words are given.
package nucleus

import (
	sent "github.com/revelaction/udcheck/sentence"
)

// Side is one lemma of the external context. Ok is false at the sentence
// boundaries.
type Side struct {
	Lemma string `json:"lemma"`
	Ok    bool   `json:"ok"`
}

func (s Side) String() string {
	if !s.Ok {
		return "<none>"
	}
	return s.Lemma
}

// ExternalContext holds the lemma before and after a pair of words.
type ExternalContext struct {
	Before Side `json:"before"`
	After  Side `json:"after"`
}

func (c ExternalContext) String() string {
	return "(" + c.Before.String() + ", " + c.After.String() + ")"
}

// order returns the words sorted by sentence position.
func order(w1, w2 sent.Word) (sent.Word, sent.Word) {
	if w1.Index <= w2.Index {
		return w1, w2
	}
	return w2, w1
}

// External returns the external context of w1 and w2 in s.
func External(s sent.Sentence, w1, w2 sent.Word) ExternalContext {
	prev, next := order(w1, w2)

	var ctx ExternalContext

	// Word indexes are 1-based: the word before prev is at position
	// prev.Index-2, the word after next at position next.Index.
	if pos := prev.Index - 2; pos >= 0 && pos < len(s.Words) {
		ctx.Before = Side{Lemma: s.Words[pos].Lemma, Ok: true}
	}

	if pos := next.Index; pos >= 0 && pos < len(s.Words) {
		ctx.After = Side{Lemma: s.Words[pos].Lemma, Ok: true}
	}

	return ctx
}

// Internal returns the lemmas strictly between w1 and w2 in s, in sentence
// order. Adjacent words have an empty internal context.
func Internal(s sent.Sentence, w1, w2 sent.Word) []string {
	prev, next := order(w1, w2)

	from, to := prev.Index, next.Index-1
	if from >= to {
		return []string{}
	}

	lemmas := make([]string, 0, to-from)
	for _, w := range s.Words[from:to] {
		lemmas = append(lemmas, w.Lemma)
	}

	return lemmas
}
