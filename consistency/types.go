package consistency

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/revelaction/udcheck/nucleus"
	sent "github.com/revelaction/udcheck/sentence"
)

// Direction records whether the head precedes or follows its child.
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
	Nil   Direction = "NIL"

	// NilDep is the head dependency of a pair with no direct relation.
	NilDep = "NIL"
)

// RelationKey is the relation between the two words of a pair.
type RelationKey struct {
	Direction Direction `json:"direction"`
	Dep       string    `json:"dep"`
}

// NilRelation is the key of pairs that co-occur without being directly
// related.
var NilRelation = RelationKey{Direction: Nil, Dep: NilDep}

// IsNil reports whether r is the NIL relation.
func (r RelationKey) IsNil() bool {
	return r == NilRelation
}

// String returns the descriptor used in ledgers, like "L, nsubj".
func (r RelationKey) String() string {
	return string(r.Direction) + ", " + r.Dep
}

// ParseRelationKey parses a descriptor produced by String.
func ParseRelationKey(s string) (RelationKey, error) {
	dir, dep, ok := strings.Cut(s, ", ")
	if !ok {
		return RelationKey{}, fmt.Errorf("invalid relation descriptor %q", s)
	}

	switch Direction(dir) {
	case Left, Right, Nil:
	default:
		return RelationKey{}, fmt.Errorf("invalid relation direction %q", dir)
	}

	return RelationKey{Direction: Direction(dir), Dep: dep}, nil
}

func (r RelationKey) less(o RelationKey) bool {
	if r.Direction != o.Direction {
		return r.Direction < o.Direction
	}
	return r.Dep < o.Dep
}

// LemmaPair is the unordered pair of lemmas (or pos:features strings) used
// to group occurrences. First <= Second.
type LemmaPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// NewLemmaPair returns the normalized pair of a and b.
func NewLemmaPair(a, b string) LemmaPair {
	if b < a {
		a, b = b, a
	}
	return LemmaPair{First: a, Second: b}
}

func (p LemmaPair) String() string {
	return p.First + ", " + p.Second
}

func (p LemmaPair) less(o LemmaPair) bool {
	if p.First != o.First {
		return p.First < o.First
	}
	return p.Second < o.Second
}

// Location identifies an occurrence: the sentence and the source lines of
// the two words, in sentence order.
type Location struct {
	Source     string `json:"source,omitempty"`
	SentenceId string `json:"sentence_id,omitempty"`

	// Sentence is the 1-based position of the sentence in its source.
	Sentence int `json:"sentence,omitempty"`

	First  int `json:"first"`
	Second int `json:"second"`

	// FirstWord and SecondWord are the word indexes inside the sentence.
	FirstWord  int `json:"first_word,omitempty"`
	SecondWord int `json:"second_word,omitempty"`
}

// String returns the occurrence id used in ledgers, like "12-15", or
// "dev.conllu:12-15" when the source is set. When a line is unknown the id
// names the sentence and the word indexes instead, like
// "fr-ud-dev_001#1-3", or "s4#1-3" for a sentence without id.
func (l Location) String() string {
	id := strconv.Itoa(l.First) + "-" + strconv.Itoa(l.Second)
	if !l.HasLines() {
		id = l.sentence() + wordsSeparator + strconv.Itoa(l.FirstWord) + "-" + strconv.Itoa(l.SecondWord)
	}

	if l.Source == "" {
		return id
	}
	return l.Source + ":" + id
}

// HasLines reports whether the source lines of both words are known.
func (l Location) HasLines() bool {
	return l.First != sent.UnknownLine && l.Second != sent.UnknownLine
}

const wordsSeparator = "#"

func (l Location) sentence() string {
	if l.SentenceId != "" {
		return l.SentenceId
	}
	return "s" + strconv.Itoa(l.Sentence)
}

func (l Location) less(o Location) bool {
	if l.Source != o.Source {
		return l.Source < o.Source
	}
	if l.First != o.First {
		return l.First < o.First
	}
	if l.Second != o.Second {
		return l.Second < o.Second
	}
	if l.Sentence != o.Sentence {
		return l.Sentence < o.Sentence
	}
	if l.FirstWord != o.FirstWord {
		return l.FirstWord < o.FirstWord
	}
	return l.SecondWord < o.SecondWord
}

// Variation is one occurrence of a word pair with its context signature.
type Variation struct {
	Internal []string                `json:"internal"`
	External nucleus.ExternalContext `json:"external"`

	// HeadDep is the relation of the head word to its own head, NilDep for
	// unrelated pairs.
	HeadDep  string   `json:"head_dep"`
	Location Location `json:"location"`
}

// Tag is the kind of inconsistency an occurrence was flagged with.
type Tag string

const (
	TagContext Tag = "context"
	TagNil     Tag = "nil"
)

// Options select the heuristics of the analysis.
type Options struct {
	// IncludeNil enables the NIL versus relation comparison.
	IncludeNil bool `json:"includeNil"`

	// RequireInternalContextForNil drops NIL occurrences of adjacent words.
	RequireInternalContextForNil bool `json:"requireInternalContextForNil"`

	// RequireInternalContext drops related occurrences of adjacent words.
	RequireInternalContext bool `json:"requireInternalContext"`

	// UseHeadDependency also requires equal head dependencies for context
	// errors.
	UseHeadDependency bool `json:"useHeadDependency"`

	// IgnoreWordOrder does not compare relations that only differ in
	// direction.
	IgnoreWordOrder bool `json:"ignoreWordOrder"`

	// KeyByMorphology groups by pos:features instead of lemma.
	KeyByMorphology bool `json:"keyByMorphology"`

	// Seed of the lemma pair order. Nil means a random seed.
	Seed *int64 `json:"seed,omitempty"`
}

// DefaultOptions returns the options of a plain analysis.
func DefaultOptions() Options {
	return Options{IncludeNil: true}
}

func (o Options) key(w1, w2 sent.Word) LemmaPair {
	if o.KeyByMorphology {
		return NewLemmaPair(w1.Morphology(), w2.Morphology())
	}
	return NewLemmaPair(w1.Lemma, w2.Lemma)
}
