package sentence

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// RootHead is the head index of the word attached to the virtual root.
	RootHead = 0

	// UnknownLine marks a word or sentence whose source line is not known.
	UnknownLine = -1

	FeatureDelimiter = "|"
)

// Word represents a syntactic word of a treebank sentence, with POS,
// morphology and its dependency link.
type Word struct {
	// The index of the word in the sentence, starting at 1.
	Index int `json:"index"`

	// The unmodified word
	Form string `json:"form"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	Pos  string `json:"pos"`
	Xpos string `json:"xpos,omitempty"`

	// Pipe delimited morphological features, opaque for the analysis.
	Features string `json:"features"`

	// Head is the index of the head word, 0 for the root word.
	Head int    `json:"head"`
	Dep  string `json:"dep"`

	Deps string `json:"deps,omitempty"`
	Misc string `json:"misc,omitempty"`

	// Line is the 1-based line of the word in its source, UnknownLine if
	// not known.
	Line int `json:"line"`
}

// IsRoot reports whether the word attaches to the virtual root.
func (w Word) IsRoot() bool {
	return w.Head == RootHead
}

// FeatureList splits the morphological features. "_" yields no features.
func (w Word) FeatureList() []string {
	if w.Features == "" || w.Features == "_" {
		return nil
	}
	return strings.Split(w.Features, FeatureDelimiter)
}

// Morphology is the composite "pos:features" string used when lemma pairs
// are keyed by morphology instead of lemma.
func (w Word) Morphology() string {
	return w.Pos + ":" + w.Features
}

func (w Word) String() string {
	return w.Form
}

// Sentence is an ordered sequence of words. Words[i].Index == i+1.
type Sentence struct {
	// Id is the treebank sentence id, like fr-ud-dev_00012. Empty if the
	// sentence carries none.
	Id string `json:"id,omitempty"`

	// Text is the raw sentence string from the comment lines.
	Text string `json:"text,omitempty"`

	// Line is the first source line of the sentence block.
	Line int `json:"line"`

	Words []Word `json:"words"`
}

// Len returns the number of words.
func (s Sentence) Len() int {
	return len(s.Words)
}

// At returns the word at 0-based position pos.
func (s Sentence) At(pos int) Word {
	return s.Words[pos]
}

// Word returns the word with the given 1-based index.
func (s Sentence) Word(index int) (Word, bool) {
	if index < 1 || index > len(s.Words) {
		return Word{}, false
	}
	return s.Words[index-1], true
}

// Lemmas returns the lemmas of the words in surface order.
func (s Sentence) Lemmas() []string {
	lemmas := make([]string, len(s.Words))
	for i, w := range s.Words {
		lemmas[i] = w.Lemma
	}
	return lemmas
}

// Roots returns the words attached to the virtual root.
func (s Sentence) Roots() []Word {
	var roots []Word
	for _, w := range s.Words {
		if w.IsRoot() {
			roots = append(roots, w)
		}
	}
	return roots
}

// Validate checks that word indexes are contiguous and 1-based and that
// every head points at a word of the sentence. The single root is checked
// when the dependency tree is built.
func (s Sentence) Validate() error {
	if len(s.Words) == 0 {
		return fmt.Errorf("sentence at line %d has no words", s.Line)
	}

	for i, w := range s.Words {
		if w.Index != i+1 {
			return fmt.Errorf("word at line %d has index %d, expected %d", w.Line, w.Index, i+1)
		}
		if w.Head < 0 || w.Head > len(s.Words) || w.Head == w.Index {
			return fmt.Errorf("word at line %d has invalid head %d", w.Line, w.Head)
		}
	}

	return nil
}

// Location identifies the sentence for messages: its id or its line.
func (s Sentence) Location() string {
	if s.Id != "" {
		return s.Id
	}
	return "line " + strconv.Itoa(s.Line)
}

// Treebank is a collection of sentences
type Treebank []Sentence

// NumWords returns the number of words across all sentences.
func (t Treebank) NumWords() int {
	n := 0
	for _, s := range t {
		n += len(s.Words)
	}
	return n
}
