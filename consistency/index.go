package consistency

import (
	"github.com/revelaction/udcheck/nucleus"
	sent "github.com/revelaction/udcheck/sentence"
	"github.com/revelaction/udcheck/tree"
)

// relations holds the variations of a lemma pair by relation.
type relations map[RelationKey][]Variation

// Index accumulates the variations of every word pair of a treebank,
// grouped by lemma pair and relation.
//
// An Index is not safe for concurrent use. Analyze independent files with
// separate indexes and Merge them afterwards.
type Index struct {
	opts   Options
	groups map[LemmaPair]relations

	// source prefixes the occurrence ids when several files are analyzed.
	source string

	sentences  int
	pairs      int
	variations int
}

// NewIndex returns an empty index. The key and internal context options
// apply when sentences are added.
func NewIndex(opts Options) *Index {
	return &Index{
		opts:   opts,
		groups: map[LemmaPair]relations{},
	}
}

// WithSource sets the name of the treebank the sentences come from.
func (idx *Index) WithSource(name string) *Index {
	idx.source = name
	return idx
}

// Add records all word pairs of s. It fails if s has no single connected
// dependency tree.
func (idx *Index) Add(s sent.Sentence) error {
	if _, err := tree.Build(s); err != nil {
		return err
	}

	idx.sentences++

	// all pairs, related or not: NIL occurrences are pairs that are not
	// connected in the tree.
	for i := 0; i < len(s.Words); i++ {
		for j := i + 1; j < len(s.Words); j++ {
			idx.pairs++
			idx.addPair(s, s.Words[i], s.Words[j])
		}
	}

	return nil
}

func (idx *Index) addPair(s sent.Sentence, w1, w2 sent.Word) {
	internal := nucleus.Internal(s, w1, w2)
	loc := Location{
		Source:     idx.source,
		SentenceId: s.Id,
		Sentence:   idx.sentences,
		First:      w1.Line,
		Second:     w2.Line,
		FirstWord:  w1.Index,
		SecondWord: w2.Index,
	}

	v := Variation{
		Internal: internal,
		External: nucleus.External(s, w1, w2),
		Location: loc,
	}

	rel, head, related := Relate(w1, w2)
	if !related {
		if idx.opts.RequireInternalContextForNil && len(internal) == 0 {
			return
		}
		v.HeadDep = NilDep
		idx.record(idx.opts.key(w1, w2), NilRelation, v)
		return
	}

	if idx.opts.RequireInternalContext && len(internal) == 0 {
		return
	}

	v.HeadDep = head.Dep
	idx.record(idx.opts.key(w1, w2), rel, v)
}

// Relate returns the relation between w1 and w2 and the head word of the
// pair. ok is false when neither word is the head of the other.
func Relate(w1, w2 sent.Word) (rel RelationKey, head sent.Word, ok bool) {
	var child sent.Word

	switch {
	case w1.Head == w2.Index:
		head, child = w2, w1
	case w2.Head == w1.Index:
		head, child = w1, w2
	default:
		return NilRelation, sent.Word{}, false
	}

	dir := Right
	if head.Index < child.Index {
		dir = Left
	}

	return RelationKey{Direction: dir, Dep: child.Dep}, head, true
}

func (idx *Index) record(key LemmaPair, rel RelationKey, v Variation) {
	rels, ok := idx.groups[key]
	if !ok {
		rels = relations{}
		idx.groups[key] = rels
	}
	rels[rel] = append(rels[rel], v)
	idx.variations++
}

// Merge appends the variations of other to idx.
func (idx *Index) Merge(other *Index) {
	for key, rels := range other.groups {
		for rel, vs := range rels {
			for _, v := range vs {
				idx.record(key, rel, v)
			}
		}
	}
	idx.sentences += other.sentences
	idx.pairs += other.pairs
}

// Sentences returns the number of sentences added.
func (idx *Index) Sentences() int {
	return idx.sentences
}

// Pairs returns the number of word pairs enumerated.
func (idx *Index) Pairs() int {
	return idx.pairs
}

// Variations returns the number of recorded variations.
func (idx *Index) Variations() int {
	return idx.variations
}

// LemmaPairs returns the number of distinct lemma pairs.
func (idx *Index) LemmaPairs() int {
	return len(idx.groups)
}

// VariationsOf returns the variations of a lemma pair under a relation.
func (idx *Index) VariationsOf(key LemmaPair, rel RelationKey) []Variation {
	return idx.groups[key][rel]
}
