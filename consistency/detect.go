package consistency

import (
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Flagged is an occurrence found inconsistent, with the set of tags of the
// rules it matched.
type Flagged struct {
	Relation RelationKey `json:"relation"`
	Location Location    `json:"location"`
	Tags     []Tag       `json:"tags"`
}

// HasTag reports whether f was flagged by the rule of tag t.
func (f Flagged) HasTag(t Tag) bool {
	return slices.Contains(f.Tags, t)
}

// PairReport holds the flagged occurrences of a lemma pair.
type PairReport struct {
	Pair        LemmaPair `json:"pair"`
	Occurrences []Flagged `json:"occurrences"`
}

// Report is the result of an analysis: the lemma pairs with at least one
// flagged occurrence, in the shuffled review order.
type Report struct {
	Groups []PairReport `json:"groups"`

	Sentences  int `json:"sentences"`
	Pairs      int `json:"pairs"`
	Variations int `json:"variations"`
}

// Occurrences returns the number of flagged occurrences.
func (r Report) Occurrences() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Occurrences)
	}
	return n
}

// Find returns the flagged occurrences of a lemma pair.
func (r Report) Find(p LemmaPair) (PairReport, bool) {
	for _, g := range r.Groups {
		if g.Pair == p {
			return g, true
		}
	}
	return PairReport{}, false
}

type occurrence struct {
	rel RelationKey
	loc Location
}

// tagSet accumulates the tags of the occurrences of one lemma pair.
type tagSet map[occurrence]map[Tag]bool

func (ts tagSet) add(rel RelationKey, v Variation, t Tag) {
	o := occurrence{rel: rel, loc: v.Location}
	if ts[o] == nil {
		ts[o] = map[Tag]bool{}
	}
	ts[o][t] = true
}

// Detect applies the NIL and context rules to every lemma pair.
func (idx *Index) Detect(opts Options) Report {
	report := Report{
		Sentences:  idx.sentences,
		Pairs:      idx.pairs,
		Variations: idx.variations,
	}

	for _, key := range idx.shuffledKeys(opts) {
		ts := tagSet{}
		rels := idx.groups[key]

		if opts.IncludeNil {
			detectNil(rels, ts)
		}
		detectContext(rels, opts, ts)

		if len(ts) == 0 {
			continue
		}

		report.Groups = append(report.Groups, PairReport{Pair: key, Occurrences: ts.flagged()})
	}

	log.Debug().
		Int("sentences", report.Sentences).
		Int("variations", report.Variations).
		Int("pairs", len(report.Groups)).
		Int("occurrences", report.Occurrences()).
		Msg("consistency detection done")

	return report
}

// detectNil flags NIL and related occurrences with the same internal
// context.
func detectNil(rels relations, ts tagSet) {
	nils := rels[NilRelation]
	if len(nils) == 0 {
		return
	}

	for _, rel := range sortedRelations(rels) {
		for _, v := range rels[rel] {
			for _, nv := range nils {
				if slices.Equal(v.Internal, nv.Internal) {
					ts.add(rel, v, TagNil)
					ts.add(NilRelation, nv, TagNil)
				}
			}
		}
	}
}

// detectContext flags occurrences of two distinct relations with the same
// external context.
func detectContext(rels relations, opts Options, ts tagSet) {
	keys := sortedRelations(rels)

	for i, r1 := range keys {
		for _, r2 := range keys[i+1:] {
			if opts.IgnoreWordOrder && r1.Dep == r2.Dep {
				continue
			}

			for _, v1 := range rels[r1] {
				for _, v2 := range rels[r2] {
					if v1.External != v2.External {
						continue
					}
					if opts.UseHeadDependency && v1.HeadDep != v2.HeadDep {
						continue
					}
					ts.add(r1, v1, TagContext)
					ts.add(r2, v2, TagContext)
				}
			}
		}
	}
}

// sortedRelations returns the non NIL relations in a stable order.
func sortedRelations(rels relations) []RelationKey {
	keys := make([]RelationKey, 0, len(rels))
	for rel := range rels {
		if rel.IsNil() {
			continue
		}
		keys = append(keys, rel)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

func (ts tagSet) flagged() []Flagged {
	flagged := make([]Flagged, 0, len(ts))
	for o, tags := range ts {
		f := Flagged{Relation: o.rel, Location: o.loc}
		for t := range tags {
			f.Tags = append(f.Tags, t)
		}
		slices.Sort(f.Tags)
		flagged = append(flagged, f)
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].Location != flagged[j].Location {
			return flagged[i].Location.less(flagged[j].Location)
		}
		return flagged[i].Relation.less(flagged[j].Relation)
	})

	return flagged
}

// shuffledKeys returns the lemma pairs in a random order so that a
// reviewer reading only the beginning of the output samples the whole
// treebank. The order only depends on the seed.
func (idx *Index) shuffledKeys(opts Options) []LemmaPair {
	keys := make([]LemmaPair, 0, len(idx.groups))
	for k := range idx.groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	return keys
}
