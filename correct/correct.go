// Package correct checks a treebank against the variation nuclei of
// reference treebanks, usually automatically annotated ones.
//
// A nucleus is a related word pair together with its internal and external
// context and the relation of its head. A pair of the checked treebank whose
// nucleus was seen in the references, but never with its relation, is
// reported as a mismatch.
package correct

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/nucleus"
	sent "github.com/revelaction/udcheck/sentence"
)

// internalSeparator joins the internal context lemmas into a map key.
const internalSeparator = "\x1f"

// Nucleus is the context signature of a related word pair.
type Nucleus struct {
	Pair     consistency.LemmaPair
	Internal string
	External nucleus.ExternalContext
	HeadDep  string
}

func nucleusOf(s sent.Sentence, w1, w2, head sent.Word) Nucleus {
	return Nucleus{
		Pair:     consistency.NewLemmaPair(w1.Lemma, w2.Lemma),
		Internal: strings.Join(nucleus.Internal(s, w1, w2), internalSeparator),
		External: nucleus.External(s, w1, w2),
		HeadDep:  head.Dep,
	}
}

// InternalContext returns the internal context lemmas of n.
func (n Nucleus) InternalContext() []string {
	if n.Internal == "" {
		return []string{}
	}
	return strings.Split(n.Internal, internalSeparator)
}

// Reference holds the relation frequencies of the nuclei of the reference
// treebanks.
type Reference struct {
	nuclei    map[Nucleus]map[consistency.RelationKey]int
	sentences int
	files     int
}

func NewReference() *Reference {
	return &Reference{nuclei: map[Nucleus]map[consistency.RelationKey]int{}}
}

// Add records the related pairs of s.
func (r *Reference) Add(s sent.Sentence) error {
	r.sentences++

	eachRelated(s, func(w1, w2, head sent.Word, rel consistency.RelationKey) {
		n := nucleusOf(s, w1, w2, head)
		freqs, ok := r.nuclei[n]
		if !ok {
			freqs = map[consistency.RelationKey]int{}
			r.nuclei[n] = freqs
		}
		freqs[rel]++
	})

	return nil
}

// AddFile streams the treebank file at path into the reference.
func (r *Reference) AddFile(path string, opts ...conll.Option) error {
	if err := conll.EachFile(path, r.Add, opts...); err != nil {
		return err
	}
	r.files++
	return nil
}

// Nuclei returns the number of distinct nuclei.
func (r *Reference) Nuclei() int {
	return len(r.nuclei)
}

// Sentences returns the number of reference sentences.
func (r *Reference) Sentences() int {
	return r.sentences
}

// Files returns the number of reference files loaded.
func (r *Reference) Files() int {
	return r.files
}

// Frequencies returns the relation frequencies of a nucleus, nil if the
// nucleus was never seen.
func (r *Reference) Frequencies(n Nucleus) map[consistency.RelationKey]int {
	return r.nuclei[n]
}

// Files lists the regular files of dir, hidden files excluded, in name
// order.
func Files(dir string) ([]string, error) {
	isDir, err := fs.IsDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to test reference directory: %w", err)
	}
	if !isDir {
		return nil, fmt.Errorf("reference path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	return paths, nil
}

// LoadDir builds the reference of every regular file of dir. cb, if not
// nil, is called after each file.
func LoadDir(dir string, cb func(path string), opts ...conll.Option) (*Reference, error) {
	paths, err := Files(dir)
	if err != nil {
		return nil, err
	}

	r := NewReference()
	for _, path := range paths {
		if err := r.AddFile(path, opts...); err != nil {
			return nil, err
		}
		if cb != nil {
			cb(path)
		}
	}

	log.Debug().
		Str("dir", dir).
		Int("files", r.files).
		Int("sentences", r.sentences).
		Int("nuclei", len(r.nuclei)).
		Msg("reference loaded")

	return r, nil
}

// Mismatch is a related pair whose relation was never seen for its nucleus.
type Mismatch struct {
	Nucleus  Nucleus                 `json:"nucleus"`
	Location consistency.Location    `json:"location"`
	Relation consistency.RelationKey `json:"relation"`

	// Expected is the most frequent reference relation of the nucleus, seen
	// Frequency times out of Seen.
	Expected  consistency.RelationKey `json:"expected"`
	Frequency int                     `json:"frequency"`
	Seen      int                     `json:"seen"`
}

// Report is the result of a check.
type Report struct {
	Sentences int `json:"sentences"`

	// Checked is the number of related pairs of the checked treebank.
	Checked int `json:"checked"`

	// Known is the number of checked pairs whose nucleus is in the reference.
	Known int `json:"known"`

	Mismatches []Mismatch `json:"mismatches"`
}

// Check compares every related pair of the sentences of seq with the
// reference.
func (r *Reference) Check(seq iter.Seq2[sent.Sentence, error]) (Report, error) {
	var report Report

	for s, err := range seq {
		if err != nil {
			return Report{}, err
		}
		report.Sentences++

		eachRelated(s, func(w1, w2, head sent.Word, rel consistency.RelationKey) {
			report.Checked++

			n := nucleusOf(s, w1, w2, head)
			freqs := r.Frequencies(n)
			if len(freqs) == 0 {
				return
			}
			report.Known++

			if freqs[rel] > 0 {
				return
			}

			expected, freq, seen := mostFrequent(freqs)
			report.Mismatches = append(report.Mismatches, Mismatch{
				Nucleus:   n,
				Location:  locationOf(s, report.Sentences, w1, w2),
				Relation:  rel,
				Expected:  expected,
				Frequency: freq,
				Seen:      seen,
			})
		})
	}

	return report, nil
}

// CheckFile checks the treebank file at path.
func (r *Reference) CheckFile(path string, opts ...conll.Option) (Report, error) {
	rd, err := conll.OpenFile(path, opts...)
	if err != nil {
		return Report{}, err
	}
	defer rd.Close()

	report, err := r.Check(rd.All())
	if err != nil {
		return Report{}, fmt.Errorf("treebank %s: %w", path, err)
	}

	for i := range report.Mismatches {
		report.Mismatches[i].Location.Source = filepath.Base(path)
	}

	return report, nil
}

func locationOf(s sent.Sentence, pos int, w1, w2 sent.Word) consistency.Location {
	return consistency.Location{
		SentenceId: s.Id,
		Sentence:   pos,
		First:      w1.Line,
		Second:     w2.Line,
		FirstWord:  w1.Index,
		SecondWord: w2.Index,
	}
}

// eachRelated calls fn for every pair of s where one word heads the other.
func eachRelated(s sent.Sentence, fn func(w1, w2, head sent.Word, rel consistency.RelationKey)) {
	for i := 0; i < len(s.Words); i++ {
		for j := i + 1; j < len(s.Words); j++ {
			rel, head, ok := consistency.Relate(s.Words[i], s.Words[j])
			if !ok {
				continue
			}
			fn(s.Words[i], s.Words[j], head, rel)
		}
	}
}

// mostFrequent returns the most frequent relation, ties broken by the
// relation descriptor, its frequency and the total of freqs.
func mostFrequent(freqs map[consistency.RelationKey]int) (consistency.RelationKey, int, int) {
	keys := make([]consistency.RelationKey, 0, len(freqs))
	total := 0
	for k, n := range freqs {
		keys = append(keys, k)
		total += n
	}

	sort.Slice(keys, func(i, j int) bool {
		if freqs[keys[i]] != freqs[keys[j]] {
			return freqs[keys[i]] > freqs[keys[j]]
		}
		return keys[i].String() < keys[j].String()
	})

	return keys[0], freqs[keys[0]], total
}
