package stat

import (
	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/ledger"
)

// PairJudgments counts the judgments of the occurrences of a lemma pair.
type PairJudgments struct {
	Pair      consistency.LemmaPair
	Correct   int
	Incorrect int
	Unmarked  int
}

// Complete reports whether every occurrence of the pair was judged.
func (p PairJudgments) Complete() bool {
	return p.Unmarked == 0
}

// Annotated returns the number of judged occurrences.
func (p PairJudgments) Annotated() int {
	return p.Correct + p.Incorrect
}

// Precision is the share of judged occurrences that are real errors.
func (p PairJudgments) Precision() float64 {
	return ratio(p.Incorrect, p.Annotated())
}

// JudgmentStats summarizes the review of a ledger. Only the pairs with
// every occurrence judged enter the ratios.
type JudgmentStats struct {
	// Pairs in ledger order, one entry per lemma pair.
	Pairs []PairJudgments

	Occurrences int
	Annotated   int

	// Complete is the number of fully judged pairs.
	Complete int

	// AllIncorrect is the number of complete pairs without any occurrence
	// judged correct.
	AllIncorrect int

	// IncorrectOccurrences and CompleteOccurrences count the occurrences of
	// complete pairs.
	IncorrectOccurrences int
	CompleteOccurrences  int
}

// AllIncorrectRatio is the share of complete pairs whose occurrences are
// all real errors.
func (s JudgmentStats) AllIncorrectRatio() float64 {
	return ratio(s.AllIncorrect, s.Complete)
}

// InconsistencyRatio is the share of occurrences of complete pairs that are
// real errors.
func (s JudgmentStats) InconsistencyRatio() float64 {
	return ratio(s.IncorrectOccurrences, s.CompleteOccurrences)
}

// Judgments computes the review statistics of l.
func Judgments(l *ledger.Ledger) JudgmentStats {
	var (
		stats JudgmentStats
		pos   = map[consistency.LemmaPair]int{}
	)

	for _, g := range l.Groups() {
		i, ok := pos[g.Pair]
		if !ok {
			i = len(stats.Pairs)
			pos[g.Pair] = i
			stats.Pairs = append(stats.Pairs, PairJudgments{Pair: g.Pair})
		}

		pj := &stats.Pairs[i]
		for _, line := range g.Lines {
			stats.Occurrences++
			switch line.Judgment {
			case ledger.Correct:
				pj.Correct++
				stats.Annotated++
			case ledger.Incorrect:
				pj.Incorrect++
				stats.Annotated++
			default:
				pj.Unmarked++
			}
		}
	}

	for _, pj := range stats.Pairs {
		if !pj.Complete() || pj.Annotated() == 0 {
			continue
		}

		stats.Complete++
		stats.IncorrectOccurrences += pj.Incorrect
		stats.CompleteOccurrences += pj.Annotated()
		if pj.Correct == 0 {
			stats.AllIncorrect++
		}
	}

	return stats
}

// Counts holds a count over the first ledger and the part of it also found
// in the second one.
type Counts struct {
	All    int
	Shared int
}

// LeftOut returns the count not found in the second ledger.
func (c Counts) LeftOut() int {
	return c.All - c.Shared
}

// Comparison compares the occurrences of an annotated ledger with the ones
// of a second ledger, usually produced with stricter options.
type Comparison struct {
	Occurrences Counts
	Annotated   Counts
	Correct     Counts
	Incorrect   Counts

	Lemmas          Counts
	LemmasAnnotated Counts
	LemmasIncorrect Counts
}

// Compare counts the occurrences of first also present in second. An
// occurrence is shared when second has the same lemma pair, descriptor and
// occurrence id.
func Compare(first, second *ledger.Ledger) Comparison {
	var c Comparison

	for _, g := range first.Groups() {
		var (
			shared, annotated, annotatedShared, incorrect, incorrectShared bool
		)

		c.Lemmas.All++

		for _, line := range g.Lines {
			c.Occurrences.All++

			_, isShared := second.Locate(g.Pair, ledger.Selector{Descriptor: line.Descriptor, Occurrence: line.Occurrence})
			if isShared {
				c.Occurrences.Shared++
				shared = true
			}

			if line.Judgment == ledger.Unmarked {
				continue
			}

			c.Annotated.All++
			annotated = true
			if isShared {
				c.Annotated.Shared++
				annotatedShared = true
			}

			if line.Judgment == ledger.Correct {
				c.Correct.All++
				if isShared {
					c.Correct.Shared++
				}
				continue
			}

			c.Incorrect.All++
			incorrect = true
			if isShared {
				c.Incorrect.Shared++
				incorrectShared = true
			}
		}

		c.Lemmas.Shared += b2i(shared)
		c.LemmasAnnotated.All += b2i(annotated)
		c.LemmasAnnotated.Shared += b2i(annotatedShared)
		c.LemmasIncorrect.All += b2i(incorrect)
		c.LemmasIncorrect.Shared += b2i(incorrectShared)
	}

	return c
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
