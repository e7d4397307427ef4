package ledger

import (
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"

	"github.com/revelaction/udcheck/consistency"
)

// FromReport returns the blank ledger of an analysis, in report order.
func FromReport(r consistency.Report) *Ledger {
	l := New()
	for _, pr := range r.Groups {
		g := l.AddGroup(pr.Pair)
		for _, f := range pr.Occurrences {
			g.Lines = append(g.Lines, Line{
				Kinds:      Kinds(f.Tags),
				Descriptor: f.Relation.String(),
				Occurrence: f.Location.String(),
			})
		}
	}
	return l
}

// Kinds returns the ledger kinds of a tag set.
func Kinds(tags []consistency.Tag) string {
	return strings.Join(collections.SliceMap(tags, func(t consistency.Tag, _ int) string {
		return string(t)
	}), tagSeparator)
}

// TransferResult counts the judgments of a transfer.
type TransferResult struct {
	Transferred    int
	NotTransferred int

	// Ambiguous are the judgments not transferred that found the treebank
	// annotation correct.
	Ambiguous int
}

// Total returns the number of judgments of the source ledger.
func (r TransferResult) Total() int {
	return r.Transferred + r.NotTransferred
}

// Transfer copies the judgments of src into the lines of dst with the same
// lemma pair, descriptor and occurrence. Kinds are ignored since they depend
// on the analysis options.
func Transfer(src, dst *Ledger) TransferResult {
	var res TransferResult

	for _, g := range src.groups {
		for _, line := range g.Lines {
			if line.Judgment == Unmarked {
				continue
			}

			sel := Selector{Descriptor: line.Descriptor, Occurrence: line.Occurrence}
			if dst.SetJudgment(g.Pair, sel, line.Judgment) {
				res.Transferred++
				continue
			}

			res.NotTransferred++
			if line.Judgment == Correct {
				res.Ambiguous++
			}
		}
	}

	return res
}
