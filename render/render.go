package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/correct"
	"github.com/revelaction/udcheck/ledger"
	sent "github.com/revelaction/udcheck/sentence"
	"github.com/revelaction/udcheck/stat"
	"github.com/revelaction/udcheck/storage"
	"github.com/revelaction/udcheck/tree"
)

const (
	partialOffset = 6
	Defaultformat = "ledger"
)

var (
	Red       = "\033[1;31m"
	Green     = "\033[1;32m"
	Yellow    = "\033[0;33m"
	Gray      = "\033[0;37m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

func SupportedFormats() []string {
	return []string{"ledger", "json"}
}

// ReportRenderer writes the results of the analysis commands.
type ReportRenderer interface {
	Report(r consistency.Report) error
	Correct(r correct.Report) error
}

type Renderer struct {
	W io.Writer

	HasColor bool
}

var _ ReportRenderer = (*Renderer)(nil)

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w}
}

// New returns the renderer of format writing to w.
func New(format string, w io.Writer) (ReportRenderer, error) {
	switch format {
	case "", "ledger", "text":
		return NewRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	}
	return nil, fmt.Errorf("unknown format %q, allowed values are %s", format, strings.Join(SupportedFormats(), ", "))
}

// Report writes the blank ledger of the analysis.
func (r *Renderer) Report(rep consistency.Report) error {
	_, err := ledger.FromReport(rep).WriteTo(r.W)
	return err
}

// Summary writes the counters of an analysis.
func (r *Renderer) Summary(rep consistency.Report) {
	fmt.Fprintf(r.W, "%d sentences, %d word pairs, %d variations\n", rep.Sentences, rep.Pairs, rep.Variations)
	fmt.Fprintf(r.W, "%d lemma pairs with %d flagged occurrences\n", len(rep.Groups), rep.Occurrences())
}

// Correct writes the mismatches of a correct run, one per line.
func (r *Renderer) Correct(rep correct.Report) error {
	for _, m := range rep.Mismatches {
		_, err := fmt.Fprintf(r.W, "%s\t%s at %s\texpected %s (%d/%d)\n",
			m.Nucleus.Pair, m.Relation, m.Location, m.Expected, m.Frequency, m.Seen)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(r.W, "%d mismatches in %d related pairs (%d with a known nucleus), %d sentences\n",
		len(rep.Mismatches), rep.Checked, rep.Known, rep.Sentences)
	return err
}

// Sentence writes the forms of s, the words in highlight colored.
func (r *Renderer) Sentence(s sent.Sentence, highlight ...int) {
	fmt.Fprintln(r.W, r.SentenceString(s, highlight...))
}

func (r *Renderer) SentenceString(s sent.Sentence, highlight ...int) string {
	return r.words(s.Words, highlight)
}

// Occurrence returns the part of s around the words at first and second
// (1-based indexes), both colored.
func (r *Renderer) Occurrence(s sent.Sentence, first, second int) string {
	lo, hi := min(first, second), max(first, second)

	from := 0
	if lo-1 > partialOffset {
		from = lo - 1 - partialOffset
	}

	to := len(s.Words)
	if to-hi > partialOffset {
		to = hi + partialOffset
	}

	text := r.words(s.Words[from:to], []int{first, second})
	if from > 0 {
		text = "… " + text
	}
	if to < len(s.Words) {
		text += " …"
	}
	return text
}

func (r *Renderer) words(words []sent.Word, highlight []int) string {
	forms := make([]string, 0, len(words))
	for _, w := range words {
		forms = append(forms, r.colorWord(w, highlight))
	}
	return strings.Join(forms, " ")
}

func (r *Renderer) colorWord(w sent.Word, highlight []int) string {
	if !r.HasColor {
		return w.Form
	}

	for _, i := range highlight {
		if i == w.Index {
			return Green256 + w.Form + Off
		}
	}

	return w.Form
}

// Words writes one row per word with its annotation.
func (r *Renderer) Words(s sent.Sentence) error {
	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "line\tindex\tform\tlemma\tpos\thead\tdep")
	for _, w := range s.Words {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d\t%s\n", w.Line, w.Index, w.Form, w.Lemma, w.Pos, w.Head, w.Dep)
	}
	return tw.Flush()
}

// Tree writes the dependency tree, one word per line indented by depth.
func (r *Renderer) Tree(root *tree.Node) {
	root.Walk(func(n *tree.Node, depth int) bool {
		dep := n.Word.Dep
		if r.HasColor {
			dep = Yellow256 + dep + Off
		}
		fmt.Fprintf(r.W, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Word.Form, dep)
		return true
	})
}

// Stats writes treebank size statistics.
func (r *Renderer) Stats(s stat.Stats) {
	fmt.Fprintf(r.W, "files %d, sentences %d, words %d\n", s.NumFiles, s.NumSentences, s.NumWords)
	fmt.Fprintf(r.W, "words per sentence: mean %.2f, stddev %.2f, max %d\n",
		s.WordsPerSentenceMean, s.WordsPerSentenceStdDev, s.WordsPerSentenceMax)
}

// Judgments writes the review statistics of a ledger.
func (r *Renderer) Judgments(s stat.JudgmentStats) {
	fmt.Fprintln(r.W, "lemma1, lemma2")
	fmt.Fprintln(r.W, "\t# inconsistent|# total|% precision")
	fmt.Fprintln(r.W)

	for _, p := range s.Pairs {
		if !p.Complete() || p.Annotated() == 0 {
			continue
		}
		fmt.Fprintf(r.W, "%s\n\t%d\t%d\t%s\n", p.Pair, p.Incorrect, p.Annotated(), percent(p.Precision()))
	}

	if s.Complete == 0 {
		fmt.Fprintln(r.W, "No lemma pair is fully annotated")
		return
	}

	fmt.Fprintf(r.W, "Total number of occurrences: %d\n", s.Occurrences)
	fmt.Fprintf(r.W, "Total number of annotated occurrences: %d\n", s.Annotated)
	fmt.Fprintf(r.W, "Lemma pairs where all occurrences are inconsistent: %d / %d = %s\n",
		s.AllIncorrect, s.Complete, percent(s.AllIncorrectRatio()))
	fmt.Fprintf(r.W, "Occurrences that are inconsistent: %d / %d = %s\n",
		s.IncorrectOccurrences, s.CompleteOccurrences, percent(s.InconsistencyRatio()))
}

// Comparison writes the comparison of the ledgers first and second.
func (r *Renderer) Comparison(c stat.Comparison, first, second string) {
	fmt.Fprintf(r.W, "%d / %d of occurrences are annotated in %s\n", c.Annotated.All, c.Occurrences.All, first)
	fmt.Fprintf(r.W, "%d / %d of occurrences in %s are also in %s\n", c.Occurrences.Shared, c.Occurrences.All, first, second)
	fmt.Fprintf(r.W, "%d / %d of annotated occurrences in %s are also in %s\n", c.Annotated.Shared, c.Annotated.All, first, second)
	fmt.Fprintf(r.W, "%d / %d of annotated occurrences in %s NOT in %s are correct in the treebank\n",
		c.Correct.LeftOut(), c.Annotated.LeftOut(), first, second)
	fmt.Fprintf(r.W, "%d / %d of incorrect occurrences in %s are NOT in %s\n", c.Incorrect.LeftOut(), c.Incorrect.All, first, second)
	fmt.Fprintf(r.W, "%d / %d of lemma pairs with an incorrect occurrence in %s are NOT in %s\n",
		c.LemmasIncorrect.LeftOut(), c.LemmasIncorrect.All, first, second)
}

// Transfer writes the counts of a judgment transfer.
func (r *Renderer) Transfer(t ledger.TransferResult) {
	fmt.Fprintf(r.W, "%d / %d judgments were transferred\n", t.Transferred, t.Total())
	fmt.Fprintf(r.W, "%d / %d judgments not transferred found the treebank annotation correct\n", t.Ambiguous, t.NotTransferred)
}

// Ledgers writes one line per stored ledger.
func (r *Renderer) Ledgers(infos []storage.LedgerInfo) error {
	tw := tabwriter.NewWriter(r.W, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		run := info.RunId
		if run == "" {
			run = "-"
		}
		fmt.Fprintf(tw, "%s\t%d pairs\t%d/%d annotated\t%s\n", info.Name, info.Pairs, info.Annotated, info.Occurrences, run)
	}
	return tw.Flush()
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
