package stat

import (
	gstat "gonum.org/v1/gonum/stat"

	sent "github.com/revelaction/udcheck/sentence"
)

// Handler aggregates the size statistics of one or more treebanks.
type Handler struct {
	stats   Stats
	lengths []float64
}

type Stats struct {
	NumFiles               int
	NumSentences           int
	NumWords               int
	WordsPerSentenceMean   float64
	WordsPerSentenceStdDev float64
	WordsPerSentenceMax    int
	WordsPerSentenceDis    map[int]int
}

func (h *Handler) Get() Stats {
	stats := h.stats

	switch len(h.lengths) {
	case 0:
	case 1:
		stats.WordsPerSentenceMean = h.lengths[0]
	default:
		stats.WordsPerSentenceMean, stats.WordsPerSentenceStdDev = gstat.MeanStdDev(h.lengths, nil)
	}

	return stats
}

func NewHandler() *Handler {
	stats := Stats{WordsPerSentenceDis: map[int]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds a sentence to the statistics.
func (h *Handler) Aggregate(s sent.Sentence) error {
	n := len(s.Words)

	h.stats.NumSentences++
	h.stats.NumWords += n
	h.stats.WordsPerSentenceDis[n]++
	h.stats.WordsPerSentenceMax = max(h.stats.WordsPerSentenceMax, n)
	h.lengths = append(h.lengths, float64(n))

	return nil
}

// AggregateFile marks the start of a new treebank file.
func (h *Handler) AggregateFile() {
	h.stats.NumFiles++
}
