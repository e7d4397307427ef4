package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/ledger"
	sent "github.com/revelaction/udcheck/sentence"
)

func sentenceOf(n int) sent.Sentence {
	s := sent.Sentence{}
	for i := 0; i < n; i++ {
		s.Words = append(s.Words, sent.Word{Index: i + 1})
	}
	return s
}

func TestHandler(t *testing.T) {
	h := NewHandler()
	h.AggregateFile()
	for _, n := range []int{2, 4, 4, 6} {
		require.NoError(t, h.Aggregate(sentenceOf(n)))
	}

	stats := h.Get()
	assert.Equal(t, 1, stats.NumFiles)
	assert.Equal(t, 4, stats.NumSentences)
	assert.Equal(t, 16, stats.NumWords)
	assert.Equal(t, 6, stats.WordsPerSentenceMax)
	assert.Equal(t, map[int]int{2: 1, 4: 2, 6: 1}, stats.WordsPerSentenceDis)
	assert.InDelta(t, 4.0, stats.WordsPerSentenceMean, 1e-9)
	assert.InDelta(t, math.Sqrt(8.0/3.0), stats.WordsPerSentenceStdDev, 1e-9)
}

func TestHandlerSmall(t *testing.T) {
	stats := NewHandler().Get()
	assert.Equal(t, 0.0, stats.WordsPerSentenceMean)

	h := NewHandler()
	require.NoError(t, h.Aggregate(sentenceOf(3)))
	stats = h.Get()
	assert.Equal(t, 3.0, stats.WordsPerSentenceMean)
	assert.Equal(t, 0.0, stats.WordsPerSentenceStdDev)
}

const reviewed = "a, b\n" +
	"\tnil | L, det at 1-2 y\n" +
	"\tnil | NIL, NIL at 1-3 n\n" +
	"\n" +
	"c, d\n" +
	"\tcontext | R, obj at 5-6 n\n" +
	"\tcontext | L, obj at 8-9 n\n" +
	"\n" +
	"e, f\n" +
	"\tcontext | R, obj at 15-16 n\n" +
	"\tcontext | L, nsubj at 18-19\n" +
	"\n"

func TestJudgments(t *testing.T) {
	l, err := ledger.ParseString(reviewed)
	require.NoError(t, err)

	s := Judgments(l)
	assert.Equal(t, 6, s.Occurrences)
	assert.Equal(t, 5, s.Annotated)
	require.Len(t, s.Pairs, 3)

	assert.Equal(t, PairJudgments{Pair: consistency.LemmaPair{First: "a", Second: "b"}, Correct: 1, Incorrect: 1}, s.Pairs[0])
	assert.False(t, s.Pairs[2].Complete())

	// (e, f) is not complete
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 1, s.AllIncorrect)
	assert.Equal(t, 3, s.IncorrectOccurrences)
	assert.Equal(t, 4, s.CompleteOccurrences)
	assert.InDelta(t, 0.5, s.AllIncorrectRatio(), 1e-9)
	assert.InDelta(t, 0.75, s.InconsistencyRatio(), 1e-9)
	assert.InDelta(t, 0.5, s.Pairs[0].Precision(), 1e-9)
}

func TestJudgmentsEmpty(t *testing.T) {
	s := Judgments(ledger.New())
	assert.Equal(t, 0, s.Complete)
	assert.Equal(t, 0.0, s.InconsistencyRatio())
}

func TestCompare(t *testing.T) {
	first, err := ledger.ParseString(reviewed)
	require.NoError(t, err)

	second, err := ledger.ParseString("a, b\n" +
		"\tnil | NIL, NIL at 1-3\n" +
		"\n" +
		"e, f\n" +
		"\tcontext | L, nsubj at 18-19\n" +
		"\n")
	require.NoError(t, err)

	c := Compare(first, second)
	assert.Equal(t, Counts{All: 6, Shared: 2}, c.Occurrences)
	assert.Equal(t, Counts{All: 5, Shared: 1}, c.Annotated)
	assert.Equal(t, Counts{All: 1, Shared: 0}, c.Correct)
	assert.Equal(t, Counts{All: 4, Shared: 1}, c.Incorrect)
	assert.Equal(t, 1, c.Correct.LeftOut())
	assert.Equal(t, 3, c.Incorrect.LeftOut())

	assert.Equal(t, Counts{All: 3, Shared: 2}, c.Lemmas)
	assert.Equal(t, Counts{All: 3, Shared: 1}, c.LemmasAnnotated)
	assert.Equal(t, Counts{All: 3, Shared: 1}, c.LemmasIncorrect)
	assert.Equal(t, 2, c.LemmasIncorrect.LeftOut())
}
