package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/udcheck/consistency"
)

const sample = "le, chat\n" +
	"\tnil | L, det at 12-14 y\n" +
	"\tnil | NIL, NIL at 40-42\n" +
	"\n" +
	"manger, pomme\n" +
	"\tcontext | R, obj at 7-9 n\n" +
	"\tcontext,nil | L, nsubj at 55-57\n" +
	"\n"

func TestParse(t *testing.T) {
	l, err := ParseString(sample)
	require.NoError(t, err)

	assert.Equal(t, 2, l.Pairs())
	assert.Equal(t, 4, l.Size())
	assert.Equal(t, 2, l.Annotated())

	g := l.Groups()[0]
	assert.Equal(t, consistency.LemmaPair{First: "le", Second: "chat"}, g.Pair)
	assert.Equal(t, Line{Kinds: "nil", Descriptor: "L, det", Occurrence: "12-14", Judgment: Correct}, g.Lines[0])
	assert.Equal(t, Unmarked, g.Lines[1].Judgment)

	g = l.Groups()[1]
	assert.Equal(t, "context,nil", g.Lines[1].Kinds)
	assert.Equal(t, Incorrect, g.Lines[0].Judgment)
}

func TestRoundTrip(t *testing.T) {
	l, err := ParseString(sample)
	require.NoError(t, err)

	assert.Equal(t, sample, l.String())

	again, err := ParseString(l.String())
	require.NoError(t, err)
	assert.Equal(t, l.Groups(), again.Groups())
}

func TestRoundTripWithoutFinalSeparator(t *testing.T) {
	text := "a, b\n\tnil | NIL, NIL at 1-2 y\n"

	l, err := ParseString(text)
	require.NoError(t, err)

	again, err := ParseString(l.String())
	require.NoError(t, err)
	assert.Equal(t, l.Groups(), again.Groups())
	assert.Equal(t, text+"\n", l.String())
}

func TestParseFinalLineWithoutNewline(t *testing.T) {
	l, err := ParseString("a, b\n\tnil | NIL, NIL at 1-2 y\n\tnil | L, obj at 1-3 n")
	require.NoError(t, err)

	lines := l.Groups()[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, Correct, lines[0].Judgment)
	assert.Equal(t, Unmarked, lines[1].Judgment)
	assert.Equal(t, "1-3", lines[1].Occurrence)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"unknown judgment", "a, b\n\tnil | NIL, NIL at 1-2 x\n", 2},
		{"occurrence before pair", "\tnil | NIL, NIL at 1-2\n", 1},
		{"occurrence after separator", "a, b\n\tnil | NIL, NIL at 1-2\n\n\tnil | L, det at 3-4\n", 4},
		{"missing kinds", "a, b\n\tNIL, NIL at 1-2\n", 2},
		{"missing occurrence", "a, b\n\tnil | NIL, NIL\n", 2},
		{"pair without separator", "ab\n", 1},
		{"too many fields", "a, b\n\tnil | NIL, NIL at 1-2 y y\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.text)
			require.Error(t, err)

			var mle *MalformedLedgerError
			require.True(t, errors.As(err, &mle))
			assert.Equal(t, tt.line, mle.Line)
		})
	}
}

func TestLocateAndSetJudgment(t *testing.T) {
	l, err := ParseString(sample)
	require.NoError(t, err)

	pair := consistency.LemmaPair{First: "manger", Second: "pomme"}

	line, ok := l.Locate(pair, Selector{Descriptor: "L, nsubj", Occurrence: "55-57"})
	require.True(t, ok)
	assert.Equal(t, "context,nil", line.Kinds)

	_, ok = l.Locate(pair, Selector{Kinds: "nil", Descriptor: "L, nsubj", Occurrence: "55-57"})
	assert.False(t, ok)

	assert.True(t, l.SetJudgment(pair, SelectorOf(*line), Correct))
	line, _ = l.Locate(pair, Selector{Descriptor: "L, nsubj", Occurrence: "55-57"})
	assert.Equal(t, Correct, line.Judgment)

	before := l.String()
	assert.False(t, l.SetJudgment(pair, Selector{Descriptor: "L, nsubj", Occurrence: "1-2"}, Incorrect))
	assert.False(t, l.SetJudgment(consistency.LemmaPair{First: "x", Second: "y"}, Selector{}, Incorrect))
	assert.Equal(t, before, l.String())
}

func TestWriteFile(t *testing.T) {
	l, err := ParseString(sample)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dev.ledger")
	require.NoError(t, l.WriteFile(path))

	read, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample, read.String())
}

func TestFromReport(t *testing.T) {
	r := consistency.Report{
		Groups: []consistency.PairReport{
			{
				Pair: consistency.NewLemmaPair("le", "chat"),
				Occurrences: []consistency.Flagged{
					{
						Relation: consistency.RelationKey{Direction: consistency.Left, Dep: "det"},
						Location: consistency.Location{First: 3, Second: 4},
						Tags:     []consistency.Tag{consistency.TagContext, consistency.TagNil},
					},
					{
						Relation: consistency.NilRelation,
						Location: consistency.Location{Source: "b.conllu", First: 10, Second: 12},
						Tags:     []consistency.Tag{consistency.TagNil},
					},
				},
			},
		},
	}

	l := FromReport(r)
	want := "chat, le\n" +
		"\tcontext,nil | L, det at 3-4\n" +
		"\tnil | NIL, NIL at b.conllu:10-12\n" +
		"\n"
	assert.Equal(t, want, l.String())
	assert.Equal(t, 0, l.Annotated())
}

func TestTransfer(t *testing.T) {
	src, err := ParseString("a, b\n" +
		"\tnil | L, det at 1-2 y\n" +
		"\tnil | NIL, NIL at 1-3 n\n" +
		"\tcontext | R, obj at 5-6 y\n" +
		"\tcontext | R, obj at 5-7\n" +
		"\n")
	require.NoError(t, err)

	dst, err := ParseString("a, b\n" +
		"\tcontext,nil | L, det at 1-2\n" +
		"\tnil | NIL, NIL at 1-3\n" +
		"\tcontext | R, obj at 5-7\n" +
		"\n")
	require.NoError(t, err)

	res := Transfer(src, dst)
	assert.Equal(t, TransferResult{Transferred: 2, NotTransferred: 1, Ambiguous: 1}, res)
	assert.Equal(t, 3, res.Total())

	pair := consistency.LemmaPair{First: "a", Second: "b"}
	line, ok := dst.Locate(pair, Selector{Descriptor: "L, det", Occurrence: "1-2"})
	require.True(t, ok)
	assert.Equal(t, Correct, line.Judgment)

	line, ok = dst.Locate(pair, Selector{Descriptor: "R, obj", Occurrence: "5-7"})
	require.True(t, ok)
	assert.Equal(t, Unmarked, line.Judgment)
}
