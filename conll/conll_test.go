package conll

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/udcheck/sentence"
	"github.com/revelaction/udcheck/tree"
)

const treebank = `# sent_id = fr-ud-dev_1
# text = Le chat dort.
1	Le	le	DET	_	Definite=Def	2	det	_	_
2	chat	chat	NOUN	_	Gender=Masc|Number=Sing	3	nsubj	_	_
3	dort	dormir	VERB	_	_	0	root	_	_
4	.	.	PUNCT	_	_	3	punct	_	_

# sentid: fr-ud-dev_2
1-2	du	_	_	_	_	_	_	_	_
1	de	de	ADP	_	_	3	case	_	_
2	le	le	DET	_	_	3	det	_	_
3	pain	pain	NOUN	_	_	0	root	_	_
3.1	mange	manger	VERB	_	_	_	_	_	_
`

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"", lineBlank},
		{"  \t", lineBlank},
		{"# text = x", lineComment},
		{"1-2\tdu", lineContraction},
		{"10-11\tdu", lineContraction},
		{"8.1\tx", lineEmptyNode},
		{"1\tLe", lineWord},
		{"1-\tx", lineWord},
	}

	for _, tt := range tests {
		if got := classify(tt.line); got != tt.want {
			t.Errorf("classify(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestSentenceId(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"fr-ud-dev_1", true},
		{"fro-ud-train_00012", true},
		{"en-ud-test_3", true},
		{"f-ud-dev_1", false},
		{"fr-ud-valid_1", false},
		{"fr-ud-dev_", false},
		{"fr-ud-dev_1a", false},
		{"FR-ud-dev_1", false},
		{"weblog-1", false},
	}

	for _, tt := range tests {
		_, ok := sentenceId(tt.value)
		if ok != tt.ok {
			t.Errorf("sentenceId(%q) ok = %v, want %v", tt.value, ok, tt.ok)
		}
	}
}

func TestParseString(t *testing.T) {
	tb, err := ParseString(treebank)
	require.NoError(t, err)
	require.Len(t, tb, 2)

	s := tb[0]
	assert.Equal(t, "fr-ud-dev_1", s.Id)
	assert.Equal(t, "Le chat dort.", s.Text)
	assert.Equal(t, 1, s.Line)
	require.Equal(t, 4, s.Len())

	w := s.At(1)
	assert.Equal(t, sent.Word{
		Index:    2,
		Form:     "chat",
		Lemma:    "chat",
		Pos:      "NOUN",
		Xpos:     "_",
		Features: "Gender=Masc|Number=Sing",
		Head:     3,
		Dep:      "nsubj",
		Deps:     "_",
		Misc:     "_",
		Line:     4,
	}, w)

	// contraction and empty node lines are dropped
	s = tb[1]
	assert.Equal(t, "fr-ud-dev_2", s.Id)
	assert.Equal(t, []string{"de", "le", "pain"}, s.Lemmas())
	assert.Equal(t, 9, s.At(0).Line)
	assert.Equal(t, 7, tb.NumWords())
}

func TestIndexesAndRoot(t *testing.T) {
	tb, err := ParseString(treebank)
	require.NoError(t, err)

	for _, s := range tb {
		for i, w := range s.Words {
			assert.Equal(t, i+1, w.Index)
		}
		assert.Len(t, s.Roots(), 1)
	}
}

func TestReaderNext(t *testing.T) {
	r := NewReader(strings.NewReader(treebank))

	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestLayoutShifted(t *testing.T) {
	text := "1\tLe\tle\tDET\t_\t_\t_\t2\tdet\t_\t_\n" +
		"2\tchat\tchat\tNOUN\t_\t_\t_\t0\troot\t_\t_\n"

	tb, err := ParseString(text, WithLayout(LayoutShifted))
	require.NoError(t, err)
	require.Len(t, tb, 1)
	assert.Equal(t, 2, tb[0].At(0).Head)
	assert.Equal(t, "det", tb[0].At(0).Dep)
}

func TestWithFirstLine(t *testing.T) {
	tb, err := ParseString("1\ta\ta\tX\t_\t_\t0\troot\n", WithFirstLine(100))
	require.NoError(t, err)
	assert.Equal(t, 100, tb[0].At(0).Line)
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"too few columns", "1\ta\ta\tX\t_\t_\t0\n", 1},
		{"head not integer", "1\ta\ta\tX\t_\t_\t0\troot\n2\tb\tb\tX\t_\t_\tx\tdep\n", 2},
		{"index not integer", "a\ta\ta\tX\t_\t_\t0\troot\n", 1},
		{"index gap", "1\ta\ta\tX\t_\t_\t0\troot\n3\tb\tb\tX\t_\t_\t1\tdep\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.text)
			var mre *MalformedRecordError
			require.True(t, errors.As(err, &mre), "got %v", err)
			assert.Equal(t, tt.line, mre.Line)
		})
	}
}

func TestNoRoot(t *testing.T) {
	text := "1\ta\ta\tX\t_\t_\t0\troot\n2\tb\tb\tX\t_\t_\t0\troot\n\n"

	_, err := ParseString(text)
	var nre *tree.NoRootFoundError
	require.True(t, errors.As(err, &nre), "got %v", err)
	assert.Equal(t, 2, nre.Roots)
}

func TestEachFileStopsAtError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conllu")
	text := treebank + "\n1\ta\ta\tX\t_\t_\tx\troot\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	var n int
	err := EachFile(path, func(sent.Sentence) error {
		n++
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, err.Error(), path)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.conllu")
	require.NoError(t, os.WriteFile(path, []byte(treebank), 0o644))

	tb, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, tb, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.conllu"))
	assert.Error(t, err)
}
