package correct

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/consistency"
	sent "github.com/revelaction/udcheck/sentence"
)

const (
	known = "1\tchat\tchat\tNOUN\t_\t_\t0\troot\t_\t_\n" +
		"2\ta\ta\tX\t_\t_\t1\tacl\t_\t_\n" +
		"3\tb\tb\tX\t_\t_\t2\tnsubj\t_\t_\n" +
		"4\tnoir\tnoir\tADJ\t_\t_\t1\tamod\t_\t_\n\n"

	other = "1\tle\tle\tDET\t_\t_\t2\tdet\t_\t_\n" +
		"2\tpain\tpain\tNOUN\t_\t_\t0\troot\t_\t_\n\n"

	// same nucleus for (a, b) as known, with another relation
	changed = "# sent_id = fr-ud-test_1\n" +
		"1\tchat\tchat\tNOUN\t_\t_\t0\troot\t_\t_\n" +
		"2\ta\ta\tX\t_\t_\t1\tacl\t_\t_\n" +
		"3\tb\tb\tX\t_\t_\t2\tobj\t_\t_\n" +
		"4\tnoir\tnoir\tADJ\t_\t_\t1\tamod\t_\t_\n\n"

	unknown = "1\tx\tx\tX\t_\t_\t0\troot\t_\t_\n" +
		"2\ty\ty\tX\t_\t_\t1\tobj\t_\t_\n\n"
)

func writeReference(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"a.conllu": strings.Repeat(known, 4),
		"b.conllu": strings.Repeat(known, 2) + other,
		"c.conllu": strings.Repeat(other, 3),
	}

	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}

	// ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("garbage"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeReference(t)

	var seen []string
	ref, err := LoadDir(dir, func(path string) {
		seen = append(seen, filepath.Base(path))
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.conllu", "b.conllu", "c.conllu"}, seen)
	assert.Equal(t, 3, ref.Files())
	assert.Equal(t, 10, ref.Sentences())

	// chat-a, a-b, chat-noir and le-pain
	assert.Equal(t, 4, ref.Nuclei())
}

func TestCheck(t *testing.T) {
	ref, err := LoadDir(writeReference(t), nil)
	require.NoError(t, err)

	report, err := ref.Check(conll.Sentences(strings.NewReader(changed + unknown)))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 3, report.Known)
	assert.LessOrEqual(t, len(report.Mismatches), report.Checked)
	require.Len(t, report.Mismatches, 1)

	m := report.Mismatches[0]
	assert.Equal(t, consistency.NewLemmaPair("a", "b"), m.Nucleus.Pair)
	assert.Equal(t, "acl", m.Nucleus.HeadDep)
	assert.Equal(t, []string{}, m.Nucleus.InternalContext())
	assert.Equal(t, consistency.RelationKey{Direction: consistency.Left, Dep: "obj"}, m.Relation)
	assert.Equal(t, consistency.RelationKey{Direction: consistency.Left, Dep: "nsubj"}, m.Expected)
	assert.Equal(t, 6, m.Frequency)
	assert.Equal(t, 6, m.Seen)
	assert.Equal(t, consistency.Location{
		SentenceId: "fr-ud-test_1",
		Sentence:   1,
		First:      3,
		Second:     4,
		FirstWord:  2,
		SecondWord: 3,
	}, m.Location)

	nsubj := consistency.RelationKey{Direction: consistency.Left, Dep: "nsubj"}
	assert.Equal(t, map[consistency.RelationKey]int{nsubj: 6}, ref.Frequencies(m.Nucleus))

	m.Nucleus.HeadDep = "obl"
	assert.Nil(t, ref.Frequencies(m.Nucleus))
}

func TestCheckUnknownLines(t *testing.T) {
	ref, err := LoadDir(writeReference(t), nil)
	require.NoError(t, err)

	s, err := conll.ParseString(changed)
	require.NoError(t, err)
	for i := range s[0].Words {
		s[0].Words[i].Line = sent.UnknownLine
	}

	report, err := ref.Check(func(yield func(sent.Sentence, error) bool) {
		yield(s[0], nil)
	})
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "fr-ud-test_1#2-3", report.Mismatches[0].Location.String())
}

func TestCheckFile(t *testing.T) {
	ref, err := LoadDir(writeReference(t), nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "target.conllu")
	require.NoError(t, os.WriteFile(path, []byte(changed+unknown), 0o644))

	report, err := ref.CheckFile(path)
	require.NoError(t, err)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "target.conllu:3-4", report.Mismatches[0].Location.String())
}

func TestCheckStopsAtError(t *testing.T) {
	ref := NewReference()

	_, err := ref.Check(conll.Sentences(strings.NewReader(known + "1\ta\ta\tX\t_\t_\tx\troot\n")))
	assert.Error(t, err)
}

func TestLoadDirNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte(known), 0o644))

	_, err := LoadDir(path, nil)
	assert.Error(t, err)
}

func TestMostFrequent(t *testing.T) {
	l := consistency.RelationKey{Direction: consistency.Left, Dep: "obj"}
	r := consistency.RelationKey{Direction: consistency.Right, Dep: "nsubj"}

	k, n, total := mostFrequent(map[consistency.RelationKey]int{l: 2, r: 2})
	assert.Equal(t, l, k)
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, total)
}
