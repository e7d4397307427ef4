// Package conll reads dependency treebanks in the CoNLL tabular format.
//
// Sentences are separated by blank lines. Comment lines start with '#' and
// carry the sentence id and text. Multiword token lines (1-2) and empty
// nodes (8.1) are dropped. Every other line is a tab separated word record.
//
// The default layout is CoNLL-U: head in column 6 and relation in column 7,
// counted from 0. Treebanks with an extra column before the head, so head in
// column 7 and relation in column 8, are read with WithLayout(LayoutShifted).
package conll

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	sent "github.com/revelaction/udcheck/sentence"
	"github.com/revelaction/udcheck/tree"
)

// MalformedRecordError is returned for a word line with too few columns
// or a non integer index or head.
type MalformedRecordError struct {
	Line    int
	Content string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// Layout gives the column of every word field.
type Layout struct {
	Index    int
	Form     int
	Lemma    int
	Pos      int
	Xpos     int
	Features int
	Head     int
	Dep      int
	Deps     int
	Misc     int
}

var (
	// LayoutUD is the CoNLL-U column layout.
	LayoutUD = Layout{Index: 0, Form: 1, Lemma: 2, Pos: 3, Xpos: 4, Features: 5, Head: 6, Dep: 7, Deps: 8, Misc: 9}

	// LayoutShifted has an additional unused column before the head.
	LayoutShifted = Layout{Index: 0, Form: 1, Lemma: 2, Pos: 3, Xpos: 4, Features: 5, Head: 7, Dep: 8, Deps: 9, Misc: 10}
)

// MinColumns is the number of columns a word line needs with this layout.
func (l Layout) MinColumns() int {
	return max(l.Index, l.Form, l.Lemma, l.Pos, l.Features, l.Head, l.Dep) + 1
}

// Option configures a Reader.
type Option func(*Reader)

// WithLayout sets the column layout (default LayoutUD).
func WithLayout(l Layout) Option {
	return func(r *Reader) {
		r.layout = l
	}
}

// WithFirstLine sets the line number of the first line of the input
// (default 1).
func WithFirstLine(n int) Option {
	return func(r *Reader) {
		r.line = n - 1
	}
}

// Reader produces the sentences of a treebank one at a time.
type Reader struct {
	scanner *bufio.Scanner
	layout  Layout
	line    int
	closer  io.Closer
}

const maxLineSize = 1024 * 1024

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	rd := &Reader{
		scanner: scanner,
		layout:  LayoutUD,
	}

	for _, opt := range opts {
		opt(rd)
	}

	return rd
}

// OpenFile returns a Reader over the file at path. The caller must Close it.
func OpenFile(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := NewReader(f, opts...)
	r.closer = f
	return r, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Next returns the next sentence, or io.EOF when the input is exhausted.
// The returned sentence has contiguous indexes and a single root.
func (r *Reader) Next() (sent.Sentence, error) {
	var (
		s       sent.Sentence
		started bool
	)

	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")

		kind := classify(line)
		if kind == lineBlank {
			if started {
				return r.finish(s)
			}
			continue
		}

		if !started {
			started = true
			s.Line = r.line
		}

		switch kind {
		case lineComment:
			r.comment(&s, line)
		case lineContraction, lineEmptyNode:
		case lineWord:
			w, err := r.word(line)
			if err != nil {
				return sent.Sentence{}, err
			}
			s.Words = append(s.Words, w)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return sent.Sentence{}, fmt.Errorf("reading treebank at line %d: %w", r.line, err)
	}

	// last sentence without a closing blank line
	if started {
		return r.finish(s)
	}

	return sent.Sentence{}, io.EOF
}

func (r *Reader) comment(s *sent.Sentence, line string) {
	key, value := comment(line)
	switch {
	case isSentIdKey(key):
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return
		}
		if id, ok := sentenceId(fields[0]); ok {
			s.Id = id
		}
	case key == textKey || key == sentenceTextKey:
		s.Text = value
	}
}

func isSentIdKey(key string) bool {
	for _, k := range sentIdKeys {
		if key == k {
			return true
		}
	}
	return false
}

func (r *Reader) word(line string) (sent.Word, error) {
	fields := strings.Split(line, FieldDelimiter)
	if len(fields) < r.layout.MinColumns() {
		return sent.Word{}, &MalformedRecordError{
			Line:    r.line,
			Content: line,
			Reason:  fmt.Sprintf("expected at least %d columns, got %d", r.layout.MinColumns(), len(fields)),
		}
	}

	index, err := strconv.Atoi(fields[r.layout.Index])
	if err != nil {
		return sent.Word{}, &MalformedRecordError{Line: r.line, Content: line, Reason: "index is not an integer"}
	}

	head, err := strconv.Atoi(fields[r.layout.Head])
	if err != nil {
		return sent.Word{}, &MalformedRecordError{Line: r.line, Content: line, Reason: "head is not an integer"}
	}

	return sent.Word{
		Index:    index,
		Form:     fields[r.layout.Form],
		Lemma:    fields[r.layout.Lemma],
		Pos:      fields[r.layout.Pos],
		Xpos:     column(fields, r.layout.Xpos),
		Features: fields[r.layout.Features],
		Head:     head,
		Dep:      fields[r.layout.Dep],
		Deps:     column(fields, r.layout.Deps),
		Misc:     column(fields, r.layout.Misc),
		Line:     r.line,
	}, nil
}

func column(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func (r *Reader) finish(s sent.Sentence) (sent.Sentence, error) {
	if err := s.Validate(); err != nil {
		return sent.Sentence{}, &MalformedRecordError{Line: s.Line, Content: s.Location(), Reason: err.Error()}
	}

	if _, err := tree.Build(s); err != nil {
		return sent.Sentence{}, err
	}

	return s, nil
}

// All returns the remaining sentences as a sequence. The sequence stops
// after the first error, which is yielded with a zero sentence.
func (r *Reader) All() iter.Seq2[sent.Sentence, error] {
	return func(yield func(sent.Sentence, error) bool) {
		for {
			s, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// Sentences returns the sentences of rd as a sequence. It is not
// restartable: a new pass needs a new reader.
func Sentences(rd io.Reader, opts ...Option) iter.Seq2[sent.Sentence, error] {
	return NewReader(rd, opts...).All()
}

// ReadAll reads every sentence of rd.
func ReadAll(rd io.Reader, opts ...Option) (sent.Treebank, error) {
	var tb sent.Treebank
	for s, err := range Sentences(rd, opts...) {
		if err != nil {
			return nil, err
		}
		tb = append(tb, s)
	}
	return tb, nil
}

// ParseString reads every sentence of an in-memory treebank.
func ParseString(s string, opts ...Option) (sent.Treebank, error) {
	return ReadAll(strings.NewReader(s), opts...)
}

// ReadFile reads every sentence of the treebank file at path.
func ReadFile(path string, opts ...Option) (sent.Treebank, error) {
	r, err := OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var tb sent.Treebank
	for s, err := range r.All() {
		if err != nil {
			return nil, fmt.Errorf("treebank %s: %w", path, err)
		}
		tb = append(tb, s)
	}

	return tb, nil
}

// EachFile streams the sentences of the file at path into fn. The file is
// closed on every exit path.
func EachFile(path string, fn func(sent.Sentence) error, opts ...Option) error {
	r, err := OpenFile(path, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	for s, err := range r.All() {
		if err != nil {
			return fmt.Errorf("treebank %s: %w", path, err)
		}
		if err := fn(s); err != nil {
			return err
		}
	}

	return nil
}
