// Package ledger reads and writes the annotation ledger: the human-editable
// list of flagged occurrences, grouped by lemma pair, where reviewers mark
// each occurrence as a real error or not.
//
// A ledger looks like
//
//	le, chat
//		nil | L, det at 12-14 y
//		nil | NIL, NIL at 40-42
//
// with one blank line after every group.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/udcheck/consistency"
)

const (
	indent         = "\t"
	kindsSeparator = " | "
	atSeparator    = " at "
	pairSeparator  = ", "
	tagSeparator   = ","
)

// Judgment is the verdict of a reviewer on an occurrence.
type Judgment int

const (
	Unmarked Judgment = iota
	// Correct means the treebank annotation of the occurrence is right.
	Correct
	// Incorrect marks a real annotation error.
	Incorrect
)

// String returns the ledger character of j, empty for Unmarked.
func (j Judgment) String() string {
	switch j {
	case Correct:
		return "y"
	case Incorrect:
		return "n"
	}
	return ""
}

// ParseJudgment parses a ledger judgment character.
func ParseJudgment(s string) (Judgment, error) {
	switch s {
	case "":
		return Unmarked, nil
	case "y":
		return Correct, nil
	case "n":
		return Incorrect, nil
	}
	return Unmarked, fmt.Errorf("unknown judgment %q", s)
}

// MalformedLedgerError is returned when a ledger line can not be parsed.
type MalformedLedgerError struct {
	Line    int
	Content string
	Reason  string
}

func (e *MalformedLedgerError) Error() string {
	return fmt.Sprintf("malformed ledger line %d (%s): %q", e.Line, e.Reason, e.Content)
}

// Line is one occurrence of a lemma pair in the ledger.
type Line struct {
	// Kinds is the comma separated set of rules that flagged the occurrence.
	Kinds      string
	Descriptor string
	Occurrence string
	Judgment   Judgment
}

func (l Line) String() string {
	s := indent + l.Kinds + kindsSeparator + l.Descriptor + atSeparator + l.Occurrence
	if l.Judgment != Unmarked {
		s += " " + l.Judgment.String()
	}
	return s
}

// Group holds the lines of a lemma pair in ledger order.
type Group struct {
	Pair  consistency.LemmaPair
	Lines []Line
}

// Ledger is an ordered list of groups.
type Ledger struct {
	groups []*Group
	index  map[consistency.LemmaPair][]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{index: map[consistency.LemmaPair][]int{}}
}

// Groups returns the groups in ledger order.
func (l *Ledger) Groups() []*Group {
	return l.groups
}

// AddGroup appends a new group for pair and returns it.
func (l *Ledger) AddGroup(pair consistency.LemmaPair) *Group {
	g := &Group{Pair: pair}
	l.index[pair] = append(l.index[pair], len(l.groups))
	l.groups = append(l.groups, g)
	return g
}

// Pairs returns the number of groups.
func (l *Ledger) Pairs() int {
	return len(l.groups)
}

// Size returns the number of occurrence lines.
func (l *Ledger) Size() int {
	n := 0
	for _, g := range l.groups {
		n += len(g.Lines)
	}
	return n
}

// Annotated returns the number of judged lines.
func (l *Ledger) Annotated() int {
	n := 0
	for _, g := range l.groups {
		for _, line := range g.Lines {
			if line.Judgment != Unmarked {
				n++
			}
		}
	}
	return n
}

// Selector identifies an occurrence line inside a group. An empty Kinds
// matches any kinds.
type Selector struct {
	Kinds      string
	Descriptor string
	Occurrence string
}

// SelectorOf returns the selector matching exactly line.
func SelectorOf(line Line) Selector {
	return Selector{Kinds: line.Kinds, Descriptor: line.Descriptor, Occurrence: line.Occurrence}
}

func (s Selector) matches(line Line) bool {
	if s.Kinds != "" && s.Kinds != line.Kinds {
		return false
	}
	return s.Descriptor == line.Descriptor && s.Occurrence == line.Occurrence
}

// Locate returns the first line of pair matched by sel.
func (l *Ledger) Locate(pair consistency.LemmaPair, sel Selector) (*Line, bool) {
	for _, i := range l.index[pair] {
		g := l.groups[i]
		for j := range g.Lines {
			if sel.matches(g.Lines[j]) {
				return &g.Lines[j], true
			}
		}
	}
	return nil, false
}

// SetJudgment sets the judgment of the line located by pair and sel. It
// returns false and leaves the ledger untouched when there is no such line.
func (l *Ledger) SetJudgment(pair consistency.LemmaPair, sel Selector, j Judgment) bool {
	line, ok := l.Locate(pair, sel)
	if !ok {
		return false
	}
	line.Judgment = j
	return true
}

// Parse reads a ledger. A judgment on a last line without newline is
// ignored.
func Parse(r io.Reader) (*Ledger, error) {
	l := New()
	br := bufio.NewReader(r)

	var (
		cur *Group
		num int
	)

	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if raw == "" && err != nil {
			break
		}

		num++
		terminated := strings.HasSuffix(raw, "\n")
		text := strings.TrimRight(raw, "\r\n")

		switch {
		case strings.TrimSpace(text) == "":
			cur = nil

		case strings.HasPrefix(text, indent):
			if cur == nil {
				return nil, &MalformedLedgerError{Line: num, Content: text, Reason: "occurrence line before lemma pair"}
			}
			line, perr := parseLine(text, num)
			if perr != nil {
				return nil, perr
			}
			if !terminated {
				line.Judgment = Unmarked
			}
			cur.Lines = append(cur.Lines, line)

		default:
			first, second, ok := strings.Cut(text, pairSeparator)
			if !ok {
				return nil, &MalformedLedgerError{Line: num, Content: text, Reason: "lemma pair without separator"}
			}
			cur = l.AddGroup(consistency.LemmaPair{First: first, Second: second})
		}

		if err != nil {
			break
		}
	}

	return l, nil
}

func parseLine(text string, num int) (Line, error) {
	body := strings.TrimPrefix(text, indent)

	kinds, rest, ok := strings.Cut(body, kindsSeparator)
	if !ok {
		return Line{}, &MalformedLedgerError{Line: num, Content: text, Reason: "missing kinds separator"}
	}

	i := strings.LastIndex(rest, atSeparator)
	if i < 0 {
		return Line{}, &MalformedLedgerError{Line: num, Content: text, Reason: "missing occurrence"}
	}

	line := Line{Kinds: kinds, Descriptor: rest[:i]}

	fields := strings.Fields(rest[i+len(atSeparator):])
	switch len(fields) {
	case 1:
		line.Occurrence = fields[0]
	case 2:
		line.Occurrence = fields[0]
		j, err := ParseJudgment(fields[1])
		if err != nil {
			return Line{}, &MalformedLedgerError{Line: num, Content: text, Reason: err.Error()}
		}
		line.Judgment = j
	default:
		return Line{}, &MalformedLedgerError{Line: num, Content: text, Reason: "invalid occurrence"}
	}

	return line, nil
}

// ParseString parses a ledger held in a string.
func ParseString(s string) (*Ledger, error) {
	return Parse(strings.NewReader(s))
}

// ReadFile parses the ledger file at path.
func ReadFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// WriteTo writes the ledger in its text format.
func (l *Ledger) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	for _, g := range l.groups {
		c, err := bw.WriteString(g.Pair.First + pairSeparator + g.Pair.Second + "\n")
		n += int64(c)
		if err != nil {
			return n, err
		}

		for _, line := range g.Lines {
			c, err = bw.WriteString(line.String() + "\n")
			n += int64(c)
			if err != nil {
				return n, err
			}
		}

		c, err = bw.WriteString("\n")
		n += int64(c)
		if err != nil {
			return n, err
		}
	}

	return n, bw.Flush()
}

func (l *Ledger) String() string {
	var sb strings.Builder
	l.WriteTo(&sb)
	return sb.String()
}

// WriteFile replaces the ledger file at path. The content is written to a
// temporary file of the same directory and renamed over path.
func (l *Ledger) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := l.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
