package edit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/revelaction/udcheck/ledger"
)

type memWriter struct {
	writes int
	last   string
	err    error
}

func (m *memWriter) Write(name string, l *ledger.Ledger) error {
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.last = l.String()
	return nil
}

const sample = "a, b\n" +
	"\tnil | L, det at 1-2 y\n" +
	"\tnil | NIL, NIL at 1-3\n" +
	"\n" +
	"c, d\n" +
	"\n" +
	"e, f\n" +
	"\tcontext | R, obj at 5-6\n" +
	"\n"

func newHandler(t *testing.T, w *memWriter) (*Handler, *bytes.Buffer) {
	t.Helper()
	l, err := ledger.ParseString(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	return NewHandler(l, "dev", w, &out), &out
}

func current(t *testing.T, h *Handler) ledger.Line {
	t.Helper()
	line, ok := h.Current()
	if !ok {
		t.Fatalf("no current line")
	}
	return *line
}

func TestStartsAtFirstUnmarked(t *testing.T) {
	h, _ := newHandler(t, &memWriter{})

	if got := current(t, h).Occurrence; got != "1-3" {
		t.Fatalf("expected 1-3, got %s", got)
	}
}

func TestJudge(t *testing.T) {
	w := &memWriter{}
	h, _ := newHandler(t, w)

	if _, err := h.Exec("n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.writes != 1 {
		t.Fatalf("expected 1 write, got %d", w.writes)
	}

	// skips the group without lines
	if got := current(t, h).Occurrence; got != "5-6" {
		t.Fatalf("expected 5-6, got %s", got)
	}

	if _, err := h.Exec("y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "a, b\n" +
		"\tnil | L, det at 1-2 y\n" +
		"\tnil | NIL, NIL at 1-3 n\n" +
		"\n" +
		"c, d\n" +
		"\n" +
		"e, f\n" +
		"\tcontext | R, obj at 5-6 y\n" +
		"\n"
	if w.last != want {
		t.Fatalf("got %q, want %q", w.last, want)
	}

	if _, err := h.Exec("next"); err == nil {
		t.Fatalf("expected error when nothing is left")
	}
}

func TestUnmarkStays(t *testing.T) {
	w := &memWriter{}
	h, _ := newHandler(t, w)

	if _, err := h.Exec("goto a, b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := h.Exec("u"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := current(t, h)
	if line.Occurrence != "1-2" || line.Judgment != ledger.Unmarked {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestNavigation(t *testing.T) {
	h, out := newHandler(t, &memWriter{})

	if _, err := h.Exec("prev"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := current(t, h).Occurrence; got != "1-2" {
		t.Fatalf("expected 1-2, got %s", got)
	}

	if _, err := h.Exec("prev"); err == nil {
		t.Fatalf("expected error at the first occurrence")
	}

	if _, err := h.Exec("goto x, y"); err == nil {
		t.Fatalf("expected error for unknown pair")
	}

	if _, err := h.Exec("stat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "1 / 3 occurrences annotated\n" {
		t.Fatalf("unexpected stat output %q", out.String())
	}

	quit, err := h.Exec("quit")
	if err != nil || !quit {
		t.Fatalf("expected quit")
	}

	if _, err := h.Exec("foo"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestWriteError(t *testing.T) {
	h, _ := newHandler(t, &memWriter{err: errors.New("disk full")})

	_, err := h.Exec("y")
	var werr *writeError
	if !errors.As(err, &werr) {
		t.Fatalf("expected write error, got %v", err)
	}
}
