package edit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/storage"
)

const (
	cmdCorrect   = "y"
	cmdIncorrect = "n"
	cmdUnmark    = "u"
	cmdNext      = "next"
	cmdPrev      = "prev"
	cmdGoto      = "goto"
	cmdStat      = "stat"
	cmdQuit      = "quit"
)

var commands = []prompt.Suggest{
	{Text: cmdCorrect, Description: "treebank annotation is correct"},
	{Text: cmdIncorrect, Description: "annotation error"},
	{Text: cmdUnmark, Description: "remove the judgment"},
	{Text: cmdNext, Description: "next unmarked occurrence"},
	{Text: cmdPrev, Description: "previous occurrence"},
	{Text: cmdGoto, Description: "first occurrence of a lemma pair"},
	{Text: cmdStat, Description: "review progress"},
	{Text: cmdQuit, Description: ""},
}

// ContextFunc returns the text of the sentence of an occurrence, or an empty
// string if it is not known.
type ContextFunc func(occurrence string) string

// position addresses a line of the ledger.
type position struct {
	group int
	line  int
}

// Handler walks the occurrences of a ledger and records judgments. Every
// judgment is written back through the writer.
type Handler struct {
	Ledger *ledger.Ledger
	Name   string

	Writer  storage.LedgerWriter
	Context ContextFunc

	Out io.Writer

	cur position
}

func NewHandler(l *ledger.Ledger, name string, w storage.LedgerWriter, out io.Writer) *Handler {
	h := &Handler{
		Ledger: l,
		Name:   name,
		Writer: w,
		Out:    out,
		cur:    position{group: 0, line: -1},
	}
	h.next()
	return h
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Out, "🔑 y: correct, n: error, u: unmark, next, prev, goto <pair>, stat, 🔧 quit")
	h.show()

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("udcheck annotate"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionHistory(history),
		)

		history = append(history, in)

		quit, err := h.Exec(in)
		if err != nil {
			var werr *writeError
			if errors.As(err, &werr) {
				return werr.err
			}
			fmt.Fprintf(h.Out, "❌ %s\n", err)
			continue
		}

		if quit {
			return nil
		}

		h.show()
	}
}

type writeError struct {
	err error
}

func (e *writeError) Error() string {
	return e.err.Error()
}

// Exec runs one command of the prompt. It reports whether the session
// should end.
func (h *Handler) Exec(in string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(in), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case cmdQuit:
		return true, nil

	case cmdCorrect, cmdIncorrect, cmdUnmark:
		line, ok := h.Current()
		if !ok {
			return false, errors.New("No occurrence selected.")
		}

		j, _ := ledger.ParseJudgment(cmd)
		if cmd == cmdUnmark {
			j = ledger.Unmarked
		}
		line.Judgment = j

		if err := h.Writer.Write(h.Name, h.Ledger); err != nil {
			return false, &writeError{err}
		}

		if j != ledger.Unmarked {
			h.next()
		}
		return false, nil

	case "", cmdNext:
		if !h.next() {
			return false, errors.New("No unmarked occurrence left.")
		}
		return false, nil

	case cmdPrev:
		if !h.prev() {
			return false, errors.New("Already at the first occurrence.")
		}
		return false, nil

	case cmdGoto:
		if arg == "" {
			return false, errors.New("No lemma pair given.")
		}
		for i, g := range h.Ledger.Groups() {
			if g.Pair.String() == arg && len(g.Lines) > 0 {
				h.cur = position{group: i, line: 0}
				return false, nil
			}
		}
		return false, errors.New("There is no such lemma pair: " + arg + ".")

	case cmdStat:
		fmt.Fprintf(h.Out, "%d / %d occurrences annotated\n", h.Ledger.Annotated(), h.Ledger.Size())
		return false, nil
	}

	return false, errors.New("Unknown command: " + cmd + ".")
}

// Current returns the selected line.
func (h *Handler) Current() (*ledger.Line, bool) {
	groups := h.Ledger.Groups()
	if h.cur.group < 0 || h.cur.group >= len(groups) {
		return nil, false
	}

	lines := groups[h.cur.group].Lines
	if h.cur.line < 0 || h.cur.line >= len(lines) {
		return nil, false
	}

	return &lines[h.cur.line], true
}

// next selects the next unmarked line after the current one, wrapping
// around once.
func (h *Handler) next() bool {
	groups := h.Ledger.Groups()
	total := h.Ledger.Size()

	p := h.cur
	for i := 0; i < total; i++ {
		p = h.step(p, groups)
		if groups[p.group].Lines[p.line].Judgment == ledger.Unmarked {
			h.cur = p
			return true
		}
	}

	return false
}

// step returns the line after p, the first one after the last.
func (h *Handler) step(p position, groups []*ledger.Group) position {
	p.line++
	for p.group < len(groups) && p.line >= len(groups[p.group].Lines) {
		p.group++
		p.line = 0
	}

	if p.group >= len(groups) {
		p = position{group: 0, line: 0}
		for p.group < len(groups) && len(groups[p.group].Lines) == 0 {
			p.group++
		}
	}

	return p
}

func (h *Handler) prev() bool {
	groups := h.Ledger.Groups()

	p := h.cur
	p.line--
	for p.line < 0 {
		p.group--
		if p.group < 0 {
			return false
		}
		p.line = len(groups[p.group].Lines) - 1
	}

	h.cur = p
	return true
}

func (h *Handler) show() {
	line, ok := h.Current()
	if !ok {
		return
	}

	g := h.Ledger.Groups()[h.cur.group]
	fmt.Fprintf(h.Out, "%s\n%s\n", g.Pair, line)

	if h.Context != nil {
		if text := h.Context(line.Occurrence); text != "" {
			fmt.Fprintf(h.Out, "      %s\n", text)
		}
	}
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {

		befCursor := in.TextBeforeCursor()

		// Only one character in line
		if "" == befCursor {
			return []prompt.Suggest{}
		}

		if rest, ok := strings.CutPrefix(befCursor, cmdGoto+" "); ok {
			s := []prompt.Suggest{}
			for _, g := range h.Ledger.Groups() {
				if strings.HasPrefix(g.Pair.String(), rest) {
					s = append(s, prompt.Suggest{Text: g.Pair.String()})
				}
			}
			return s
		}

		return prompt.FilterHasPrefix(commands, befCursor, false)
	}
}
