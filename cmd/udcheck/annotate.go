package main

import (
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/edit"
	"github.com/revelaction/udcheck/render"
	sent "github.com/revelaction/udcheck/sentence"
)

func annotateCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "annotate",
		Usage:     "Judge the occurrences of a ledger interactively",
		ArgsUsage: "LEDGER",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringSliceFlag{Name: "treebank", Aliases: []string{"t"}, Usage: "treebank files to show the sentence of each occurrence"},
			&cli.StringFlag{Name: "layout", Usage: "column layout, ud or shifted"},
		},
		Action: func(c *cli.Context) error {
			return annotateCommand(c, ui)
		},
	}
}

func annotateCommand(c *cli.Context, ui UI) error {
	refs, err := ledgerArgs(c, 1)
	if err != nil {
		return err
	}

	layout, err := layoutOption(c)
	if err != nil {
		return err
	}

	lio := newLedgerIO(c)
	defer lio.Close()

	l, err := lio.Read(refs[0])
	if err != nil {
		return err
	}

	w, err := lio.Writer(refs[0])
	if err != nil {
		return err
	}

	hdl := edit.NewHandler(l, refs[0].arg, w, ui.Out)

	if paths := c.StringSlice("treebank"); len(paths) > 0 {
		occ, err := loadOccurrences(paths, layout)
		if err != nil {
			return err
		}
		r := render.NewRenderer(nil)
		r.HasColor = true
		hdl.Context = occ.contextFunc(r)
	}

	return hdl.Run()
}

// wordAt is the word of a treebank source line.
type wordAt struct {
	sentence *sent.Sentence
	index    int
}

// occurrences finds the sentence of an occurrence id. Lines are keyed by
// source name when several treebanks are loaded, like the ids of a
// multi-file analysis.
type occurrences struct {
	lines map[string]map[int]wordAt
}

func loadOccurrences(paths []string, opts ...conll.Option) (*occurrences, error) {
	occ := &occurrences{lines: map[string]map[int]wordAt{}}

	sources := consistency.SourceNames(paths)
	for i, path := range paths {
		source := ""
		if len(paths) > 1 {
			source = sources[i]
		}

		tb, err := conll.ReadFile(path, opts...)
		if err != nil {
			return nil, err
		}
		occ.add(source, tb)
	}

	return occ, nil
}

func (o *occurrences) add(source string, tb sent.Treebank) {
	lines, ok := o.lines[source]
	if !ok {
		lines = map[int]wordAt{}
		o.lines[source] = lines
	}

	for i := range tb {
		for _, w := range tb[i].Words {
			lines[w.Line] = wordAt{sentence: &tb[i], index: w.Index}
		}
	}
}

// lookup returns the sentence and the word indexes of an occurrence id
// like "12-15" or "dev.conllu:12-15".
func (o *occurrences) lookup(id string) (*sent.Sentence, int, int, bool) {
	source := ""
	if i := strings.LastIndex(id, ":"); i >= 0 {
		source, id = id[:i], id[i+1:]
	}

	a, b, ok := strings.Cut(id, "-")
	if !ok {
		return nil, 0, 0, false
	}
	first, err1 := strconv.Atoi(a)
	second, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return nil, 0, 0, false
	}

	lines := o.lines[source]
	w1, ok1 := lines[first]
	w2, ok2 := lines[second]
	if !ok1 || !ok2 || w1.sentence != w2.sentence {
		return nil, 0, 0, false
	}

	return w1.sentence, w1.index, w2.index, true
}

func (o *occurrences) contextFunc(r *render.Renderer) edit.ContextFunc {
	return func(id string) string {
		s, first, second, ok := o.lookup(id)
		if !ok {
			return ""
		}
		return r.Occurrence(*s, first, second)
	}
}
