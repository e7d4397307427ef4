package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/render"
	sent "github.com/revelaction/udcheck/sentence"
	"github.com/revelaction/udcheck/tree"
)

var errFound = errors.New("found")

func sentenceCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "sentence",
		Usage:     "Show the words and the dependency tree of a sentence",
		ArgsUsage: "TREEBANK <position|sentence id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Usage: "column layout, ud or shifted"},
			&cli.BoolFlag{Name: "no-color", Usage: "do not color the output"},
		},
		Action: func(c *cli.Context) error {
			return sentenceCommand(c, ui)
		},
	}
}

func sentenceCommand(c *cli.Context, ui UI) error {
	if c.NArg() != 2 {
		return argumentError(c, "needs exactly two arguments: TREEBANK <position|sentence id>")
	}

	layout, err := layoutOption(c)
	if err != nil {
		return err
	}

	s, err := findSentence(c.Args().Get(0), c.Args().Get(1), layout)
	if err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !c.Bool("no-color")

	fmt.Fprintf(ui.Out, "✍  %s\n", s.Location())
	r.Sentence(s)
	fmt.Fprintln(ui.Out)

	if err := r.Words(s); err != nil {
		return err
	}
	fmt.Fprintln(ui.Out)

	root, err := tree.Build(s)
	if err != nil {
		return err
	}
	r.Tree(root)
	return nil
}

// findSentence returns the sentence of path at the 0-based position key, or
// with the id key.
func findSentence(path, key string, opts ...conll.Option) (sent.Sentence, error) {
	pos, perr := strconv.Atoi(key)

	var (
		found sent.Sentence
		i     int
	)

	err := conll.EachFile(path, func(s sent.Sentence) error {
		if (perr == nil && i == pos) || s.Id == key {
			found = s
			return errFound
		}
		i++
		return nil
	}, opts...)

	switch {
	case errors.Is(err, errFound):
		return found, nil
	case err != nil:
		return sent.Sentence{}, err
	}

	if perr == nil {
		return sent.Sentence{}, fmt.Errorf("sentence position %d out of bounds (0-%d)", pos, i-1)
	}
	return sent.Sentence{}, fmt.Errorf("sentence %s not found in %s", key, path)
}
