package main

import (
	"path/filepath"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/correct"
	"github.com/revelaction/udcheck/render"
)

func correctCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "correct",
		Usage:     "Check the relations of a treebank against reference treebanks",
		ArgsUsage: "TARGET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ref", Aliases: []string{"r"}, Usage: "directory of reference treebanks"},
			&cli.StringFlag{Name: "layout", Usage: "column layout, ud or shifted"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text or json"},
		},
		Action: func(c *cli.Context) error {
			return correctCommand(c, ui)
		},
	}
}

func correctCommand(c *cli.Context, ui UI) error {
	if c.NArg() != 1 {
		return argumentError(c, "exactly one target treebank needed")
	}
	target := c.Args().First()

	dir := c.String("ref")
	if dir == "" {
		dir = confOf(c).ReferencePath
	}
	if dir == "" {
		return argumentError(c, "no reference directory given (--ref or referencePath)")
	}

	layout, err := layoutOption(c)
	if err != nil {
		return err
	}

	r, err := render.New(c.String("format"), ui.Out)
	if err != nil {
		return argumentError(c, "%v", err)
	}

	paths, err := correct.Files(dir)
	if err != nil {
		return err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(paths))
	bar.AppendCompleted()
	bar.PrependElapsed()
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		if b.Current() == 0 {
			return ""
		}
		return filepath.Base(paths[b.Current()-1])
	})

	ref, err := correct.LoadDir(dir, func(string) { bar.Incr() }, layout)
	uiprogress.Stop()
	if err != nil {
		return err
	}

	report, err := ref.CheckFile(target, layout)
	if err != nil {
		return err
	}

	return r.Correct(report)
}
