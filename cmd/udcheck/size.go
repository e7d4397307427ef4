package main

import (
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/render"
	"github.com/revelaction/udcheck/stat"
)

func sizeCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "size",
		Usage:     "Show sentence and word counts of treebanks",
		ArgsUsage: "TREEBANK...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Usage: "column layout, ud or shifted"},
		},
		Action: func(c *cli.Context) error {
			return sizeCommand(c, ui)
		},
	}
}

func sizeCommand(c *cli.Context, ui UI) error {
	paths, err := treebankArgs(c)
	if err != nil {
		return err
	}

	layout, err := layoutOption(c)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()

	var bar *uiprogress.Bar
	if len(paths) > 1 {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(paths))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	err = eachTreebank(paths, hdl, bar, layout)
	if bar != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}

	render.NewRenderer(ui.Out).Stats(hdl.Get())
	return nil
}

func eachTreebank(paths []string, hdl *stat.Handler, bar *uiprogress.Bar, opts ...conll.Option) error {
	for _, path := range paths {
		hdl.AggregateFile()
		if err := conll.EachFile(path, hdl.Aggregate, opts...); err != nil {
			return err
		}
		if bar != nil {
			bar.Incr()
		}
	}
	return nil
}
