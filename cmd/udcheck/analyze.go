package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/conll"
	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/render"
)

func analyzeCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Detect inconsistent annotations and write the blank ledger",
		ArgsUsage: "TREEBANK...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-nil", Usage: "do not compare unrelated with related occurrences"},
			&cli.BoolFlag{Name: "internal", Usage: "ignore related occurrences of adjacent words"},
			&cli.BoolFlag{Name: "internal-nil", Usage: "ignore unrelated occurrences of adjacent words"},
			&cli.BoolFlag{Name: "dependency", Usage: "context errors also need the same head dependency"},
			&cli.BoolFlag{Name: "no-word-order", Usage: "do not compare relations that only differ in direction"},
			&cli.BoolFlag{Name: "pos", Usage: "group by part of speech and features instead of lemma"},
			&cli.Int64Flag{Name: "seed", Usage: "seed of the lemma pair order"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "files analyzed in parallel"},
			&cli.StringFlag{Name: "layout", Usage: "column layout, ud or shifted"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: render.Defaultformat, Usage: "ledger or json"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the result to a file"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "also store the ledger under this name"},
			storeFlag(),
			&cli.BoolFlag{Name: "summary", Usage: "print the counters of the analysis to stderr"},
		},
		Action: func(c *cli.Context) error {
			return analyzeCommand(c, ui)
		},
	}
}

// analysisOptions applies the flags on top of the configured options.
func analysisOptions(c *cli.Context) consistency.Options {
	opts := confOf(c).Analysis

	if c.Bool("no-nil") {
		opts.IncludeNil = false
	}
	if c.Bool("internal") {
		opts.RequireInternalContext = true
	}
	if c.Bool("internal-nil") {
		opts.RequireInternalContextForNil = true
	}
	if c.Bool("dependency") {
		opts.UseHeadDependency = true
	}
	if c.Bool("no-word-order") {
		opts.IgnoreWordOrder = true
	}
	if c.Bool("pos") {
		opts.KeyByMorphology = true
	}
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		opts.Seed = &seed
	}

	return opts
}

// layoutOption returns the column layout of the --layout flag or the
// configuration.
func layoutOption(c *cli.Context) (conll.Option, error) {
	conf := confOf(c)
	if c.IsSet("layout") {
		switch c.String("layout") {
		case "ud":
			return conll.WithLayout(conll.LayoutUD), nil
		case "shifted":
			return conll.WithLayout(conll.LayoutShifted), nil
		default:
			return nil, argumentError(c, "allowed layouts are ud, shifted")
		}
	}
	return conll.WithLayout(conf.ConllLayout()), nil
}

// treebankArgs checks that every argument is a file.
func treebankArgs(c *cli.Context) ([]string, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return nil, argumentError(c, "no treebank file given")
	}

	for _, p := range paths {
		isFile, err := fs.IsFile(p)
		if err != nil || !isFile {
			return nil, fmt.Errorf("treebank file not found: %s", p)
		}
	}
	return paths, nil
}

func analyzeCommand(c *cli.Context, ui UI) error {
	paths, err := treebankArgs(c)
	if err != nil {
		return err
	}

	layout, err := layoutOption(c)
	if err != nil {
		return err
	}

	jobs := confOf(c).Jobs
	if c.IsSet("jobs") {
		jobs = c.Int("jobs")
	}

	opts := analysisOptions(c)
	log.Info().
		Strs("files", paths).
		Interface("options", opts).
		Msg("analyzing")

	var done func(string)
	if len(paths) > 1 {
		uiprogress.Start()
		bar := uiprogress.AddBar(len(paths))
		bar.AppendCompleted()
		bar.PrependElapsed()
		done = func(string) { bar.Incr() }
	}

	report, err := consistency.AnalyzeFiles(c.Context, paths, opts, jobs, done, layout)
	if done != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}

	if c.Bool("summary") {
		render.NewRenderer(ui.Err).Summary(report)
	}

	if err := writeReport(c, ui, report); err != nil {
		return err
	}

	name := c.String("name")
	if name == "" {
		return nil
	}

	path := storePath(c)
	if err := ensureStore(path); err != nil {
		return err
	}

	pool := &Pool{}
	defer pool.Close()

	repo, err := NewLedgerRepository(pool, path)
	if err != nil {
		return err
	}

	if err := repo.Write(name, ledger.FromReport(report)); err != nil {
		return fmt.Errorf("failed to store ledger %s: %w", name, err)
	}

	ev := log.Info().Str("name", name).Str("store", path)
	if rs, ok := repo.(runStore); ok {
		runId, err := rs.RunId(name)
		if err != nil {
			return err
		}
		ev = ev.Str("run", runId)
		fmt.Fprintf(ui.Err, "ledger %s stored, run %s\n", name, runId)
	}
	ev.Msg("ledger stored")
	return nil
}

// writeReport renders the report to --out or the standard output.
func writeReport(c *cli.Context, ui UI, report consistency.Report) error {
	path := c.String("out")
	if path == "" {
		r, err := render.New(c.String("format"), ui.Out)
		if err != nil {
			return argumentError(c, "%v", err)
		}
		return r.Report(report)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	r, err := render.New(c.String("format"), bw)
	if err != nil {
		return argumentError(c, "%v", err)
	}
	if err := r.Report(report); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
