package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/render"
	"github.com/revelaction/udcheck/stat"
)

func transferCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Copy the judgments of a ledger into another one",
		ArgsUsage: "SRC DST",
		Flags:     []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			return transferCommand(c, ui)
		},
	}
}

func compareCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare the occurrences of two ledgers",
		ArgsUsage: "FIRST SECOND",
		Flags:     []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			return compareCommand(c, ui)
		},
	}
}

func statCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "Show the judgment statistics of a ledger",
		ArgsUsage: "LEDGER",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text or json"},
		},
		Action: func(c *cli.Context) error {
			return statCommand(c, ui)
		},
	}
}

func lsCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List the ledgers of the store",
		Flags: []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			return lsCommand(c, ui)
		},
	}
}

// ledgerArgs resolves exactly n ledger arguments.
func ledgerArgs(c *cli.Context, n int) ([]ledgerRef, error) {
	if c.NArg() != n {
		return nil, argumentError(c, "%d ledgers needed, got %d", n, c.NArg())
	}

	refs := make([]ledgerRef, 0, n)
	for _, arg := range c.Args().Slice() {
		refs = append(refs, resolveLedger(arg))
	}
	return refs, nil
}

func readLedgers(lio *ledgerIO, refs []ledgerRef) ([]*ledger.Ledger, error) {
	ledgers := make([]*ledger.Ledger, 0, len(refs))
	for _, ref := range refs {
		l, err := lio.Read(ref)
		if err != nil {
			return nil, fmt.Errorf("ledger %s: %w", ref, err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, nil
}

func transferCommand(c *cli.Context, ui UI) error {
	refs, err := ledgerArgs(c, 2)
	if err != nil {
		return err
	}

	lio := newLedgerIO(c)
	defer lio.Close()

	ledgers, err := readLedgers(lio, refs)
	if err != nil {
		return err
	}

	res := ledger.Transfer(ledgers[0], ledgers[1])
	if err := lio.Write(refs[1], ledgers[1]); err != nil {
		return err
	}

	log.Info().
		Str("from", refs[0].String()).
		Str("to", refs[1].String()).
		Int("transferred", res.Transferred).
		Msg("judgments transferred")

	render.NewRenderer(ui.Out).Transfer(res)
	return nil
}

func compareCommand(c *cli.Context, ui UI) error {
	refs, err := ledgerArgs(c, 2)
	if err != nil {
		return err
	}

	lio := newLedgerIO(c)
	defer lio.Close()

	ledgers, err := readLedgers(lio, refs)
	if err != nil {
		return err
	}

	cmp := stat.Compare(ledgers[0], ledgers[1])
	render.NewRenderer(ui.Out).Comparison(cmp, refs[0].String(), refs[1].String())
	return nil
}

func statCommand(c *cli.Context, ui UI) error {
	refs, err := ledgerArgs(c, 1)
	if err != nil {
		return err
	}

	lio := newLedgerIO(c)
	defer lio.Close()

	ledgers, err := readLedgers(lio, refs)
	if err != nil {
		return err
	}

	js := stat.Judgments(ledgers[0])

	switch c.String("format") {
	case "text":
		render.NewRenderer(ui.Out).Judgments(js)
		return nil
	case "json":
		return render.NewJSONRenderer(ui.Out).Value(js)
	}
	return argumentError(c, "allowed formats are text, json")
}

func lsCommand(c *cli.Context, ui UI) error {
	lio := newLedgerIO(c)
	defer lio.Close()

	repo, err := lio.repository()
	if err != nil {
		return err
	}

	infos, err := repo.List()
	if err != nil {
		return err
	}

	return render.NewRenderer(ui.Out).Ledgers(infos)
}
