package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/storage"
)

func importLedgerCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "import-ledger",
		Usage: "Copy the ledgers of a directory into a SQLite database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "ledger directory", Required: true},
			&cli.StringFlag{Name: "to", Usage: "SQLite file", Required: true},
		},
		Action: func(c *cli.Context) error {
			return copyLedgersCommand(c, ui, true)
		},
	}
}

func exportLedgerCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "export-ledger",
		Usage: "Copy the ledgers of a SQLite database into a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "SQLite file", Required: true},
			&cli.StringFlag{Name: "to", Usage: "ledger directory", Required: true},
		},
		Action: func(c *cli.Context) error {
			return copyLedgersCommand(c, ui, false)
		},
	}
}

// copyLedgersCommand copies every ledger between the two kinds of store.
// toDB selects the direction.
func copyLedgersCommand(c *cli.Context, ui UI, toDB bool) error {
	from, to := c.String("from"), c.String("to")

	if toDB && !isDBPath(to) {
		return argumentError(c, "--to must be a SQLite file (%s)", to)
	}
	if !toDB {
		if isDBPath(to) {
			return argumentError(c, "--to must be a directory (%s)", to)
		}
		if err := ensureStore(to); err != nil {
			return err
		}
	}

	srcPool, dstPool := &Pool{}, &Pool{}
	defer srcPool.Close()
	defer dstPool.Close()

	src, err := NewLedgerRepository(srcPool, from)
	if err != nil {
		return err
	}
	dst, err := NewLedgerRepository(dstPool, to)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Reading ledgers from %s...\n", from)
	infos, err := src.List()
	if err != nil {
		return err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(infos))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count, err := copyLedgers(src, dst, infos, bar.Incr)
	uiprogress.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "Successfully copied %d ledgers from %s to %s\n", count, from, to)
	return nil
}

func copyLedgers(src storage.LedgerReader, dst storage.LedgerWriter, infos []storage.LedgerInfo, incr func() bool) (int, error) {
	count := 0
	for _, info := range infos {
		l, err := src.Read(info.Name)
		if err != nil {
			return count, fmt.Errorf("failed to read ledger %s: %w", info.Name, err)
		}

		if err := dst.Write(info.Name, l); err != nil {
			return count, fmt.Errorf("failed to write ledger %s: %w", info.Name, err)
		}
		count++
		incr()
	}
	return count, nil
}
