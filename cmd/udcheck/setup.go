package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/storage"
	"github.com/revelaction/udcheck/storage/filesystem"
	"github.com/revelaction/udcheck/storage/sqlite/zombiezen"
)

var dbExts = []string{".db", ".sqlite", ".sqlite3"}

// NewLedgerRepository returns the directory store for a directory and the
// SQLite store for a file. A missing path with a database extension is
// created as a new database.
func NewLedgerRepository(p *Pool, path string) (storage.LedgerRepository, error) {
	if isDir, err := fs.IsDir(path); err == nil && isDir {
		return filesystem.NewLedgerStore(path), nil
	}

	isFile, err := fs.IsFile(path)
	switch {
	case err == nil && isFile:
	case isDBPath(path) && notExist(path):
	default:
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewLedgerStore(pool), nil
}

// runStore is a repository that stamps every written ledger with a run id.
type runStore interface {
	RunId(name string) (string, error)
}

func isDBPath(path string) bool {
	return collections.SliceContains(dbExts, strings.ToLower(filepath.Ext(path)))
}

func notExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

// storePath returns the --store flag, the configured ledger path otherwise.
func storePath(c *cli.Context) string {
	if path := c.String("store"); path != "" {
		return path
	}
	return confOf(c).LedgerPath
}

func storeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "store",
		Aliases: []string{"s"},
		Usage:   "ledger directory or SQLite file",
		EnvVars: []string{"UDCHECK_LEDGER_PATH"},
	}
}

// ledgerRef is a ledger given on the command line: a ledger file, or the
// name of a ledger of the repository.
type ledgerRef struct {
	arg  string
	path string
}

func (r ledgerRef) String() string {
	return r.arg
}

// resolveLedger treats arg as a ledger file if such a file exists.
func resolveLedger(arg string) ledgerRef {
	if isFile, err := fs.IsFile(arg); err == nil && isFile {
		return ledgerRef{arg: arg, path: arg}
	}
	return ledgerRef{arg: arg}
}

// ledgerIO reads and writes the ledgers given on the command line. The
// repository is opened only when a name has to be resolved.
type ledgerIO struct {
	c    *cli.Context
	pool *Pool
	repo storage.LedgerRepository
}

func newLedgerIO(c *cli.Context) *ledgerIO {
	return &ledgerIO{c: c, pool: &Pool{}}
}

func (lio *ledgerIO) repository() (storage.LedgerRepository, error) {
	if lio.repo != nil {
		return lio.repo, nil
	}
	repo, err := NewLedgerRepository(lio.pool, storePath(lio.c))
	if err != nil {
		return nil, err
	}
	lio.repo = repo
	return repo, nil
}

func (lio *ledgerIO) Read(ref ledgerRef) (*ledger.Ledger, error) {
	if ref.path != "" {
		return ledger.ReadFile(ref.path)
	}

	repo, err := lio.repository()
	if err != nil {
		return nil, err
	}
	return repo.Read(ref.arg)
}

// Writer returns the writer that persists the ledger ref.
func (lio *ledgerIO) Writer(ref ledgerRef) (storage.LedgerWriter, error) {
	if ref.path != "" {
		return fileWriter(ref.path), nil
	}

	repo, err := lio.repository()
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (lio *ledgerIO) Write(ref ledgerRef, l *ledger.Ledger) error {
	w, err := lio.Writer(ref)
	if err != nil {
		return err
	}
	return w.Write(ref.arg, l)
}

func (lio *ledgerIO) Close() error {
	return lio.pool.Close()
}

// fileWriter writes a ledger to a fixed file whatever its name.
type fileWriter string

func (f fileWriter) Write(_ string, l *ledger.Ledger) error {
	return l.WriteFile(string(f))
}

// ensureStore creates a missing ledger directory.
func ensureStore(path string) error {
	if !notExist(path) || isDBPath(path) {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}
