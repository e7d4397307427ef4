package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/storage"
)

// Ext is the file extension of ledger files.
const Ext = ".ledger"

// LedgerStore keeps every ledger as a text file of a directory.
type LedgerStore struct {
	root string
}

var _ storage.LedgerRepository = (*LedgerStore)(nil)

func NewLedgerStore(root string) *LedgerStore {
	return &LedgerStore{root: root}
}

func (ls *LedgerStore) names() ([]string, error) {
	files, err := os.ReadDir(ls.root)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != Ext {
			continue
		}

		names = append(names, strings.TrimSuffix(file.Name(), Ext))
	}

	sort.Strings(names)
	return names, nil
}

// Path returns the file of the ledger name.
func (ls *LedgerStore) Path(name string) string {
	return filepath.Join(ls.root, name+Ext)
}

func (ls *LedgerStore) List() ([]storage.LedgerInfo, error) {
	names, err := ls.names()
	if err != nil {
		return nil, err
	}

	infos := make([]storage.LedgerInfo, 0, len(names))
	for _, n := range names {
		l, err := ls.Read(n)
		if err != nil {
			return nil, err
		}

		infos = append(infos, storage.Info(n, l))
	}

	return infos, nil
}

func (ls *LedgerStore) Read(name string) (*ledger.Ledger, error) {
	l, err := ledger.ReadFile(ls.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ledger not found: %s", name)
		}
		return nil, err
	}
	return l, nil
}

func (ls *LedgerStore) Write(name string, l *ledger.Ledger) error {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid ledger name %q", name)
	}
	return l.WriteFile(ls.Path(name))
}
