package storage

import (
	"github.com/revelaction/udcheck/ledger"
)

// LedgerInfo describes a stored ledger without its lines.
type LedgerInfo struct {
	Name string

	// RunId identifies the write that produced the stored version. Empty
	// for backends that do not record it.
	RunId string

	Pairs       int
	Occurrences int
	Annotated   int
}

// LedgerReader defines read operations for ledger storage
type LedgerReader interface {
	// List returns the stored ledgers sorted by name
	List() ([]LedgerInfo, error)

	// Read returns a ledger by name
	Read(name string) (*ledger.Ledger, error)
}

// LedgerWriter defines write operations for ledger storage
type LedgerWriter interface {
	// Write persists a ledger under name, replacing any previous version
	Write(name string, l *ledger.Ledger) error
}

// LedgerRepository combines read and write operations
type LedgerRepository interface {
	LedgerReader
	LedgerWriter
}

// Info returns the description of a ledger held in memory.
func Info(name string, l *ledger.Ledger) LedgerInfo {
	return LedgerInfo{
		Name:        name,
		Pairs:       l.Pairs(),
		Occurrences: l.Size(),
		Annotated:   l.Annotated(),
	}
}
