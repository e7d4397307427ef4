package main

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/udcheck/storage/sqlite/zombiezen"
)

// Pool keeps the ledger databases opened by a command, one connection pool
// per database file, until Close.
type Pool struct {
	dbs map[string]*sqlitex.Pool
}

// Open returns the connection pool of the ledger database at path. The
// database is opened, and its tables created, on first use.
func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	key := filepath.Clean(path)
	if db, ok := p.dbs[key]; ok {
		return db, nil
	}

	db, err := zombiezen.OpenLedgerDB(key)
	if err != nil {
		return nil, err
	}

	if p.dbs == nil {
		p.dbs = map[string]*sqlitex.Pool{}
	}
	p.dbs[key] = db

	log.Debug().Str("db", key).Msg("ledger database opened")
	return db, nil
}

// Close closes every opened database.
func (p *Pool) Close() error {
	var errs []error
	for key, db := range p.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.dbs, key)
	}
	return errors.Join(errs...)
}
