package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/udcheck/consistency"
	"github.com/revelaction/udcheck/ledger"
	"github.com/revelaction/udcheck/storage"
)

// LedgerStore keeps ledgers in a SQLite database, one row per group and per
// occurrence line, positions preserved.
type LedgerStore struct {
	pool *sqlitex.Pool
}

var _ storage.LedgerRepository = (*LedgerStore)(nil)

func NewLedgerStore(pool *sqlitex.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

func (s *LedgerStore) List() ([]storage.LedgerInfo, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	const query = `SELECT l.name, l.run_id,
		(SELECT COUNT(*) FROM ledger_groups g WHERE g.ledger = l.name),
		(SELECT COUNT(*) FROM ledger_lines n WHERE n.ledger = l.name),
		(SELECT COUNT(*) FROM ledger_lines n WHERE n.ledger = l.name AND n.judgment != '')
		FROM ledgers l ORDER BY l.name`

	infos := []storage.LedgerInfo{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			infos = append(infos, storage.LedgerInfo{
				Name:        stmt.ColumnText(0),
				RunId:       stmt.ColumnText(1),
				Pairs:       stmt.ColumnInt(2),
				Occurrences: stmt.ColumnInt(3),
				Annotated:   stmt.ColumnInt(4),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return infos, nil
}

func (s *LedgerStore) Read(name string) (*ledger.Ledger, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM ledgers WHERE name = ?", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("ledger not found: %s", name)
	}

	l := ledger.New()
	err = sqlitex.Execute(conn, "SELECT first, second FROM ledger_groups WHERE ledger = ? ORDER BY pos", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			l.AddGroup(consistency.LemmaPair{First: stmt.ColumnText(0), Second: stmt.ColumnText(1)})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	groups := l.Groups()
	err = sqlitex.Execute(conn, "SELECT group_pos, kinds, descriptor, occurrence, judgment FROM ledger_lines WHERE ledger = ? ORDER BY group_pos, pos", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			pos := stmt.ColumnInt(0)
			if pos < 0 || pos >= len(groups) {
				return fmt.Errorf("ledger %s: line of unknown group %d", name, pos)
			}

			j, err := ledger.ParseJudgment(stmt.ColumnText(4))
			if err != nil {
				return fmt.Errorf("ledger %s: %w", name, err)
			}

			groups[pos].Lines = append(groups[pos].Lines, ledger.Line{
				Kinds:      stmt.ColumnText(1),
				Descriptor: stmt.ColumnText(2),
				Occurrence: stmt.ColumnText(3),
				Judgment:   j,
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// Write replaces the ledger name in one transaction and stamps it with a
// new run id.
func (s *LedgerStore) Write(name string, l *ledger.Ledger) (err error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	for _, table := range []string{"ledger_lines", "ledger_groups", "ledgers"} {
		col := "ledger"
		if table == "ledgers" {
			col = "name"
		}
		err = sqlitex.Execute(conn, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col), &sqlitex.ExecOptions{
			Args: []interface{}{name},
		})
		if err != nil {
			return fmt.Errorf("failed to delete ledger %s: %w", name, err)
		}
	}

	runId := uuid.New().String()
	err = sqlitex.Execute(conn, "INSERT INTO ledgers (name, run_id, written_at) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []interface{}{name, runId, time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	for gpos, g := range l.Groups() {
		err = sqlitex.Execute(conn, "INSERT INTO ledger_groups (ledger, pos, first, second) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{name, gpos, g.Pair.First, g.Pair.Second},
		})
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for lpos, line := range g.Lines {
			err = sqlitex.Execute(conn, "INSERT INTO ledger_lines (ledger, group_pos, pos, kinds, descriptor, occurrence, judgment) VALUES (?, ?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{name, gpos, lpos, line.Kinds, line.Descriptor, line.Occurrence, line.Judgment.String()},
			})
			if err != nil {
				return fmt.Errorf("failed to insert line: %w", err)
			}
		}
	}

	log.Debug().Str("ledger", name).Str("run", runId).Int("lines", l.Size()).Msg("ledger written")
	return nil
}

// RunId returns the run id of the stored ledger name.
func (s *LedgerStore) RunId(name string) (string, error) {
	conn, err := s.pool.Take(context.TODO())
	if err != nil {
		return "", err
	}
	defer s.pool.Put(conn)

	var runId string
	err = sqlitex.Execute(conn, "SELECT run_id FROM ledgers WHERE name = ?", &sqlitex.ExecOptions{
		Args: []interface{}{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			runId = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", err
	}
	if runId == "" {
		return "", fmt.Errorf("ledger not found: %s", name)
	}

	return runId, nil
}
