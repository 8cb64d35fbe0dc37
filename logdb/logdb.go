// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var logger = log.WithContext("pkg", "logdb")

// MaxRevision is the highest revision the log can index; sequences keep 32 bits for it.
const MaxRevision = math.MaxUint32

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, time, caller, program, name, jobID, applicationID, subject, amount, reward, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

type LogDB struct {
	path          string
	db            *sql.DB
	insertStmt    *sql.Stmt
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// an in-memory db lives as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	insertStmt, err := db.Prepare(insertEventQuery)
	if err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path,
		db,
		insertStmt,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.insertStmt.Close()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// NewestRevision returns the latest revision that has events, zero if none.
func (db *LogDB) NewestRevision() (uint32, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).Revision(), nil
}

// Prepare creates a batch of events committed at the given revision.
func (db *LogDB) Prepare(revision uint64, time uint64, caller thor.Address) (*Batch, error) {
	if revision > MaxRevision {
		return nil, errors.Errorf("revision %d out of log range", revision)
	}
	return &Batch{
		db:       db,
		revision: uint32(revision),
		time:     time,
		caller:   caller,
	}, nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, newSequence(filter.Range.From, 0))
		stmt += " AND seq >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, newSequence(filter.Range.To, math.MaxInt32))
			stmt += " AND seq <= ?"
		}
	}
	if filter.JobID != nil {
		args = append(args, filter.JobID.Bytes())
		stmt += " AND jobID = ?"
	}
	if filter.ApplicationID != nil {
		args = append(args, filter.ApplicationID.Bytes())
		stmt += " AND applicationID = ?"
	}
	if filter.Subject != nil {
		args = append(args, filter.Subject.Bytes())
		stmt += " AND subject = ?"
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq           sequence
			time          int64
			caller        []byte
			program       []byte
			name          string
			jobID         []byte
			applicationID []byte
			subject       []byte
			amount        int64
			reward        int64
			status        string
		)
		if err := rows.Scan(
			&seq,
			&time,
			&caller,
			&program,
			&name,
			&jobID,
			&applicationID,
			&subject,
			&amount,
			&reward,
			&status,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Revision: seq.Revision(),
			Index:    seq.Index(),
			Time:     uint64(time),
			Caller:   thor.BytesToAddress(caller),
			Program:  thor.BytesToAddress(program),
			Name:     name,
			Subject:  thor.BytesToAddress(subject),
			Amount:   uint64(amount),
			Reward:   uint64(reward),
			Status:   status,
		}
		copy(event.JobID[:], jobID)
		copy(event.ApplicationID[:], applicationID)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Batch collects the events of one committed revision.
type Batch struct {
	db       *LogDB
	revision uint32
	time     uint64
	caller   thor.Address
	events   []*Event
}

// Insert appends events in emission order.
func (b *Batch) Insert(events ...*xenv.Event) *Batch {
	for _, ev := range events {
		b.events = append(b.events, newEvent(b.revision, uint32(len(b.events)), b.time, b.caller, ev))
	}
	return b
}

func (b *Batch) Len() int {
	return len(b.events)
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := b.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes all events of the batch atomically.
func (b *Batch) Commit() error {
	if len(b.events) == 0 {
		return nil
	}
	return b.execInTx(func(tx *sql.Tx) error {
		txStmt := tx.Stmt(b.db.insertStmt)
		for _, ev := range b.events {
			if _, err := txStmt.Exec(
				newSequence(ev.Revision, ev.Index),
				int64(ev.Time),
				ev.Caller.Bytes(),
				ev.Program.Bytes(),
				ev.Name,
				idValue(ev.JobID),
				idValue(ev.ApplicationID),
				addressValue(ev.Subject),
				int64(ev.Amount),
				int64(ev.Reward),
				ev.Status,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func idValue(id thor.UUID) []byte {
	if id.IsZero() {
		return nil
	}
	return id.Bytes()
}

func addressValue(addr thor.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr.Bytes()
}
