// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package settlement runs staking operations as atomic transactions against the state.
package settlement

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/co"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var logger = log.WithContext("pkg", "settlement")

const DefaultMaxRetries = 16

// ErrRevisionsExhausted is returned once the head reaches the highest revision the log db indexes.
// Committing further would leave revisions without recorded events.
var ErrRevisionsExhausted = errors.New("revision range of the log db exhausted")

// Options of the engine.
type Options struct {
	// MaxRetries bounds re-executions after a commit conflict.
	MaxRetries int
}

// Receipt describes a committed operation.
type Receipt struct {
	Revision uint64
	Events   []*xenv.Event
}

// Engine executes operations against committed state.
type Engine struct {
	stater     *state.Stater
	logDB      *logdb.LogDB
	maxRetries int
	// highest revision the engine commits, bounded by what the log db can index
	maxRevision uint64

	// revisions committed but not yet published, and the highest revision
	// below which every event is recorded.
	pubLock   sync.Mutex
	unordered map[uint64]struct{}
	published uint64
	signal    co.Signal
}

// New creates an engine. logDB may be nil, events are then only returned in receipts.
func New(stater *state.Stater, logDB *logdb.LogDB, opts Options) *Engine {
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	maxRevision := uint64(math.MaxUint64)
	if logDB != nil {
		maxRevision = logdb.MaxRevision
	}
	return &Engine{
		stater:      stater,
		logDB:       logDB,
		maxRetries:  retries,
		maxRevision: maxRevision,
		unordered:   make(map[uint64]struct{}),
		published:   stater.Head(),
	}
}

// Head returns the latest committed revision.
func (e *Engine) Head() uint64 {
	return e.stater.Head()
}

func (e *Engine) LogDB() *logdb.LogDB {
	return e.logDB
}

// Published returns the revision up to which all events are recorded.
// It trails Head while events of a committed revision are being written.
func (e *Engine) Published() uint64 {
	e.pubLock.Lock()
	defer e.pubLock.Unlock()
	return e.published
}

// NewTicker returns a waiter woken whenever Published advances.
func (e *Engine) NewTicker() co.Waiter {
	return e.signal.NewWaiter()
}

// publish marks rev as recorded. Revisions are published in order, so a
// reader bounded by Published never skips events written out of order.
func (e *Engine) publish(rev uint64) {
	e.pubLock.Lock()
	e.unordered[rev] = struct{}{}
	advanced := false
	for {
		if _, ok := e.unordered[e.published+1]; !ok {
			break
		}
		delete(e.unordered, e.published+1)
		e.published++
		advanced = true
	}
	e.pubLock.Unlock()

	if advanced {
		e.signal.Broadcast()
	}
}

type operation func(p *builtin.Programs, env *xenv.Environment) error

// execute runs op against a fresh state and commits it, re-running on conflict.
// A failed attempt is re-run as well when the head moved meanwhile, since it may have
// observed a mix of two revisions.
func (e *Engine) execute(ctx context.Context, name string, caller thor.Address, op operation) (*Receipt, error) {
	start := time.Now()
	defer func() {
		metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": name})
	}()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "canceled"})
			return nil, err
		}

		st := e.stater.NewState()
		if st.Revision() >= e.maxRevision {
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "failed"})
			return nil, ErrRevisionsExhausted
		}
		env := xenv.New(st, caller)
		chk := env.NewCheckpoint()

		if err := op(builtin.Bind(st), env); err != nil {
			env.RevertTo(chk)
			if st.Revision() != e.stater.Head() && attempt < e.maxRetries {
				metricConflicts().AddWithLabel(1, map[string]string{"op": name})
				continue
			}
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "reverted"})
			logger.Debug("operation reverted", "op", name, "caller", caller, "err", err)
			return nil, err
		}

		rev, err := st.Stage().Commit()
		if err != nil {
			if errors.Is(err, state.ErrConflict) {
				metricConflicts().AddWithLabel(1, map[string]string{"op": name})
				if attempt < e.maxRetries {
					logger.Trace("commit conflict, retrying", "op", name, "attempt", attempt)
					continue
				}
				err = errors.WithMessagef(err, "%s: gave up after %d attempts", name, attempt+1)
			}
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "failed"})
			return nil, err
		}

		events := env.Events()
		e.writeLogs(rev, caller, events)
		e.publish(rev)
		metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "committed"})
		logger.Debug("operation committed", "op", name, "caller", caller, "revision", rev, "events", len(events))
		return &Receipt{Revision: rev, Events: events}, nil
	}
}

// writeLogs records events of a committed revision. The state is already committed, so failures are only logged.
func (e *Engine) writeLogs(rev uint64, caller thor.Address, events []*xenv.Event) {
	if e.logDB == nil || len(events) == 0 {
		return
	}
	batch, err := e.logDB.Prepare(rev, uint64(time.Now().Unix()), caller)
	if err == nil {
		err = batch.Insert(events...).Commit()
	}
	if err != nil {
		logger.Warn("failed to write settlement events", "revision", rev, "err", err)
	}
}
