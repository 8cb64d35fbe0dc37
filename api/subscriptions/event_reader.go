// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/jobstake/api/logs"
	"github.com/vechain/jobstake/logdb"
)

// eventReader reads matching events revision by revision, starting after pos.
type eventReader struct {
	db     *logdb.LogDB
	filter logdb.EventFilter
	pos    uint32
	limit  uint32
}

func newEventReader(db *logdb.LogDB, filter *logdb.EventFilter, pos uint32, limit uint32) *eventReader {
	return &eventReader{
		db:     db,
		filter: *filter,
		pos:    pos,
		limit:  limit,
	}
}

// Read returns events of revisions in (pos, min(published, pos+limit)] and
// advances pos. A nil result with nil error means nothing new was published.
func (r *eventReader) Read(ctx context.Context, published uint32) ([]*logs.FilteredEvent, error) {
	if published <= r.pos {
		return nil, nil
	}
	to := published
	if to-r.pos > r.limit {
		to = r.pos + r.limit
	}

	filter := r.filter
	filter.Range = &logdb.Range{From: r.pos + 1, To: to}
	filter.Order = logdb.ASC
	events, err := r.db.FilterEvents(ctx, &filter)
	if err != nil {
		return nil, err
	}
	r.pos = to

	msgs := make([]*logs.FilteredEvent, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, logs.ConvertEvent(ev))
	}
	return msgs, nil
}

// Behind reports whether more published revisions are left to read.
func (r *eventReader) Behind(published uint32) bool {
	return published > r.pos
}
