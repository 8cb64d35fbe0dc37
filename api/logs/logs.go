// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"math"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/thor"
)

type Logs struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		db:    db,
		limit: logsLimit,
	}
}

// ParseCriteria reads the event criteria shared by queries and subscriptions:
// application, job, subject and name.
func ParseCriteria(query url.Values) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		Name:  query.Get("name"),
		Order: logdb.ASC,
	}

	if s := query.Get("application"); s != "" {
		id, err := thor.ParseUUID(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "application"))
		}
		filter.ApplicationID = &id
	}
	if s := query.Get("job"); s != "" {
		id, err := thor.ParseUUID(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "job"))
		}
		filter.JobID = &id
	}
	if s := query.Get("subject"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "subject"))
		}
		filter.Subject = &addr
	}
	return filter, nil
}

func (l *Logs) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	query := req.URL.Query()
	filter, err := ParseCriteria(query)
	if err != nil {
		return nil, err
	}

	switch order := query.Get("order"); order {
	case "", string(logdb.ASC):
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: unsupported value %q", order))
	}

	from, err := utils.Uint64Query(req, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := utils.Uint64Query(req, "to", math.MaxUint32)
	if err != nil {
		return nil, err
	}
	if from > math.MaxUint32 || to > math.MaxUint32 {
		return nil, utils.BadRequest(errors.New("range: revision out of range"))
	}
	if to < from {
		return nil, utils.BadRequest(errors.New("range: to is below from"))
	}
	filter.Range = &logdb.Range{From: uint32(from), To: uint32(to)}

	offset, err := utils.Uint64Query(req, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := utils.Uint64Query(req, "limit", l.limit)
	if err != nil {
		return nil, err
	}
	if limit > l.limit {
		return nil, utils.Forbidden(errors.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit))
	}
	if offset > math.MaxInt64 {
		return nil, utils.BadRequest(errors.New("offset: out of range"))
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := l.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := l.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /logs").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
}
