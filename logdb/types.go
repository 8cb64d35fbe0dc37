// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

// Event is a settlement event as stored in db.
type Event struct {
	Revision      uint32
	Index         uint32
	Time          uint64
	Caller        thor.Address
	Program       thor.Address
	Name          string
	JobID         thor.UUID
	ApplicationID thor.UUID
	Subject       thor.Address
	Amount        uint64
	Reward        uint64
	Status        string
}

func newEvent(revision uint32, index uint32, time uint64, caller thor.Address, ev *xenv.Event) *Event {
	return &Event{
		Revision:      revision,
		Index:         index,
		Time:          time,
		Caller:        caller,
		Program:       ev.Program,
		Name:          ev.Name,
		JobID:         ev.JobID,
		ApplicationID: ev.ApplicationID,
		Subject:       ev.Subject,
		Amount:        ev.Amount,
		Reward:        ev.Reward,
		Status:        ev.Status,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive revision range. To below From means unbounded.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter filter
type EventFilter struct {
	JobID         *thor.UUID
	ApplicationID *thor.UUID
	Subject       *thor.Address
	Name          string
	Range         *Range
	Options       *Options
	Order         Order // default asc
}
