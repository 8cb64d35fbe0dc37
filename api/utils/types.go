// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

// Event is the json form of a settlement event.
type Event struct {
	Program       thor.Address  `json:"program"`
	Name          string        `json:"name"`
	JobID         *thor.UUID    `json:"jobID,omitempty"`
	ApplicationID *thor.UUID    `json:"applicationID,omitempty"`
	Subject       *thor.Address `json:"subject,omitempty"`
	Amount        uint64        `json:"amount"`
	Reward        uint64        `json:"reward"`
	Status        string        `json:"status,omitempty"`
}

func NewEvent(ev *xenv.Event) *Event {
	out := &Event{
		Program: ev.Program,
		Name:    ev.Name,
		Amount:  ev.Amount,
		Reward:  ev.Reward,
		Status:  ev.Status,
	}
	if !ev.JobID.IsZero() {
		id := ev.JobID
		out.JobID = &id
	}
	if !ev.ApplicationID.IsZero() {
		id := ev.ApplicationID
		out.ApplicationID = &id
	}
	if !ev.Subject.IsZero() {
		s := ev.Subject
		out.Subject = &s
	}
	return out
}

// Receipt is the json form of a committed operation.
type Receipt struct {
	Revision uint64   `json:"revision"`
	Events   []*Event `json:"events"`
}

func NewReceipt(r *settlement.Receipt) *Receipt {
	out := &Receipt{
		Revision: r.Revision,
		Events:   make([]*Event, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		out.Events = append(out.Events, NewEvent(ev))
	}
	return out
}
