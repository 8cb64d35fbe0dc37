// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/thor"
)

type Meta struct {
	Revision uint32       `json:"revision"`
	Index    uint32       `json:"index"`
	Time     uint64       `json:"time"`
	Caller   thor.Address `json:"caller"`
}

type FilteredEvent struct {
	Program       thor.Address  `json:"program"`
	Name          string        `json:"name"`
	JobID         *thor.UUID    `json:"jobID,omitempty"`
	ApplicationID *thor.UUID    `json:"applicationID,omitempty"`
	Subject       *thor.Address `json:"subject,omitempty"`
	Amount        uint64        `json:"amount"`
	Reward        uint64        `json:"reward"`
	Status        string        `json:"status,omitempty"`
	Meta          Meta          `json:"meta"`
}

// ConvertEvent renders a stored event, omitting unset ids.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	out := &FilteredEvent{
		Program: ev.Program,
		Name:    ev.Name,
		Amount:  ev.Amount,
		Reward:  ev.Reward,
		Status:  ev.Status,
		Meta: Meta{
			Revision: ev.Revision,
			Index:    ev.Index,
			Time:     ev.Time,
			Caller:   ev.Caller,
		},
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
