// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package application

import (
	"github.com/vechain/jobstake/builtin/reverts"
)

// Status is the hiring decision of an application.
type Status uint8

const (
	StatusPending Status = iota
	StatusSelected
	StatusSelectedButCannotWithdraw
	StatusRejected
)

var statusNames = [...]string{
	StatusPending:                   "Pending",
	StatusSelected:                  "Selected",
	StatusSelectedButCannotWithdraw: "SelectedButCannotWithdraw",
	StatusRejected:                  "Rejected",
}

func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

func (s Status) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return statusNames[s]
}

// ParseStatus parses a status name.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, reverts.ErrInvalidStatus.Withf("unknown status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, reverts.ErrInvalidStatus.Withf("unknown status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
