// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Stage abstracts changes on program storage.
type Stage struct {
	stater  *Stater
	base    uint64
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes as the next revision.
// It fails with ErrConflict if another stage was committed after the state of this stage was created.
// A stage without changes commits nothing and returns the current head.
func (s *Stage) Commit() (uint64, error) {
	if len(s.order) == 0 {
		return s.stater.Head(), nil
	}
	return s.stater.commit(s.base, s.order, s.changes)
}
