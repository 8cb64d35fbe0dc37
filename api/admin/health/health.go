// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/settlement"
)

type StateProgress struct {
	Revision   uint64     `json:"revision"`
	LastCommit *time.Time `json:"lastCommit"`
}

type Status struct {
	Healthy             bool           `json:"healthy"`
	RegistryInitialized bool           `json:"registryInitialized"`
	LogDBReachable      bool           `json:"logDBReachable"`
	State               *StateProgress `json:"state"`
	LogRevision         uint32         `json:"logRevision"`
}

// Health reports whether the engine can serve settlement operations.
type Health struct {
	lock       sync.Mutex
	engine     *settlement.Engine
	lastHead   uint64
	lastCommit time.Time
}

func New(engine *settlement.Engine) *Health {
	return &Health{
		engine:     engine,
		lastHead:   engine.Head(),
		lastCommit: time.Now(),
	}
}

func (h *Health) Status() (*Status, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	head := h.engine.Head()
	if head != h.lastHead {
		h.lastHead = head
		h.lastCommit = time.Now()
	}
	lastCommit := h.lastCommit

	status := &Status{
		State: &StateProgress{
			Revision:   head,
			LastCommit: &lastCommit,
		},
	}

	if _, err := h.engine.Registry(); err != nil {
		if _, ok := reverts.AsRevert(err); !ok {
			return nil, err
		}
	} else {
		status.RegistryInitialized = true
	}

	if rev, err := h.engine.LogDB().NewestRevision(); err == nil {
		status.LogDBReachable = true
		status.LogRevision = rev
	} else {
		logger.Warn("log db unreachable", "err", err)
	}

	status.Healthy = status.RegistryInitialized && status.LogDBReachable
	return status, nil
}
