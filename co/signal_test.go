// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestSignal(t *testing.T) {
	var s Signal
	w := s.NewWaiter()

	select {
	case <-w.C():
		t.Fatal("woken without broadcast")
	default:
	}

	// broadcast before waiting is still observed
	s.Broadcast()
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("missed broadcast")
	}

	select {
	case <-w.C():
		t.Fatal("woken twice by one broadcast")
	default:
	}

	var g errgroup.Group
	woken := make(chan struct{}, 3)
	for range 3 {
		w := s.NewWaiter()
		g.Go(func() error {
			<-w.C()
			woken <- struct{}{}
			return nil
		})
	}
	s.Broadcast()
	assert.NoError(t, g.Wait())
	assert.Len(t, woken, 3)
}
