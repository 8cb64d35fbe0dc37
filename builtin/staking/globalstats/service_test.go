// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
)

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)
	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("Staking")), stater.NewState()))

	require.NoError(t, svc.ApplyStake(2000, 6000))
	require.NoError(t, svc.ApplyStake(3000, 7333))
	require.NoError(t, svc.ApplyUnstake(2000, 6000, true))
	require.NoError(t, svc.ApplyUnstake(3000, 7333, false))
	assert.Error(t, svc.ApplyUnstake(1, 0, true))

	totals, err := svc.Totals()
	require.NoError(t, err)
	assert.True(t, totals.LockedStake.IsZero())
	assert.True(t, totals.RewardsCommitted.IsZero())
	assert.Equal(t, uint64(6000), totals.RewardsPaid.Uint64())
	assert.Equal(t, uint64(7333), totals.RewardsForfeited.Uint64())
}
