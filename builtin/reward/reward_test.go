// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin/reverts"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		base   uint64
		amount uint64
		want   uint64
	}{
		{"zero", 0, 0, 0},
		{"first tier", 0, 2000, 6000},
		{"first tier full", 0, 3333, 9999},
		{"second tier full", 3333, 3333, 6666},
		{"spans two tiers", 0, 5000, 13333},
		{"spans three tiers", 0, 8000, 18666},
		{"starts in second tier", 3333, 5000, 9166},
		{"third tier", 6666, 1001, 1501},
		{"cumulative after 2000", 2000, 2000, 1333*3 + 667*2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.base, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateThirdTierIsHalfAgain(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 200 {
		var x uint32
		f.Fuzz(&x)
		got, err := Calculate(6666, uint64(x))
		require.NoError(t, err)
		assert.Equal(t, uint64(x)*3/2, got)
	}
}

func TestCalculateOverflow(t *testing.T) {
	_, err := Calculate(math.MaxUint64, 1)
	assert.ErrorIs(t, err, reverts.ErrRewardOverflow)

	_, err = Calculate(0, math.MaxUint64)
	assert.ErrorIs(t, err, reverts.ErrRewardOverflow)
}

func TestTierMonotonicity(t *testing.T) {
	// a stake never earns more than the same stake placed earlier
	f := fuzz.New().NilChance(0)
	for range 2000 {
		var a, b, amount uint16
		f.Fuzz(&a)
		f.Fuzz(&b)
		f.Fuzz(&amount)
		lo, hi := uint64(min(a, b)), uint64(max(a, b))
		rLo, err := Calculate(lo, uint64(amount))
		require.NoError(t, err)
		rHi, err := Calculate(hi, uint64(amount))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rLo, rHi, "amount %d at base %d vs %d", amount, lo, hi)
	}
}

func TestTierMonotonicityAtBoundaries(t *testing.T) {
	// each tier share is rounded down on its own, so check every base around the boundaries
	for _, boundary := range []uint64{3333, 6666} {
		for amount := uint64(0); amount <= 40; amount++ {
			prev, err := Calculate(boundary-30, amount)
			require.NoError(t, err)
			for base := boundary - 29; base <= boundary+30; base++ {
				got, err := Calculate(base, amount)
				require.NoError(t, err)
				require.LessOrEqual(t, got, prev, "amount %d at base %d", amount, base)
				prev = got
			}
		}
	}
}

func TestCalculateStraddlingThirdTier(t *testing.T) {
	tests := []struct {
		base   uint64
		amount uint64
		want   uint64
	}{
		{6664, 2, 4}, {6664, 3, 5}, {6664, 4, 7}, {6664, 5, 8},
		{6665, 2, 3}, {6665, 3, 5}, {6665, 4, 6}, {6665, 5, 8},
		{6666, 2, 3}, {6666, 3, 4}, {6666, 4, 6}, {6666, 5, 7},
		// the second tier share is exact, the third is floored alone
		{3332, 3335, 3 + 3333*2 + 1},
	}
	for _, tt := range tests {
		got, err := Calculate(tt.base, tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "base %d amount %d", tt.base, tt.amount)
	}
}

func TestTiers(t *testing.T) {
	ts := Tiers()
	require.Len(t, ts, 3)
	ts[0].Num = 100
	assert.Equal(t, uint64(3), Tiers()[0].Num)
	for i := 1; i < len(ts); i++ {
		assert.Equal(t, ts[i-1].End, ts[i].Start)
	}
}
