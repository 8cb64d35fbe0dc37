// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes the tiered reward earned by a stake.
//
// A stake of amount on top of an application's cumulative stake base covers the
// interval [base, base+amount). The interval is split at the tier boundaries and
// every piece earns floor(length * num / den) at the multiplier of its tier.
package reward

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/jobstake/builtin/reverts"
)

// Tier is a multiplier num/den applied to stake in [Start, End).
type Tier struct {
	Start uint64
	End   uint64
	Num   uint64
	Den   uint64
}

var tiers = []Tier{
	{Start: 0, End: 3333, Num: 3, Den: 1},
	{Start: 3333, End: 6666, Num: 2, Den: 1},
	{Start: 6666, End: math.MaxUint64, Num: 3, Den: 2},
}

// Tiers returns a copy of the tier table.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Calculate returns the reward for staking amount when base is already staked.
func Calculate(base, amount uint64) (uint64, error) {
	end := base + amount
	if end < base {
		return 0, reverts.ErrRewardOverflow.Withf("stake range overflows: base %d amount %d", base, amount)
	}

	total := new(uint256.Int)
	for _, t := range tiers {
		lo, hi := max(base, t.Start), min(end, t.End)
		if lo >= hi {
			continue
		}
		piece := uint256.NewInt(hi - lo)
		piece.Mul(piece, uint256.NewInt(t.Num))
		piece.Div(piece, uint256.NewInt(t.Den))
		total.Add(total, piece)
	}
	if !total.IsUint64() {
		return 0, reverts.ErrRewardOverflow.Withf("reward %v overflows", total)
	}
	return total.Uint64(), nil
}
