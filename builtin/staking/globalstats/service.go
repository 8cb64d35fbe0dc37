// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/holiman/uint256"

	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/thor"
)

var (
	slotLockedStake     = thor.BytesToBytes32([]byte("total-stake"))
	slotRewardsPaid     = thor.BytesToBytes32([]byte("rewards-paid"))
	slotRewardsForfeit  = thor.BytesToBytes32([]byte("rewards-forfeited"))
	slotCommittedReward = thor.BytesToBytes32([]byte("rewards-committed"))
)

// Totals is a snapshot of the platform-wide staking totals.
type Totals struct {
	LockedStake      *uint256.Int
	RewardsCommitted *uint256.Int
	RewardsPaid      *uint256.Int
	RewardsForfeited *uint256.Int
}

// Service manages platform-wide staking totals.
type Service struct {
	lockedStake      *solidity.Uint256
	rewardsCommitted *solidity.Uint256
	rewardsPaid      *solidity.Uint256
	rewardsForfeited *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		lockedStake:      solidity.NewUint256(sctx, slotLockedStake),
		rewardsCommitted: solidity.NewUint256(sctx, slotCommittedReward),
		rewardsPaid:      solidity.NewUint256(sctx, slotRewardsPaid),
		rewardsForfeited: solidity.NewUint256(sctx, slotRewardsForfeit),
	}
}

// ApplyStake accounts a new stake and the reward it committed.
func (s *Service) ApplyStake(amount, reward uint64) error {
	if err := s.lockedStake.Add(uint256.NewInt(amount)); err != nil {
		return err
	}
	return s.rewardsCommitted.Add(uint256.NewInt(reward))
}

// ApplyUnstake accounts a withdrawal. The reward is paid when paid is set, forfeited otherwise.
func (s *Service) ApplyUnstake(amount, reward uint64, paid bool) error {
	if err := s.lockedStake.Sub(uint256.NewInt(amount)); err != nil {
		return err
	}
	if err := s.rewardsCommitted.Sub(uint256.NewInt(reward)); err != nil {
		return err
	}
	if paid {
		return s.rewardsPaid.Add(uint256.NewInt(reward))
	}
	return s.rewardsForfeited.Add(uint256.NewInt(reward))
}

func (s *Service) Totals() (*Totals, error) {
	locked, err := s.lockedStake.Get()
	if err != nil {
		return nil, err
	}
	committed, err := s.rewardsCommitted.Get()
	if err != nil {
		return nil, err
	}
	paid, err := s.rewardsPaid.Get()
	if err != nil {
		return nil, err
	}
	forfeited, err := s.rewardsForfeited.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{
		LockedStake:      locked,
		RewardsCommitted: committed,
		RewardsPaid:      paid,
		RewardsForfeited: forfeited,
	}, nil
}
