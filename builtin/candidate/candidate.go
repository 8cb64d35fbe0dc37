// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/thor"
)

var slotStakes = thor.BytesToBytes32([]byte("candidate-stakes"))

// Key identifies the stake of one holder on one application.
type Key struct {
	ApplicationID thor.UUID
	Holder        thor.Address
}

func (k Key) Bytes() []byte {
	b := make([]byte, 0, len(k.ApplicationID)+len(k.Holder))
	b = append(b, k.ApplicationID[:]...)
	return append(b, k.Holder[:]...)
}

// Stake is what a holder has locked on an application and the reward it earned.
type Stake struct {
	Owner        thor.Address
	StakedAmount uint64
	RewardAmount uint64
}

// IsEmpty reports whether there is nothing to withdraw.
func (s *Stake) IsEmpty() bool {
	return s == nil || s.StakedAmount == 0
}

// Service manages candidate stake accounts.
type Service struct {
	stakes *solidity.Mapping[Key, *Stake]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stakes: solidity.NewMapping[Key, *Stake](sctx, slotStakes),
	}
}

// Get returns the stake, nil if the holder never staked.
func (s *Service) Get(key Key) (*Stake, error) {
	stake, err := s.stakes.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate stake")
	}
	return stake, nil
}

// Credit adds amount and reward to the stake, creating it on first use.
func (s *Service) Credit(key Key, amount, reward uint64) (*Stake, error) {
	stake, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		stake = &Stake{Owner: key.Holder}
	}
	if stake.StakedAmount+amount < stake.StakedAmount || stake.RewardAmount+reward < stake.RewardAmount {
		return nil, reverts.ErrRewardOverflow.Withf("candidate stake of %v overflows", key.Holder)
	}
	stake.StakedAmount += amount
	stake.RewardAmount += reward
	if err := s.stakes.Upsert(key, stake); err != nil {
		return nil, errors.Wrap(err, "failed to credit candidate stake")
	}
	return stake, nil
}

// Settle zeroes the stake after a payout or forfeit. The account itself is kept.
func (s *Service) Settle(key Key) error {
	stake, err := s.Get(key)
	if err != nil {
		return err
	}
	if stake.IsEmpty() {
		return reverts.ErrAlreadyUnstaked
	}
	stake.StakedAmount = 0
	stake.RewardAmount = 0
	return errors.Wrap(s.stakes.Update(key, stake), "failed to settle candidate stake")
}
