// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/builtin/candidate"
	"github.com/vechain/jobstake/builtin/job"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/reward"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/builtin/staking/globalstats"
	"github.com/vechain/jobstake/builtin/vault"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var logger = log.WithContext("pkg", "staking")

// Staking orchestrates stakes and withdrawals across jobs, applications and the vault.
type Staking struct {
	addr         thor.Address
	jobs         *job.Ledger
	applications *application.Book
	vault        *vault.Vault
	candidates   *candidate.Service
	stats        *globalstats.Service
}

// New create a new instance.
func New(addr thor.Address, state *state.State, jobs *job.Ledger, applications *application.Book, vault *vault.Vault) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		addr:         addr,
		jobs:         jobs,
		applications: applications,
		vault:        vault,
		candidates:   candidate.New(sctx),
		stats:        globalstats.New(sctx),
	}
}

func (s *Staking) Address() thor.Address {
	return s.addr
}

// Candidate returns the stake of holder on an application, nil if none.
func (s *Staking) Candidate(applicationID thor.UUID, holder thor.Address) (*candidate.Stake, error) {
	return s.candidates.Get(candidate.Key{ApplicationID: applicationID, Holder: holder})
}

func (s *Staking) Totals() (*globalstats.Totals, error) {
	return s.stats.Totals()
}

// Stake locks amount from the caller's token account against a pending application
// and credits the tiered reward for the covered range.
func (s *Staking) Stake(env *xenv.Environment, applicationID thor.UUID, from thor.Address, amount uint64) (rwd uint64, err error) {
	chk := env.NewCheckpoint()
	defer func() {
		if err != nil {
			env.RevertTo(chk)
			rwd = 0
		}
	}()

	err = env.Invoke(s.addr, func() error {
		holder := env.Caller()
		if amount == 0 {
			return reverts.ErrInvalidAmount.Withf("stake amount must be positive")
		}
		app, err := s.applications.Get(applicationID)
		if err != nil {
			return err
		}
		j, err := s.jobs.Get(app.JobID)
		if err != nil {
			return err
		}
		if err := s.vault.CheckHolder(from, holder, j.Unit); err != nil {
			return err
		}

		base, err := s.applications.RecordStake(env, applicationID, amount)
		if err != nil {
			return err
		}
		rwd, err = reward.Calculate(base, amount)
		if err != nil {
			return err
		}
		key := candidate.Key{ApplicationID: applicationID, Holder: holder}
		if _, err := s.candidates.Credit(key, amount, rwd); err != nil {
			return err
		}
		if err := s.jobs.CommitReward(env, app.JobID, rwd); err != nil {
			return err
		}
		if err := s.vault.Transfer(from, j.Escrow, amount); err != nil {
			return err
		}
		if err := s.stats.ApplyStake(amount, rwd); err != nil {
			return errors.Wrap(err, "failed to update totals")
		}

		env.Log(&xenv.Event{
			Name:          "Staked",
			JobID:         app.JobID,
			ApplicationID: applicationID,
			Subject:       holder,
			Amount:        amount,
			Reward:        rwd,
		})
		logger.Debug("staked", "application", applicationID, "holder", holder, "base", base, "amount", amount, "reward", rwd)
		return nil
	})
	return
}

// Unstake withdraws the caller's stake to the token account to. A selected application
// pays principal and reward, a rejected one principal only.
func (s *Staking) Unstake(env *xenv.Environment, applicationID thor.UUID, to thor.Address) (payout uint64, err error) {
	chk := env.NewCheckpoint()
	defer func() {
		if err != nil {
			env.RevertTo(chk)
			payout = 0
		}
	}()

	err = env.Invoke(s.addr, func() error {
		holder := env.Caller()
		key := candidate.Key{ApplicationID: applicationID, Holder: holder}
		stake, err := s.candidates.Get(key)
		if err != nil {
			return err
		}
		if stake.IsEmpty() {
			return reverts.ErrAlreadyUnstaked.Withf("%v has nothing staked on %v", holder, applicationID)
		}
		app, err := s.applications.Get(applicationID)
		if err != nil {
			return err
		}

		paid := false
		switch app.Status {
		case application.StatusSelected:
			if stake.StakedAmount+stake.RewardAmount < stake.StakedAmount {
				return reverts.ErrRewardOverflow.Withf("payout overflows")
			}
			payout = stake.StakedAmount + stake.RewardAmount
			paid = true
		case application.StatusRejected:
			payout = stake.StakedAmount
		case application.StatusSelectedButCannotWithdraw:
			return reverts.ErrSelectedButCantTransfer.Withf("application %v is selected but locked", applicationID)
		default:
			return reverts.ErrStatusNotPending.Withf("application %v is still %v", applicationID, app.Status)
		}

		j, err := s.jobs.Get(app.JobID)
		if err != nil {
			return err
		}
		if err := s.vault.CheckHolder(to, holder, j.Unit); err != nil {
			return err
		}
		if err := s.jobs.Release(env, app.JobID, to, payout); err != nil {
			return err
		}
		if err := s.jobs.SettleReward(env, app.JobID, stake.RewardAmount); err != nil {
			return err
		}
		if err := s.candidates.Settle(key); err != nil {
			return err
		}
		if err := s.stats.ApplyUnstake(stake.StakedAmount, stake.RewardAmount, paid); err != nil {
			return errors.Wrap(err, "failed to update totals")
		}

		env.Log(&xenv.Event{
			Name:          "Unstaked",
			JobID:         app.JobID,
			ApplicationID: applicationID,
			Subject:       holder,
			Amount:        payout,
			Reward:        stake.RewardAmount,
			Status:        app.Status.String(),
		})
		logger.Debug("unstaked", "application", applicationID, "holder", holder, "status", app.Status, "payout", payout)
		return nil
	})
	return
}
