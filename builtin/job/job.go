// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package job

import (
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/registry"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/builtin/vault"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var (
	logger = log.WithContext("pkg", "job")

	slotJobs = thor.BytesToBytes32([]byte("jobs"))
)

// Job is a posting that applications stake against.
type Job struct {
	Authority               thor.Address
	MaxAmountPerApplication uint64
	Unit                    thor.Address
	Escrow                  thor.Address
	TotalRewardToBeGiven    uint64
}

// EscrowAddress derives the escrow token account of a job.
func EscrowAddress(id thor.UUID) thor.Address {
	return thor.DeriveAddress([]byte("escrow"), id.Bytes())
}

// Ledger keeps jobs and their escrow.
type Ledger struct {
	addr     thor.Address
	staking  thor.Address
	registry *registry.Registry
	vault    *vault.Vault
	jobs     *solidity.Mapping[thor.UUID, *Job]
}

// New create a new instance. Guarded operations accept only calls entering through staking.
func New(addr thor.Address, state *state.State, registry *registry.Registry, vault *vault.Vault, staking thor.Address) *Ledger {
	sctx := solidity.NewContext(addr, state)
	return &Ledger{
		addr:     addr,
		staking:  staking,
		registry: registry,
		vault:    vault,
		jobs:     solidity.NewMapping[thor.UUID, *Job](sctx, slotJobs),
	}
}

func (l *Ledger) Address() thor.Address {
	return l.addr
}

// Get returns the job, AccountNotInitialized if absent.
func (l *Ledger) Get(id thor.UUID) (*Job, error) {
	job, err := l.jobs.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get job")
	}
	if job == nil {
		return nil, reverts.ErrAccountNotInitialized.Withf("job %v not found", id)
	}
	return job, nil
}

func (l *Ledger) Exists(id thor.UUID) (bool, error) {
	return l.jobs.Exists(id)
}

// Create registers a job and opens its escrow. Only the platform admin may create jobs.
func (l *Ledger) Create(env *xenv.Environment, id thor.UUID, maxAmountPerApplication uint64, authority thor.Address) error {
	return env.Invoke(l.addr, func() error {
		if err := l.registry.RequireAdmin(env.Caller()); err != nil {
			return err
		}
		if id.IsZero() {
			return reverts.ErrAccountNotInitialized.Withf("job id must be set")
		}
		if maxAmountPerApplication == 0 {
			return reverts.ErrInvalidAmount.Withf("max amount per application must be positive")
		}
		if authority.IsZero() {
			return reverts.ErrInvalidAuthority.Withf("job authority must be set")
		}
		exists, err := l.jobs.Exists(id)
		if err != nil {
			return errors.Wrap(err, "failed to check job")
		}
		if exists {
			return reverts.ErrAlreadyExists.Withf("job %v already exists", id)
		}
		unit, err := l.registry.Unit()
		if err != nil {
			return err
		}
		escrow := EscrowAddress(id)
		if err := l.vault.OpenFor(escrow, l.addr, unit); err != nil {
			return errors.WithMessage(err, "failed to open escrow")
		}
		job := &Job{
			Authority:               authority,
			MaxAmountPerApplication: maxAmountPerApplication,
			Unit:                    unit,
			Escrow:                  escrow,
		}
		if err := l.jobs.Insert(id, job); err != nil {
			return errors.Wrap(err, "failed to insert job")
		}
		env.Log(&xenv.Event{Name: "JobCreated", JobID: id, Subject: authority, Amount: maxAmountPerApplication})
		logger.Debug("job created", "id", id, "authority", authority, "cap", maxAmountPerApplication)
		return nil
	})
}

// FundRewards moves amount from an admin-owned account into the job escrow.
func (l *Ledger) FundRewards(env *xenv.Environment, id thor.UUID, from thor.Address, amount uint64) error {
	return env.Invoke(l.addr, func() error {
		if err := l.registry.RequireAdmin(env.Caller()); err != nil {
			return err
		}
		if amount == 0 {
			return reverts.ErrInvalidAmount
		}
		job, err := l.Get(id)
		if err != nil {
			return err
		}
		if err := l.vault.CheckHolder(from, env.Caller(), job.Unit); err != nil {
			return err
		}
		if err := l.vault.Transfer(from, job.Escrow, amount); err != nil {
			return err
		}
		env.Log(&xenv.Event{Name: "RewardsFunded", JobID: id, Subject: from, Amount: amount})
		return nil
	})
}

// CommitReward adds amount to the job's outstanding rewards.
func (l *Ledger) CommitReward(env *xenv.Environment, id thor.UUID, amount uint64) error {
	return env.Invoke(l.addr, func() error {
		if err := env.VerifyCallerIs(l.staking); err != nil {
			return err
		}
		job, err := l.Get(id)
		if err != nil {
			return err
		}
		if job.TotalRewardToBeGiven+amount < job.TotalRewardToBeGiven {
			return reverts.ErrRewardOverflow.Withf("outstanding reward of job %v overflows", id)
		}
		job.TotalRewardToBeGiven += amount
		return errors.Wrap(l.jobs.Update(id, job), "failed to update job")
	})
}

// SettleReward removes amount from the job's outstanding rewards, paid or forfeited.
func (l *Ledger) SettleReward(env *xenv.Environment, id thor.UUID, amount uint64) error {
	return env.Invoke(l.addr, func() error {
		if err := env.VerifyCallerIs(l.staking); err != nil {
			return err
		}
		job, err := l.Get(id)
		if err != nil {
			return err
		}
		job.TotalRewardToBeGiven -= min(amount, job.TotalRewardToBeGiven)
		return errors.Wrap(l.jobs.Update(id, job), "failed to update job")
	})
}

// Release pays amount out of the job escrow to recipient.
func (l *Ledger) Release(env *xenv.Environment, id thor.UUID, recipient thor.Address, amount uint64) error {
	return env.Invoke(l.addr, func() error {
		if err := env.VerifyCallerIs(l.staking); err != nil {
			return err
		}
		job, err := l.Get(id)
		if err != nil {
			return err
		}
		if err := l.vault.Transfer(job.Escrow, recipient, amount); err != nil {
			return errors.WithMessagef(err, "failed to release from job %v", id)
		}
		return nil
	})
}
