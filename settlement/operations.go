// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settlement

import (
	"context"

	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

// CreateJob registers a job. The caller must be the platform admin.
func (e *Engine) CreateJob(ctx context.Context, caller thor.Address, id thor.UUID, maxAmountPerApplication uint64, authority thor.Address) (*Receipt, error) {
	return e.execute(ctx, "create_job", caller, func(p *builtin.Programs, env *xenv.Environment) error {
		return p.Job.Create(env, id, maxAmountPerApplication, authority)
	})
}

// FundRewards tops up the escrow of a job from an admin-owned account.
func (e *Engine) FundRewards(ctx context.Context, caller thor.Address, id thor.UUID, from thor.Address, amount uint64) (*Receipt, error) {
	return e.execute(ctx, "fund_rewards", caller, func(p *builtin.Programs, env *xenv.Environment) error {
		return p.Job.FundRewards(env, id, from, amount)
	})
}

// CreateApplication registers a pending application. The caller must be the job authority.
func (e *Engine) CreateApplication(ctx context.Context, caller thor.Address, id, jobID thor.UUID, authority thor.Address, maxAllowedStaked uint64) (*Receipt, error) {
	return e.execute(ctx, "create_application", caller, func(p *builtin.Programs, env *xenv.Environment) error {
		return p.Application.Create(env, id, jobID, authority, maxAllowedStaked)
	})
}

// UpdateStatus records the hiring decision of an application.
func (e *Engine) UpdateStatus(ctx context.Context, caller thor.Address, id thor.UUID, status application.Status) (*Receipt, error) {
	return e.execute(ctx, "update_status", caller, func(p *builtin.Programs, env *xenv.Environment) error {
		return p.Application.UpdateStatus(env, id, status)
	})
}

// Stake locks amount from the caller's account against an application and returns the reward credited.
func (e *Engine) Stake(ctx context.Context, caller thor.Address, applicationID thor.UUID, from thor.Address, amount uint64) (uint64, *Receipt, error) {
	var reward uint64
	receipt, err := e.execute(ctx, "stake", caller, func(p *builtin.Programs, env *xenv.Environment) (err error) {
		reward, err = p.Staking.Stake(env, applicationID, from, amount)
		return
	})
	if err != nil {
		return 0, nil, err
	}
	metricStaked().Add(int64(amount))
	return reward, receipt, nil
}

// Unstake withdraws the caller's stake on an application into to and returns the payout.
func (e *Engine) Unstake(ctx context.Context, caller thor.Address, applicationID thor.UUID, to thor.Address) (uint64, *Receipt, error) {
	var payout uint64
	receipt, err := e.execute(ctx, "unstake", caller, func(p *builtin.Programs, env *xenv.Environment) (err error) {
		payout, err = p.Staking.Unstake(env, applicationID, to)
		return
	})
	if err != nil {
		return 0, nil, err
	}
	kind := "principal"
	for _, ev := range receipt.Events {
		if ev.Name == "Unstaked" && ev.Status == application.StatusSelected.String() {
			kind = "principal_and_reward"
		}
	}
	metricPaidOut().AddWithLabel(int64(payout), map[string]string{"kind": kind})
	return payout, receipt, nil
}

// OpenAccount opens the token account of the caller derived from salt, and returns its address.
// A zero unit selects the registry unit.
func (e *Engine) OpenAccount(ctx context.Context, caller thor.Address, salt thor.Bytes32, unit thor.Address) (thor.Address, *Receipt, error) {
	var account thor.Address
	receipt, err := e.execute(ctx, "open_account", caller, func(p *builtin.Programs, env *xenv.Environment) (err error) {
		account, err = p.Vault.Open(env, salt, unit)
		return
	})
	if err != nil {
		return thor.Address{}, nil, err
	}
	return account, receipt, nil
}

// Mint credits an account. The caller must be the platform admin.
func (e *Engine) Mint(ctx context.Context, caller, account thor.Address, amount uint64) (*Receipt, error) {
	return e.execute(ctx, "mint", caller, func(p *builtin.Programs, env *xenv.Environment) error {
		return p.Vault.Mint(env, account, amount)
	})
}
