// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settlement

import (
	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/builtin/candidate"
	"github.com/vechain/jobstake/builtin/job"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/staking/globalstats"
	"github.com/vechain/jobstake/builtin/vault"
	"github.com/vechain/jobstake/thor"
)

// Registry is the platform configuration with staking totals.
type Registry struct {
	Admin  thor.Address
	Unit   thor.Address
	Totals *globalstats.Totals
}

func (e *Engine) programs() *builtin.Programs {
	return builtin.Bind(e.stater.NewState())
}

// Job returns a job, AccountNotInitialized if absent.
func (e *Engine) Job(id thor.UUID) (*job.Job, error) {
	return e.programs().Job.Get(id)
}

// Application returns an application, AccountNotInitialized if absent.
func (e *Engine) Application(id thor.UUID) (*application.Application, error) {
	return e.programs().Application.Get(id)
}

// Candidate returns the stake of holder on an application, AccountNotInitialized if holder never staked.
func (e *Engine) Candidate(applicationID thor.UUID, holder thor.Address) (*candidate.Stake, error) {
	c, err := e.programs().Staking.Candidate(applicationID, holder)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, reverts.ErrAccountNotInitialized.Withf("%v never staked on %v", holder, applicationID)
	}
	return c, nil
}

// Account returns a token account, AccountNotInitialized if absent.
func (e *Engine) Account(addr thor.Address) (*vault.Account, error) {
	acc, err := e.programs().Vault.Get(addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.ErrAccountNotInitialized.Withf("token account %v not found", addr)
	}
	return acc, nil
}

// Registry returns the platform configuration.
func (e *Engine) Registry() (*Registry, error) {
	p := e.programs()
	admin, err := p.Registry.Admin()
	if err != nil {
		return nil, err
	}
	unit, err := p.Registry.Unit()
	if err != nil {
		return nil, err
	}
	totals, err := p.Staking.Totals()
	if err != nil {
		return nil, err
	}
	return &Registry{Admin: admin, Unit: unit, Totals: totals}, nil
}
