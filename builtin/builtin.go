// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/builtin/job"
	"github.com/vechain/jobstake/builtin/registry"
	"github.com/vechain/jobstake/builtin/staking"
	"github.com/vechain/jobstake/builtin/vault"
	"github.com/vechain/jobstake/state"
)

// Builtin programs binding.
var (
	Registry    = &registryContract{newContract("Registry")}
	Vault       = &vaultContract{newContract("Vault")}
	Job         = &jobContract{newContract("Job")}
	Application = &applicationContract{newContract("Application")}
	Staking     = &stakingContract{newContract("Staking")}
)

type (
	registryContract    struct{ *contract }
	vaultContract       struct{ *contract }
	jobContract         struct{ *contract }
	applicationContract struct{ *contract }
	stakingContract     struct{ *contract }
)

func (r *registryContract) WithState(state *state.State) *registry.Registry {
	return registry.New(r.Address, state)
}

func (v *vaultContract) WithState(state *state.State) *vault.Vault {
	return vault.New(v.Address, state, Registry.WithState(state))
}

func (j *jobContract) WithState(state *state.State) *job.Ledger {
	return Bind(state).Job
}

func (a *applicationContract) WithState(state *state.State) *application.Book {
	return Bind(state).Application
}

func (s *stakingContract) WithState(state *state.State) *staking.Staking {
	return Bind(state).Staking
}

// Programs is the set of builtin programs bound to one state.
type Programs struct {
	Registry    *registry.Registry
	Vault       *vault.Vault
	Job         *job.Ledger
	Application *application.Book
	Staking     *staking.Staking
}

// Bind binds all builtin programs to state.
func Bind(state *state.State) *Programs {
	reg := Registry.WithState(state)
	v := vault.New(Vault.Address, state, reg)
	jobs := job.New(Job.Address, state, reg, v, Staking.Address)
	apps := application.New(Application.Address, state, jobs, Staking.Address)
	return &Programs{
		Registry:    reg,
		Vault:       v,
		Job:         jobs,
		Application: apps,
		Staking:     staking.New(Staking.Address, state, jobs, apps, v),
	}
}
