// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package application

import (
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/job"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var (
	logger = log.WithContext("pkg", "application")

	slotApplications = thor.BytesToBytes32([]byte("applications"))
)

// Application is a candidacy for a job and the cumulative stake placed on it.
type Application struct {
	JobID            thor.UUID
	Authority        thor.Address
	Status           Status
	StakedAmount     uint64
	MaxAllowedStaked uint64
}

// Book keeps applications.
type Book struct {
	addr         thor.Address
	staking      thor.Address
	jobs         *job.Ledger
	applications *solidity.Mapping[thor.UUID, *Application]
}

// New create a new instance. RecordStake accepts only calls entering through staking.
func New(addr thor.Address, state *state.State, jobs *job.Ledger, staking thor.Address) *Book {
	sctx := solidity.NewContext(addr, state)
	return &Book{
		addr:         addr,
		staking:      staking,
		jobs:         jobs,
		applications: solidity.NewMapping[thor.UUID, *Application](sctx, slotApplications),
	}
}

func (b *Book) Address() thor.Address {
	return b.addr
}

// Get returns the application, AccountNotInitialized if absent.
func (b *Book) Get(id thor.UUID) (*Application, error) {
	app, err := b.applications.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get application")
	}
	if app == nil {
		return nil, reverts.ErrAccountNotInitialized.Withf("application %v not found", id)
	}
	return app, nil
}

// Create registers a pending application. Only the job authority may create it.
// A zero cap inherits the job cap, a zero authority the job authority.
func (b *Book) Create(env *xenv.Environment, id, jobID thor.UUID, authority thor.Address, maxAllowedStaked uint64) error {
	return env.Invoke(b.addr, func() error {
		if id.IsZero() {
			return reverts.ErrAccountNotInitialized.Withf("application id must be set")
		}
		j, err := b.jobs.Get(jobID)
		if err != nil {
			return err
		}
		if env.Caller() != j.Authority {
			return reverts.ErrInvalidAuthority.Withf("%v is not the authority of job %v", env.Caller(), jobID)
		}
		exists, err := b.applications.Exists(id)
		if err != nil {
			return errors.Wrap(err, "failed to check application")
		}
		if exists {
			return reverts.ErrAlreadyExists.Withf("application %v already exists", id)
		}
		if maxAllowedStaked == 0 {
			maxAllowedStaked = j.MaxAmountPerApplication
		}
		if maxAllowedStaked > j.MaxAmountPerApplication {
			return reverts.ErrCapExceeded.Withf("cap %d exceeds job cap %d", maxAllowedStaked, j.MaxAmountPerApplication)
		}
		if authority.IsZero() {
			authority = j.Authority
		}
		app := &Application{
			JobID:            jobID,
			Authority:        authority,
			Status:           StatusPending,
			MaxAllowedStaked: maxAllowedStaked,
		}
		if err := b.applications.Insert(id, app); err != nil {
			return errors.Wrap(err, "failed to insert application")
		}
		env.Log(&xenv.Event{
			Name:          "ApplicationCreated",
			JobID:         jobID,
			ApplicationID: id,
			Subject:       authority,
			Amount:        maxAllowedStaked,
			Status:        app.Status.String(),
		})
		logger.Debug("application created", "id", id, "job", jobID, "cap", maxAllowedStaked)
		return nil
	})
}

// UpdateStatus overwrites the hiring decision. Any transition is allowed.
func (b *Book) UpdateStatus(env *xenv.Environment, id thor.UUID, status Status) error {
	return env.Invoke(b.addr, func() error {
		app, err := b.Get(id)
		if err != nil {
			return err
		}
		if env.Caller() != app.Authority {
			return reverts.ErrInvalidAuthority.Withf("%v is not the authority of application %v", env.Caller(), id)
		}
		if !status.Valid() {
			return reverts.ErrInvalidStatus.Withf("unknown status %d", uint8(status))
		}
		prev := app.Status
		app.Status = status
		if err := b.applications.Update(id, app); err != nil {
			return errors.Wrap(err, "failed to update application")
		}
		env.Log(&xenv.Event{
			Name:          "StatusUpdated",
			JobID:         app.JobID,
			ApplicationID: id,
			Subject:       env.Caller(),
			Status:        status.String(),
		})
		logger.Debug("status updated", "id", id, "from", prev, "to", status)
		return nil
	})
}

// RecordStake adds amount to the cumulative stake and returns the stake before it.
func (b *Book) RecordStake(env *xenv.Environment, id thor.UUID, amount uint64) (base uint64, err error) {
	err = env.Invoke(b.addr, func() error {
		if err := env.VerifyCallerIs(b.staking); err != nil {
			return err
		}
		app, err := b.Get(id)
		if err != nil {
			return err
		}
		if app.Status != StatusPending {
			return reverts.ErrStatusNotPending.Withf("application %v is %v", id, app.Status)
		}
		if amount > app.MaxAllowedStaked || app.StakedAmount > app.MaxAllowedStaked-amount {
			return reverts.ErrCapExceeded.Withf("staked %d + %d exceeds cap %d", app.StakedAmount, amount, app.MaxAllowedStaked)
		}
		base = app.StakedAmount
		app.StakedAmount += amount
		return errors.Wrap(b.applications.Update(id, app), "failed to update application")
	})
	return
}
