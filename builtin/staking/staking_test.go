// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/builtin/candidate"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/test/datagen"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

type holder struct {
	addr    thor.Address
	account thor.Address
}

type testSetup struct {
	t         *testing.T
	state     *state.State
	programs  *builtin.Programs
	admin     thor.Address
	treasury  thor.Address
	authority thor.Address
	jobID     thor.UUID
	appID     thor.UUID
}

func newSetup(t *testing.T, jobCap uint64) *testSetup {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 64)
	require.NoError(t, err)

	st := stater.NewState()
	p := builtin.Bind(st)
	s := &testSetup{
		t:         t,
		state:     st,
		programs:  p,
		admin:     datagen.RandAddress(),
		treasury:  datagen.RandAddress(),
		authority: datagen.RandAddress(),
		jobID:     datagen.RandUUID(),
		appID:     datagen.RandUUID(),
	}
	require.NoError(t, p.Registry.Initialize(s.admin, datagen.RandAddress()))
	require.NoError(t, p.Vault.OpenFor(s.treasury, s.admin, thor.Address{}))
	require.NoError(t, p.Vault.Mint(s.env(s.admin), s.treasury, 1_000_000))
	require.NoError(t, p.Job.Create(s.env(s.admin), s.jobID, jobCap, s.authority))
	require.NoError(t, p.Application.Create(s.env(s.authority), s.appID, s.jobID, thor.Address{}, 0))
	return s
}

func (s *testSetup) env(caller thor.Address) *xenv.Environment {
	return xenv.New(s.state, caller)
}

func (s *testSetup) newHolder(balance uint64) holder {
	h := holder{addr: datagen.RandAddress(), account: datagen.RandAddress()}
	require.NoError(s.t, s.programs.Vault.OpenFor(h.account, h.addr, thor.Address{}))
	if balance > 0 {
		require.NoError(s.t, s.programs.Vault.Mint(s.env(s.admin), h.account, balance))
	}
	return h
}

func (s *testSetup) fund(amount uint64) {
	require.NoError(s.t, s.programs.Job.FundRewards(s.env(s.admin), s.jobID, s.treasury, amount))
}

func (s *testSetup) setStatus(status application.Status) {
	require.NoError(s.t, s.programs.Application.UpdateStatus(s.env(s.authority), s.appID, status))
}

func (s *testSetup) stake(h holder, amount uint64) (uint64, error) {
	return s.programs.Staking.Stake(s.env(h.addr), s.appID, h.account, amount)
}

func (s *testSetup) unstake(h holder) (uint64, error) {
	return s.programs.Staking.Unstake(s.env(h.addr), s.appID, h.account)
}

func (s *testSetup) balance(account thor.Address) uint64 {
	acc, err := s.programs.Vault.Get(account)
	require.NoError(s.t, err)
	require.NotNil(s.t, acc)
	return acc.Balance
}

func (s *testSetup) candidate(h holder) *candidate.Stake {
	c, err := s.programs.Staking.Candidate(s.appID, h.addr)
	require.NoError(s.t, err)
	return c
}

func (s *testSetup) staked() uint64 {
	app, err := s.programs.Application.Get(s.appID)
	require.NoError(s.t, err)
	return app.StakedAmount
}

func TestSelectedPaysPrincipalAndReward(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(2000)
	s.fund(6000)

	r, err := s.stake(h, 2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), r)
	assert.Equal(t, uint64(0), s.balance(h.account))
	assert.Equal(t, &candidate.Stake{Owner: h.addr, StakedAmount: 2000, RewardAmount: 6000}, s.candidate(h))

	job, err := s.programs.Job.Get(s.jobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), job.TotalRewardToBeGiven)
	assert.Equal(t, uint64(8000), s.balance(job.Escrow))

	s.setStatus(application.StatusSelected)
	payout, err := s.unstake(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(8000), payout)
	assert.Equal(t, uint64(8000), s.balance(h.account))
	assert.True(t, s.candidate(h).IsEmpty())

	job, err = s.programs.Job.Get(s.jobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), job.TotalRewardToBeGiven)

	totals, err := s.programs.Staking.Totals()
	require.NoError(t, err)
	assert.True(t, totals.LockedStake.IsZero())
	assert.Equal(t, uint64(6000), totals.RewardsPaid.Uint64())
}

func TestTieredRewards(t *testing.T) {
	for _, tt := range []struct {
		amount uint64
		reward uint64
	}{
		{5000, 13333},
		{8000, 18666},
	} {
		s := newSetup(t, 10_000)
		h := s.newHolder(tt.amount)
		r, err := s.stake(h, tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.reward, r)
	}
}

func TestRewardDependsOnCumulativeStake(t *testing.T) {
	s := newSetup(t, 10_000)
	first, second := s.newHolder(3333), s.newHolder(5000)

	r, err := s.stake(first, 3333)
	require.NoError(t, err)
	assert.Equal(t, uint64(9999), r)

	r, err = s.stake(second, 5000)
	require.NoError(t, err)
	assert.Equal(t, uint64(9166), r)
	assert.Equal(t, uint64(8333), s.staked())
}

func TestRejectedForfeitsReward(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(2000)
	_, err := s.stake(h, 2000)
	require.NoError(t, err)

	s.setStatus(application.StatusRejected)
	payout, err := s.unstake(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), payout)
	assert.Equal(t, uint64(2000), s.balance(h.account))
	assert.Equal(t, &candidate.Stake{Owner: h.addr}, s.candidate(h))

	totals, err := s.programs.Staking.Totals()
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), totals.RewardsForfeited.Uint64())
	assert.True(t, totals.RewardsPaid.IsZero())
}

func TestStatusGating(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(5000)
	_, err := s.stake(h, 1000)
	require.NoError(t, err)

	_, err = s.unstake(h)
	assert.ErrorIs(t, err, reverts.ErrStatusNotPending)

	for _, st := range []application.Status{application.StatusSelected, application.StatusRejected, application.StatusSelectedButCannotWithdraw} {
		s.setStatus(st)
		_, err = s.stake(h, 1)
		assert.ErrorIs(t, err, reverts.ErrStatusNotPending, st.String())
	}

	_, err = s.unstake(h)
	assert.ErrorIs(t, err, reverts.ErrSelectedButCantTransfer)
	assert.Equal(t, uint64(1000), s.candidate(h).StakedAmount)
}

func TestUnstakeIdempotence(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(3000)
	s.fund(100_000)

	_, err := s.unstake(h)
	assert.ErrorIs(t, err, reverts.ErrAlreadyUnstaked)

	_, err = s.stake(h, 1000)
	require.NoError(t, err)
	s.setStatus(application.StatusSelected)
	_, err = s.unstake(h)
	require.NoError(t, err)
	_, err = s.unstake(h)
	assert.ErrorIs(t, err, reverts.ErrAlreadyUnstaked)

	s.setStatus(application.StatusPending)
	r, err := s.stake(h, 1000)
	require.NoError(t, err)
	// the application keeps its cumulative stake across withdrawals
	assert.Equal(t, uint64(3000), r)

	s.setStatus(application.StatusSelected)
	payout, err := s.unstake(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), payout)
}

func TestCapInvariant(t *testing.T) {
	s := newSetup(t, 5000)
	h := s.newHolder(10_000)

	_, err := s.stake(h, 4000)
	require.NoError(t, err)
	_, err = s.stake(h, 1001)
	assert.ErrorIs(t, err, reverts.ErrCapExceeded)
	assert.Equal(t, uint64(4000), s.staked())
	assert.Equal(t, uint64(6000), s.balance(h.account))

	_, err = s.stake(h, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), s.staked())
}

func TestStakeValidation(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(100)

	_, err := s.stake(h, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)

	_, err = s.programs.Staking.Stake(s.env(h.addr), datagen.RandUUID(), h.account, 10)
	assert.ErrorIs(t, err, reverts.ErrAccountNotInitialized)

	_, err = s.programs.Staking.Stake(s.env(datagen.RandAddress()), s.appID, h.account, 10)
	assert.ErrorIs(t, err, reverts.ErrConstraintRaw)

	other := holder{addr: h.addr, account: datagen.RandAddress()}
	require.NoError(t, s.programs.Vault.OpenFor(other.account, h.addr, datagen.RandAddress()))
	_, err = s.stake(other, 10)
	assert.ErrorIs(t, err, reverts.ErrInvalidUnit)
}

func TestStakeIsAtomic(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(100)
	env := s.env(h.addr)

	_, err := s.programs.Staking.Stake(env, s.appID, h.account, 500)
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)
	assert.Empty(t, env.Events())
	assert.Equal(t, uint64(0), s.staked())
	assert.Nil(t, s.candidate(h))

	job, err := s.programs.Job.Get(s.jobID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), job.TotalRewardToBeGiven)
}

func TestUnfundedRewardFailsAtomically(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(2000)
	_, err := s.stake(h, 2000)
	require.NoError(t, err)

	s.setStatus(application.StatusSelected)
	_, err = s.unstake(h)
	assert.ErrorIs(t, err, reverts.ErrInsufficientFunds)
	assert.Equal(t, uint64(2000), s.candidate(h).StakedAmount)

	s.fund(6000)
	payout, err := s.unstake(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(8000), payout)
}

func TestUnstakeRecipientChecks(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(100)
	_, err := s.stake(h, 100)
	require.NoError(t, err)
	s.setStatus(application.StatusRejected)

	foreign := s.newHolder(0)
	_, err = s.programs.Staking.Unstake(s.env(h.addr), s.appID, foreign.account)
	assert.ErrorIs(t, err, reverts.ErrConstraintRaw)
}

func TestDirectReleaseIsRejected(t *testing.T) {
	s := newSetup(t, 10_000)
	h := s.newHolder(100)
	s.fund(500)

	err := s.programs.Job.Release(s.env(h.addr), s.jobID, h.account, 500)
	assert.ErrorIs(t, err, reverts.ErrInvalidCall)
	assert.Equal(t, uint64(100), s.balance(h.account))
}
