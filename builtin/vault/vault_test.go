// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin/registry"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/test/datagen"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

type testVault struct {
	*Vault
	state *state.State
	admin thor.Address
	unit  thor.Address
}

func newTestVault(t *testing.T) *testVault {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)

	st := stater.NewState()
	reg := registry.New(thor.BytesToAddress([]byte("Registry")), st)
	admin, unit := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, reg.Initialize(admin, unit))

	return &testVault{
		Vault: New(thor.BytesToAddress([]byte("Vault")), st, reg),
		state: st,
		admin: admin,
		unit:  unit,
	}
}

func TestOpenAndMint(t *testing.T) {
	v := newTestVault(t)
	owner := datagen.RandAddress()
	salt := datagen.RandomHash()

	openEnv := xenv.New(v.state, owner)
	account, err := v.Open(openEnv, salt, thor.Address{})
	require.NoError(t, err)
	assert.Equal(t, AccountAddress(owner, salt), account)
	require.Len(t, openEnv.Events(), 1)
	assert.Equal(t, "AccountOpened", openEnv.Events()[0].Name)
	assert.Equal(t, account, openEnv.Events()[0].Subject)

	_, err = v.Open(xenv.New(v.state, owner), salt, thor.Address{})
	assert.ErrorIs(t, err, reverts.ErrAlreadyExists)

	acc, err := v.Get(account)
	require.NoError(t, err)
	assert.Equal(t, &Account{Owner: owner, Unit: v.unit}, acc)

	// same salt, other owner: another account
	other, err := v.Open(xenv.New(v.state, datagen.RandAddress()), salt, thor.Address{})
	require.NoError(t, err)
	assert.NotEqual(t, account, other)

	assert.ErrorIs(t, v.Mint(xenv.New(v.state, owner), account, 10), reverts.ErrInvalidAuthority)
	assert.ErrorIs(t, v.Mint(xenv.New(v.state, v.admin), datagen.RandAddress(), 10), reverts.ErrAccountNotInitialized)
	assert.ErrorIs(t, v.Mint(xenv.New(v.state, v.admin), account, 0), reverts.ErrInvalidAmount)

	env := xenv.New(v.state, v.admin)
	require.NoError(t, v.Mint(env, account, 100))
	require.Len(t, env.Events(), 1)
	assert.Equal(t, v.Address(), env.Events()[0].Program)
	assert.Equal(t, "Minted", env.Events()[0].Name)

	acc, err = v.Get(account)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), acc.Balance)

	missing, err := v.Get(datagen.RandAddress())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransfer(t *testing.T) {
	v := newTestVault(t)
	owner := datagen.RandAddress()
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, v.OpenFor(a, owner, thor.Address{}))
	require.NoError(t, v.OpenFor(b, owner, thor.Address{}))
	require.NoError(t, v.OpenFor(c, owner, datagen.RandAddress()))
	require.NoError(t, v.Mint(xenv.New(v.state, v.admin), a, 50))

	assert.ErrorIs(t, v.Transfer(a, b, 0), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, v.Transfer(a, datagen.RandAddress(), 1), reverts.ErrAccountNotInitialized)
	assert.ErrorIs(t, v.Transfer(a, c, 1), reverts.ErrInvalidUnit)
	assert.ErrorIs(t, v.Transfer(a, b, 51), reverts.ErrInsufficientFunds)

	require.NoError(t, v.Transfer(a, b, 20))
	accA, _ := v.Get(a)
	accB, _ := v.Get(b)
	assert.Equal(t, uint64(30), accA.Balance)
	assert.Equal(t, uint64(20), accB.Balance)

	require.NoError(t, v.Transfer(a, a, 30))
	accA, _ = v.Get(a)
	assert.Equal(t, uint64(30), accA.Balance)
}

func TestCheckHolder(t *testing.T) {
	v := newTestVault(t)
	owner := datagen.RandAddress()
	a := datagen.RandAddress()
	require.NoError(t, v.OpenFor(a, owner, thor.Address{}))

	assert.NoError(t, v.CheckHolder(a, owner, v.unit))
	assert.ErrorIs(t, v.CheckHolder(a, datagen.RandAddress(), v.unit), reverts.ErrConstraintRaw)
	assert.ErrorIs(t, v.CheckHolder(a, owner, datagen.RandAddress()), reverts.ErrInvalidUnit)
	assert.ErrorIs(t, v.CheckHolder(datagen.RandAddress(), owner, v.unit), reverts.ErrAccountNotInitialized)
}
