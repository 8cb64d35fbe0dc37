// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/builtin"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
)

const sampleGenesis = `
name: sample
admin: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
unit: "0x00000000000000000000000000000000756e6974"
accounts:
  - address: "0x0000000000000000000000000000000000000a01"
    owner: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    balance: 5000
  - address: "0x0000000000000000000000000000000000000a02"
    owner: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"
`

func newStater(t *testing.T) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	return stater
}

func TestParse(t *testing.T) {
	gen, err := Parse([]byte(sampleGenesis))
	require.NoError(t, err)
	assert.Equal(t, "sample", gen.Name)
	assert.Equal(t, thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), gen.Admin)
	require.Len(t, gen.Accounts, 2)
	assert.Equal(t, uint64(5000), gen.Accounts[0].Balance)

	_, err = Parse([]byte("admin: \"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed\"\n"))
	assert.ErrorContains(t, err, "unit must be set")

	_, err = Parse([]byte(sampleGenesis + "extra: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(sampleGenesis + `  - address: "0x0000000000000000000000000000000000000a01"
    owner: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
`))
	assert.ErrorContains(t, err, "duplicated account")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleGenesis), 0o600))
	gen, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", gen.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	gen, err := Parse([]byte(sampleGenesis))
	require.NoError(t, err)
	stater := newStater(t)

	rev, err := gen.Apply(stater)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	p := builtin.Bind(stater.NewState())
	admin, err := p.Registry.Admin()
	require.NoError(t, err)
	assert.Equal(t, gen.Admin, admin)

	acc, err := p.Vault.Get(gen.Accounts[0].Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), acc.Balance)
	assert.Equal(t, gen.Unit, acc.Unit)

	acc, err = p.Vault.Get(gen.Accounts[1].Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), acc.Balance)

	// reapplying is a no-op
	rev, err = gen.Apply(stater)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	other := *gen
	other.Unit = thor.BytesToAddress([]byte("other"))
	_, err = other.Apply(stater)
	assert.ErrorContains(t, err, "genesis mismatch")
}

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	require.NoError(t, gen.Validate())
	accs := DevAccounts()
	assert.Len(t, gen.Accounts, len(accs))
	assert.Equal(t, accs[0].Address, gen.Admin)
	assert.Equal(t, thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"), accs[0].Address)
	assert.Equal(t, gen.ID(), NewDevnet().ID())

	stater := newStater(t)
	_, err := gen.Apply(stater)
	require.NoError(t, err)
	acc, err := builtin.Bind(stater.NewState()).Vault.Get(accs[3].TokenAccount)
	require.NoError(t, err)
	assert.Equal(t, accs[3].Address, acc.Owner)
}
