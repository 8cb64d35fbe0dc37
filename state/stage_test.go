// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/thor"
)

func TestStageCommit(t *testing.T) {
	stater := newTestStater(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st := stater.NewState()
	assert.Equal(t, uint64(0), st.Revision())
	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("a")))
	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("b")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("c")))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	rev, err := stage.Commit()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)
	assert.Equal(t, uint64(1), stater.Head())

	st = stater.NewState()
	v, err := st.GetStorage(addr, k1)
	assert.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("b")), v)

	// delete k2
	st.SetStorage(addr, k2, thor.Bytes32{})
	_, err = st.Stage().Commit()
	require.NoError(t, err)

	v, err = stater.NewState().GetStorage(addr, k2)
	assert.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStageConflict(t *testing.T) {
	stater := newTestStater(t)
	addr := thor.BytesToAddress([]byte("acc1"))
	key := thor.BytesToBytes32([]byte("counter"))

	s1 := stater.NewState()
	s2 := stater.NewState()

	s1.SetStorage(addr, key, thor.BytesToBytes32([]byte{1}))
	s2.SetStorage(addr, key, thor.BytesToBytes32([]byte{2}))

	_, err := s1.Stage().Commit()
	require.NoError(t, err)

	_, err = s2.Stage().Commit()
	assert.ErrorIs(t, err, ErrConflict)

	v, err := stater.NewState().GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte{1}), v)
}

func TestStageEmpty(t *testing.T) {
	stater := newTestStater(t)

	st := stater.NewState()
	_, err := st.GetStorage(thor.Address{}, thor.Bytes32{})
	require.NoError(t, err)

	rev, err := st.Stage().Commit()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), rev)
}

func TestStaterReopen(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := thor.BytesToAddress([]byte("acc1"))
	key := thor.BytesToBytes32([]byte("k"))

	stater, err := NewStater(db, 0)
	require.NoError(t, err)
	st := stater.NewState()
	st.SetStorage(addr, key, thor.BytesToBytes32([]byte("persisted")))
	_, err = st.Stage().Commit()
	require.NoError(t, err)

	reopened, err := NewStater(db, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reopened.Head())
	v, err := reopened.NewState().GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("persisted")), v)
}
