// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("Test", "test")
	assert.Equal(t, "test", revert.Message())
	assert.Equal(t, "Test: test", revert.Error())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(42))
}

func TestRevertKinds(t *testing.T) {
	err := ErrCapExceeded.Withf("staked %d + %d > cap %d", 3000, 500, 3333)
	assert.Equal(t, "CapExceeded", err.Code())
	assert.ErrorIs(t, err, ErrCapExceeded)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	wrapped := errors.Wrap(err, "stake")
	assert.ErrorIs(t, wrapped, ErrCapExceeded)
	assert.True(t, IsRevertErr(wrapped))

	ve, ok := AsRevert(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "staked 3000 + 500 > cap 3333", ve.Message())

	_, ok = AsRevert(errors.New("plain"))
	assert.False(t, ok)
}
