// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32JSON(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006a6f62737461"`

	var value Bytes32
	assert.NoError(t, json.Unmarshal([]byte(originalHex), &value))

	marshalVal, err := json.Marshal(value)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalVal))

	marshalPtr, err := json.Marshal(&value)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshalPtr))
}

func TestParseBytes32(t *testing.T) {
	_, err := ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseBytes32("zz" + "00000000000000000000000000000000000000000000000000000000000000ff")
	assert.EqualError(t, err, "invalid prefix")

	_, err = ParseBytes32("0x" + strings.Repeat("g", 64))
	assert.Error(t, err)

	b, err := ParseBytes32("00000000000000000000000000000000000000000000000000000000000000ff")
	assert.NoError(t, err)
	assert.Equal(t, BytesToBytes32([]byte{0xff}), b)
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())
}

func TestUnmarshalKeepsValueOnError(t *testing.T) {
	b := BytesToBytes32([]byte{1})
	assert.Error(t, json.Unmarshal([]byte(`"0x`+strings.Repeat("0", 62)+`zz"`), &b))
	assert.Equal(t, BytesToBytes32([]byte{1}), b)
}

func TestMarshalByValue(t *testing.T) {
	id := MustParseUUID("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	data, err := json.Marshal(map[string]any{
		"address": MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"),
		"hash":    BytesToBytes32([]byte{0xff}),
		"id":      id,
	})
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"address": "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed",
		"hash": "0x00000000000000000000000000000000000000000000000000000000000000ff",
		"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	}`, string(data))
}

func TestAddress(t *testing.T) {
	addr := MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	data, err := json.Marshal(&addr)
	assert.NoError(t, err)
	var decoded Address
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	_, err = ParseAddress("0x12")
	assert.EqualError(t, err, "invalid length")

	assert.True(t, Address{}.IsZero())
	assert.Equal(t, DeriveAddress([]byte("escrow"), addr.Bytes()), DeriveAddress([]byte("escrow"), addr.Bytes()))
	assert.NotEqual(t, DeriveAddress([]byte("escrow"), addr.Bytes()), DeriveAddress([]byte("vault"), addr.Bytes()))
}

func TestUUID(t *testing.T) {
	id := MustParseUUID("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", id.String())
	assert.Len(t, id.Bytes(), 16)

	data, err := json.Marshal(&id)
	assert.NoError(t, err)
	assert.Equal(t, `"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`, string(data))

	var decoded UUID
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	_, err = ParseUUID("not-a-uuid")
	assert.Error(t, err)

	assert.True(t, UUID{}.IsZero())
	assert.NotEqual(t, NewUUID(), NewUUID())
}
