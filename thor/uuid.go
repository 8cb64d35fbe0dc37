// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"errors"

	"github.com/pborman/uuid"
)

// UUID is the 128-bit opaque identifier of jobs and applications.
type UUID [16]byte

var (
	_ json.Marshaler   = (*UUID)(nil)
	_ json.Unmarshaler = (*UUID)(nil)
)

// NewUUID generates a random UUID.
func NewUUID() UUID {
	var id UUID
	copy(id[:], uuid.NewRandom())
	return id
}

// ParseUUID parses the canonical textual form, with or without the urn prefix.
func ParseUUID(s string) (UUID, error) {
	parsed := uuid.Parse(s)
	if parsed == nil {
		return UUID{}, errors.New("invalid uuid")
	}
	var id UUID
	copy(id[:], parsed)
	return id, nil
}

// MustParseUUID parses s, panic on error.
func MustParseUUID(s string) UUID {
	id, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id UUID) String() string {
	return uuid.UUID(id[:]).String()
}

// Bytes returns byte slice form of the id.
func (id UUID) Bytes() []byte {
	return id[:]
}

// IsZero returns if the id has all zero bytes.
func (id UUID) IsZero() bool {
	return id == UUID{}
}

// MarshalJSON implements json.Marshaler.
func (id UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *UUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseUUID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
