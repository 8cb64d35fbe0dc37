// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
)

var (
	slotAdmin = thor.BytesToBytes32([]byte("admin"))
	slotUnit  = thor.BytesToBytes32([]byte("unit"))
)

// Registry holds the platform administrator and the accepted value unit.
type Registry struct {
	addr  thor.Address
	admin *solidity.Address
	unit  *solidity.Address
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Registry {
	sctx := solidity.NewContext(addr, state)
	return &Registry{
		addr:  addr,
		admin: solidity.NewAddress(sctx, slotAdmin),
		unit:  solidity.NewAddress(sctx, slotUnit),
	}
}

func (r *Registry) Address() thor.Address {
	return r.addr
}

// Initialize sets admin and unit once.
func (r *Registry) Initialize(admin, unit thor.Address) error {
	if admin.IsZero() || unit.IsZero() {
		return reverts.ErrInvalidAuthority.Withf("registry admin and unit must be set")
	}
	ok, err := r.IsInitialized()
	if err != nil {
		return err
	}
	if ok {
		return reverts.ErrAlreadyExists.Withf("registry already initialized")
	}
	r.admin.Set(admin)
	r.unit.Set(unit)
	return nil
}

func (r *Registry) IsInitialized() (bool, error) {
	admin, err := r.admin.Get()
	if err != nil {
		return false, err
	}
	return !admin.IsZero(), nil
}

// Admin returns the platform administrator.
func (r *Registry) Admin() (thor.Address, error) {
	admin, err := r.admin.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if admin.IsZero() {
		return thor.Address{}, reverts.ErrAccountNotInitialized.Withf("registry not initialized")
	}
	return admin, nil
}

// Unit returns the accepted value unit.
func (r *Registry) Unit() (thor.Address, error) {
	unit, err := r.unit.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if unit.IsZero() {
		return thor.Address{}, reverts.ErrAccountNotInitialized.Withf("registry not initialized")
	}
	return unit, nil
}

// RequireAdmin fails with InvalidAuthority unless caller is the administrator.
func (r *Registry) RequireAdmin(caller thor.Address) error {
	admin, err := r.Admin()
	if err != nil {
		return err
	}
	if caller != admin {
		return reverts.ErrInvalidAuthority.Withf("%v is not the platform admin", caller)
	}
	return nil
}
