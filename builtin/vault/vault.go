// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/builtin/registry"
	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/builtin/solidity"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
	"github.com/vechain/jobstake/xenv"
)

var (
	logger = log.WithContext("pkg", "vault")

	slotAccounts = thor.BytesToBytes32([]byte("accounts"))
)

// Account is a single-unit value holder.
type Account struct {
	Owner   thor.Address
	Unit    thor.Address
	Balance uint64
}

// Vault keeps token accounts and moves value between them.
type Vault struct {
	addr     thor.Address
	registry *registry.Registry
	accounts *solidity.Mapping[thor.Address, *Account]
}

// New create a new instance.
func New(addr thor.Address, state *state.State, registry *registry.Registry) *Vault {
	sctx := solidity.NewContext(addr, state)
	return &Vault{
		addr:     addr,
		registry: registry,
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
	}
}

func (v *Vault) Address() thor.Address {
	return v.addr
}

// Get returns the account, nil if absent.
func (v *Vault) Get(account thor.Address) (*Account, error) {
	acc, err := v.accounts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc, nil
}

// AccountAddress derives the token account owner opens with salt.
// Escrow and genesis accounts are derived from other seeds, out of reach of owners.
func AccountAddress(owner thor.Address, salt thor.Bytes32) thor.Address {
	return thor.DeriveAddress([]byte("account"), owner.Bytes(), salt.Bytes())
}

// Open creates the account of the caller derived from salt. A zero unit selects the registry unit.
func (v *Vault) Open(env *xenv.Environment, salt thor.Bytes32, unit thor.Address) (account thor.Address, err error) {
	err = env.Invoke(v.addr, func() error {
		account = AccountAddress(env.Caller(), salt)
		if err := v.OpenFor(account, env.Caller(), unit); err != nil {
			return err
		}
		env.Log(&xenv.Event{Name: "AccountOpened", Subject: account})
		return nil
	})
	return
}

// OpenFor creates an account owned by owner at any address. Only programs and genesis call it.
func (v *Vault) OpenFor(account, owner, unit thor.Address) error {
	if account.IsZero() || owner.IsZero() {
		return reverts.ErrInvalidAuthority.Withf("account and owner must be set")
	}
	if unit.IsZero() {
		u, err := v.registry.Unit()
		if err != nil {
			return err
		}
		unit = u
	}
	exists, err := v.accounts.Exists(account)
	if err != nil {
		return errors.Wrap(err, "failed to check account")
	}
	if exists {
		return reverts.ErrAlreadyExists.Withf("account %v already exists", account)
	}
	if err := v.accounts.Insert(account, &Account{Owner: owner, Unit: unit}); err != nil {
		return errors.Wrap(err, "failed to open account")
	}
	logger.Debug("opened account", "account", account, "owner", owner, "unit", unit)
	return nil
}

// Mint credits amount to account. Only the platform admin may mint.
func (v *Vault) Mint(env *xenv.Environment, account thor.Address, amount uint64) error {
	return env.Invoke(v.addr, func() error {
		if err := v.registry.RequireAdmin(env.Caller()); err != nil {
			return err
		}
		if amount == 0 {
			return reverts.ErrInvalidAmount
		}
		acc, err := v.mustGet(account)
		if err != nil {
			return err
		}
		if acc.Balance+amount < acc.Balance {
			return reverts.ErrRewardOverflow.Withf("balance of %v overflows", account)
		}
		acc.Balance += amount
		if err := v.accounts.Update(account, acc); err != nil {
			return errors.Wrap(err, "failed to mint")
		}
		env.Log(&xenv.Event{Name: "Minted", Subject: account, Amount: amount})
		return nil
	})
}

// Transfer moves amount between two accounts of the same unit.
func (v *Vault) Transfer(from, to thor.Address, amount uint64) error {
	if amount == 0 {
		return reverts.ErrInvalidAmount
	}
	src, err := v.mustGet(from)
	if err != nil {
		return err
	}
	dst, err := v.mustGet(to)
	if err != nil {
		return err
	}
	if src.Unit != dst.Unit {
		return reverts.ErrInvalidUnit.Withf("cannot transfer %v into %v", src.Unit, dst.Unit)
	}
	if src.Balance < amount {
		return reverts.ErrInsufficientFunds.Withf("%v holds %d, need %d", from, src.Balance, amount)
	}
	if from == to {
		return nil
	}
	if dst.Balance+amount < dst.Balance {
		return reverts.ErrRewardOverflow.Withf("balance of %v overflows", to)
	}
	src.Balance -= amount
	dst.Balance += amount
	if err := v.accounts.Update(from, src); err != nil {
		return errors.Wrap(err, "failed to debit")
	}
	if err := v.accounts.Update(to, dst); err != nil {
		return errors.Wrap(err, "failed to credit")
	}
	return nil
}

// CheckHolder fails unless account exists, is owned by owner and holds unit.
func (v *Vault) CheckHolder(account, owner, unit thor.Address) error {
	acc, err := v.mustGet(account)
	if err != nil {
		return err
	}
	if acc.Owner != owner {
		return reverts.ErrConstraintRaw.Withf("account %v is not owned by %v", account, owner)
	}
	if acc.Unit != unit {
		return reverts.ErrInvalidUnit.Withf("account %v holds %v, want %v", account, acc.Unit, unit)
	}
	return nil
}

func (v *Vault) mustGet(account thor.Address) (*Account, error) {
	acc, err := v.Get(account)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, reverts.ErrAccountNotInitialized.Withf("token account %v not found", account)
	}
	return acc, nil
}
