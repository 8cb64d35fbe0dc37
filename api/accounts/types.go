// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/builtin/vault"
	"github.com/vechain/jobstake/thor"
)

type OpenAccount struct {
	// Salt picks one of the caller's accounts.
	Salt thor.Bytes32 `json:"salt"`
	// Unit zero means the registry unit.
	Unit thor.Address `json:"unit"`
}

type OpenedAccount struct {
	Address thor.Address `json:"address"`
	*utils.Receipt
}

type Mint struct {
	Amount uint64 `json:"amount"`
}

type Account struct {
	Address thor.Address `json:"address"`
	Owner   thor.Address `json:"owner"`
	Unit    thor.Address `json:"unit"`
	Balance uint64       `json:"balance"`
}

func convertAccount(addr thor.Address, acc *vault.Account) *Account {
	return &Account{
		Address: addr,
		Owner:   acc.Owner,
		Unit:    acc.Unit,
		Balance: acc.Balance,
	}
}
