// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/settlement"
)

type Accounts struct {
	engine *settlement.Engine
	auth   *utils.Authenticator
}

func New(engine *settlement.Engine, auth *utils.Authenticator) *Accounts {
	return &Accounts{
		engine: engine,
		auth:   auth,
	}
}

func (a *Accounts) handleOpenAccount(w http.ResponseWriter, req *http.Request) error {
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body OpenAccount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	account, receipt, err := a.engine.OpenAccount(req.Context(), caller, body.Salt, body.Unit)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &OpenedAccount{Address: account, Receipt: utils.NewReceipt(receipt)})
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	acc, err := a.engine.Account(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc))
}

func (a *Accounts) handleMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body Mint
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := a.engine.Mint(req.Context(), caller, addr, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.NewReceipt(receipt))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /accounts").
		HandlerFunc(utils.WrapHandlerFunc(a.handleOpenAccount))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/mint").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/mint").
		HandlerFunc(utils.WrapHandlerFunc(a.handleMint))
}
