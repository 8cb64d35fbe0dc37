// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package applications

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/settlement"
)

type Applications struct {
	engine *settlement.Engine
	auth   *utils.Authenticator
}

func New(engine *settlement.Engine, auth *utils.Authenticator) *Applications {
	return &Applications{
		engine: engine,
		auth:   auth,
	}
}

func (a *Applications) handleCreateApplication(w http.ResponseWriter, req *http.Request) error {
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body CreateApplication
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := a.engine.CreateApplication(req.Context(), caller, body.ID, body.JobID, body.Authority, body.MaxAllowedStaked)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.NewReceipt(receipt))
}

func (a *Applications) handleGetApplication(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	app, err := a.engine.Application(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertApplication(id, app))
}

func (a *Applications) handleUpdateStatus(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body UpdateStatus
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := a.engine.UpdateStatus(req.Context(), caller, id, body.Status)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.NewReceipt(receipt))
}

func (a *Applications) handleStake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body Stake
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	reward, receipt, err := a.engine.Stake(req.Context(), caller, id, body.From, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &StakeResult{Reward: reward, Receipt: utils.NewReceipt(receipt)})
}

func (a *Applications) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	caller, err := a.auth.Caller(req)
	if err != nil {
		return err
	}
	var body Unstake
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	payout, receipt, err := a.engine.Unstake(req.Context(), caller, id, body.To)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &UnstakeResult{Payout: payout, Receipt: utils.NewReceipt(receipt)})
}

func (a *Applications) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "holder")
	if err != nil {
		return err
	}
	c, err := a.engine.Candidate(id, holder)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertCandidate(id, c))
}

func (a *Applications) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /applications").
		HandlerFunc(utils.WrapHandlerFunc(a.handleCreateApplication))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /applications/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetApplication))
	sub.Path("/{id}/status").
		Methods(http.MethodPost).
		Name("POST /applications/{id}/status").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUpdateStatus))
	sub.Path("/{id}/stakes").
		Methods(http.MethodPost).
		Name("POST /applications/{id}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/{id}/stakes/{holder}").
		Methods(http.MethodGet).
		Name("GET /applications/{id}/stakes/{holder}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCandidate))
	sub.Path("/{id}/unstake").
		Methods(http.MethodPost).
		Name("POST /applications/{id}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUnstake))
}
