// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobs

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/settlement"
)

type Jobs struct {
	engine *settlement.Engine
	auth   *utils.Authenticator
}

func New(engine *settlement.Engine, auth *utils.Authenticator) *Jobs {
	return &Jobs{
		engine: engine,
		auth:   auth,
	}
}

func (j *Jobs) handleCreateJob(w http.ResponseWriter, req *http.Request) error {
	caller, err := j.auth.Caller(req)
	if err != nil {
		return err
	}
	var body CreateJob
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := j.engine.CreateJob(req.Context(), caller, body.ID, body.MaxAmountPerApplication, body.Authority)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.NewReceipt(receipt))
}

func (j *Jobs) handleGetJob(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	job, err := j.engine.Job(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertJob(id, job))
}

func (j *Jobs) handleFundRewards(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.UUIDVar(req, "id")
	if err != nil {
		return err
	}
	caller, err := j.auth.Caller(req)
	if err != nil {
		return err
	}
	var body FundRewards
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := j.engine.FundRewards(req.Context(), caller, id, body.From, body.Amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.NewReceipt(receipt))
}

func (j *Jobs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /jobs").
		HandlerFunc(utils.WrapHandlerFunc(j.handleCreateJob))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /jobs/{id}").
		HandlerFunc(utils.WrapHandlerFunc(j.handleGetJob))
	sub.Path("/{id}/rewards").
		Methods(http.MethodPost).
		Name("POST /jobs/{id}/rewards").
		HandlerFunc(utils.WrapHandlerFunc(j.handleFundRewards))
}
