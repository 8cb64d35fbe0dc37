// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/thor"
)

type Totals struct {
	LockedStake      string `json:"lockedStake"`
	RewardsCommitted string `json:"rewardsCommitted"`
	RewardsPaid      string `json:"rewardsPaid"`
	RewardsForfeited string `json:"rewardsForfeited"`
}

type Registry struct {
	Admin    thor.Address `json:"admin"`
	Unit     thor.Address `json:"unit"`
	Revision uint64       `json:"revision"`
	Totals   *Totals      `json:"totals"`
}

type Handler struct {
	engine *settlement.Engine
}

func New(engine *settlement.Engine) *Handler {
	return &Handler{engine}
}

func (h *Handler) handleGetRegistry(w http.ResponseWriter, _ *http.Request) error {
	head := h.engine.Head()
	reg, err := h.engine.Registry()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Registry{
		Admin:    reg.Admin,
		Unit:     reg.Unit,
		Revision: head,
		Totals: &Totals{
			LockedStake:      reg.Totals.LockedStake.Dec(),
			RewardsCommitted: reg.Totals.RewardsCommitted.Dec(),
			RewardsPaid:      reg.Totals.RewardsPaid.Dec(),
			RewardsForfeited: reg.Totals.RewardsForfeited.Dec(),
		},
	})
}

func (h *Handler) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /registry").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetRegistry))
}
