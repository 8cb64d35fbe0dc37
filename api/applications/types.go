// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package applications

import (
	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/builtin/candidate"
	"github.com/vechain/jobstake/thor"
)

type CreateApplication struct {
	ID        thor.UUID    `json:"id"`
	JobID     thor.UUID    `json:"jobID"`
	Authority thor.Address `json:"authority"`
	// MaxAllowedStaked zero inherits the job cap.
	MaxAllowedStaked uint64 `json:"maxAllowedStaked"`
}

type UpdateStatus struct {
	Status application.Status `json:"status"`
}

type Stake struct {
	From   thor.Address `json:"from"`
	Amount uint64       `json:"amount"`
}

type StakeResult struct {
	Reward uint64 `json:"reward"`
	*utils.Receipt
}

type Unstake struct {
	To thor.Address `json:"to"`
}

type UnstakeResult struct {
	Payout uint64 `json:"payout"`
	*utils.Receipt
}

type Application struct {
	ID               thor.UUID          `json:"id"`
	JobID            thor.UUID          `json:"jobID"`
	Authority        thor.Address       `json:"authority"`
	Status           application.Status `json:"status"`
	StakedAmount     uint64             `json:"stakedAmount"`
	MaxAllowedStaked uint64             `json:"maxAllowedStaked"`
}

func convertApplication(id thor.UUID, app *application.Application) *Application {
	return &Application{
		ID:               id,
		JobID:            app.JobID,
		Authority:        app.Authority,
		Status:           app.Status,
		StakedAmount:     app.StakedAmount,
		MaxAllowedStaked: app.MaxAllowedStaked,
	}
}

type CandidateStake struct {
	ApplicationID thor.UUID    `json:"applicationID"`
	Owner         thor.Address `json:"owner"`
	StakedAmount  uint64       `json:"stakedAmount"`
	RewardAmount  uint64       `json:"rewardAmount"`
}

func convertCandidate(applicationID thor.UUID, c *candidate.Stake) *CandidateStake {
	return &CandidateStake{
		ApplicationID: applicationID,
		Owner:         c.Owner,
		StakedAmount:  c.StakedAmount,
		RewardAmount:  c.RewardAmount,
	}
}
