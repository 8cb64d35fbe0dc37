// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobs

import (
	"github.com/vechain/jobstake/builtin/job"
	"github.com/vechain/jobstake/thor"
)

type CreateJob struct {
	ID                      thor.UUID    `json:"id"`
	MaxAmountPerApplication uint64       `json:"maxAmountPerApplication"`
	Authority               thor.Address `json:"authority"`
}

type FundRewards struct {
	From   thor.Address `json:"from"`
	Amount uint64       `json:"amount"`
}

type Job struct {
	ID                      thor.UUID    `json:"id"`
	Authority               thor.Address `json:"authority"`
	MaxAmountPerApplication uint64       `json:"maxAmountPerApplication"`
	Unit                    thor.Address `json:"unit"`
	Escrow                  thor.Address `json:"escrow"`
	TotalRewardToBeGiven    uint64       `json:"totalRewardToBeGiven"`
}

func convertJob(id thor.UUID, j *job.Job) *Job {
	return &Job{
		ID:                      id,
		Authority:               j.Authority,
		MaxAmountPerApplication: j.MaxAmountPerApplication,
		Unit:                    j.Unit,
		Escrow:                  j.Escrow,
		TotalRewardToBeGiven:    j.TotalRewardToBeGiven,
	}
}
