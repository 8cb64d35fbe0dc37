// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package jobs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/api/jobs"
	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/genesis"
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/test/datagen"
	"github.com/vechain/jobstake/test/testnode"
	"github.com/vechain/jobstake/thor"
)

var (
	accs      = genesis.DevAccounts()
	admin     = accs[0]
	authority = accs[1]
)

func initServer(t *testing.T) (*testnode.Client, *settlement.Engine) {
	engine := testnode.NewEngine(t)
	router := mux.NewRouter()
	jobs.New(engine, utils.NewAuthenticator(time.Minute)).Mount(router, "/jobs")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return testnode.NewClient(t, ts), engine
}

func TestJobs(t *testing.T) {
	client, engine := initServer(t)
	id := datagen.RandUUID()

	// subtests share server state and run in order
	t.Run("createJob", func(t *testing.T) { createJob(t, client, id) })
	t.Run("getJob", func(t *testing.T) { getJob(t, client, id) })
	t.Run("createJobDuplicated", func(t *testing.T) { createJobDuplicated(t, client, id) })
	t.Run("createJobNotAdmin", func(t *testing.T) { createJobNotAdmin(t, client) })
	t.Run("createJobUnsigned", func(t *testing.T) { createJobUnsigned(t, client) })
	t.Run("createJobBadBody", func(t *testing.T) { createJobBadBody(t, client) })
	t.Run("getJobNotFound", func(t *testing.T) { getJobNotFound(t, client) })
	t.Run("getJobInvalidID", func(t *testing.T) { getJobInvalidID(t, client) })
	t.Run("fundRewards", func(t *testing.T) { fundRewards(t, client, engine, id) })
	t.Run("fundRewardsNotOwner", func(t *testing.T) { fundRewardsNotOwner(t, client, id) })
	t.Run("fundRewardsZeroAmount", func(t *testing.T) { fundRewardsZeroAmount(t, client, id) })
}

func createJob(t *testing.T, client *testnode.Client, id thor.UUID) {
	body, code := client.Post("/jobs", &jobs.CreateJob{
		ID:                      id,
		MaxAmountPerApplication: 6000,
		Authority:               authority.Address,
	}, admin.PrivateKey)
	require.Equal(t, http.StatusOK, code, string(body))

	receipt := testnode.Decode[utils.Receipt](t, body)
	assert.NotZero(t, receipt.Revision)
	require.NotEmpty(t, receipt.Events)
	assert.Equal(t, "JobCreated", receipt.Events[len(receipt.Events)-1].Name)
}

func getJob(t *testing.T, client *testnode.Client, id thor.UUID) {
	body, code := client.Get("/jobs/" + id.String())
	require.Equal(t, http.StatusOK, code, string(body))

	job := testnode.Decode[jobs.Job](t, body)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, authority.Address, job.Authority)
	assert.Equal(t, uint64(6000), job.MaxAmountPerApplication)
	assert.Equal(t, genesis.DevUnit, job.Unit)
	assert.Equal(t, thor.DeriveAddress([]byte("escrow"), id.Bytes()), job.Escrow)
	assert.Zero(t, job.TotalRewardToBeGiven)
}

func createJobDuplicated(t *testing.T, client *testnode.Client, id thor.UUID) {
	body, code := client.Post("/jobs", &jobs.CreateJob{
		ID:                      id,
		MaxAmountPerApplication: 100,
		Authority:               authority.Address,
	}, admin.PrivateKey)
	assert.Equal(t, http.StatusConflict, code)

	resp := testnode.Decode[utils.ErrorResponse](t, body)
	assert.Equal(t, "AlreadyExists", resp.Error)
}

func createJobNotAdmin(t *testing.T, client *testnode.Client) {
	body, code := client.Post("/jobs", &jobs.CreateJob{
		ID:                      datagen.RandUUID(),
		MaxAmountPerApplication: 100,
		Authority:               authority.Address,
	}, authority.PrivateKey)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "InvalidAuthority", testnode.Decode[utils.ErrorResponse](t, body).Error)
}

func createJobUnsigned(t *testing.T, client *testnode.Client) {
	_, code := client.Post("/jobs", &jobs.CreateJob{
		ID:                      datagen.RandUUID(),
		MaxAmountPerApplication: 100,
		Authority:               authority.Address,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func createJobBadBody(t *testing.T, client *testnode.Client) {
	_, code := client.Post("/jobs", map[string]any{"unknown": 1}, admin.PrivateKey)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = client.Post("/jobs", &jobs.CreateJob{
		ID:        datagen.RandUUID(),
		Authority: authority.Address,
	}, admin.PrivateKey)
	assert.Equal(t, http.StatusBadRequest, code)
}

func getJobNotFound(t *testing.T, client *testnode.Client) {
	body, code := client.Get("/jobs/" + datagen.RandUUID().String())
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "AccountNotInitialized", testnode.Decode[utils.ErrorResponse](t, body).Error)
}

func getJobInvalidID(t *testing.T, client *testnode.Client) {
	_, code := client.Get("/jobs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, code)
}

func fundRewards(t *testing.T, client *testnode.Client, engine *settlement.Engine, id thor.UUID) {
	before, err := engine.Account(admin.TokenAccount)
	require.NoError(t, err)

	body, code := client.Post("/jobs/"+id.String()+"/rewards", &jobs.FundRewards{
		From:   admin.TokenAccount,
		Amount: 5000,
	}, admin.PrivateKey)
	require.Equal(t, http.StatusOK, code, string(body))

	after, err := engine.Account(admin.TokenAccount)
	require.NoError(t, err)
	assert.Equal(t, before.Balance-5000, after.Balance)

	escrow, err := engine.Account(thor.DeriveAddress([]byte("escrow"), id.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), escrow.Balance)
}

func fundRewardsNotOwner(t *testing.T, client *testnode.Client, id thor.UUID) {
	// admin funds from an account owned by someone else
	_, code := client.Post("/jobs/"+id.String()+"/rewards", &jobs.FundRewards{
		From:   authority.TokenAccount,
		Amount: 1,
	}, admin.PrivateKey)
	assert.Equal(t, http.StatusForbidden, code)
}

func fundRewardsZeroAmount(t *testing.T, client *testnode.Client, id thor.UUID) {
	body, code := client.Post("/jobs/"+id.String()+"/rewards", &jobs.FundRewards{
		From:   admin.TokenAccount,
		Amount: 0,
	}, admin.PrivateKey)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidAmount", testnode.Decode[utils.ErrorResponse](t, body).Error)
}
