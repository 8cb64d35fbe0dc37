// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode builds a devnet engine and signs api requests against it.
package testnode

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/genesis"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/state"
)

// NewEngine returns an engine over in-memory stores with the devnet genesis applied.
func NewEngine(t testing.TB) *settlement.Engine {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 256)
	require.NoError(t, err)

	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })

	_, err = genesis.NewDevnet().Apply(stater)
	require.NoError(t, err)

	return settlement.New(stater, logDB, settlement.Options{})
}

// Client sends requests to a test server, signing them when a key is given.
type Client struct {
	t   testing.TB
	url string
}

func NewClient(t testing.TB, ts *httptest.Server) *Client {
	return &Client{t: t, url: ts.URL}
}

// Get returns the response body and status code.
func (c *Client) Get(path string) ([]byte, int) {
	res, err := http.Get(c.url + path)
	require.NoError(c.t, err)
	return readResponse(c.t, res)
}

// Post sends obj as json, signed by key when key is not nil.
func (c *Client) Post(path string, obj any, key *ecdsa.PrivateKey) ([]byte, int) {
	var body []byte
	if obj != nil {
		var err error
		body, err = json.Marshal(obj)
		require.NoError(c.t, err)
	}
	req, err := http.NewRequest(http.MethodPost, c.url+path, bytes.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if key != nil {
		require.NoError(c.t, utils.SignRequest(req, body, key, time.Now()))
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	return readResponse(c.t, res)
}

// Decode unmarshals a response body.
func Decode[T any](t testing.TB, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func readResponse(t testing.TB, res *http.Response) ([]byte, int) {
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}
