// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/jobstake/log"
)

func newRouter(level *slog.LevelVar) *mux.Router {
	router := mux.NewRouter()
	New(level).Mount(router, "/admin/loglevel")
	return router
}

func do(router *mux.Router, method, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/admin/loglevel", strings.NewReader(body)))
	return rr
}

func TestGetLogLevel(t *testing.T) {
	var level slog.LevelVar
	level.Set(log.LevelWarn)

	rr := do(newRouter(&level), http.MethodGet, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var res Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "warn", res.CurrentLevel)
}

func TestSetLogLevel(t *testing.T) {
	var level slog.LevelVar
	router := newRouter(&level)

	for _, name := range []string{"trace", "debug", "info", "warn", "error", "crit"} {
		rr := do(router, http.MethodPost, `{"level":"`+name+`"}`)
		require.Equal(t, http.StatusOK, rr.Code, name)

		var res Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, name, res.CurrentLevel)
		assert.Equal(t, name, log.LevelString(level.Level()))
	}
}

func TestSetLogLevelRejected(t *testing.T) {
	tests := []struct {
		body string
		msg  string
	}{
		{`{"level":"loud"}`, "Invalid verbosity level"},
		{`{"verbosity":"debug"}`, `Invalid request body: json: unknown field "verbosity"`},
	}

	var level slog.LevelVar
	level.Set(log.LevelInfo)
	router := newRouter(&level)
	for _, tt := range tests {
		rr := do(router, http.MethodPost, tt.body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, tt.msg, strings.TrimSpace(rr.Body.String()))
		assert.Equal(t, log.LevelInfo, level.Level(), "level unchanged")
	}
}
