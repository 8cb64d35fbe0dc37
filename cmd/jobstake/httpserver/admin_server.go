// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/vechain/jobstake/api/admin"
	"github.com/vechain/jobstake/settlement"
)

// StartAdminServer serves health, log level and api logs toggles under /admin.
func StartAdminServer(
	addr string,
	logLevel *slog.LevelVar,
	apiLogs *atomic.Bool,
	engine *settlement.Engine,
) (string, func(), error) {
	listenAddr, closeFunc, err := serve("admin", addr, admin.New(logLevel, apiLogs, engine))
	if err != nil {
		return "", nil, err
	}
	return "http://" + listenAddr.String() + "/admin", closeFunc, nil
}
