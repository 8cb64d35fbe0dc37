// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/jobstake/api/accounts"
	"github.com/vechain/jobstake/api/applications"
	"github.com/vechain/jobstake/api/jobs"
	"github.com/vechain/jobstake/api/logs"
	"github.com/vechain/jobstake/api/middleware"
	"github.com/vechain/jobstake/api/registry"
	"github.com/vechain/jobstake/api/subscriptions"
	"github.com/vechain/jobstake/api/utils"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/settlement"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	SkipLogs             bool
	LogsLimit            uint64
	// MaxSkew bounds the age of a signed request.
	MaxSkew time.Duration
	// PingInterval of websocket subscriptions.
	PingInterval time.Duration
}

// New return api router, and a func closing open subscriptions.
func New(engine *settlement.Engine, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	auth := utils.NewAuthenticator(opts.MaxSkew)

	registry.New(engine).
		Mount(router, "/registry")
	accounts.New(engine, auth).
		Mount(router, "/accounts")
	jobs.New(engine, auth).
		Mount(router, "/jobs")
	applications.New(engine, auth).
		Mount(router, "/applications")
	closeSubs := func() {}
	if !opts.SkipLogs {
		logs.New(engine.LogDB(), opts.LogsLimit).
			Mount(router, "/logs")

		subs := subscriptions.New(engine, origins, opts.PingInterval)
		subs.Mount(router, "/subscriptions")
		closeSubs = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(utils.SignatureHeader), strings.ToLower(utils.TimestampHeader), strings.ToLower(utils.NonceHeader)}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, closeSubs // hijacked websocket conns outlive server shutdown
}
