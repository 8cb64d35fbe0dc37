// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/jobstake/api"
	"github.com/vechain/jobstake/cmd/jobstake/httpserver"
	"github.com/vechain/jobstake/genesis"
	"github.com/vechain/jobstake/log"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/lvldb"
	"github.com/vechain/jobstake/metrics"
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/state"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	logger = log.WithContext("pkg", "main")

	commonFlags = []cli.Flag{
		dataDirFlag,
		cacheFlag,
		maxRetriesFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		apiLogsLimitFlag,
		apiSignatureSkewFlag,
		apiWSPingFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		enableAPILogsFlag,
		skipLogsFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Jobstake",
		Usage:     "Staking and reward settlement engine for hiring applications",
		Copyright: fmt.Sprintf("2018-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags:     append([]cli.Flag{genesisFlag}, commonFlags...),
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "run against the devnet genesis for test & dev",
				Flags:  append([]cli.Flag{persistFlag}, commonFlags...),
				Action: soloAction,
			},
			{
				Name:   "verify-logdb",
				Usage:  "replay the event log and check it against committed state",
				Flags:  []cli.Flag{genesisFlag, dataDirFlag, verbosityFlag, jsonLogsFlag},
				Action: verifyLogDBAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	return run(ctx, gene, instanceDir)
}

func soloAction(ctx *cli.Context) error {
	gene := genesis.NewDevnet()
	instanceDir := "Memory"
	if ctx.Bool(persistFlag.Name) {
		var err error
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
	}
	return run(ctx, gene, instanceDir)
}

// run opens the stores under instanceDir, or in memory when it is "Memory", and serves until an exit signal.
func run(ctx *cli.Context, gene *genesis.Genesis, instanceDir string) error {
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	cacheSize, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse cache flag")
	}
	maxRetries, err := readIntFromUInt64Flag(ctx.Uint64(maxRetriesFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse max-retries flag")
	}

	var (
		mainDB *lvldb.LevelDB
		logDB  *logdb.LogDB
	)
	if instanceDir == "Memory" {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if logDB, err = logdb.NewMem(); err != nil {
			return err
		}
	} else {
		if mainDB, err = openMainDB(instanceDir); err != nil {
			return err
		}
		if logDB, err = openLogDB(instanceDir); err != nil {
			mainDB.Close()
			return err
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	stater, err := state.NewStater(mainDB, cacheSize)
	if err != nil {
		return errors.Wrap(err, "open state")
	}
	head, err := gene.Apply(stater)
	if err != nil {
		return err
	}
	engine := settlement.New(stater, logDB, settlement.Options{MaxRetries: maxRetries})

	exitSignal := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "unable to start metrics server")
		}
		logger.Info("metrics server started", "url", url)
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, engine)
		if err != nil {
			return errors.Wrap(err, "unable to start admin server")
		}
		logger.Info("admin server started", "url", url)
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
	}

	handler, closeSubs := api.New(engine, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		MaxSkew:              time.Duration(ctx.Uint64(apiSignatureSkewFlag.Name)) * time.Second,
		PingInterval:         time.Duration(ctx.Uint64(apiWSPingFlag.Name)) * time.Second,
	})
	apiURL, closeAPI, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("stopping API server...")
		closeSubs()
		closeAPI()
	}()

	printStartupMessage(gene, head, instanceDir, apiURL)

	<-exitSignal.Done()
	return nil
}

func printStartupMessage(gene *genesis.Genesis, head uint64, dataDir string, apiURL string) {
	fmt.Printf(`Starting %v
    Network     [ %v %v ]
    Admin       [ %v ]
    Unit        [ %v ]
    Revision    [ %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
`,
		"Jobstake "+fullVersion(),
		gene.Name, gene.ID(),
		gene.Admin,
		gene.Unit,
		head,
		dataDir,
		apiURL)
}
