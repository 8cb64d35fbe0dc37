// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/jobstake/builtin/application"
	"github.com/vechain/jobstake/logdb"
	"github.com/vechain/jobstake/settlement"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
)

// revisions fetched per log query
const logStep = uint32(100)

func verifyLogDBAction(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(instanceDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()
	logDB, err := openLogDB(instanceDir)
	if err != nil {
		return err
	}
	defer logDB.Close()

	stater, err := state.NewStater(mainDB, 0)
	if err != nil {
		return errors.Wrap(err, "open state")
	}
	engine := settlement.New(stater, logDB, settlement.Options{})
	return verifyLogDB(handleExitSignal(), engine, logDB, os.Stdout)
}

// verifyLogDB replays all recorded events and checks the resulting stake
// ledger against committed state. Differences are printed as a unified diff.
func verifyLogDB(ctx context.Context, engine *settlement.Engine, logDB *logdb.LogDB, out io.Writer) error {
	fmt.Fprintln(out, ">> Verifying log db <<")

	end, err := logDB.NewestRevision()
	if err != nil {
		return err
	}
	if head := engine.Head(); uint64(end) > head {
		return errors.Errorf("log db is ahead of state: %d > %d", end, head)
	}

	bar := pb.New64(int64(end)).
		Set64(0).
		SetMaxWidth(90)
	bar.Output = out
	bar.Start()
	r, err := replayLogDB(ctx, logDB, end, bar)
	bar.Finish()
	if err != nil {
		return err
	}

	expected := r.ledger()
	actual, err := stateLedger(engine, expected)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(expected, actual) {
		fmt.Fprintln(out, "\nDiff stake ledger")
		fmt.Fprintln(out, jsonDiff(expected, actual))
		return errors.New("log db does not match state")
	}
	fmt.Fprintf(out, "%d revisions verified, %d applications, %d candidates\n",
		end, len(expected.Applications), len(expected.Candidates))
	return nil
}

func replayLogDB(ctx context.Context, logDB *logdb.LogDB, end uint32, bar *pb.ProgressBar) (*replay, error) {
	r := newReplay()
	for from := uint32(1); from <= end; from += logStep {
		to := min(from+logStep-1, end)
		events, err := logDB.FilterEvents(ctx, &logdb.EventFilter{
			Range: &logdb.Range{From: from, To: to},
			Order: logdb.ASC,
		})
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			if err := r.apply(ev); err != nil {
				return nil, err
			}
		}
		bar.Add64(int64(to - from + 1))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if to == end {
			break
		}
	}
	return r, nil
}

type ledgerTotals struct {
	LockedStake      string `json:"lockedStake"`
	RewardsCommitted string `json:"rewardsCommitted"`
	RewardsPaid      string `json:"rewardsPaid"`
	RewardsForfeited string `json:"rewardsForfeited"`
}

type ledgerApplication struct {
	ID           thor.UUID `json:"id"`
	StakedAmount uint64    `json:"stakedAmount"`
}

type ledgerCandidate struct {
	ApplicationID thor.UUID    `json:"applicationID"`
	Owner         thor.Address `json:"owner"`
	StakedAmount  uint64       `json:"stakedAmount"`
	RewardAmount  uint64       `json:"rewardAmount"`
}

type ledger struct {
	Totals       ledgerTotals         `json:"totals"`
	Applications []*ledgerApplication `json:"applications"`
	Candidates   []*ledgerCandidate   `json:"candidates"`
}

type candidateKey struct {
	app   thor.UUID
	owner thor.Address
}

type candidatePosition struct {
	staked, reward uint64
}

// replay rebuilds the stake ledger from events.
type replay struct {
	locked, committed, paid, forfeited uint64

	apps       map[thor.UUID]uint64
	candidates map[candidateKey]*candidatePosition
}

func newReplay() *replay {
	return &replay{
		apps:       make(map[thor.UUID]uint64),
		candidates: make(map[candidateKey]*candidatePosition),
	}
}

func (r *replay) apply(ev *logdb.Event) error {
	fail := func(format string, args ...any) error {
		return errors.Errorf("revision %d index %d: %s", ev.Revision, ev.Index, fmt.Sprintf(format, args...))
	}
	key := candidateKey{ev.ApplicationID, ev.Subject}

	switch ev.Name {
	case "ApplicationCreated":
		if _, ok := r.apps[ev.ApplicationID]; !ok {
			r.apps[ev.ApplicationID] = 0
		}
	case "Staked":
		r.apps[ev.ApplicationID] += ev.Amount
		c := r.candidates[key]
		if c == nil {
			c = &candidatePosition{}
			r.candidates[key] = c
		}
		c.staked += ev.Amount
		c.reward += ev.Reward
		r.locked += ev.Amount
		r.committed += ev.Reward
	case "Unstaked":
		c := r.candidates[key]
		if c == nil || c.staked == 0 {
			return fail("unstake of %v without stake", ev.Subject)
		}
		principal := ev.Amount
		if ev.Status == application.StatusSelected.String() {
			if principal < ev.Reward {
				return fail("payout %d below reward %d", ev.Amount, ev.Reward)
			}
			principal -= ev.Reward
			r.paid += ev.Reward
		} else {
			r.forfeited += ev.Reward
		}
		if principal != c.staked || ev.Reward != c.reward {
			return fail("unstaked %d/%d, recorded stake is %d/%d", principal, ev.Reward, c.staked, c.reward)
		}
		r.locked -= principal
		r.committed -= ev.Reward
		c.staked, c.reward = 0, 0
	}
	return nil
}

func (r *replay) ledger() *ledger {
	l := &ledger{
		Totals: ledgerTotals{
			LockedStake:      strconv.FormatUint(r.locked, 10),
			RewardsCommitted: strconv.FormatUint(r.committed, 10),
			RewardsPaid:      strconv.FormatUint(r.paid, 10),
			RewardsForfeited: strconv.FormatUint(r.forfeited, 10),
		},
		Applications: make([]*ledgerApplication, 0, len(r.apps)),
		Candidates:   make([]*ledgerCandidate, 0, len(r.candidates)),
	}
	for id, staked := range r.apps {
		l.Applications = append(l.Applications, &ledgerApplication{ID: id, StakedAmount: staked})
	}
	for k, c := range r.candidates {
		l.Candidates = append(l.Candidates, &ledgerCandidate{
			ApplicationID: k.app,
			Owner:         k.owner,
			StakedAmount:  c.staked,
			RewardAmount:  c.reward,
		})
	}
	sort.Slice(l.Applications, func(i, j int) bool {
		return l.Applications[i].ID.String() < l.Applications[j].ID.String()
	})
	sort.Slice(l.Candidates, func(i, j int) bool {
		a, b := l.Candidates[i], l.Candidates[j]
		if a.ApplicationID != b.ApplicationID {
			return a.ApplicationID.String() < b.ApplicationID.String()
		}
		return a.Owner.String() < b.Owner.String()
	})
	return l
}

// stateLedger reads the entries named by expected from committed state.
func stateLedger(engine *settlement.Engine, expected *ledger) (*ledger, error) {
	reg, err := engine.Registry()
	if err != nil {
		return nil, err
	}
	l := &ledger{
		Totals: ledgerTotals{
			LockedStake:      reg.Totals.LockedStake.Dec(),
			RewardsCommitted: reg.Totals.RewardsCommitted.Dec(),
			RewardsPaid:      reg.Totals.RewardsPaid.Dec(),
			RewardsForfeited: reg.Totals.RewardsForfeited.Dec(),
		},
		Applications: make([]*ledgerApplication, 0, len(expected.Applications)),
		Candidates:   make([]*ledgerCandidate, 0, len(expected.Candidates)),
	}
	for _, a := range expected.Applications {
		app, err := engine.Application(a.ID)
		if err != nil {
			return nil, errors.WithMessagef(err, "application %v", a.ID)
		}
		l.Applications = append(l.Applications, &ledgerApplication{ID: a.ID, StakedAmount: app.StakedAmount})
	}
	for _, c := range expected.Candidates {
		stake, err := engine.Candidate(c.ApplicationID, c.Owner)
		if err != nil {
			return nil, errors.WithMessagef(err, "candidate %v on %v", c.Owner, c.ApplicationID)
		}
		l.Candidates = append(l.Candidates, &ledgerCandidate{
			ApplicationID: c.ApplicationID,
			Owner:         c.Owner,
			StakedAmount:  stake.StakedAmount,
			RewardAmount:  stake.RewardAmount,
		})
	}
	return l, nil
}

func jsonDiff(expected, actual any) string {
	e, _ := json.MarshalIndent(expected, "", "  ")
	a, _ := json.MarshalIndent(actual, "", "  ")
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(e)),
		B:        difflib.SplitLines(string(a)),
		FromFile: "Replayed",
		ToFile:   "State",
		Context:  1,
	})
	return diff
}
