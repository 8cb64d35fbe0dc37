// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"slices"

	"github.com/vechain/jobstake/builtin/reverts"
	"github.com/vechain/jobstake/state"
	"github.com/vechain/jobstake/thor"
)

// Event is a settlement event emitted by a program.
type Event struct {
	Program       thor.Address
	Name          string
	JobID         thor.UUID
	ApplicationID thor.UUID
	Subject       thor.Address
	Amount        uint64
	Reward        uint64
	Status        string
}

// Checkpoint pairs a state checkpoint with the event log length.
type Checkpoint struct {
	state  int
	events int
}

// Environment an env to execute program operations.
// It carries the authenticated caller and the chain of programs currently invoked.
type Environment struct {
	state  *state.State
	caller thor.Address
	frames []thor.Address
	events []*Event
}

// New create a new env.
func New(state *state.State, caller thor.Address) *Environment {
	return &Environment{
		state:  state,
		caller: caller,
	}
}

func (env *Environment) State() *state.State  { return env.state }
func (env *Environment) Caller() thor.Address { return env.caller }
func (env *Environment) Events() []*Event     { return env.events }

// To returns the program currently executing, zero if none.
func (env *Environment) To() thor.Address {
	if len(env.frames) == 0 {
		return thor.Address{}
	}
	return env.frames[len(env.frames)-1]
}

// Invoke runs fn as a call into program.
func (env *Environment) Invoke(program thor.Address, fn func() error) error {
	env.frames = append(env.frames, program)
	defer func() {
		env.frames = env.frames[:len(env.frames)-1]
	}()
	return fn()
}

// VerifyCallerIs fails with InvalidCall unless the invocation chain starts with path.
func (env *Environment) VerifyCallerIs(path ...thor.Address) error {
	if len(env.frames) < len(path) || !slices.Equal(env.frames[:len(path)], path) {
		return reverts.ErrInvalidCall.Withf("expected call path %v, got %v", path, env.frames)
	}
	return nil
}

// Log appends an event emitted by the current program.
func (env *Environment) Log(ev *Event) {
	ev.Program = env.To()
	env.events = append(env.events, ev)
}

// NewCheckpoint makes a checkpoint of state and events.
func (env *Environment) NewCheckpoint() Checkpoint {
	return Checkpoint{
		state:  env.state.NewCheckpoint(),
		events: len(env.events),
	}
}

// RevertTo drops state changes and events made after the checkpoint.
func (env *Environment) RevertTo(chk Checkpoint) {
	env.state.RevertTo(chk.state)
	env.events = env.events[:chk.events]
}
