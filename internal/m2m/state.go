// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package m2m

import (
	"fmt"
	"sync"
)

// State represents the supervisor life cycle.
type State int

const (
	StateInit State = iota
	StateArmed
	StateTransferring
	StateVerifiedOK
	StateIdle
	StateHalted
)

var stateNames = map[State]string{
	StateInit:         "INIT",
	StateArmed:        "ARMED",
	StateTransferring: "TRANSFERRING",
	StateVerifiedOK:   "VERIFIED_OK",
	StateIdle:         "IDLE",
	StateHalted:       "HALTED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal returns whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == StateIdle || s == StateHalted
}

var transitions = map[State][]State{
	StateInit:         {StateArmed, StateHalted},
	StateArmed:        {StateTransferring, StateHalted},
	StateTransferring: {StateVerifiedOK, StateHalted},
	StateVerifiedOK:   {StateIdle, StateHalted},
}

type machine struct {
	sync.Mutex
	state   State
	started bool
}

// start claims the machine for its only run.
func (m *machine) start() error {
	m.Lock()
	defer m.Unlock()

	if m.started || m.state != StateInit {
		return fmt.Errorf("%w: run in %s", ErrInvalidTransition, m.state)
	}

	m.started = true

	return nil
}

func (m *machine) current() State {
	m.Lock()
	defer m.Unlock()

	return m.state
}

func (m *machine) advance(to State) error {
	m.Lock()
	defer m.Unlock()

	for _, s := range transitions[m.state] {
		if s == to {
			m.state = to
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}
